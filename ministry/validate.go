package ministry

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterStructValidation(validateEntryKinds, Entry{})
	})
	return validate
}

func validateEntryKinds(sl validator.StructLevel) {
	entry := sl.Current().Interface().(Entry)
	if entry.Category != "" && !entry.Category.Valid() {
		sl.ReportError(entry.Category, "Category", "Category", "category", "")
		return
	}
	if entry.Category != "" && entry.SubType != "" && !entry.Category.Allows(entry.SubType) {
		sl.ReportError(entry.SubType, "SubType", "SubType", "subtype", string(entry.Category))
	}
}

// Validate checks an entry at the store/import boundary. The export core
// never calls it; malformed entries there are filtered, not rejected.
func Validate(entry Entry) error {
	if err := entryValidator().Struct(entry); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	return nil
}
