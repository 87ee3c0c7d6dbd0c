package ministry

import (
	"fmt"
	"strings"
)

// ParseCategory accepts the Korean label or an English name.
func ParseCategory(raw string) (Category, error) {
	value := strings.TrimSpace(raw)
	for _, category := range Categories() {
		if value == string(category) {
			return category, nil
		}
	}
	switch strings.ToLower(value) {
	case "visitation", "visit":
		return CategoryVisitation, nil
	case "work":
		return CategoryWork, nil
	case "other", "etc":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// ParseSubType resolves a subtype label or English alias within category.
// Visitation kinds may be given without the 심방 suffix.
func ParseSubType(category Category, raw string) (SubType, error) {
	value := strings.TrimSpace(raw)
	candidates := []SubType{SubType(value), SubType(value + visitSuffix)}
	switch strings.ToLower(value) {
	case "inperson", "in-person", "home", "visit":
		candidates = append(candidates, SubTypeInPersonVisit)
	case "cafe":
		candidates = append(candidates, SubTypeCafeVisit)
	case "phone", "call":
		candidates = append(candidates, SubTypePhoneVisit)
	case "meeting":
		candidates = append(candidates, SubTypeMeeting)
	case "admin":
		candidates = append(candidates, SubTypeAdmin)
	case "dawn", "dawnprayer", "dawn-prayer":
		candidates = append(candidates, SubTypeDawnPrayer)
	case "other", "etc":
		candidates = append(candidates, SubTypeOther)
	}
	for _, candidate := range candidates {
		if category.Allows(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("subtype %q is not allowed for category %s", raw, category)
}
