package ministry

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the top-level kind of a logged ministry activity.
type Category string

const (
	CategoryVisitation Category = "심방"
	CategoryWork       Category = "업무"
	CategoryOther      Category = "기타"
)

// SubType refines a Category. The allowed values depend on the category.
type SubType string

const (
	SubTypeInPersonVisit SubType = "방문심방"
	SubTypeCafeVisit     SubType = "카페심방"
	SubTypePhoneVisit    SubType = "전화심방"
	SubTypeMeeting       SubType = "회의"
	SubTypeAdmin         SubType = "행정"
	SubTypeDawnPrayer    SubType = "새벽기도"
	SubTypeOther         SubType = "기타"
)

// VisitKind is a visitation subtype with the fixed "심방" suffix stripped.
type VisitKind string

const (
	VisitInPerson VisitKind = "방문"
	VisitCafe     VisitKind = "카페"
	VisitPhone    VisitKind = "전화"
)

const visitSuffix = "심방"

// VisitKinds lists the tallied visitation kinds in report order.
func VisitKinds() []VisitKind {
	return []VisitKind{VisitInPerson, VisitCafe, VisitPhone}
}

var subTypesByCategory = map[Category][]SubType{
	CategoryVisitation: {SubTypeInPersonVisit, SubTypeCafeVisit, SubTypePhoneVisit},
	CategoryWork:       {SubTypeMeeting, SubTypeAdmin, SubTypeOther},
	CategoryOther:      {SubTypeDawnPrayer, SubTypeOther},
}

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{CategoryVisitation, CategoryWork, CategoryOther}
}

// SubTypesOf returns the subtypes allowed under the given category.
func SubTypesOf(category Category) []SubType {
	return append([]SubType(nil), subTypesByCategory[category]...)
}

// Allows reports whether subType is a member of the category's enumeration.
func (c Category) Allows(subType SubType) bool {
	for _, candidate := range subTypesByCategory[c] {
		if candidate == subType {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	_, ok := subTypesByCategory[c]
	return ok
}

// VisitKind strips the visitation suffix and returns the tally key, or ""
// when the subtype is not one of the three counted visitation kinds.
func (s SubType) VisitKind() VisitKind {
	label := string(s)
	if !strings.HasSuffix(label, visitSuffix) {
		return ""
	}
	kind := VisitKind(strings.TrimSuffix(label, visitSuffix))
	for _, known := range VisitKinds() {
		if kind == known {
			return kind
		}
	}
	return ""
}

// Entry is one logged unit of ministry activity.
type Entry struct {
	ID          string    `json:"id" yaml:"id"`
	Date        time.Time `json:"date" yaml:"date" validate:"required"`
	TimeSlot    string    `json:"time" yaml:"time" validate:"required"`
	Category    Category  `json:"category" yaml:"category" validate:"required"`
	SubType     SubType   `json:"subType" yaml:"subType" validate:"required"`
	Content     string    `json:"content" yaml:"content"`
	IsHighlight bool      `json:"isHighlight" yaml:"isHighlight"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewID returns a fresh opaque entry identifier.
func NewID() string {
	return uuid.NewString()
}

// Profile carries the header/footer identity printed on every report.
type Profile struct {
	Name       string `mapstructure:"name" validate:"required"`
	Department string `mapstructure:"department"`
	ChurchName string `mapstructure:"church_name"`
}

// DefaultChurchName is printed when the profile leaves the organization empty.
const DefaultChurchName = "오륜교회"

func (p Profile) Church() string {
	if strings.TrimSpace(p.ChurchName) == "" {
		return DefaultChurchName
	}
	return p.ChurchName
}
