package value

import (
	"slices"
	"strings"
)

// Category is a canonical category code. The set is closed.
type Category string

const (
	CategoryElectronics   Category = "electronics"
	CategoryAppliances    Category = "appliances"
	CategoryFashion       Category = "fashion"
	CategoryBeauty        Category = "beauty"
	CategoryFood          Category = "food"
	CategorySports        Category = "sports"
	CategoryFamilyKids    Category = "family-kids"
	CategoryHome          Category = "home"
	CategoryAuto          Category = "auto"
	CategoryEntertainment Category = "entertainment"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

//nolint:gochecknoglobals
var allCategories = []Category{
	CategoryElectronics,
	CategoryAppliances,
	CategoryFashion,
	CategoryBeauty,
	CategoryFood,
	CategorySports,
	CategoryFamilyKids,
	CategoryHome,
	CategoryAuto,
	CategoryEntertainment,
	CategoryTravel,
	CategoryOther,
}

func AllCategories() []Category {
	return slices.Clone(allCategories)
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return "", false
}

func (c Category) Valid() bool {
	return slices.Contains(allCategories, c)
}

func (c Category) String() string {
	return string(c)
}

// Categories is a sorted, duplicate-free set of canonical categories.
type Categories []Category

// NewCategories builds a set from cs, dropping unknown codes. An empty result
// falls back to {other}.
func NewCategories(cs ...Category) Categories {
	out := make(Categories, 0, len(cs))
	for _, c := range cs {
		if c.Valid() && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}

	if len(out) == 0 {
		return Categories{CategoryOther}
	}

	slices.Sort(out)

	return out
}

func (cs Categories) Contains(c Category) bool {
	return slices.Contains(cs, c)
}

func (cs Categories) Strings() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
