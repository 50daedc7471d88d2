package domain

import "strings"

// Filter selects which categories are visible. The zero value is FilterAll.
type Filter int

const (
	FilterAll Filter = iota
	FilterSpending
	FilterHealth
	FilterSocial
)

var Filters = []Filter{FilterAll, FilterSpending, FilterHealth, FilterSocial}

var filterNames = map[Filter]string{
	FilterAll:      "all",
	FilterSpending: "spending",
	FilterHealth:   "health",
	FilterSocial:   "social",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return "unknown"
}

func (f Filter) Valid() bool {
	_, ok := filterNames[f]
	return ok
}

// Includes reports whether items of category c pass the filter.
// Achievement and recommendation only show under FilterAll.
func (f Filter) Includes(c Category) bool {
	switch f {
	case FilterAll:
		return true
	case FilterSpending:
		return c == CategorySpending || c == CategoryPurchase
	case FilterHealth:
		return c == CategoryHealth
	case FilterSocial:
		return c == CategorySocial
	}
	return false
}

// ParseFilter maps a name such as "health" to its Filter, ignoring case.
func ParseFilter(s string) (Filter, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range filterNames {
		if name == s {
			return f, true
		}
	}
	return FilterAll, false
}
