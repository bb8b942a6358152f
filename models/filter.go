package models

import "time"

// ListFilter is a declarative predicate for collection listing. The zero
// value selects the whole collection. The gateway translates the filter
// into the backend's expression syntax; callers never build expression
// strings themselves.
type ListFilter struct {
	// DateFrom and DateTo bound the ordering key (inclusive). A nil bound
	// is open.
	DateFrom *time.Time
	DateTo   *time.Time

	// Search is a case-insensitive substring match against the title and
	// description fields.
	Search string

	// Expand lists relation fields to join into the response (e.g.
	// "preacher").
	Expand []string
}

// IsZero reports whether the filter selects the entire collection.
func (f ListFilter) IsZero() bool {
	return f.DateFrom == nil && f.DateTo == nil && f.Search == "" && len(f.Expand) == 0
}

// YearFilter returns a filter bounding the ordering key to one calendar
// year.
func YearFilter(year int) ListFilter {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return ListFilter{DateFrom: &from, DateTo: &to}
}

// MonthFilter returns a filter bounding the ordering key to one calendar
// month.
func MonthFilter(year int, month time.Month) ListFilter {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	return ListFilter{DateFrom: &from, DateTo: &to}
}
