// Package view provides stateless projections over the synchronized
// collection view: grouping by year and month, year-range derivation, and
// search filtering.
//
// Every function is pure (input slices are never mutated) so the
// projections can back any presentation surface and be tested without
// one. They assume the input is already in descending date order, which
// is the collection client's invariant.
package view

import (
	"strings"
	"time"

	"github.com/chapelworks/mediasync/models"
)

// YearGroup is one calendar year's worth of records, newest first.
type YearGroup struct {
	Year    int
	Records []models.Record
}

// MonthGroup is one calendar month's worth of records, newest first.
type MonthGroup struct {
	Year    int
	Month   time.Month
	Records []models.Record
}

// ByYear groups records by calendar year, preserving the input order
// within each group. Groups are returned newest year first.
func ByYear(records []models.Record) []YearGroup {
	var groups []YearGroup
	index := make(map[int]int)

	for _, record := range records {
		year := record.Year()
		i, ok := index[year]
		if !ok {
			i = len(groups)
			index[year] = i
			groups = append(groups, YearGroup{Year: year})
		}
		groups[i].Records = append(groups[i].Records, record)
	}

	return groups
}

// ByMonth groups one year's records by calendar month, newest month
// first. Records outside year are skipped.
func ByMonth(records []models.Record, year int) []MonthGroup {
	var groups []MonthGroup
	index := make(map[time.Month]int)

	for _, record := range records {
		if record.Year() != year {
			continue
		}
		month := record.Month()
		i, ok := index[month]
		if !ok {
			i = len(groups)
			index[month] = i
			groups = append(groups, MonthGroup{Year: year, Month: month})
		}
		groups[i].Records = append(groups[i].Records, record)
	}

	return groups
}

// Years returns the contiguous year range covered by records, newest
// first: every year between the newest and oldest record inclusive, even
// years with no records, matching the archive navigation's behavior.
// Empty input yields nil.
func Years(records []models.Record) []int {
	if len(records) == 0 {
		return nil
	}

	newest, oldest := records[0].Year(), records[0].Year()
	for _, record := range records[1:] {
		if y := record.Year(); y > newest {
			newest = y
		} else if y < oldest {
			oldest = y
		}
	}

	years := make([]int, 0, newest-oldest+1)
	for year := newest; year >= oldest; year-- {
		years = append(years, year)
	}
	return years
}

// Search returns the records whose title or description contains the
// query as a case-insensitive substring, preserving input order. An empty
// query returns the input unchanged (same backing array, caller must not
// mutate).
func Search(records []models.Record, query string) []models.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}

	var matched []models.Record
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Title), query) ||
			strings.Contains(strings.ToLower(record.Description), query) {
			matched = append(matched, record)
		}
	}
	return matched
}

// ForYear returns the records dated within year, preserving input order.
func ForYear(records []models.Record, year int) []models.Record {
	var matched []models.Record
	for _, record := range records {
		if record.Year() == year {
			matched = append(matched, record)
		}
	}
	return matched
}
