package stats

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/bjulian5/prdash/internal/model"
)

// NotAvailable is shown in place of an average that has no samples
const NotAvailable = "N/A"

// Summary holds the headline metrics for a set of records
type Summary struct {
	Total      int
	Merged     int
	Open       int
	Closed     int
	AvgElapsed *float64 // nil when no record has an elapsed time
}

// FormatAverage renders an optional mean as "1.5 days" or "N/A"
func FormatAverage(avg *float64) string {
	if avg == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f days", *avg)
}

// mean tracks a running average of elapsed days
type mean struct {
	sum   int
	count int
}

func (m *mean) add(r model.Record) {
	if r.ElapsedDays == nil {
		return
	}
	m.sum += *r.ElapsedDays
	m.count++
}

func (m mean) value() *float64 {
	if m.count == 0 {
		return nil
	}
	v := float64(m.sum) / float64(m.count)
	return &v
}

// Summarize counts records per status and averages elapsed days
func Summarize(records []model.Record) Summary {
	s := Summary{Total: len(records)}
	var avg mean
	for _, r := range records {
		switch r.Status {
		case model.StatusMerged:
			s.Merged++
		case model.StatusOpen:
			s.Open++
		case model.StatusClosed:
			s.Closed++
		}
		avg.add(r)
	}
	s.AvgElapsed = avg.value()
	return s
}

// AuthorStats is one row of the author performance table
type AuthorStats struct {
	Author     string
	Count      int
	AvgElapsed *float64
}

// ByAuthor groups records per author, most active first (ties by name), keeping at most limit rows.
// A non-positive limit keeps every author.
func ByAuthor(records []model.Record, limit int) []AuthorStats {
	counts := map[string]int{}
	means := map[string]*mean{}
	for _, r := range records {
		counts[r.Author]++
		if means[r.Author] == nil {
			means[r.Author] = &mean{}
		}
		means[r.Author].add(r)
	}

	rows := make([]AuthorStats, 0, len(counts))
	for author, count := range counts {
		rows = append(rows, AuthorStats{Author: author, Count: count, AvgElapsed: means[author].value()})
	}
	slices.SortFunc(rows, func(a, b AuthorStats) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Author, b.Author)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// SizeCategory buckets a pull request by additions plus deletions
type SizeCategory string

const (
	SizeXS SizeCategory = "XS (0-10)"
	SizeS  SizeCategory = "S (11-50)"
	SizeM  SizeCategory = "M (51-200)"
	SizeL  SizeCategory = "L (201-1000)"
	SizeXL SizeCategory = "XL (1000+)"
)

// SizeCategories lists every bucket from smallest to largest
var SizeCategories = []SizeCategory{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// CategorizeSize maps a change count to its bucket. Upper bounds are inclusive.
func CategorizeSize(changes int) SizeCategory {
	switch {
	case changes <= 10:
		return SizeXS
	case changes <= 50:
		return SizeS
	case changes <= 200:
		return SizeM
	case changes <= 1000:
		return SizeL
	default:
		return SizeXL
	}
}

// SizeStats is one row of the size analysis
type SizeStats struct {
	Category   SizeCategory
	Count      int
	AvgElapsed *float64
}

// BySize returns one row per size bucket, empty buckets included, smallest first
func BySize(records []model.Record) []SizeStats {
	counts := map[SizeCategory]int{}
	means := map[SizeCategory]*mean{}
	for _, c := range SizeCategories {
		means[c] = &mean{}
	}
	for _, r := range records {
		c := CategorizeSize(r.TotalChanges())
		counts[c]++
		means[c].add(r)
	}

	rows := make([]SizeStats, 0, len(SizeCategories))
	for _, c := range SizeCategories {
		rows = append(rows, SizeStats{Category: c, Count: counts[c], AvgElapsed: means[c].value()})
	}
	return rows
}

// MonthStats counts records created in one calendar month (UTC), per status
type MonthStats struct {
	Month  string // YYYY-MM
	Counts map[model.Status]int
}

// Total is the number of records created in the month
func (m MonthStats) Total() int {
	total := 0
	for _, n := range m.Counts {
		total += n
	}
	return total
}

// ByMonth groups records by creation month, oldest month first
func ByMonth(records []model.Record) []MonthStats {
	byMonth := map[string]map[model.Status]int{}
	for _, r := range records {
		month := r.CreatedAt.UTC().Format("2006-01")
		if byMonth[month] == nil {
			byMonth[month] = map[model.Status]int{}
		}
		byMonth[month][r.Status]++
	}

	rows := make([]MonthStats, 0, len(byMonth))
	for month, counts := range byMonth {
		rows = append(rows, MonthStats{Month: month, Counts: counts})
	}
	slices.SortFunc(rows, func(a, b MonthStats) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return rows
}
