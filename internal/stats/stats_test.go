package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/prdash/internal/model"
)

func days(n int) *int {
	return &n
}

func record(number int, author string, status model.Status, created string, elapsed *int, changes int) model.Record {
	createdAt, err := time.Parse(time.RFC3339, created)
	if err != nil {
		panic(err)
	}
	return model.Record{
		Number:      number,
		Author:      author,
		Status:      status,
		CreatedAt:   createdAt,
		ElapsedDays: elapsed,
		Additions:   changes,
	}
}

func fixture() []model.Record {
	return []model.Record{
		record(6, "alice", model.StatusOpen, "2024-03-10T08:00:00Z", nil, 5),
		record(5, "bob", model.StatusMerged, "2024-03-02T08:00:00Z", days(2), 40),
		record(4, "alice", model.StatusMerged, "2024-02-20T23:59:59Z", days(4), 150),
		record(3, "carol", model.StatusClosed, "2024-02-01T00:00:00Z", days(0), 900),
		record(2, "alice", model.StatusMerged, "2024-01-15T12:00:00Z", days(1), 5000),
		record(1, "bob", model.StatusOpen, "2024-01-02T12:00:00Z", nil, 10),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 3, s.Merged)
	assert.Equal(t, 2, s.Open)
	assert.Equal(t, 1, s.Closed)
	require.NotNil(t, s.AvgElapsed)
	assert.InDelta(t, 1.75, *s.AvgElapsed, 1e-9)
	assert.Equal(t, "1.8 days", FormatAverage(s.AvgElapsed))
}

func TestSummarize_NoElapsed(t *testing.T) {
	s := Summarize([]model.Record{record(1, "a", model.StatusOpen, "2024-01-01T00:00:00Z", nil, 0)})
	assert.Nil(t, s.AvgElapsed)
	assert.Equal(t, NotAvailable, FormatAverage(s.AvgElapsed))

	empty := Summarize(nil)
	assert.Equal(t, Summary{}, empty)
}

func TestByAuthor(t *testing.T) {
	rows := ByAuthor(fixture(), 0)
	require.Len(t, rows, 3)

	assert.Equal(t, "alice", rows[0].Author)
	assert.Equal(t, 3, rows[0].Count)
	require.NotNil(t, rows[0].AvgElapsed)
	assert.InDelta(t, 2.5, *rows[0].AvgElapsed, 1e-9)

	// bob and carol are ordered by count, not name
	assert.Equal(t, "bob", rows[1].Author)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, "carol", rows[2].Author)
}

func TestByAuthor_TiesAndLimit(t *testing.T) {
	records := []model.Record{
		record(1, "zed", model.StatusOpen, "2024-01-01T00:00:00Z", nil, 0),
		record(2, "amy", model.StatusOpen, "2024-01-01T00:00:00Z", nil, 0),
		record(3, "max", model.StatusOpen, "2024-01-01T00:00:00Z", nil, 0),
	}

	rows := ByAuthor(records, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "amy", rows[0].Author)
	assert.Equal(t, "max", rows[1].Author)
	assert.Nil(t, rows[0].AvgElapsed)
}

func TestCategorizeSize(t *testing.T) {
	tests := []struct {
		changes  int
		expected SizeCategory
	}{
		{0, SizeXS},
		{10, SizeXS},
		{11, SizeS},
		{50, SizeS},
		{51, SizeM},
		{200, SizeM},
		{201, SizeL},
		{1000, SizeL},
		{1001, SizeXL},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeSize(tt.changes))
		})
	}
}

func TestBySize(t *testing.T) {
	rows := BySize(fixture())
	require.Len(t, rows, len(SizeCategories))

	counts := map[SizeCategory]int{}
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	assert.Equal(t, map[SizeCategory]int{SizeXS: 2, SizeS: 1, SizeM: 1, SizeL: 1, SizeXL: 1}, counts)

	// XS holds only open records, so it has no average
	assert.Nil(t, rows[0].AvgElapsed)
	require.NotNil(t, rows[4].AvgElapsed)
	assert.InDelta(t, 1.0, *rows[4].AvgElapsed, 1e-9)

	for i, row := range BySize(nil) {
		assert.Equal(t, SizeCategories[i], row.Category)
		assert.Zero(t, row.Count)
	}
}

func TestByMonth(t *testing.T) {
	rows := ByMonth(fixture())
	require.Len(t, rows, 3)

	assert.Equal(t, "2024-01", rows[0].Month)
	assert.Equal(t, map[model.Status]int{model.StatusMerged: 1, model.StatusOpen: 1}, rows[0].Counts)
	assert.Equal(t, "2024-02", rows[1].Month)
	assert.Equal(t, 2, rows[1].Total())
	assert.Equal(t, "2024-03", rows[2].Month)
	assert.Equal(t, 1, rows[2].Counts[model.StatusMerged])
}
