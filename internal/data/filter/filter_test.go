package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usagelens/usagelens/internal/core/model"
)

func day(dayOfMonth int) time.Time {
	return time.Date(2024, 1, dayOfMonth, 12, 0, 0, 0, time.Local)
}

func testRecords() []model.Record {
	return []model.Record{
		{Date: day(1), Category: "GLM-4", Usage: 100},
		{Date: day(2), Category: "GLM", Usage: 50},
		{Date: day(3), Category: "GLM-4", Usage: 200},
		{Date: day(4), Category: "ChatGLM3", Usage: 25},
	}
}

func TestApplyNoCriteria(t *testing.T) {
	records := testRecords()

	result := Apply(records, model.FilterSpec{})
	assert.Equal(t, records, result)

	// The result is a copy, not the input slice.
	result[0].Usage = -1
	assert.Equal(t, float64(100), records[0].Usage)
}

func TestApplyDateRangeInclusive(t *testing.T) {
	spec := model.FilterSpec{
		DateRange: &model.DateRange{Start: day(2), End: day(3)},
	}

	result := Apply(testRecords(), spec)
	require.Len(t, result, 2)
	assert.Equal(t, "2024-01-02", result[0].DayKey())
	assert.Equal(t, "2024-01-03", result[1].DayKey())
}

func TestApplyDateRangeIgnoresTimeOfDay(t *testing.T) {
	records := []model.Record{
		{Date: time.Date(2024, 1, 2, 23, 59, 0, 0, time.Local), Category: "GLM"},
	}
	spec := model.FilterSpec{
		DateRange: &model.DateRange{
			Start: time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local),
			End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local),
		},
	}

	assert.Len(t, Apply(records, spec), 1)
}

func TestApplyCategories(t *testing.T) {
	spec := model.FilterSpec{Categories: []string{"GLM-4"}}

	result := Apply(testRecords(), spec)
	require.Len(t, result, 2)
	for _, record := range result {
		assert.Equal(t, "GLM-4", record.Category)
	}
}

func TestApplyComposedCriteria(t *testing.T) {
	spec := model.FilterSpec{
		DateRange:  &model.DateRange{Start: day(1), End: day(2)},
		Categories: []string{"GLM-4", "ChatGLM3"},
	}

	result := Apply(testRecords(), spec)
	require.Len(t, result, 1)
	assert.Equal(t, "2024-01-01", result[0].DayKey())
}

func TestApplySuccessiveEqualsCombined(t *testing.T) {
	// Applying two criteria one after the other yields exactly the same
	// records as one spec carrying both.
	records := testRecords()
	dateSpec := model.FilterSpec{
		DateRange: &model.DateRange{Start: day(1), End: day(3)},
	}
	categorySpec := model.FilterSpec{Categories: []string{"GLM-4", "ChatGLM3"}}
	combined := model.FilterSpec{
		DateRange:  dateSpec.DateRange,
		Categories: categorySpec.Categories,
	}

	successive := Apply(Apply(records, dateSpec), categorySpec)
	assert.Equal(t, Apply(records, combined), successive)

	// Order of application does not matter either.
	assert.Equal(t, successive, Apply(Apply(records, categorySpec), dateSpec))
}

func TestApplyPreservesOrder(t *testing.T) {
	spec := model.FilterSpec{Categories: []string{"GLM-4", "GLM"}}

	result := Apply(testRecords(), spec)
	require.Len(t, result, 3)
	assert.Equal(t, "GLM-4", result[0].Category)
	assert.Equal(t, "GLM", result[1].Category)
	assert.Equal(t, "GLM-4", result[2].Category)
}

func TestApplyEmptyInput(t *testing.T) {
	result := Apply(nil, model.FilterSpec{Categories: []string{"GLM"}})
	assert.Empty(t, result)
	assert.NotNil(t, result)
}
