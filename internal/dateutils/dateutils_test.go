package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expectedOk bool
		expected   time.Time
	}{
		{"ISO format", "2023-01-15", true, date(2023, time.January, 15)},
		{"Month format", "2023-01", true, date(2023, time.January, 1)},
		{"European format", "15.01.2023", true, date(2023, time.January, 15)},
		{"Padded input", "  2023-02-03 ", true, date(2023, time.February, 3)},
		{"Empty string", "", false, time.Time{}},
		{"Invalid format", "not a date", false, time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2010-06-17")
	require.NoError(t, err)
	assert.Equal(t, date(2010, time.June, 1), got)
}

func TestMonthBoundaries(t *testing.T) {
	d := time.Date(2012, time.February, 17, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, date(2012, time.February, 1), StartOfMonth(d))
	assert.Equal(t, date(2012, time.March, 1), NextMonth(d))
	assert.Equal(t, date(2013, time.January, 1), NextMonth(date(2012, time.December, 31)))
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		n        int
		expected time.Time
	}{
		{"plain step", date(2010, time.January, 15), 2, date(2010, time.March, 15)},
		{"clamp to february", date(2010, time.January, 31), 1, date(2010, time.February, 28)},
		{"clamp to leap february", date(2012, time.January, 31), 1, date(2012, time.February, 29)},
		{"clamp to thirty days", date(2010, time.March, 31), 1, date(2010, time.April, 30)},
		{"year rollover", date(2010, time.November, 30), 3, date(2011, time.February, 28)},
		{"negative", date(2010, time.March, 31), -1, date(2010, time.February, 28)},
		{"negative across year", date(2010, time.January, 10), -13, date(2008, time.December, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.n))
		})
	}
}

func TestAddYears_LeapDay(t *testing.T) {
	assert.Equal(t, date(2013, time.February, 28), AddYears(date(2012, time.February, 29), 1))
	assert.Equal(t, date(2016, time.February, 29), AddYears(date(2012, time.February, 29), 4))
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 5, MonthsBetween(date(2010, time.January, 1), date(2010, time.June, 30)))
	assert.Equal(t, 0, MonthsBetween(date(2010, time.June, 1), date(2010, time.June, 30)))
	assert.Equal(t, -1, MonthsBetween(date(2010, time.January, 1), date(2009, time.December, 1)))
	assert.Equal(t, 13, MonthsBetween(date(2009, time.December, 1), date(2011, time.January, 1)))
}

func TestSameMonthAndFormat(t *testing.T) {
	assert.True(t, SameMonth(date(2010, time.June, 1), date(2010, time.June, 30)))
	assert.False(t, SameMonth(date(2010, time.June, 1), date(2011, time.June, 1)))
	assert.Equal(t, "2010-06", FormatMonth(date(2010, time.June, 12)))
	assert.Equal(t, "2010-06-12", ToISODate(date(2010, time.June, 12)))
}
