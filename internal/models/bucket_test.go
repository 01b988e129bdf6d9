package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestBucket_IsVisibleIn(t *testing.T) {
	tests := []struct {
		name     string
		bucket   Bucket
		month    time.Time
		expected bool
	}{
		{"before valid from", Bucket{ValidFrom: month(2010, 3)}, month(2010, 2), false},
		{"at valid from", Bucket{ValidFrom: month(2010, 3)}, month(2010, 3), true},
		{"inactive from later month", Bucket{ValidFrom: month(2010, 1), IsInactive: true, IsInactiveFrom: month(2010, 5)}, month(2010, 4), true},
		{"inactive from same month", Bucket{ValidFrom: month(2010, 1), IsInactive: true, IsInactiveFrom: month(2010, 5)}, month(2010, 5), false},
		{"system bucket always visible", Bucket{ValidFrom: month(2020, 1), IsSystem: true}, month(2010, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.bucket.IsVisibleIn(tt.month))
		})
	}
}

func TestConfigParams_RoundTrip(t *testing.T) {
	configs := []BucketConfig{
		Standard{},
		MonthlyExpense{Amount: decimal.NewFromInt(10)},
		ExpenseEveryXMonths{Interval: 3, Amount: decimal.NewFromInt(90), Reference: month(2010, 3)},
		SaveXUntilY{Amount: decimal.NewFromInt(120), Until: month(2010, 6)},
	}

	for _, cfg := range configs {
		t.Run(cfg.Type().String(), func(t *testing.T) {
			params := Params(cfg)
			assert.Equal(t, cfg.Type(), params.Type)

			back, err := params.Config()
			require.NoError(t, err)
			assert.Equal(t, cfg, back)
		})
	}
}

func TestConfigParams_UnknownType(t *testing.T) {
	_, err := ConfigParams{Type: 9}.Config()
	assert.Error(t, err)
}

func TestParseBucketType(t *testing.T) {
	bt, err := ParseBucketType("save-x-until-y")
	require.NoError(t, err)
	assert.Equal(t, BucketTypeSaveXUntilY, bt)

	bt, err = ParseBucketType("2")
	require.NoError(t, err)
	assert.Equal(t, BucketTypeMonthlyExpense, bt)

	_, err = ParseBucketType("weekly")
	assert.Error(t, err)
}

func TestParseRecurrenceType(t *testing.T) {
	rt, err := ParseRecurrenceType("Quarters")
	require.NoError(t, err)
	assert.Equal(t, RecurrenceQuarters, rt)
	assert.Equal(t, "weeks", RecurrenceWeeks.String())

	_, err = ParseRecurrenceType("days")
	assert.Error(t, err)
}
