package common

import (
	"testing"
	"time"

	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFlags_Config(t *testing.T) {
	tests := []struct {
		name    string
		flags   ConfigFlags
		want    models.BucketConfig
		wantErr bool
	}{
		{
			name:  "standard",
			flags: ConfigFlags{Type: "standard", Amount: "0"},
			want:  models.Standard{},
		},
		{
			name:  "monthly with comma",
			flags: ConfigFlags{Type: "monthly-expense", Amount: "12,50"},
			want:  models.MonthlyExpense{Amount: decimal.RequireFromString("12.5")},
		},
		{
			name:  "every x months by number",
			flags: ConfigFlags{Type: "3", Interval: 6, Amount: "600", Date: "2010-09"},
			want: models.ExpenseEveryXMonths{
				Interval:  6,
				Amount:    decimal.NewFromInt(600),
				Reference: time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "save until",
			flags: ConfigFlags{Type: "save-x-until-y", Amount: "120", Date: "2010-06-15"},
			want:  models.SaveXUntilY{Amount: decimal.NewFromInt(120), Until: time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)},
		},
		{name: "missing date", flags: ConfigFlags{Type: "save-x-until-y", Amount: "120"}, wantErr: true},
		{name: "bad amount", flags: ConfigFlags{Type: "monthly-expense", Amount: "ten"}, wantErr: true},
		{name: "bad type", flags: ConfigFlags{Type: "lottery"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.Config()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Type(), got.Type())
			assert.True(t, tt.want.Target().Equal(got.Target()))
			assert.Equal(t, models.Params(tt.want).DateParam, models.Params(got).DateParam)
			assert.Equal(t, models.Params(tt.want).IntParam, models.Params(got).IntParam)
		})
	}
}

func TestConfigFlags_Register(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var f ConfigFlags
	f.Register(cmd)

	require.NoError(t, cmd.Flags().Parse([]string{"--type", "monthly-expense", "-a", "10"}))
	assert.Equal(t, "monthly-expense", f.Type)
	assert.Equal(t, "10", f.Amount)
}
