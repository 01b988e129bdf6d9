package recurring

import (
	"bytes"
	"context"
	"testing"
	"time"

	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/config"
	"fjacquet/bucket-ledger/internal/container"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *store.MockStore {
	t.Helper()
	s := store.NewMockStore()
	cfg := &config.Config{}
	cfg.Budget.Parallelism = 1
	root.AppContainer = container.NewContainerWithStore(cfg, logging.NewMockLogger(), s)
	root.SharedFlags.Month = "2010-01"
	t.Cleanup(func() {
		root.AppContainer = nil
		root.SharedFlags.Month = ""
		add = addFlags{Account: 1, Type: "months", Interval: 1}
	})
	return s
}

func run(t *testing.T, cmd *cobra.Command) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, nil)
	return buf.String(), err
}

func TestRecurringCommand_Subcommands(t *testing.T) {
	names := make([]string, 0, len(Cmd.Commands()))
	for _, c := range Cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"materialize", "add"}, names)
}

func TestAddThenMaterialize(t *testing.T) {
	s := setupStore(t)
	add = addFlags{Account: 1, Type: "weeks", Interval: 1, First: "2010-01-07", Payee: "Cleaner", Amount: "-40"}

	out, err := run(t, addCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Created recurring transaction 1: -40.00 every 1 weeks from 2010-01-07")

	out, err = run(t, materializeCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "2010-01-28")
	assert.Contains(t, out, "Created 4 transactions, skipped 0 already stored in 2010-01")

	out, err = run(t, materializeCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Created 0 transactions, skipped 4 already stored in 2010-01")

	stored, err := s.ListBankTransactions(context.Background(), time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2010, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestAddFlags_Template(t *testing.T) {
	tests := []struct {
		name    string
		flags   addFlags
		want    models.RecurrenceType
		wantErr bool
		field   string
	}{
		{
			name:  "quarterly by name",
			flags: addFlags{Type: "quarters", Interval: 1, First: "2010-02-15", Amount: "-300"},
			want:  models.RecurrenceQuarters,
		},
		{
			name:  "yearly by code",
			flags: addFlags{Type: "4", Interval: 2, First: "2010-02-15", Amount: "12,50"},
			want:  models.RecurrenceYears,
		},
		{
			name:    "unknown unit",
			flags:   addFlags{Type: "days", Interval: 1, First: "2010-02-15", Amount: "1"},
			wantErr: true,
		},
		{
			name:    "zero interval",
			flags:   addFlags{Type: "months", Interval: 0, First: "2010-02-15", Amount: "1"},
			wantErr: true,
			field:   "recurrence_interval",
		},
		{
			name:    "bad date",
			flags:   addFlags{Type: "months", Interval: 1, First: "soon", Amount: "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := tt.flags.template()
			if tt.wantErr {
				require.Error(t, err)
				if tt.field != "" {
					var verr *ledgererror.ValidationError
					require.ErrorAs(t, err, &verr)
					assert.Equal(t, tt.field, verr.Field)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt.RecurrenceType)
		})
	}
}
