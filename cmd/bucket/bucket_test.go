package bucket

import (
	"bytes"
	"context"
	"testing"
	"time"

	"fjacquet/bucket-ledger/cmd/common"
	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/config"
	"fjacquet/bucket-ledger/internal/container"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, month string) *store.MockStore {
	t.Helper()
	s := store.NewMockStore()
	cfg := &config.Config{}
	cfg.Budget.Parallelism = 1
	root.AppContainer = container.NewContainerWithStore(cfg, logging.NewMockLogger(), s)
	root.SharedFlags.Month = month
	t.Cleanup(func() {
		root.AppContainer = nil
		root.SharedFlags.Month = ""
		group, name, notes, bucketID = "", "", "", 0
		createCfg = common.ConfigFlags{Type: "standard", Amount: "0"}
		configCfg = common.ConfigFlags{Type: "standard", Amount: "0"}
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

func TestBucketCommand_Subcommands(t *testing.T) {
	names := make([]string, 0, len(Cmd.Commands()))
	for _, c := range Cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"create", "configure", "close"}, names)
}

func TestCreateCommand(t *testing.T) {
	s := setupStore(t, "2010-01")
	ctx := context.Background()

	group, name = "Savings", "Holiday"
	createCfg = common.ConfigFlags{Type: "save-x-until-y", Amount: "1200", Date: "2010-12"}
	out, err := run(t, createCmd)
	require.NoError(t, err)
	assert.Contains(t, out, `Created bucket 2 "Holiday" (save-x-until-y) valid from 2010-01`)

	group, name = "savings", "Car"
	createCfg = common.ConfigFlags{Type: "monthly-expense", Amount: "80"}
	_, err = run(t, createCmd)
	require.NoError(t, err)

	groups, err := s.ListBucketGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].Position)

	buckets, err := s.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Len(t, buckets, 2)
}

func TestCreateCommand_AppendsGroup(t *testing.T) {
	s := setupStore(t, "2010-01")
	ctx := context.Background()
	existing := models.BucketGroup{Name: "Fixed", Position: 1}
	_, err := s.CreateBucketGroup(ctx, &existing)
	require.NoError(t, err)

	group, name = "Fun", "Games"
	_, err = run(t, createCmd)
	require.NoError(t, err)

	groups, err := s.ListBucketGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Fun", groups[1].Name)
	assert.Equal(t, 2, groups[1].Position)
}

func TestCreateCommand_MissingDate(t *testing.T) {
	setupStore(t, "2010-01")
	group, name = "Savings", "Holiday"
	createCfg = common.ConfigFlags{Type: "save-x-until-y", Amount: "1200"}

	_, err := run(t, createCmd)
	assert.Error(t, err)
}

func TestCreateCommand_FailureKeepsNoGroup(t *testing.T) {
	s := setupStore(t, "2010-01")
	s.FailOn("CreateOrUpdateBucketVersion", 0, assert.AnError)
	group, name = "Savings", "Holiday"
	createCfg = common.ConfigFlags{Type: "monthly-expense", Amount: "80"}

	_, err := run(t, createCmd)
	var persistence *ledgererror.PersistenceError
	require.ErrorAs(t, err, &persistence)

	groups, err := s.ListBucketGroups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
	buckets, err := s.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestConfigureCommand(t *testing.T) {
	s := setupStore(t, "2010-01")
	ctx := context.Background()
	group, name = "Fixed", "Phone"
	createCfg = common.ConfigFlags{Type: "monthly-expense", Amount: "50"}
	_, err := run(t, createCmd)
	require.NoError(t, err)

	root.SharedFlags.Month = "2010-04"
	bucketID = 2
	notes = "new contract"
	configCfg = common.ConfigFlags{Type: "monthly-expense", Amount: "35"}
	out, err := run(t, configureCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket 2 is now monthly-expense from 2010-04 (version 2)")

	versions, err := s.ListVersions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "new contract", versions[0].Notes)
	assert.True(t, versions[0].Config.Target().Equal(decimal.NewFromInt(35)))

	root.SharedFlags.Month = "2010-02"
	_, err = run(t, configureCmd)
	var verr *ledgererror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "month", verr.Field)
}

func TestCloseCommand(t *testing.T) {
	tests := []struct {
		name     string
		movement decimal.Decimal
		want     string
		field    string
	}{
		{name: "no history is deleted", want: "Bucket 2 deleted"},
		{name: "emptied bucket is deactivated", movement: decimal.NewFromInt(-25), want: "Bucket 2 deactivated"},
		{name: "money left is rejected", movement: decimal.NewFromInt(-10), field: "balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupStore(t, "2010-03")
			ctx := context.Background()
			group, name = "Fixed", "Gym"
			_, err := run(t, createCmd)
			require.NoError(t, err)

			if !tt.movement.IsZero() {
				for _, amount := range []decimal.Decimal{decimal.NewFromInt(25), tt.movement} {
					m := models.BucketMovement{BucketID: 2, Amount: amount, MovementDate: time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC)}
					_, err := s.CreateBucketMovement(ctx, &m)
					require.NoError(t, err)
				}
			}

			bucketID = 2
			out, err := run(t, closeCmd)
			if tt.field != "" {
				var verr *ledgererror.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}
