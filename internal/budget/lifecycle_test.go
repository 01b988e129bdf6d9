package budget

import (
	"testing"
	"time"

	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketService_CreateBucket(t *testing.T) {
	f := newFixture(t)
	svc := NewBucketService(f.store, f.logger)

	b, err := svc.CreateBucket(f.ctx, models.Bucket{GroupID: f.group.ID, Name: "  Holiday "},
		models.SaveXUntilY{Amount: dec("120"), Until: month(2010, 6)}, day(2010, 1, 12))
	require.NoError(t, err)
	assert.Equal(t, "Holiday", b.Name)
	assert.Equal(t, month(2010, 1), b.ValidFrom)

	versions, err := f.store.ListVersions(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, month(2010, 1), versions[0].ValidFrom)
}

func TestBucketService_CreateBucketRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		bucket models.Bucket
		cfg    models.BucketConfig
	}{
		{"empty name", models.Bucket{Name: " "}, models.Standard{}},
		{"zero target", models.Bucket{Name: "Rent"}, models.MonthlyExpense{}},
		{"zero interval", models.Bucket{Name: "Car"}, models.ExpenseEveryXMonths{Amount: dec("100")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewBucketService(f.store, f.logger)

			_, err := svc.CreateBucket(f.ctx, tt.bucket, tt.cfg, month(2010, 1))
			var validation *ledgererror.ValidationError
			require.ErrorAs(t, err, &validation)

			buckets, err := f.store.ListBuckets(f.ctx)
			require.NoError(t, err)
			assert.Empty(t, buckets)
		})
	}
}

func TestBucketService_CreateBucketUnknownGroup(t *testing.T) {
	f := newFixture(t)
	svc := NewBucketService(f.store, f.logger)

	_, err := svc.CreateBucket(f.ctx, models.Bucket{GroupID: 999, Name: "Orphan"}, models.Standard{}, month(2010, 1))
	var notFound *ledgererror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "group", notFound.Entity)
	assert.Equal(t, int64(999), notFound.ID)

	buckets, err := f.store.ListBuckets(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestBucketService_CreateBucketInGroup(t *testing.T) {
	tests := []struct {
		name       string
		group      string
		wantGroups int
	}{
		{"existing group matched ignoring case", " household ", 1},
		{"missing group appended", "Savings", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewBucketService(f.store, f.logger)

			b, err := svc.CreateBucketInGroup(f.ctx, tt.group, models.Bucket{Name: "Holiday"},
				models.SaveXUntilY{Amount: dec("120"), Until: month(2010, 6)}, month(2010, 1))
			require.NoError(t, err)

			groups, err := f.store.ListBucketGroups(f.ctx)
			require.NoError(t, err)
			require.Len(t, groups, tt.wantGroups)
			last := groups[len(groups)-1]
			assert.Equal(t, last.ID, b.GroupID)
			assert.Equal(t, tt.wantGroups, last.Position)
		})
	}
}

func TestBucketService_CreateBucketInGroupRollsBack(t *testing.T) {
	t.Run("persistence failure", func(t *testing.T) {
		f := newFixture(t)
		svc := NewBucketService(f.store, f.logger)
		f.store.FailOn("CreateBucket", 0, assert.AnError)

		_, err := svc.CreateBucketInGroup(f.ctx, "Savings", models.Bucket{Name: "Holiday"}, models.Standard{}, month(2010, 1))
		var persistence *ledgererror.PersistenceError
		require.ErrorAs(t, err, &persistence)

		groups, err := f.store.ListBucketGroups(f.ctx)
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		f := newFixture(t)
		svc := NewBucketService(f.store, f.logger)

		_, err := svc.CreateBucketInGroup(f.ctx, "Savings", models.Bucket{Name: "Rent"}, models.MonthlyExpense{}, month(2010, 1))
		var validation *ledgererror.ValidationError
		require.ErrorAs(t, err, &validation)

		groups, err := f.store.ListBucketGroups(f.ctx)
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("empty group name", func(t *testing.T) {
		f := newFixture(t)
		svc := NewBucketService(f.store, f.logger)

		_, err := svc.CreateBucketInGroup(f.ctx, "  ", models.Bucket{Name: "Rent"}, models.Standard{}, month(2010, 1))
		var validation *ledgererror.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "group", validation.Field)
	})
}

func TestBucketService_Configure(t *testing.T) {
	f := newFixture(t)
	svc := NewBucketService(f.store, f.logger)
	b, err := svc.CreateBucket(f.ctx, models.Bucket{GroupID: f.group.ID, Name: "Food"},
		models.MonthlyExpense{Amount: dec("300")}, month(2010, 1))
	require.NoError(t, err)

	// same month rewrites version 1
	v, err := svc.Configure(f.ctx, b.ID, models.MonthlyExpense{Amount: dec("350")}, day(2010, 1, 20), "")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Version)

	// later month appends version 2
	v, err = svc.Configure(f.ctx, b.ID, models.MonthlyExpense{Amount: dec("400")}, month(2010, 4), "raise")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Version)
	assert.Equal(t, month(2010, 4), v.ValidFrom)

	versions, err := f.store.ListVersions(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	r := NewVersionResolver(f.store)
	for _, tc := range []struct {
		month  time.Time
		target string
	}{
		{month(2010, 1), "350"},
		{month(2010, 3), "350"},
		{month(2010, 4), "400"},
	} {
		got, err := r.Resolve(f.ctx, b.ID, tc.month)
		require.NoError(t, err)
		assert.True(t, got.Config.Target().Equal(dec(tc.target)), "month %s", tc.month)
	}

	// earlier month than the latest version is rejected
	_, err = svc.Configure(f.ctx, b.ID, models.MonthlyExpense{Amount: dec("1")}, month(2010, 2), "")
	var validation *ledgererror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "month", validation.Field)

	_, err = svc.Configure(f.ctx, 999, models.Standard{}, month(2010, 5), "")
	var notFound *ledgererror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBucketService_Close(t *testing.T) {
	f := newFixture(t)
	svc := NewBucketService(f.store, f.logger)
	create := func(name string) models.Bucket {
		b, err := svc.CreateBucket(f.ctx, models.Bucket{GroupID: f.group.ID, Name: name}, models.Standard{}, month(2010, 1))
		require.NoError(t, err)
		return b
	}

	t.Run("never used bucket is deleted", func(t *testing.T) {
		b := create("Unused")
		action, err := svc.Close(f.ctx, b.ID, month(2010, 2))
		require.NoError(t, err)
		assert.Equal(t, CloseDeleted, action)

		_, err = f.store.GetBucket(f.ctx, b.ID)
		var notFound *ledgererror.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		versions, err := f.store.ListVersions(f.ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, versions)
	})

	t.Run("bucket with history is deactivated", func(t *testing.T) {
		b := create("Used")
		f.movement(t, b.ID, "25", month(2010, 1))
		f.expense(t, b.ID, "-25", day(2010, 2, 3))

		action, err := svc.Close(f.ctx, b.ID, month(2010, 2))
		require.NoError(t, err)
		assert.Equal(t, CloseDeactivated, action)

		got, err := f.store.GetBucket(f.ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, got.IsInactive)
		assert.Equal(t, month(2010, 3), got.IsInactiveFrom)
		assert.True(t, Visible(got, month(2010, 2)))
		assert.False(t, Visible(got, month(2010, 3)))

		_, err = svc.Close(f.ctx, b.ID, month(2010, 3))
		var validation *ledgererror.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("bucket holding money is refused", func(t *testing.T) {
		b := create("Funded")
		f.movement(t, b.ID, "40", month(2010, 1))

		_, err := svc.Close(f.ctx, b.ID, month(2010, 1))
		var validation *ledgererror.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "balance", validation.Field)
	})

	t.Run("system bucket is refused", func(t *testing.T) {
		income := models.Bucket{GroupID: f.group.ID, Name: "Income", IsSystem: true}
		_, err := f.store.CreateBucket(f.ctx, &income)
		require.NoError(t, err)

		_, err = svc.Close(f.ctx, income.ID, month(2010, 1))
		var validation *ledgererror.ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}
