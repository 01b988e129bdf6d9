package store

import (
	"context"
	"errors"
	"testing"

	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_WithTxCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewMockStore()
	bucket := seedBucket(t, ctx, s, "Car")

	err := s.WithTx(ctx, func(tx Store) error {
		mv := models.BucketMovement{BucketID: bucket.ID, Amount: decimal.NewFromInt(10), MovementDate: date(2010, 1, 1)}
		_, err := tx.CreateBucketMovement(ctx, &mv)
		return err
	})
	require.NoError(t, err)

	movements, err := s.ListAllBucketMovements(ctx)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestMockStore_FailOnNthWriteRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMockStore()
	bucket := seedBucket(t, ctx, s, "Car")
	s.FailOn("CreateBucketMovement", 2, errors.New("disk full"))

	err := s.WithTx(ctx, func(tx Store) error {
		for range 3 {
			mv := models.BucketMovement{BucketID: bucket.ID, Amount: decimal.NewFromInt(5), MovementDate: date(2010, 1, 1)}
			if _, err := tx.CreateBucketMovement(ctx, &mv); err != nil {
				return err
			}
		}
		return nil
	})
	var persistence *ledgererror.PersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.Equal(t, "create bucket movement", persistence.Operation)
	assert.Equal(t, 2, s.Calls("CreateBucketMovement"))

	movements, err := s.ListAllBucketMovements(ctx)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestMockStore_VersionsAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMockStore()
	bucket := seedBucket(t, ctx, s, "Holiday")

	for i, month := range []int{1, 5, 3} {
		v := models.BucketVersion{BucketID: bucket.ID, Version: i + 1, ValidFrom: date(2010, 1, 1).AddDate(0, month-1, 0), Config: models.Standard{}}
		_, err := s.CreateOrUpdateBucketVersion(ctx, &v)
		require.NoError(t, err)
	}

	versions, err := s.ListVersions(ctx, bucket.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, 3, versions[1].Version)
	assert.Equal(t, 1, versions[2].Version)

	require.NoError(t, s.DeleteBucket(ctx, bucket.ID))
	versions, err = s.ListVersions(ctx, bucket.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestMockStore_ExplicitIDsAdvanceSequence(t *testing.T) {
	ctx := context.Background()
	s := NewMockStore()

	group := models.BucketGroup{ID: 10, Name: "Fixed", Position: 1}
	_, err := s.CreateBucketGroup(ctx, &group)
	require.NoError(t, err)

	bucket := models.Bucket{GroupID: 10, Name: "Rent"}
	id, err := s.CreateBucket(ctx, &bucket)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}
