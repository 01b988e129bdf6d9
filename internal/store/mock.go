package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"
)

// MockStore is an in-memory Store for tests. WithTx works on a copy of the data and
// publishes it only when the callback succeeds, so rollbacks behave like the real store.
type MockStore struct {
	mu     sync.Mutex
	data   *memoryData
	faults *faultPlan
}

type memoryData struct {
	nextID       int64
	groups       map[int64]models.BucketGroup
	buckets      map[int64]models.Bucket
	versions     map[int64]models.BucketVersion
	transactions map[int64]models.BankTransaction
	budgeted     map[int64]models.BudgetedTransaction
	movements    map[int64]models.BucketMovement
	recurring    map[int64]models.RecurringBankTransaction
}

type faultPlan struct {
	mu    sync.Mutex
	calls map[string]int
	rules map[string]faultRule
}

type faultRule struct {
	nth int
	err error
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{
		data: &memoryData{
			groups:       map[int64]models.BucketGroup{},
			buckets:      map[int64]models.Bucket{},
			versions:     map[int64]models.BucketVersion{},
			transactions: map[int64]models.BankTransaction{},
			budgeted:     map[int64]models.BudgetedTransaction{},
			movements:    map[int64]models.BucketMovement{},
			recurring:    map[int64]models.RecurringBankTransaction{},
		},
		faults: &faultPlan{calls: map[string]int{}, rules: map[string]faultRule{}},
	}
}

// FailOn makes the nth call (1-based) of the named method return err. A nth of zero fails
// every call. Counters are shared with transactional views.
func (m *MockStore) FailOn(method string, nth int, err error) {
	m.faults.mu.Lock()
	defer m.faults.mu.Unlock()
	m.faults.rules[method] = faultRule{nth: nth, err: err}
	m.faults.calls[method] = 0
}

// Calls returns how many times the named method has been invoked since FailOn
func (m *MockStore) Calls(method string) int {
	m.faults.mu.Lock()
	defer m.faults.mu.Unlock()
	return m.faults.calls[method]
}

func (m *MockStore) fault(method string) error {
	m.faults.mu.Lock()
	defer m.faults.mu.Unlock()
	m.faults.calls[method]++
	rule, ok := m.faults.rules[method]
	if !ok {
		return nil
	}
	if rule.nth == 0 || rule.nth == m.faults.calls[method] {
		return rule.err
	}
	return nil
}

func (m *MockStore) writeFault(method, operation string) error {
	if err := m.fault(method); err != nil {
		return &ledgererror.PersistenceError{Operation: operation, Err: err}
	}
	return nil
}

// assign returns id when it is set and a fresh id otherwise
func (d *memoryData) assign(id int64) int64 {
	if id == 0 {
		d.nextID++
		return d.nextID
	}
	if id > d.nextID {
		d.nextID = id
	}
	return id
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		nextID:       d.nextID,
		groups:       maps.Clone(d.groups),
		buckets:      maps.Clone(d.buckets),
		versions:     maps.Clone(d.versions),
		transactions: maps.Clone(d.transactions),
		budgeted:     maps.Clone(d.budgeted),
		movements:    maps.Clone(d.movements),
		recurring:    maps.Clone(d.recurring),
	}
}

func sortedValues[V any](m map[int64]V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func (m *MockStore) ListBucketGroups(_ context.Context) ([]models.BucketGroup, error) {
	if err := m.fault("ListBucketGroups"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	groups := sortedValues(m.data.groups)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Position < groups[j].Position })
	return groups, nil
}

func (m *MockStore) CreateBucketGroup(_ context.Context, group *models.BucketGroup) (int64, error) {
	if err := m.writeFault("CreateBucketGroup", "create bucket group"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	group.ID = m.data.assign(group.ID)
	m.data.groups[group.ID] = *group
	return group.ID, nil
}

func (m *MockStore) ListBuckets(_ context.Context) ([]models.Bucket, error) {
	if err := m.fault("ListBuckets"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.data.buckets), nil
}

func (m *MockStore) GetBucket(_ context.Context, id int64) (models.Bucket, error) {
	if err := m.fault("GetBucket"); err != nil {
		return models.Bucket{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data.buckets[id]
	if !ok {
		return models.Bucket{}, &ledgererror.NotFoundError{Entity: "bucket", ID: id}
	}
	return b, nil
}

func (m *MockStore) CreateBucket(_ context.Context, bucket *models.Bucket) (int64, error) {
	if err := m.writeFault("CreateBucket", "create bucket"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket.ID = m.data.assign(bucket.ID)
	m.data.buckets[bucket.ID] = *bucket
	return bucket.ID, nil
}

func (m *MockStore) UpdateBucket(_ context.Context, bucket models.Bucket) error {
	if err := m.writeFault("UpdateBucket", "update bucket"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.buckets[bucket.ID]; !ok {
		return &ledgererror.NotFoundError{Entity: "bucket", ID: bucket.ID}
	}
	m.data.buckets[bucket.ID] = bucket
	return nil
}

func (m *MockStore) DeleteBucket(_ context.Context, id int64) error {
	if err := m.writeFault("DeleteBucket", "delete bucket"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data.buckets, id)
	maps.DeleteFunc(m.data.versions, func(_ int64, v models.BucketVersion) bool { return v.BucketID == id })
	return nil
}

func (m *MockStore) ListVersions(_ context.Context, bucketID int64) ([]models.BucketVersion, error) {
	if err := m.fault("ListVersions"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BucketVersion
	for _, v := range sortedValues(m.data.versions) {
		if v.BucketID == bucketID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ValidFrom.Equal(out[j].ValidFrom) {
			return out[i].ValidFrom.After(out[j].ValidFrom)
		}
		return out[i].Version > out[j].Version
	})
	return out, nil
}

func (m *MockStore) CreateOrUpdateBucketVersion(_ context.Context, version *models.BucketVersion) (int64, error) {
	if err := m.writeFault("CreateOrUpdateBucketVersion", "save bucket version"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	version.ID = m.data.assign(version.ID)
	m.data.versions[version.ID] = *version
	return version.ID, nil
}

func (m *MockStore) ListBudgetedTransactions(_ context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error) {
	if err := m.fault("ListBudgetedTransactions"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DatedAmount
	for _, bt := range sortedValues(m.data.budgeted) {
		if bt.BucketID != bucketID {
			continue
		}
		tx, ok := m.data.transactions[bt.TransactionID]
		if !ok || (!from.IsZero() && tx.TransactionDate.Before(from)) {
			continue
		}
		out = append(out, models.DatedAmount{Amount: bt.Amount, Date: tx.TransactionDate})
	}
	return out, nil
}

func (m *MockStore) ListAllBudgetedTransactions(_ context.Context) ([]models.BudgetedTransaction, error) {
	if err := m.fault("ListAllBudgetedTransactions"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.data.budgeted), nil
}

func (m *MockStore) CreateBudgetedTransaction(_ context.Context, bt *models.BudgetedTransaction) (int64, error) {
	if err := m.writeFault("CreateBudgetedTransaction", "create budgeted transaction"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bt.ID = m.data.assign(bt.ID)
	m.data.budgeted[bt.ID] = *bt
	return bt.ID, nil
}

func (m *MockStore) ListBucketMovements(_ context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error) {
	if err := m.fault("ListBucketMovements"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DatedAmount
	for _, mv := range sortedValues(m.data.movements) {
		if mv.BucketID != bucketID || (!from.IsZero() && mv.MovementDate.Before(from)) {
			continue
		}
		out = append(out, models.DatedAmount{Amount: mv.Amount, Date: mv.MovementDate})
	}
	return out, nil
}

func (m *MockStore) ListAllBucketMovements(_ context.Context) ([]models.BucketMovement, error) {
	if err := m.fault("ListAllBucketMovements"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.data.movements), nil
}

func (m *MockStore) CreateBucketMovement(_ context.Context, movement *models.BucketMovement) (int64, error) {
	if err := m.writeFault("CreateBucketMovement", "create bucket movement"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	movement.ID = m.data.assign(movement.ID)
	m.data.movements[movement.ID] = *movement
	return movement.ID, nil
}

func (m *MockStore) ListBankTransactions(_ context.Context, from, to time.Time) ([]models.BankTransaction, error) {
	if err := m.fault("ListBankTransactions"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BankTransaction
	for _, tx := range sortedValues(m.data.transactions) {
		if !from.IsZero() && tx.TransactionDate.Before(from) {
			continue
		}
		if !to.IsZero() && !tx.TransactionDate.Before(to) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactionDate.Before(out[j].TransactionDate) })
	return out, nil
}

func (m *MockStore) CreateBankTransaction(_ context.Context, tx *models.BankTransaction) (int64, error) {
	if err := m.writeFault("CreateBankTransaction", "create bank transaction"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.OccurrenceKey != "" {
		for _, existing := range m.data.transactions {
			if existing.OccurrenceKey == tx.OccurrenceKey {
				return 0, &ledgererror.PersistenceError{
					Operation: "create bank transaction",
					Err:       &ledgererror.ValidationError{Field: "occurrence_key", Reason: "already exists"},
				}
			}
		}
	}
	tx.ID = m.data.assign(tx.ID)
	m.data.transactions[tx.ID] = *tx
	return tx.ID, nil
}

func (m *MockStore) OccurrenceKeyExists(_ context.Context, key string) (bool, error) {
	if err := m.fault("OccurrenceKeyExists"); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.data.transactions {
		if tx.OccurrenceKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStore) ListRecurringTransactions(_ context.Context) ([]models.RecurringBankTransaction, error) {
	if err := m.fault("ListRecurringTransactions"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.data.recurring), nil
}

func (m *MockStore) CreateRecurringTransaction(_ context.Context, rt *models.RecurringBankTransaction) (int64, error) {
	if err := m.writeFault("CreateRecurringTransaction", "create recurring transaction"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rt.ID = m.data.assign(rt.ID)
	m.data.recurring[rt.ID] = *rt
	return rt.ID, nil
}

func (m *MockStore) WithTx(_ context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	view := &MockStore{data: m.data.clone(), faults: m.faults}
	m.mu.Unlock()

	if err := fn(view); err != nil {
		return err
	}

	view.mu.Lock()
	committed := view.data
	view.mu.Unlock()

	m.mu.Lock()
	m.data = committed
	m.mu.Unlock()
	return nil
}
