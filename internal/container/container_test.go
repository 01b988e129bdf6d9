package container

import (
	"path/filepath"
	"testing"

	"fjacquet/bucket-ledger/internal/config"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Database.Path = filepath.Join(t.TempDir(), "data", "ledger.db")
	cfg.CSV.Delimiter = ";"
	cfg.Budget.Parallelism = 2
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func(*testing.T) *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "valid config",
			config: testConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config(t))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetStore())
			assert.NotNil(t, c.GetCalculator())
			assert.NotNil(t, c.GetDistributor())
			assert.NotNil(t, c.GetBucketService())
			assert.NotNil(t, c.GetRecurringProcessor())
			assert.NotNil(t, c.GetReportGenerator())
			assert.FileExists(t, c.GetConfig().Database.Path)
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewContainerWithStore(t *testing.T) {
	s := store.NewMockStore()
	c := NewContainerWithStore(testConfig(t), logging.NewMockLogger(), s)

	assert.Same(t, s, c.GetStore())
	assert.NoError(t, c.Close())
}
