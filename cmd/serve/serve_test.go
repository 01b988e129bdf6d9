package serve

import (
	"testing"

	"fjacquet/bucket-ledger/cmd/root"

	"github.com/stretchr/testify/assert"
)

func TestServeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "serve", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.Flags().Lookup("addr"))
}

func TestServeCommand_NoContainer(t *testing.T) {
	root.AppContainer = nil
	err := Cmd.RunE(Cmd, nil)
	assert.ErrorContains(t, err, "not initialized")
}
