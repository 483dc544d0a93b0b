package cmd

import (
	"testing"

	"ordering/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompositionRoot_RequiresDatabase(t *testing.T) {
	cfg, err := LoadConfig(env(baseEnv()))
	require.NoError(t, err)

	root, err := NewCompositionRoot(cfg, nil, nil)

	assert.Nil(t, root)
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestFuncOrderUoWFactory(t *testing.T) {
	calls := 0
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		calls++
		return nil
	})

	f.Create()
	f.Create()

	assert.Equal(t, 2, calls)
}
