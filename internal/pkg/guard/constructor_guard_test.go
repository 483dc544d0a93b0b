package guard_test

import (
	"errors"
	"sync"
	"testing"

	"ordering/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTicketNotConstructed = errors.New("ticket must be created via newTicket")

type ticket struct {
	table string
	guard guard.ConstructorGuard
}

func newTicket(table string) (ticket, error) {
	if table == "" {
		return ticket{}, errors.New("table is required")
	}
	return ticket{table: table, guard: guard.NewConstructorGuard()}, nil
}

func (t ticket) Validate() error {
	return t.guard.Validate(errTicketNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entity not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	t.Run("value_from_constructor_validates", func(t *testing.T) {
		tk, err := newTicket("T4")

		require.NoError(t, err)
		require.NoError(t, tk.Validate())
		assert.Equal(t, "T4", tk.table)
	})

	t.Run("struct_literal_fails_validation", func(t *testing.T) {
		tk := ticket{table: "T4"}

		assert.ErrorIs(t, tk.Validate(), errTicketNotConstructed)
	})

	t.Run("copies_keep_the_constructed_flag", func(t *testing.T) {
		tk, err := newTicket("T9")
		require.NoError(t, err)

		cp := tk
		require.NoError(t, cp.Validate())
	})
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(validationError))
		}()
	}
	wg.Wait()
}
