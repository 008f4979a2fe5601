package daogen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/daogen"
)

func TestInsertError(t *testing.T) {
	t.Run("ConstraintViolation", func(t *testing.T) {
		err := daogen.NewConstraintViolation("InterestForUser", "A row already exists where user_id = `1` and interest_id = `2`")
		assert.Equal(t, "A row already exists where user_id = `1` and interest_id = `2`", err.Error())
		assert.True(t, err.ConstraintViolation)
		assert.Nil(t, errors.Unwrap(err))
		assert.True(t, errors.Is(err, daogen.ErrConstraintViolation))
		assert.True(t, daogen.IsConstraintViolation(err))
		assert.True(t, daogen.IsInsertError(err))
	})

	t.Run("Failure", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := daogen.NewInsertFailure("User", "Unable to insert self: User{} into table User", cause)
		assert.False(t, err.ConstraintViolation)
		assert.Equal(t, "User", err.Table)
		assert.ErrorIs(t, err, cause)
		assert.False(t, errors.Is(err, daogen.ErrConstraintViolation))
		assert.False(t, daogen.IsConstraintViolation(err))
		assert.True(t, daogen.IsInsertError(err))
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("saving: %w", daogen.NewConstraintViolation("T", "dup"))
		assert.True(t, daogen.IsConstraintViolation(err))

		var ie *daogen.InsertError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "T", ie.Table)
	})

	t.Run("Nil", func(t *testing.T) {
		assert.False(t, daogen.IsConstraintViolation(nil))
		assert.False(t, daogen.IsInsertError(nil))
		assert.False(t, daogen.IsConstraintViolation(errors.New("other")))
	})
}

func TestHydrationError(t *testing.T) {
	cause := &daogen.MissingColumnError{Column: "username"}
	err := daogen.NewHydrationError("User", "username", cause)
	assert.Equal(t, `daogen: hydrating User.username: daogen: column "username" not present in row`, err.Error())
	assert.True(t, daogen.IsHydrationError(err))
	assert.True(t, daogen.IsHydrationError(fmt.Errorf("wrap: %w", err)))
	assert.False(t, daogen.IsHydrationError(nil))

	var mc *daogen.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "username", mc.Column)
}

func TestNotSingularError(t *testing.T) {
	t.Run("Count", func(t *testing.T) {
		err := daogen.NewNotSingularError(0)
		assert.Equal(t, "daogen: result not singular (got 0 rows, expected 1)", err.Error())
		assert.Equal(t, 0, err.Count())
	})

	t.Run("Unknown", func(t *testing.T) {
		err := daogen.NewNotSingularError(-5)
		assert.Equal(t, "daogen: result not singular", err.Error())
		assert.Equal(t, -1, err.Count())
	})

	t.Run("Is", func(t *testing.T) {
		err := daogen.NewNotSingularError(2)
		assert.True(t, errors.Is(err, daogen.ErrNotSingular))
		assert.True(t, daogen.IsNotSingular(fmt.Errorf("wrap: %w", err)))
		assert.True(t, daogen.IsNotSingular(daogen.ErrNotSingular))
		assert.False(t, daogen.IsNotSingular(nil))
		assert.False(t, daogen.IsNotSingular(errors.New("other")))
	})
}
