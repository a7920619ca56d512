package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeBackend, "list services")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list services: connection refused", err.Error())
	assert.True(t, HasCode(err, CodeBackend))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeBackend, "noop"))
}

func TestCodeOf(t *testing.T) {
	t.Run("outermost code wins", func(t *testing.T) {
		inner := NotFound("service")
		outer := Wrap(inner, CodeBackend, "re-read")
		assert.Equal(t, CodeBackend, CodeOf(outer))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", Forbidden("moderators cannot delete services"))
		assert.Equal(t, CodeAuthorization, CodeOf(err))
	})

	t.Run("plain errors are backend failures", func(t *testing.T) {
		assert.Equal(t, CodeBackend, CodeOf(errors.New("boom")))
	})
}

func TestEnsure(t *testing.T) {
	coded := Invalid("name is required")
	assert.Same(t, coded, Ensure(coded, "ignored"))

	plain := errors.New("timeout")
	wrapped := Ensure(plain, "create service")
	assert.True(t, HasCode(wrapped, CodeBackend))
	assert.ErrorIs(t, wrapped, plain)
}

func TestHasCodeNil(t *testing.T) {
	assert.False(t, HasCode(nil, CodeNotFound))
}
