package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("wrap keeps cause and code", func(t *testing.T) {
		err := Wrap(cause, CodeInternal, "failed to load post")
		assert.ErrorIs(t, err, cause)
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "failed to load post: connection reset", err.Error())
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("like: %w", New(CodeConflict, "post already liked"))
		assert.True(t, Is(err, CodeConflict))
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(cause))
		assert.False(t, HasCode(cause, CodeNotFound))
	})

	t.Run("errors.Is compares code and message", func(t *testing.T) {
		err := Wrap(cause, CodeUnauthorized, "invalid token")
		assert.ErrorIs(t, err, New(CodeUnauthorized, "invalid token"))
		assert.NotErrorIs(t, err, New(CodeUnauthorized, "token has expired"))
	})
}
