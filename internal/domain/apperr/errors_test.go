package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"quizsalon/internal/domain/apperr"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKindSentinel(t *testing.T) {
	err := apperr.New(apperr.KindCapacity, "Salon plein")

	assert.ErrorIs(t, err, apperr.ErrCapacity)
	assert.NotErrorIs(t, err, apperr.ErrAlreadyStarted)

	wrapped := fmt.Errorf("join: %w", err)
	assert.ErrorIs(t, wrapped, apperr.ErrCapacity)
	assert.Equal(t, apperr.KindCapacity, apperr.KindOf(wrapped))
}

func TestStoreKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Store("find salon", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.True(t, apperr.IsInternal(err))
	assert.Equal(t, "find salon: connection refused", err.Error())
}

func TestKindOfUntypedError(t *testing.T) {
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(errors.New("boom")))
	assert.False(t, apperr.IsInternal(apperr.Validation("x")))
}
