package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad", nil).Status())
	assert.Equal(t, http.StatusNotFound, NotFound("chat message", "x").Status())
	assert.Equal(t, http.StatusInsufficientStorage, StoreFull(10).Status())
	assert.Equal(t, http.StatusTooManyRequests, RateLimited().Status())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).Status())
}

func TestFrom_WrappedAppError(t *testing.T) {
	nf := NotFound("chat message", "abc")
	wrapped := fmt.Errorf("lookup: %w", nf)

	got := From(wrapped)

	assert.Same(t, nf, got)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	cause := errors.New("disk on fire")

	got := From(cause)

	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}
