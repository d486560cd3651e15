package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("approve: %w", Clone(ErrInvalidState, "ticket already reviewed"))

	appErr := FromError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_STATE", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "ticket already reviewed", appErr.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")

	appErr := FromError(cause)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrNotFound, "ticket not found")

	assert.Equal(t, "ticket not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.Equal(t, ErrNotFound.Status, clone.Status)
}
