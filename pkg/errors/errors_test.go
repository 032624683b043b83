package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrInvalidTransition, "cannot save while viewing")

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrTitleRequired))
	assert.Equal(t, "cannot save while viewing", err.Message)
	assert.Equal(t, "operation not allowed in current workflow state", ErrInvalidTransition.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestFromErrorFindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("append day: %w", ErrEmptyDayIndex)

	appErr := FromError(wrapped)

	assert.Equal(t, http.StatusPreconditionFailed, appErr.Status)
	assert.Nil(t, FromError(nil))
}
