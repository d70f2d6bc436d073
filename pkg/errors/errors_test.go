package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailClones(t *testing.T) {
	detailed := ErrValidationFailed.WithDetail("sample too short")

	assert.Equal(t, "sample too short", detailed.Detail)
	assert.Empty(t, ErrValidationFailed.Detail, "predefined errors must stay immutable")
	assert.Equal(t, ErrValidationFailed.Code, detailed.Code)
}

func TestWithErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := ErrDatabaseError.WithError(cause)

	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, ErrDatabaseError.Err)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrGenerationTimeout)

	assert.True(t, HasCode(err, CodeGenerationTimeout))
	assert.False(t, HasCode(err, CodeLLMRateLimited))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeGenerationTimeout))
	assert.False(t, HasCode(nil, CodeGenerationTimeout))
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrRunConflict)

	appErr := AsAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, CodeRunConflict, appErr.Code)

	assert.Nil(t, AsAppError(fmt.Errorf("plain")))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
	assert.True(t, IsAppError(ErrNotFound))
}
