package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/vytor/ninebynine/internal/errors"
)

func TestAppError_ErrorIncludesWrapped(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperrors.NewUpstreamError("player search", cause)

	assert.Equal(t, "UPSTREAM_ERROR: player search failed (connection refused)", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestAppError_ErrorWithoutWrapped(t *testing.T) {
	err := apperrors.NewNoMatchError("alice")
	assert.Equal(t, `NO_MATCH: no player matches "alice"`, err.Error())
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", apperrors.NewSelectionError("prompt cancelled", nil))

	assert.True(t, apperrors.HasCode(wrapped, apperrors.ErrCodeSelection))
	assert.False(t, apperrors.HasCode(wrapped, apperrors.ErrCodeUpstream))
	assert.False(t, apperrors.HasCode(stderrors.New("plain"), apperrors.ErrCodeSelection))
	assert.False(t, apperrors.HasCode(nil, apperrors.ErrCodeSelection))
}
