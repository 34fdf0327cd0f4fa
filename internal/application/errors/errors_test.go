package apperrors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadError(t *testing.T) {
	err := NewLoadError("team.yaml", fs.ErrNotExist)

	assert.Equal(t, "failed to load team.yaml: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestConfigurationError(t *testing.T) {
	cause := errors.New("boom")

	withCause := NewConfigurationError("requires", "constraint not satisfied", cause)
	assert.Equal(t, "configuration error (requires): constraint not satisfied: boom", withCause.Error())
	assert.ErrorIs(t, withCause, cause)

	withoutCause := NewConfigurationError("requires", "constraint not satisfied", nil)
	assert.Equal(t, "configuration error (requires): constraint not satisfied", withoutCause.Error())
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation failed: filter: bad", NewValidationError("filter", "bad").Error())
	assert.Equal(t, "validation failed: filter: bad (2 issues)", NewValidationError("filter", "bad", "a", "b").Error())
}
