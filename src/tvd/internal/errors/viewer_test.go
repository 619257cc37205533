package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
)

func TestVersionNotSupported(t *testing.T) {
	err := &VersionNotSupportedError{
		Feature:  "trace viewer",
		Found:    entity.ToolchainVersion{Major: 1, Minor: 30},
		Required: entity.ToolchainVersion{Major: 1, Minor: 35},
	}
	assert.Equal(t, "trace viewer requires toolchain version 1.35 or later, found 1.30", err.Error())
}

func TestIsVersionNotSupported(t *testing.T) {
	wrapped := fmt.Errorf("visualizing: %w", &VersionNotSupportedError{Feature: "embed"})
	assert.True(t, IsVersionNotSupported(wrapped))
	assert.False(t, IsVersionNotSupported(New("other")))
}

func TestViewerNotRunning(t *testing.T) {
	err := &ViewerNotRunningError{}
	assert.Equal(t, "no viewer process is running", err.Error())
}
