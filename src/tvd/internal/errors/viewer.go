package errors

import (
	stderr "errors"
	"fmt"

	"github.com/tracelens/trace-lsp/src/tvd/entity"
)

// VersionNotSupportedError indicates that the toolchain version is below the minimum required for a feature.
type VersionNotSupportedError struct {
	Feature  string
	Found    entity.ToolchainVersion
	Required entity.ToolchainVersion
}

// Error is an implementation of the error interface.
func (n *VersionNotSupportedError) Error() string {
	return fmt.Sprintf("%s requires toolchain version %s or later, found %s", n.Feature, n.Required, n.Found)
}

// IsVersionNotSupported reports whether VersionNotSupportedError is part of the error chain.
func IsVersionNotSupported(e error) bool {
	var v *VersionNotSupportedError
	return stderr.As(e, &v)
}

// ViewerNotRunningError indicates an operation that requires a live viewer process.
type ViewerNotRunningError struct{}

// Error is an implementation of the error interface.
func (n *ViewerNotRunningError) Error() string {
	return "no viewer process is running"
}
