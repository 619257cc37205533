package controller

import (
	traceviewer "github.com/tracelens/trace-lsp/src/tvd/controller/trace-viewer"
	tvddaemon "github.com/tracelens/trace-lsp/src/tvd/controller/tvd-daemon"
	viewersurface "github.com/tracelens/trace-lsp/src/tvd/controller/viewer-surface"
	"go.uber.org/fx"
)

// Module provides the controllers for the daemon and its plugins.
var Module = fx.Options(
	fx.Provide(tvddaemon.New),
	fx.Provide(traceviewer.New),
	fx.Provide(viewersurface.New),
)
