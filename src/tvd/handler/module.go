package handler

import (
	controller "github.com/tracelens/trace-lsp/src/tvd/controller"
	tvddaemonctl "github.com/tracelens/trace-lsp/src/tvd/controller/tvd-daemon"
	tvddaemon "github.com/tracelens/trace-lsp/src/tvd/handler/tvd-daemon"
	"github.com/tracelens/trace-lsp/src/tvd/repository/session"
	"go.uber.org/fx"
)

// Module provides the tvd-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(tvddaemon.New),
	fx.Invoke(outputProcessInfo),
	fx.Invoke(func(m tvddaemon.Handler) {}),
	fx.Invoke(func(m tvddaemonctl.Controller) {}),
)
