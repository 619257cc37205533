package app

import (
	"context"
	"time"

	"github.com/tracelens/trace-lsp/src/tvd/gateway"
	"github.com/tracelens/trace-lsp/src/tvd/handler"
	"github.com/tracelens/trace-lsp/src/tvd/internal/core"
	"github.com/tracelens/trace-lsp/src/tvd/internal/executor"
	"github.com/tracelens/trace-lsp/src/tvd/internal/fs"
	"github.com/tracelens/trace-lsp/src/tvd/internal/jsonrpcfx"
	"github.com/tracelens/trace-lsp/src/tvd/internal/serverinfofile"
	"github.com/tracelens/trace-lsp/src/tvd/internal/toolchain"
	"github.com/tracelens/trace-lsp/src/tvd/repository/settings"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the tvd-daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	executor.Module,
	serverinfofile.Module,
	toolchain.Module,
	settings.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "tvd-daemon",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)
