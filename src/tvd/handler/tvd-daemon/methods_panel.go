package tvddaemon

import (
	"context"

	"github.com/tracelens/trace-lsp/src/tvd/mapper"
	"go.lsp.dev/jsonrpc2"
)

// PanelMessage forwards a message posted by webview panel content to the controller.
func (r *jsonRPCRouter) PanelMessage(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToPanelMessageParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.tvddaemon.PanelMessage(ctx, params)
	return reply(ctx, nil, err)
}

// PanelDidDispose notifies the controller that the user closed a webview panel.
func (r *jsonRPCRouter) PanelDidDispose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToPanelDidDisposeParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.tvddaemon.PanelDidDispose(ctx, params)
	return reply(ctx, nil, err)
}

// ThemeChanged notifies the controller that the IDE color theme has changed.
func (r *jsonRPCRouter) ThemeChanged(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToThemeChangedParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.tvddaemon.ThemeChanged(ctx, params)
	return reply(ctx, nil, err)
}
