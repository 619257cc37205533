package tvddaemon

import (
	"context"

	"github.com/tracelens/trace-lsp/src/tvd/mapper"
	"go.lsp.dev/jsonrpc2"
)

// ExecuteCommand extracts protocol.ExecuteCommandParams from the request and runs the matching command.
func (r *jsonRPCRouter) ExecuteCommand(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToExecuteCommandParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.tvddaemon.ExecuteCommand(ctx, params)
	if err != nil {
		return reply(ctx, nil, err)
	}

	return reply(ctx, result, nil)
}

// DidChangeConfiguration notifies the server that the client's configuration has changed.
func (r *jsonRPCRouter) DidChangeConfiguration(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeConfigurationParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.tvddaemon.DidChangeConfiguration(ctx, params)
	return reply(ctx, nil, err)
}
