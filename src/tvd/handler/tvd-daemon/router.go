package tvddaemon

import (
	"context"

	"github.com/gofrs/uuid"
	controller "github.com/tracelens/trace-lsp/src/tvd/controller/tvd-daemon"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// MethodRequestFullShutdown directs the server to shut down on the next JSON-RPC 'exit' method call.
const MethodRequestFullShutdown = "tvd/requestFullShutdown"

type jsonRPCRouter struct {
	tvddaemon controller.Controller
	uuid      uuid.UUID
	stats     tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)
	r.stats.Counter("requests").Inc(1)

	// Routing to each of the available methods in go.lsp.dev/protocol will occur here.
	// Results are passed back to reply to be returned to the client.
	switch req.Method() {
	// Lifecycle related methods.
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)

	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)

	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)

	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)

	case MethodRequestFullShutdown:
		return r.RequestFullShutdown(ctx, reply, req)

	// Workspace methods.
	case protocol.MethodWorkspaceExecuteCommand:
		return r.ExecuteCommand(ctx, reply, req)

	case protocol.MethodWorkspaceDidChangeConfiguration:
		return r.DidChangeConfiguration(ctx, reply, req)

	// Panel and theme methods from the IDE extension.
	case entity.MethodPanelMessage:
		return r.PanelMessage(ctx, reply, req)

	case entity.MethodPanelDidDispose:
		return r.PanelDidDispose(ctx, reply, req)

	case entity.MethodThemeChanged:
		return r.ThemeChanged(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
