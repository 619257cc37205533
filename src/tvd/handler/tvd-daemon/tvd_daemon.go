// Package tvddaemon implements the tvd-daemon service's inbound JSON-RPC surface.
package tvddaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	controller "github.com/tracelens/trace-lsp/src/tvd/controller/tvd-daemon"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	"github.com/tracelens/trace-lsp/src/tvd/internal/jsonrpcfx"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
)

// Handler manages JSON-RPC connections from IDE clients.
type Handler = jsonrpcfx.ConnectionManager

// New constructs a new tvd-daemon Handler and registers it to serve incoming connections.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, stats tally.Scope) Handler {
	c := jsonRPCConnectionManager{
		ctrl:  ctrl,
		stats: stats.SubScope("json_rpc"),
	}
	jsonrpcmod.RegisterConnectionManager(&c)

	return &c
}

type jsonRPCConnectionManager struct {
	ctrl  controller.Controller
	stats tally.Scope
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	r := jsonRPCRouter{
		tvddaemon: c.ctrl,
		uuid:      id,
		stats:     c.stats,
	}

	return &r, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	c.ctrl.EndSession(ctx, id)
}
