// Package tvddaemon implements the tvd-daemon business logic.
package tvddaemon

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid"
	viewerplugin "github.com/tracelens/trace-lsp/src/tvd/entity/viewer-plugin"
	"github.com/tracelens/trace-lsp/src/tvd/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Initialize will store information about a new connection and perform any setup needed.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {

	result := &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: "Trace Viewer Daemon",
		},
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	s.InitializeParams = params
	if s.WorkspaceRoot = mapper.WorkspaceFoldersToRoot(params.WorkspaceFolders); s.WorkspaceRoot == "" {
		s.ViewerEnabled = false
		c.logger.Warn("no workspace root in initialize params")
	}

	if s.WorkspaceRoot != "" {
		s.Env = os.Environ()
	}

	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	if s.ViewerEnabled {
		if err := c.registerSessionPlugins(ctx); err != nil {
			return nil, fmt.Errorf("registering session plugins: %w", err)
		}
	}

	callSync := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.Initialize(ctx, params, result); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	callAsync := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.Initialize(ctx, params, nil); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	if err := c.executePluginMethods(ctx, protocol.MethodInitialize, callSync, callAsync); err != nil {
		return nil, fmt.Errorf(_errBadPluginCall, err)
	}

	return result, nil
}

// Initialized handles any actions that need to occur immediately after initialization.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	call := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.Initialized(ctx, params); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	if err := c.executePluginMethods(ctx, protocol.MethodInitialized, call, call); err != nil {
		return fmt.Errorf(_errBadPluginCall, err)
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	if s.ViewerEnabled {
		c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Message: "Connection to the trace viewer daemon is now initialized.",
			Type:    protocol.MessageTypeInfo,
		})
	} else {
		c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Message: "Trace visualization is not available for this workspace.",
			Type:    protocol.MessageTypeWarning,
		})
	}

	return nil
}

// Shutdown is sent just before Exit to indicate that the session will exit.
func (c *controller) Shutdown(ctx context.Context) error {
	call := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.Shutdown(ctx); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	if err := c.executePluginMethods(ctx, protocol.MethodShutdown, call, call); err != nil {
		return fmt.Errorf(_errBadPluginCall, err)
	}
	return nil
}

// Exit will be used to either clean up from an individual connection, or shutdown the whole server.
func (c *controller) Exit(ctx context.Context) error {
	call := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.Exit(ctx); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	if err := c.executePluginMethods(ctx, protocol.MethodExit, call, call); err != nil {
		c.logger.Errorf(_errBadPluginCall, err)
	}

	if c.fullShutdown == true {
		// Zero out the timer to trigger immediate shutdown.
		c.idleTimerMu.Lock()
		c.idleTimer.Reset(0)
		c.idleTimerMu.Unlock()
		return nil
	}
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}

	return c.EndSession(ctx, s.UUID)
}

// RequestFullShutdown will set the controller to treat subsequent Shutdown and Exit requests as requests to exit the entire process.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.fullShutdown = true

	return nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	session := mapper.UUIDToSession(id, conn)
	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}

	if err := c.sessions.Set(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EndSession includes any cleanup at the end of the session, during or after the last JSON-RPC request.
func (c *controller) EndSession(ctx context.Context, uuid uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	if _, ok := c.pluginMethods[uuid]; ok {
		call := func(ctx context.Context, m *viewerplugin.Methods) {
			if err := m.EndSession(ctx, uuid); err != nil {
				c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
			}
		}
		if err := c.executePluginMethods(ctx, viewerplugin.MethodEndSession, call, call); err != nil {
			c.logger.Errorf(_errBadPluginCall, err)
		}
	}

	err := c.ideGateway.DeregisterClient(ctx, uuid)
	if err != nil {
		c.logger.Error(err)
	}

	delete(c.pluginMethods, uuid)
	return c.sessions.Delete(ctx, uuid)
}

// refreshIdleTimer ensures that the service shuts down after a defined inactivity period with no connections.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call initializes new timer and leaves it running prior to first connection.
	if c.idleTimer == nil {
		c.idleTimer = time.NewTimer(c.idleTimeoutMinutes)
		go func() {
			<-c.idleTimer.C
			c.logger.Info("Shutdown signal received.")
			if err := c.shutdowner.Shutdown(); err != nil {
				os.Exit(1)
			}
		}()
		return nil
	}

	// Subsequent calls stop the timer and reset it only if no connections are active.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer.Reset(c.idleTimeoutMinutes)
	}
	return nil
}
