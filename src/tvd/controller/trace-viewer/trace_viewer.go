package traceviewer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	viewersurface "github.com/tracelens/trace-lsp/src/tvd/controller/viewer-surface"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	viewerplugin "github.com/tracelens/trace-lsp/src/tvd/entity/viewer-plugin"
	ideclient "github.com/tracelens/trace-lsp/src/tvd/gateway/ide-client"
	"github.com/tracelens/trace-lsp/src/tvd/internal/errors"
	"github.com/tracelens/trace-lsp/src/tvd/internal/executor"
	"github.com/tracelens/trace-lsp/src/tvd/internal/fs"
	"github.com/tracelens/trace-lsp/src/tvd/internal/logfilewriter"
	notifier "github.com/tracelens/trace-lsp/src/tvd/internal/persistent-notifier"
	"github.com/tracelens/trace-lsp/src/tvd/internal/serverinfofile"
	"github.com/tracelens/trace-lsp/src/tvd/internal/toolchain"
	"github.com/tracelens/trace-lsp/src/tvd/mapper"
	"github.com/tracelens/trace-lsp/src/tvd/repository/session"
	"github.com/tracelens/trace-lsp/src/tvd/repository/settings"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_nameKey = "trace-viewer"

	_featureName = "Trace visualization"

	// Commands routed to this plugin via workspace/executeCommand.
	_commandShow    = "traceviewer.show"
	_commandPrewarm = "traceviewer.prewarm"
	_commandClose   = "traceviewer.close"

	// Viewer process arguments.
	_argStdinPaths = "--stdin-paths"
	_argServeOnly  = "--serve-only"
	_argHostAll    = "--host=0.0.0.0"
	_argPortAny    = "--port=0"

	// Settings section pushed by the IDE in workspace/didChangeConfiguration.
	_settingsSection = "traceviewer"

	// Server info file key recording the live viewer endpoint.
	_endpointInfoKey = "viewer-endpoint"

	_startupNotificationTitle = "Trace viewer"
)

// Controller orchestrates the external trace viewer process.
type Controller interface {
	StartupInfo(ctx context.Context) (viewerplugin.PluginInfo, error)

	// EnsureStarted spawns the viewer process unless one is already running.
	EnsureStarted(ctx context.Context, cfg entity.ToolchainConfig) error
	// Visualize feeds an artifact to the viewer, starting it first if needed.
	Visualize(ctx context.Context, artifact string, cfg entity.ToolchainConfig) error
	// Prewarm starts the viewer ahead of an anticipated Visualize call.
	Prewarm(ctx context.Context, cfg entity.ToolchainConfig) error
	// Close shuts down the running viewer by closing its input stream. Idempotent.
	Close(ctx context.Context) error
	// Dispose closes the viewer and releases subscriptions and the surface.
	Dispose(ctx context.Context) error
}

// Params are inbound parameters to initialize a new plugin.
type Params struct {
	fx.In

	Sessions       session.Repository
	Settings       settings.Repository
	Surface        viewersurface.Controller
	Toolchain      toolchain.Toolchain
	Executor       executor.Executor
	IdeGateway     ideclient.Gateway
	ServerInfoFile serverinfofile.ServerInfoFile
	FS             fs.TvdFS
	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Lifecycle      fx.Lifecycle
}

// processHandle tracks a single live viewer process.
type processHandle struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	// embed records the embedding mode active at launch.
	embed         bool
	sessionUUID   uuid.UUID
	workspaceRoot string

	endpoint string
	startup  notifier.NotificationHandler
}

type controller struct {
	sessions       session.Repository
	settings       settings.Repository
	surface        viewersurface.Controller
	toolchain      toolchain.Toolchain
	executor       executor.Executor
	ideGateway     ideclient.Gateway
	serverInfoFile serverinfofile.ServerInfoFile
	notifications  notifier.NotificationManager
	logger         *zap.SugaredLogger
	viewerOutput   io.Writer

	minToolchain entity.ToolchainVersion
	minEmbed     entity.ToolchainVersion

	mu             sync.Mutex
	handle         *processHandle
	starting       bool
	restartPending bool
	lastArtifact   string
	lastConfig     entity.ToolchainConfig

	settingsCancel func()

	// wait and kill may be overridden in tests to control process lifetime.
	wait func(cmd *exec.Cmd) error
	kill func(cmd *exec.Cmd) error

	statsSpawns         tally.Counter
	statsRestarts       tally.Counter
	statsGateRejections tally.Counter
}

// New creates a new controller which manages the trace viewer process.
func New(p Params) (Controller, error) {
	viewerCfg := entity.ViewerConfig{}
	if err := p.Config.Get(entity.ViewerConfigKey).Populate(&viewerCfg); err != nil {
		return nil, fmt.Errorf("getting viewer configuration: %w", err)
	}

	minToolchain, err := parseGate(viewerCfg.MinToolchainVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid viewer.minToolchainVersion: %w", err)
	}
	minEmbed, err := parseGate(viewerCfg.MinEmbedVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid viewer.minEmbedVersion: %w", err)
	}

	viewerOutput, err := logfilewriter.SetupOutputWriter(logfilewriter.Params{
		FS:             p.FS,
		Lifecycle:      p.Lifecycle,
		ServerInfoFile: p.ServerInfoFile,
	}, _nameKey)
	if err != nil {
		return nil, fmt.Errorf("setting up viewer output writer: %w", err)
	}

	logger := p.Logger.With("plugin", _nameKey)
	scope := p.Stats.SubScope("trace_viewer")
	c := &controller{
		sessions:       p.Sessions,
		settings:       p.Settings,
		surface:        p.Surface,
		toolchain:      p.Toolchain,
		executor:       p.Executor,
		ideGateway:     p.IdeGateway,
		serverInfoFile: p.ServerInfoFile,
		notifications: notifier.NewNotificationManager(notifier.NotificationManagerParams{
			Sessions:   p.Sessions,
			IdeGateway: p.IdeGateway,
			Logger:     logger,
		}),
		logger:       logger,
		viewerOutput: viewerOutput,
		minToolchain: minToolchain,
		minEmbed:     minEmbed,

		wait: func(cmd *exec.Cmd) error { return cmd.Wait() },
		kill: func(cmd *exec.Cmd) error {
			if cmd.Process == nil {
				return nil
			}
			return cmd.Process.Kill()
		},

		statsSpawns:         scope.Counter("spawns"),
		statsRestarts:       scope.Counter("restarts"),
		statsGateRejections: scope.Counter("gate_rejections"),
	}
	c.settingsCancel = p.Settings.Subscribe(c.onSettingsChanged)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close(ctx)
		},
	})
	return c, nil
}

// StartupInfo returns PluginInfo for this controller.
func (c *controller) StartupInfo(ctx context.Context) (viewerplugin.PluginInfo, error) {
	priorities := map[string]viewerplugin.Priority{
		protocol.MethodInitialize:                      viewerplugin.PriorityRegular,
		protocol.MethodWorkspaceExecuteCommand:         viewerplugin.PriorityRegular,
		protocol.MethodWorkspaceDidChangeConfiguration: viewerplugin.PriorityRegular,
		viewerplugin.MethodEndSession:                  viewerplugin.PriorityRegular,
	}

	methods := &viewerplugin.Methods{
		PluginNameKey: _nameKey,

		Initialize:             c.initialize,
		ExecuteCommand:         c.executeCommand,
		DidChangeConfiguration: c.didChangeConfiguration,
		EndSession:             c.endSession,
	}

	return viewerplugin.PluginInfo{
		Priorities: priorities,
		Methods:    methods,
		NameKey:    _nameKey,
	}, nil
}

func (c *controller) EnsureStarted(ctx context.Context, cfg entity.ToolchainConfig) error {
	// Reserve the launch slot before spawning so that a concurrent call during
	// the startup window cannot produce a second process.
	c.mu.Lock()
	if c.handle != nil || c.starting {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	c.mu.Unlock()
	return c.start(ctx, cfg)
}

func (c *controller) Visualize(ctx context.Context, artifact string, cfg entity.ToolchainConfig) error {
	current := c.settings.Get(ctx)
	if !current.ShowViewer {
		return nil
	}
	if !cfg.Version.AtLeast(c.minToolchain) {
		c.statsGateRejections.Inc(1)
		gateErr := &errors.VersionNotSupportedError{
			Feature:  _featureName,
			Found:    cfg.Version,
			Required: c.minToolchain,
		}
		if err := c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: gateErr.Error(),
		}); err != nil {
			c.logger.Errorf("surfacing version warning: %s", err)
		}
		return nil
	}

	path := mapper.ArtifactToPath(artifact)
	c.mu.Lock()
	running := c.handle != nil
	c.mu.Unlock()
	if path == "" && !running {
		return nil
	}

	if err := c.EnsureStarted(ctx, cfg); err != nil {
		return err
	}

	c.mu.Lock()
	h := c.handle
	if path != "" {
		c.lastArtifact = path
		c.lastConfig = cfg
	}
	c.mu.Unlock()
	if h == nil {
		// The process exited between startup and the path write, or another
		// call is still holding the launch reservation.
		return &errors.ViewerNotRunningError{}
	}

	if path != "" {
		if _, err := io.WriteString(h.stdin, path+"\n"); err != nil {
			return fmt.Errorf("writing artifact path to viewer: %w", err)
		}
	}

	if h.embed {
		c.mu.Lock()
		endpoint := h.endpoint
		c.mu.Unlock()
		if endpoint != "" {
			return c.surface.ShowViewer(ctx, endpoint)
		}
		return c.surface.ShowPlaceholder(ctx)
	}
	return nil
}

func (c *controller) Prewarm(ctx context.Context, cfg entity.ToolchainConfig) error {
	if !c.settings.Get(ctx).ShowViewer {
		return nil
	}
	if !cfg.Version.AtLeast(c.minToolchain) {
		// Prewarming is best effort, gate failures are silent here.
		c.statsGateRejections.Inc(1)
		return nil
	}
	return c.EnsureStarted(ctx, cfg)
}

func (c *controller) Close(ctx context.Context) error {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.restartPending = false
	c.mu.Unlock()
	if h == nil {
		return nil
	}
	return c.release(ctx, h)
}

func (c *controller) Dispose(ctx context.Context) error {
	err := c.Close(ctx)
	err = multierr.Append(err, c.surface.Dispose(ctx))
	if c.settingsCancel != nil {
		c.settingsCancel()
		c.settingsCancel = nil
	}
	return err
}

// start resolves the runtime and spawns a new viewer process. The caller must
// hold the starting reservation; it is released on every return path.
func (c *controller) start(ctx context.Context, cfg entity.ToolchainConfig) error {
	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	current := c.settings.Get(ctx)
	embed := current.EmbedViewer && cfg.Version.AtLeast(c.minEmbed)

	bin, err := c.toolchain.ResolveViewerBinary(ctx, cfg)
	if err != nil {
		return c.surfaceLaunchError(ctx, err)
	}

	if version, err := c.toolchain.ViewerVersion(ctx, bin); err != nil {
		// The probe is informational only; launch proceeds regardless.
		c.logger.Warnf("probing viewer version: %s", err)
	} else {
		c.logger.Infow("launching viewer", "binary", bin, "version", version)
	}

	args := []string{_argStdinPaths}
	if embed {
		args = append(args, _argServeOnly)
	} else if c.toolchain.IsRemote() {
		// Standalone on a remote host: bind to all interfaces so the user's
		// machine can reach the viewer's own window server.
		args = append(args, _argHostAll, _argPortAny)
	}

	cmd := exec.Command(bin, args...)
	cmd.Dir = cfg.WorkDir
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("opening viewer stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("opening viewer stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("opening viewer stderr: %w", err)
	}

	if err := c.executor.StartCommand(cmd, c.toolchain.LaunchEnv(cfg, s.Env)); err != nil {
		return c.surfaceLaunchError(ctx, err)
	}
	c.statsSpawns.Inc(1)

	h := &processHandle{
		cmd:           cmd,
		stdin:         stdin,
		embed:         embed,
		sessionUUID:   s.UUID,
		workspaceRoot: s.WorkspaceRoot,
	}
	c.mu.Lock()
	if c.handle != nil {
		// The reservation makes this unreachable; never overwrite a live
		// handle, discard the extra process instead.
		c.mu.Unlock()
		stdin.Close()
		if err := c.kill(cmd); err != nil {
			c.logger.Errorf("killing duplicate viewer process: %s", err)
		}
		go func() { _ = c.wait(cmd) }()
		return nil
	}
	c.handle = h
	c.mu.Unlock()

	go c.watchStdout(h, stdout)
	go c.relayStderr(h, stderr)
	go c.watchExit(h)

	if embed {
		c.beginStartupNotification(ctx, h)
		if err := c.surface.ShowPlaceholder(ctx); err != nil {
			c.logger.Errorf("materializing loading surface: %s", err)
		}
	}
	return nil
}

func (c *controller) surfaceLaunchError(ctx context.Context, launchErr error) error {
	if err := c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: fmt.Sprintf("Failed to start the trace viewer: %s", launchErr),
	}); err != nil {
		c.logger.Errorf("surfacing launch error: %s", err)
	}
	return launchErr
}

// watchStdout logs every viewer output line. While embedding is active and no
// endpoint has been recorded, the first parseable line announces the endpoint.
func (c *controller) watchStdout(h *processHandle, stdout io.Reader) {
	ctx := sessionContext(h.sessionUUID)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		c.logger.Debugw("viewer stdout", "line", line)
		fmt.Fprintln(c.viewerOutput, line)

		c.mu.Lock()
		waiting := c.handle == h && h.embed && h.endpoint == ""
		c.mu.Unlock()
		if !waiting {
			continue
		}

		endpoint, ok := parseEndpointLine(line)
		if !ok {
			continue
		}
		c.recordEndpoint(ctx, h, endpoint)
	}
}

func (c *controller) recordEndpoint(ctx context.Context, h *processHandle, endpoint string) {
	c.mu.Lock()
	if c.handle != h || h.endpoint != "" {
		c.mu.Unlock()
		return
	}
	h.endpoint = endpoint
	startup := h.startup
	h.startup = nil
	c.mu.Unlock()

	if err := c.serverInfoFile.UpdateField(_endpointInfoKey, endpoint); err != nil {
		c.logger.Errorf("recording viewer endpoint: %s", err)
	}
	if startup != nil {
		startup.Done(ctx)
	}
	if err := c.surface.ShowViewer(ctx, endpoint); err != nil {
		c.logger.Errorf("loading viewer into surface: %s", err)
	}
}

func (c *controller) relayStderr(h *processHandle, stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		fmt.Fprintln(c.viewerOutput, scanner.Text())
	}
}

// watchExit reaps the process and performs the pending restart, if any.
func (c *controller) watchExit(h *processHandle) {
	err := c.wait(h.cmd)

	c.mu.Lock()
	if c.handle != h {
		// Already released by Close; nothing further to do.
		c.mu.Unlock()
		return
	}
	c.handle = nil
	restart := c.restartPending
	c.restartPending = false
	artifact := c.lastArtifact
	cfg := c.lastConfig
	c.mu.Unlock()

	if err != nil {
		c.logger.Warnw("viewer process exited", "error", err)
	} else {
		c.logger.Infow("viewer process exited")
	}

	ctx := sessionContext(h.sessionUUID)
	c.finishHandle(ctx, h)

	if restart && artifact != "" {
		c.statsRestarts.Inc(1)
		if err := c.Visualize(ctx, artifact, cfg); err != nil {
			c.logger.Errorf("restarting viewer: %s", err)
		}
	}
}

// release closes a handle's input stream and clears its recorded state.
func (c *controller) release(ctx context.Context, h *processHandle) error {
	err := h.stdin.Close()
	c.finishHandle(ctx, h)
	return err
}

func (c *controller) finishHandle(ctx context.Context, h *processHandle) {
	c.mu.Lock()
	startup := h.startup
	h.startup = nil
	hadEndpoint := h.endpoint != ""
	h.endpoint = ""
	c.mu.Unlock()

	if startup != nil {
		startup.Done(ctx)
	}
	if hadEndpoint {
		if err := c.serverInfoFile.UpdateField(_endpointInfoKey, ""); err != nil {
			c.logger.Errorf("clearing viewer endpoint: %s", err)
		}
	}
}

// beginStartupNotification keeps a progress notification open while waiting
// for the viewer's endpoint announcement.
func (c *controller) beginStartupNotification(ctx context.Context, h *processHandle) {
	handler, err := c.notifications.StartNotification(ctx, h.workspaceRoot, _startupNotificationTitle)
	if err != nil {
		c.logger.Warnf("starting viewer progress notification: %s", err)
		return
	}
	handler.Channel() <- notifier.Notification{
		SenderToken:     _nameKey,
		IdentifierToken: h.workspaceRoot,
		Message:         "Starting trace viewer",
	}
	c.mu.Lock()
	h.startup = handler
	c.mu.Unlock()
}

// onSettingsChanged reacts to viewer settings toggles while a process is live.
func (c *controller) onSettingsChanged(ctx context.Context, prev entity.ViewerSettings, next entity.ViewerSettings) {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h == nil {
		return
	}

	// Route surface calls through the session that launched the process; the
	// override file watcher notifies without a session context.
	sCtx := sessionContext(h.sessionUUID)

	if !next.ShowViewer {
		if err := c.Close(sCtx); err != nil {
			c.logger.Errorf("closing viewer after settings change: %s", err)
		}
		if err := c.surface.Dispose(sCtx); err != nil {
			c.logger.Errorf("disposing surface after settings change: %s", err)
		}
		return
	}

	if next.EmbedViewer != prev.EmbedViewer {
		// Restart in the new mode; the exit watcher replays the last artifact.
		c.mu.Lock()
		c.restartPending = true
		c.mu.Unlock()
		if err := c.surface.Dispose(sCtx); err != nil {
			c.logger.Errorf("disposing surface before restart: %s", err)
		}
		if err := c.kill(h.cmd); err != nil {
			c.logger.Errorf("killing viewer for restart: %s", err)
		}
	}
}

func (c *controller) initialize(ctx context.Context, params *protocol.InitializeParams, result *protocol.InitializeResult) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}
	s.Remote = c.toolchain.IsRemote()
	if err := c.sessions.Set(ctx, s); err != nil {
		return err
	}

	return mapper.InitializeResultAppendExecuteCommandProvider(result, &protocol.ExecuteCommandOptions{
		Commands: []string{_commandShow, _commandPrewarm, _commandClose},
	})
}

func (c *controller) executeCommand(ctx context.Context, params *protocol.ExecuteCommandParams) error {
	switch params.Command {
	case _commandShow:
		artifact, cfg, err := parseCommandArgs(params.Arguments)
		if err != nil {
			return fmt.Errorf("%s: %w", _commandShow, err)
		}
		return c.Visualize(ctx, artifact, cfg)
	case _commandPrewarm:
		_, cfg, err := parseCommandArgs(params.Arguments)
		if err != nil {
			return fmt.Errorf("%s: %w", _commandPrewarm, err)
		}
		return c.Prewarm(ctx, cfg)
	case _commandClose:
		return c.Close(ctx)
	}
	return nil
}

func (c *controller) didChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	next := c.settings.Get(ctx)
	ok, err := mapper.PopulateSettingsSection(params.Settings, _settingsSection, &next)
	if err != nil {
		return fmt.Errorf("parsing changed configuration: %w", err)
	}
	if !ok {
		return nil
	}
	c.settings.Update(ctx, next)
	return nil
}

func (c *controller) endSession(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h == nil || h.sessionUUID != id {
		return nil
	}
	return c.Close(sessionContext(id))
}

// parseCommandArgs decodes [artifact, toolchainConfig] command arguments.
func parseCommandArgs(args []interface{}) (string, entity.ToolchainConfig, error) {
	if len(args) < 2 {
		return "", entity.ToolchainConfig{}, fmt.Errorf("expected [artifact, toolchainConfig] arguments, got %d", len(args))
	}
	artifact, ok := args[0].(string)
	if !ok {
		return "", entity.ToolchainConfig{}, fmt.Errorf("artifact argument must be a string")
	}
	raw, err := json.Marshal(args[1])
	if err != nil {
		return "", entity.ToolchainConfig{}, fmt.Errorf("re-encoding toolchain config argument: %w", err)
	}
	cfg := entity.ToolchainConfig{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return "", entity.ToolchainConfig{}, fmt.Errorf("decoding toolchain config argument: %w", err)
	}
	return artifact, cfg, nil
}

func sessionContext(id uuid.UUID) context.Context {
	return context.WithValue(context.Background(), entity.SessionContextKey, id)
}

// parseEndpointLine interprets a stdout line as the viewer's ready endpoint.
// Unparseable lines are skipped while waiting for the announcement.
func parseEndpointLine(line string) (string, bool) {
	candidate := strings.TrimSpace(line)
	if candidate == "" {
		return "", false
	}
	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return candidate, true
}

func parseGate(s string) (entity.ToolchainVersion, error) {
	if s == "" {
		return entity.ToolchainVersion{}, nil
	}
	return entity.ParseToolchainVersion(s)
}
