package viewersurface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	viewerplugin "github.com/tracelens/trace-lsp/src/tvd/entity/viewer-plugin"
	ideclient "github.com/tracelens/trace-lsp/src/tvd/gateway/ide-client"
	"github.com/tracelens/trace-lsp/src/tvd/repository/session"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "viewer-surface"

	_panelID    = "trace-viewer"
	_panelTitle = "Trace Viewer"
)

// MessageSource indicates where a relayed panel message originated.
type MessageSource int

const (
	// MessageSourceUnknown indicates a message whose origin matches neither side of the relay.
	MessageSourceUnknown MessageSource = iota
	// MessageSourceFrame indicates a message posted by the embedded viewer frame.
	MessageSourceFrame
	// MessageSourceHost indicates a message posted by the panel's host script.
	MessageSourceHost
)

// Frame message types understood by the daemon.
const (
	_frameMsgReady        = "ready"
	_frameMsgOpenExternal = "openExternal"
	_hostMsgThemeChanged  = "themeChanged"
)

// ClassifyMessage determines which side of the relay posted a panel message.
// Messages without an origin come from the host script. Messages carrying the
// live frame's origin come from the embedded viewer. Anything else is unknown
// and must not be relayed.
func ClassifyMessage(frameOrigin string, params *entity.PanelMessageParams) MessageSource {
	switch {
	case params.Origin == "":
		return MessageSourceHost
	case frameOrigin != "" && params.Origin == frameOrigin:
		return MessageSourceFrame
	default:
		return MessageSourceUnknown
	}
}

// Controller owns the webview panel which surfaces the trace viewer in the IDE.
type Controller interface {
	StartupInfo(ctx context.Context) (viewerplugin.PluginInfo, error)

	// ShowPlaceholder ensures the panel exists and displays startup placeholder content.
	ShowPlaceholder(ctx context.Context) error
	// ShowViewer ensures the panel exists and loads the live viewer frame for the given endpoint.
	ShowViewer(ctx context.Context, endpoint string) error
	// Reveal brings an existing panel into view without changing its content.
	Reveal(ctx context.Context) error
	// Dispose closes the panel if open.
	Dispose(ctx context.Context) error
	// IsOpen reports whether this session currently has a panel.
	IsOpen(ctx context.Context) bool
}

// Params are inbound parameters to initialize a new plugin.
type Params struct {
	fx.In

	Sessions   session.Repository
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type panelState struct {
	open        bool
	live        bool
	endpoint    string
	frameOrigin string
	theme       entity.ThemeKind
}

type controller struct {
	sessions   session.Repository
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger

	mu     sync.Mutex
	panels map[uuid.UUID]*panelState

	statsRelayed tally.Counter
	statsDropped tally.Counter
}

// New creates a new controller which manages the trace viewer panel.
func New(p Params) Controller {
	scope := p.Stats.SubScope("viewer_surface")
	return &controller{
		sessions:     p.Sessions,
		ideGateway:   p.IdeGateway,
		logger:       p.Logger.With("plugin", _nameKey),
		panels:       make(map[uuid.UUID]*panelState),
		statsRelayed: scope.Counter("messages_relayed"),
		statsDropped: scope.Counter("messages_dropped"),
	}
}

// StartupInfo returns PluginInfo for this controller.
func (c *controller) StartupInfo(ctx context.Context) (viewerplugin.PluginInfo, error) {
	priorities := map[string]viewerplugin.Priority{
		entity.MethodPanelMessage:     viewerplugin.PriorityRegular,
		entity.MethodPanelDidDispose:  viewerplugin.PriorityRegular,
		entity.MethodThemeChanged:     viewerplugin.PriorityRegular,
		viewerplugin.MethodEndSession: viewerplugin.PriorityRegular,
	}

	methods := &viewerplugin.Methods{
		PluginNameKey: _nameKey,

		PanelMessage:    c.panelMessage,
		PanelDidDispose: c.panelDidDispose,
		ThemeChanged:    c.themeChanged,
		EndSession:      c.endSession,
	}

	return viewerplugin.PluginInfo{
		Priorities: priorities,
		Methods:    methods,
		NameKey:    _nameKey,
	}, nil
}

func (c *controller) ShowPlaceholder(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	state, err := c.ensurePanel(ctx, s.UUID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	state.live = false
	state.endpoint = ""
	state.frameOrigin = ""
	theme := state.theme
	c.mu.Unlock()

	html, err := renderPlaceholder(theme.Mode())
	if err != nil {
		return fmt.Errorf("rendering placeholder: %w", err)
	}
	return c.ideGateway.SetPanelHTML(ctx, &entity.SetPanelHTMLParams{PanelID: _panelID, HTML: html})
}

func (c *controller) ShowViewer(ctx context.Context, endpoint string) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	frameOrigin, err := endpointOrigin(endpoint)
	if err != nil {
		return fmt.Errorf("invalid viewer endpoint %q: %w", endpoint, err)
	}

	if s.Remote {
		// The viewer listens on the daemon host. Resolve an address reachable
		// from the IDE window before loading it into the frame.
		result, err := c.ideGateway.ExternalizeURI(ctx, &entity.ExternalizeURIParams{URI: endpoint})
		if err != nil {
			return fmt.Errorf("externalizing viewer endpoint: %w", err)
		}
		endpoint = result.URI
		if frameOrigin, err = endpointOrigin(endpoint); err != nil {
			return fmt.Errorf("invalid externalized endpoint %q: %w", endpoint, err)
		}
	}

	state, err := c.ensurePanel(ctx, s.UUID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	state.live = true
	state.endpoint = endpoint
	state.frameOrigin = frameOrigin
	theme := state.theme
	c.mu.Unlock()

	html, err := renderViewer(endpoint, frameOrigin, theme.Mode())
	if err != nil {
		return fmt.Errorf("rendering viewer frame: %w", err)
	}
	if err := c.ideGateway.SetPanelHTML(ctx, &entity.SetPanelHTMLParams{PanelID: _panelID, HTML: html}); err != nil {
		return err
	}
	return c.ideGateway.RevealPanel(ctx, &entity.RevealPanelParams{PanelID: _panelID, PreserveFocus: true})
}

func (c *controller) Reveal(ctx context.Context) error {
	if !c.IsOpen(ctx) {
		return nil
	}
	return c.ideGateway.RevealPanel(ctx, &entity.RevealPanelParams{PanelID: _panelID, PreserveFocus: true})
}

func (c *controller) Dispose(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	c.mu.Lock()
	state, ok := c.panels[s.UUID]
	if !ok || !state.open {
		c.mu.Unlock()
		return nil
	}
	delete(c.panels, s.UUID)
	c.mu.Unlock()

	return c.ideGateway.DisposePanel(ctx, &entity.DisposePanelParams{PanelID: _panelID})
}

func (c *controller) IsOpen(ctx context.Context) bool {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.panels[s.UUID]
	return ok && state.open
}

// ensurePanel creates the panel for this session if it does not yet exist.
func (c *controller) ensurePanel(ctx context.Context, id uuid.UUID) (*panelState, error) {
	c.mu.Lock()
	state, ok := c.panels[id]
	if ok && state.open {
		c.mu.Unlock()
		return state, nil
	}
	if !ok {
		state = &panelState{}
		c.panels[id] = state
	}
	c.mu.Unlock()

	if err := c.ideGateway.CreatePanel(ctx, &entity.CreatePanelParams{
		PanelID:                 _panelID,
		Title:                   _panelTitle,
		EnableScripts:           true,
		RetainContextWhenHidden: true,
	}); err != nil {
		return nil, fmt.Errorf("creating panel: %w", err)
	}

	c.mu.Lock()
	state.open = true
	c.mu.Unlock()
	return state, nil
}

// frameMessage is the envelope used for messages relayed between the daemon and the viewer frame.
type frameMessage struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
	Mode string `json:"mode,omitempty"`
}

func (c *controller) panelMessage(ctx context.Context, params *entity.PanelMessageParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	c.mu.Lock()
	state, ok := c.panels[s.UUID]
	if !ok || !state.open {
		c.mu.Unlock()
		c.statsDropped.Inc(1)
		return nil
	}
	frameOrigin := state.frameOrigin
	theme := state.theme
	c.mu.Unlock()

	switch ClassifyMessage(frameOrigin, params) {
	case MessageSourceFrame:
		return c.handleFrameMessage(ctx, theme, params)
	case MessageSourceHost:
		// Host-originated messages are relayed into the frame unchanged.
		c.statsRelayed.Inc(1)
		return c.ideGateway.PostPanelMessage(ctx, &entity.PanelMessageParams{
			PanelID: _panelID,
			Message: params.Message,
		})
	default:
		c.statsDropped.Inc(1)
		c.logger.Warnw("dropping panel message with unrecognized origin", "origin", params.Origin)
		return nil
	}
}

func (c *controller) handleFrameMessage(ctx context.Context, theme entity.ThemeKind, params *entity.PanelMessageParams) error {
	msg := frameMessage{}
	if err := json.Unmarshal(params.Message, &msg); err != nil {
		c.statsDropped.Inc(1)
		c.logger.Warnf("dropping malformed frame message: %s", err)
		return nil
	}

	switch msg.Type {
	case _frameMsgReady:
		// The frame requests state on load. Push the current theme.
		c.statsRelayed.Inc(1)
		return c.postThemeUpdate(ctx, theme.Mode())
	case _frameMsgOpenExternal:
		u, err := url.Parse(msg.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			c.statsDropped.Inc(1)
			c.logger.Warnw("dropping openExternal request with invalid url", "url", msg.URL)
			return nil
		}
		c.statsRelayed.Inc(1)
		_, err = c.ideGateway.ShowDocument(ctx, &protocol.ShowDocumentParams{
			URI:      protocol.URI(msg.URL),
			External: true,
		})
		return err
	default:
		c.statsDropped.Inc(1)
		c.logger.Warnw("dropping unrecognized frame message", "type", msg.Type)
		return nil
	}
}

func (c *controller) panelDidDispose(ctx context.Context, params *entity.PanelDidDisposeParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.panels, s.UUID)
	return nil
}

func (c *controller) themeChanged(ctx context.Context, params *entity.ThemeChangedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	c.mu.Lock()
	state, ok := c.panels[s.UUID]
	if !ok {
		state = &panelState{}
		c.panels[s.UUID] = state
	}
	prevMode := state.theme.Mode()
	state.theme = params.Kind
	nextMode := params.Kind.Mode()
	live := state.open && state.live
	c.mu.Unlock()

	if !live || prevMode == nextMode {
		return nil
	}
	return c.postThemeUpdate(ctx, nextMode)
}

func (c *controller) endSession(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.panels, id)
	return nil
}

func (c *controller) postThemeUpdate(ctx context.Context, mode entity.ThemeMode) error {
	payload, err := json.Marshal(frameMessage{Type: _hostMsgThemeChanged, Mode: string(mode)})
	if err != nil {
		return fmt.Errorf("marshalling theme update: %w", err)
	}
	return c.ideGateway.PostPanelMessage(ctx, &entity.PanelMessageParams{
		PanelID: _panelID,
		Message: payload,
	})
}

// endpointOrigin reduces an endpoint URL to its origin for message classification.
func endpointOrigin(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint missing scheme or host")
	}
	return u.Scheme + "://" + u.Host, nil
}
