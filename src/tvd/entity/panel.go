package entity

import "encoding/json"

// Custom JSON-RPC methods exchanged with the IDE extension outside of the LSP protocol.
const (
	// MethodPanelMessage carries a message posted by panel content to the daemon.
	MethodPanelMessage = "tvd/panel/message"
	// MethodPanelDidDispose notifies the daemon that the user closed a panel.
	MethodPanelDidDispose = "tvd/panel/didDispose"
	// MethodThemeChanged notifies the daemon of an IDE color theme change.
	MethodThemeChanged = "tvd/themeChanged"
)

// Outbound panel methods served by the IDE extension on behalf of the daemon.
const (
	// MethodCreatePanel requests creation of a webview panel in the IDE.
	MethodCreatePanel = "tvd/panel/create"
	// MethodSetPanelHTML replaces the full HTML content of a panel.
	MethodSetPanelHTML = "tvd/panel/setHtml"
	// MethodRevealPanel brings an existing panel into view.
	MethodRevealPanel = "tvd/panel/reveal"
	// MethodPostPanelMessage posts a message to panel content.
	MethodPostPanelMessage = "tvd/panel/postMessage"
	// MethodDisposePanel closes a panel.
	MethodDisposePanel = "tvd/panel/dispose"
	// MethodExternalizeURI resolves a daemon-local URI to one reachable from the IDE window.
	MethodExternalizeURI = "tvd/window/externalizeUri"
)

// CreatePanelParams are the parameters of a tvd/panel/create call.
type CreatePanelParams struct {
	PanelID string `json:"panelId"`
	Title   string `json:"title"`
	// EnableScripts allows panel content to execute JavaScript.
	EnableScripts bool `json:"enableScripts"`
	// RetainContextWhenHidden keeps panel state alive while not visible.
	RetainContextWhenHidden bool `json:"retainContextWhenHidden"`
}

// SetPanelHTMLParams are the parameters of a tvd/panel/setHtml notification.
type SetPanelHTMLParams struct {
	PanelID string `json:"panelId"`
	HTML    string `json:"html"`
}

// RevealPanelParams are the parameters of a tvd/panel/reveal notification.
type RevealPanelParams struct {
	PanelID string `json:"panelId"`
	// PreserveFocus reveals the panel without stealing keyboard focus.
	PreserveFocus bool `json:"preserveFocus"`
}

// DisposePanelParams are the parameters of a tvd/panel/dispose notification.
type DisposePanelParams struct {
	PanelID string `json:"panelId"`
}

// ExternalizeURIParams are the parameters of a tvd/window/externalizeUri call.
type ExternalizeURIParams struct {
	URI string `json:"uri"`
}

// ExternalizeURIResult carries the resolved URI of a tvd/window/externalizeUri call.
type ExternalizeURIResult struct {
	URI string `json:"uri"`
}

// PanelMessageParams are the parameters of a tvd/panel/message notification.
type PanelMessageParams struct {
	PanelID string `json:"panelId"`
	// Origin of the posting context. Messages originating inside the embedded
	// frame carry the frame's origin; host-originated messages leave it empty.
	Origin  string          `json:"origin,omitempty"`
	Message json.RawMessage `json:"message"`
}

// PanelDidDisposeParams are the parameters of a tvd/panel/didDispose notification.
type PanelDidDisposeParams struct {
	PanelID string `json:"panelId"`
}

// ThemeChangedParams are the parameters of a tvd/themeChanged notification.
type ThemeChangedParams struct {
	Kind ThemeKind `json:"kind"`
}
