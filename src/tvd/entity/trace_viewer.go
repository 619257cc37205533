// Package entity contains the domain logic for the tvd service.
package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// ViewerConfigKey is the key that contains trace viewer specific configuration.
const ViewerConfigKey = "viewer"

// SettingsConfigKey is the key that contains the default viewer settings.
const SettingsConfigKey = "settings"

// Session entity representing a single IDE session.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
	WorkspaceRoot    string                     `json:"workspaceRoot" zap:"workspaceRoot"`
	Env              []string                   `json:"-" zap:"-"`
	ViewerEnabled    bool                       `json:"viewerEnabled" zap:"viewerEnabled"`
	// Remote is set when the IDE window is attached to a remote host, in
	// which case viewer endpoints must be externalized before use.
	Remote bool `json:"remote" zap:"remote"`
}

// ToolchainVersion is the numeric version of the tracer toolchain that produced an artifact.
type ToolchainVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// ParseToolchainVersion parses versions of the form "1.45" or "1.45.2".
// Patch segments beyond minor are ignored for gating purposes.
func ParseToolchainVersion(s string) (ToolchainVersion, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	if len(parts) < 2 {
		return ToolchainVersion{}, fmt.Errorf("invalid toolchain version %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return ToolchainVersion{}, fmt.Errorf("invalid toolchain version %q: %w", s, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return ToolchainVersion{}, fmt.Errorf("invalid toolchain version %q: %w", s, err)
	}
	return ToolchainVersion{Major: major, Minor: minor}, nil
}

// AtLeast reports whether v is the same or a later version than other.
func (v ToolchainVersion) AtLeast(other ToolchainVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// String implements fmt.Stringer.
func (v ToolchainVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ToolchainConfig describes the toolchain to be used for a single visualize request.
// It is supplied per call and read-only for the duration of the request.
type ToolchainConfig struct {
	// BinPath is the path to the toolchain binary directory, or empty to resolve from PATH.
	BinPath string `json:"binPath"`
	// WorkDir is the working directory for the spawned viewer.
	WorkDir string `json:"workDir"`
	// Version of the toolchain that produced the artifact.
	Version ToolchainVersion `json:"version"`
	// Env contains additional environment entries for the spawned viewer.
	Env []string `json:"env,omitempty"`
}

// ViewerConfig is the configuration block gating viewer features.
type ViewerConfig struct {
	// BinaryName is the name of the viewer executable within the toolchain.
	BinaryName string `yaml:"binaryName"`
	// MinToolchainVersion gates the visualization feature overall.
	MinToolchainVersion string `yaml:"minToolchainVersion"`
	// MinEmbedVersion gates embedding the viewer in an IDE panel.
	MinEmbedVersion string `yaml:"minEmbedVersion"`
}

// ViewerSettings are the user-controlled viewer settings observable through the settings repository.
type ViewerSettings struct {
	// ShowViewer enables the visualization feature.
	ShowViewer bool `yaml:"showViewer" json:"showViewer"`
	// EmbedViewer selects embedded mode over a standalone viewer window.
	EmbedViewer bool `yaml:"embedViewer" json:"embedViewer"`
}

// SettingsConfig is the configuration block seeding the settings repository.
type SettingsConfig struct {
	// Defaults seed the settings before any IDE or file override arrives.
	Defaults ViewerSettings `yaml:"defaults"`
	// OverrideFile is an optional YAML file watched for user overrides.
	OverrideFile string `yaml:"overrideFile"`
}

// ThemeKind is the color theme classification reported by the IDE.
type ThemeKind int

const (
	// ThemeKindLight is a light color theme.
	ThemeKindLight ThemeKind = 1
	// ThemeKindDark is a dark color theme.
	ThemeKindDark ThemeKind = 2
	// ThemeKindHighContrast is a dark high contrast theme.
	ThemeKindHighContrast ThemeKind = 3
	// ThemeKindHighContrastLight is a light high contrast theme.
	ThemeKindHighContrastLight ThemeKind = 4
)

// ThemeMode is the two-state model pushed into the embedded viewer.
type ThemeMode string

const (
	// ThemeModeDark renders the viewer in dark mode.
	ThemeModeDark ThemeMode = "dark"
	// ThemeModeLight renders the viewer in light mode.
	ThemeModeLight ThemeMode = "light"
)

// Mode collapses the IDE theme kind into the viewer's two-state model.
func (k ThemeKind) Mode() ThemeMode {
	switch k {
	case ThemeKindDark, ThemeKindHighContrast:
		return ThemeModeDark
	default:
		return ThemeModeLight
	}
}
