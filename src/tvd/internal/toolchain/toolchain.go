package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tracelens/trace-lsp/src/tvd/entity"
	"github.com/tracelens/trace-lsp/src/tvd/internal/executor"
	"github.com/tracelens/trace-lsp/src/tvd/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_defaultBinaryName = "traceviewer"

	_argVersion = "--version"

	// _envRemote marks the daemon as running on a remote host relative to the IDE window.
	_envRemote = "TVD_REMOTE"
	// SSH sessions imply a remote IDE window unless overridden.
	_envSSHConnection = "SSH_CONNECTION"
)

// Module provides a new Toolchain.
var Module = fx.Provide(New)

// Toolchain resolves the viewer runtime for a given toolchain configuration.
type Toolchain interface {
	// ResolveViewerBinary locates the viewer executable for the given config.
	ResolveViewerBinary(ctx context.Context, cfg entity.ToolchainConfig) (string, error)
	// ViewerVersion reports the version string printed by the resolved binary.
	ViewerVersion(ctx context.Context, bin string) (string, error)
	// LaunchEnv merges the ambient environment with config and caller supplied overrides.
	LaunchEnv(cfg entity.ToolchainConfig, extra []string) []string
	// IsRemote reports whether the daemon runs on a remote host relative to the IDE.
	IsRemote() bool
}

// Params are the parameters required to create a new Toolchain.
type Params struct {
	fx.In

	Logger   *zap.SugaredLogger
	Config   config.Provider
	Executor executor.Executor
	FS       fs.TvdFS
}

type toolchainImpl struct {
	logger     *zap.SugaredLogger
	executor   executor.Executor
	fs         fs.TvdFS
	binaryName string
}

// New creates a new Toolchain.
func New(p Params) Toolchain {
	viewerCfg := entity.ViewerConfig{}
	if err := p.Config.Get(entity.ViewerConfigKey).Populate(&viewerCfg); err != nil {
		p.Logger.Warnf("getting viewer configuration: %s", err)
	}
	binaryName := viewerCfg.BinaryName
	if binaryName == "" {
		binaryName = _defaultBinaryName
	}

	return &toolchainImpl{
		logger:     p.Logger,
		executor:   p.Executor,
		fs:         p.FS,
		binaryName: binaryName,
	}
}

// ResolveViewerBinary probes the configured toolchain bin directory, falling back to PATH lookup.
func (c *toolchainImpl) ResolveViewerBinary(ctx context.Context, cfg entity.ToolchainConfig) (string, error) {
	if cfg.BinPath != "" {
		candidate := filepath.Join(cfg.BinPath, c.binaryName)
		exists, err := c.fs.FileExists(candidate)
		if err != nil {
			return "", fmt.Errorf("probing viewer binary %q: %w", candidate, err)
		}
		if exists {
			return candidate, nil
		}
		c.logger.Warnf("viewer binary not found at %q, falling back to PATH", candidate)
	}

	resolved, err := c.fs.LookPath(c.binaryName)
	if err != nil {
		return "", fmt.Errorf("resolving viewer binary %q: %w", c.binaryName, err)
	}
	return resolved, nil
}

// ViewerVersion runs the binary with --version and returns its trimmed output.
func (c *toolchainImpl) ViewerVersion(ctx context.Context, bin string) (string, error) {
	stdout, stderr, _, err := c.executor.Run(exec.Command(bin, _argVersion))
	if err != nil {
		return "", fmt.Errorf("probing viewer version: %w", err)
	}
	version := strings.TrimSpace(stdout)
	if version == "" {
		// Some toolchains print version information on stderr.
		version = strings.TrimSpace(stderr)
	}
	return version, nil
}

func (c *toolchainImpl) LaunchEnv(cfg entity.ToolchainConfig, extra []string) []string {
	env := os.Environ()
	env = append(env, cfg.Env...)
	env = append(env, extra...)
	return env
}

func (c *toolchainImpl) IsRemote() bool {
	if v := os.Getenv(_envRemote); v != "" {
		return v == "1" || v == "true"
	}
	return os.Getenv(_envSSHConnection) != ""
}
