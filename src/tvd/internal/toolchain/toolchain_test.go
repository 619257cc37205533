package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	"github.com/tracelens/trace-lsp/src/tvd/internal/executor/executormock"
	"github.com/tracelens/trace-lsp/src/tvd/internal/fs/fsmock"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name     string
		cfg      map[string]interface{}
		expected string
	}{
		{
			name:     "configured binary name",
			cfg:      map[string]interface{}{"viewer": map[string]interface{}{"binaryName": "mytracer"}},
			expected: "mytracer",
		},
		{
			name:     "default binary name",
			cfg:      map[string]interface{}{},
			expected: _defaultBinaryName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := config.NewStaticProvider(tt.cfg)
			assert.NoError(t, err)

			result := New(Params{
				Logger:   zap.NewNop().Sugar(),
				Config:   provider,
				FS:       fsmock.NewMockTvdFS(ctrl),
				Executor: executormock.NewMockExecutor(ctrl),
			})
			assert.Equal(t, tt.expected, result.(*toolchainImpl).binaryName)
		})
	}
}

func TestResolveViewerBinary(t *testing.T) {
	ctx := context.Background()

	t.Run("found in configured bin path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockTvdFS(ctrl)
		fsMock.EXPECT().FileExists("/opt/tracer/bin/traceviewer").Return(true, nil)

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), fs: fsMock, binaryName: "traceviewer"}
		result, err := c.ResolveViewerBinary(ctx, entity.ToolchainConfig{BinPath: "/opt/tracer/bin"})
		assert.NoError(t, err)
		assert.Equal(t, "/opt/tracer/bin/traceviewer", result)
	})

	t.Run("missing from bin path, found on PATH", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockTvdFS(ctrl)
		fsMock.EXPECT().FileExists("/opt/tracer/bin/traceviewer").Return(false, nil)
		fsMock.EXPECT().LookPath("traceviewer").Return("/usr/local/bin/traceviewer", nil)

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), fs: fsMock, binaryName: "traceviewer"}
		result, err := c.ResolveViewerBinary(ctx, entity.ToolchainConfig{BinPath: "/opt/tracer/bin"})
		assert.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/traceviewer", result)
	})

	t.Run("no bin path, PATH lookup only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockTvdFS(ctrl)
		fsMock.EXPECT().LookPath("traceviewer").Return("/usr/local/bin/traceviewer", nil)

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), fs: fsMock, binaryName: "traceviewer"}
		result, err := c.ResolveViewerBinary(ctx, entity.ToolchainConfig{})
		assert.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/traceviewer", result)
	})

	t.Run("probe error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockTvdFS(ctrl)
		fsMock.EXPECT().FileExists(gomock.Any()).Return(false, errors.New("permission denied"))

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), fs: fsMock, binaryName: "traceviewer"}
		_, err := c.ResolveViewerBinary(ctx, entity.ToolchainConfig{BinPath: "/opt/tracer/bin"})
		assert.Error(t, err)
	})

	t.Run("not found anywhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockTvdFS(ctrl)
		fsMock.EXPECT().LookPath("traceviewer").Return("", errors.New("executable file not found in $PATH"))

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), fs: fsMock, binaryName: "traceviewer"}
		_, err := c.ResolveViewerBinary(ctx, entity.ToolchainConfig{})
		assert.Error(t, err)
	})
}

func TestViewerVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("version on stdout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Run(gomock.Any()).DoAndReturn(func(cmd *exec.Cmd) (string, string, int, error) {
			assert.Equal(t, []string{"/usr/local/bin/traceviewer", _argVersion}, cmd.Args)
			return "traceviewer 1.45.0\n", "", 0, nil
		})

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), executor: execMock, binaryName: "traceviewer"}
		version, err := c.ViewerVersion(ctx, "/usr/local/bin/traceviewer")
		assert.NoError(t, err)
		assert.Equal(t, "traceviewer 1.45.0", version)
	})

	t.Run("version on stderr", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Run(gomock.Any()).Return("", "traceviewer 1.45.0\n", 0, nil)

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), executor: execMock, binaryName: "traceviewer"}
		version, err := c.ViewerVersion(ctx, "/usr/local/bin/traceviewer")
		assert.NoError(t, err)
		assert.Equal(t, "traceviewer 1.45.0", version)
	})

	t.Run("probe failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		execMock := executormock.NewMockExecutor(ctrl)
		execMock.EXPECT().Run(gomock.Any()).Return("", "", 1, errors.New("exit status 1"))

		c := &toolchainImpl{logger: zap.NewNop().Sugar(), executor: execMock, binaryName: "traceviewer"}
		_, err := c.ViewerVersion(ctx, "/usr/local/bin/traceviewer")
		assert.Error(t, err)
	})
}

func TestLaunchEnv(t *testing.T) {
	c := &toolchainImpl{logger: zap.NewNop().Sugar()}

	cfg := entity.ToolchainConfig{Env: []string{"TRACER_HOME=/opt/tracer"}}
	result := c.LaunchEnv(cfg, []string{"TVD_SESSION=abc"})

	assert.Contains(t, result, "TRACER_HOME=/opt/tracer")
	assert.Contains(t, result, "TVD_SESSION=abc")
	// Config entries come after the ambient environment so they take precedence.
	assert.Greater(t, len(result), 2)
}

func TestIsRemote(t *testing.T) {
	c := &toolchainImpl{logger: zap.NewNop().Sugar()}

	t.Run("explicit override", func(t *testing.T) {
		t.Setenv(_envRemote, "1")
		assert.True(t, c.IsRemote())
	})

	t.Run("explicit override disabled", func(t *testing.T) {
		t.Setenv(_envRemote, "false")
		t.Setenv(_envSSHConnection, "10.0.0.1 50022 10.0.0.2 22")
		assert.False(t, c.IsRemote())
	})

	t.Run("ssh session", func(t *testing.T) {
		t.Setenv(_envRemote, "")
		t.Setenv(_envSSHConnection, "10.0.0.1 50022 10.0.0.2 22")
		assert.True(t, c.IsRemote())
	})

	t.Run("local", func(t *testing.T) {
		t.Setenv(_envRemote, "")
		t.Setenv(_envSSHConnection, "")
		assert.False(t, c.IsRemote())
	})
}
