package factory

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	viewerplugin "github.com/tracelens/trace-lsp/src/tvd/entity/viewer-plugin"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// ToolchainConfig is a factory for a toolchain configuration at the given version.
func ToolchainConfig(version string) entity.ToolchainConfig {
	v, err := entity.ParseToolchainVersion(version)
	if err != nil {
		panic(err)
	}
	return entity.ToolchainConfig{
		BinPath: "/opt/tracer/bin",
		WorkDir: "/home/user/project",
		Version: v,
	}
}

// PluginInfoValid is a factory for PluginInfo that passes validation.
func PluginInfoValid(id int) viewerplugin.PluginInfo {
	sampleExecuteCommandFunc := func(ctx context.Context, params *protocol.ExecuteCommandParams) error {
		return nil
	}
	return viewerplugin.PluginInfo{
		Priorities: map[string]viewerplugin.Priority{
			protocol.MethodWorkspaceExecuteCommand: viewerplugin.PriorityHigh,
		},
		Methods: &viewerplugin.Methods{
			PluginNameKey: fmt.Sprintf("test-plugin-%v", id),

			ExecuteCommand: sampleExecuteCommandFunc,
		},
		NameKey: fmt.Sprintf("test-plugin-%v", id),
	}
}

// PluginInfoInvalid is a factory for PluginInfo that fails validation.
func PluginInfoInvalid(id int) viewerplugin.PluginInfo {
	return viewerplugin.PluginInfo{
		Priorities: map[string]viewerplugin.Priority{
			protocol.MethodWorkspaceExecuteCommand: viewerplugin.PriorityHigh,
		},
		Methods: &viewerplugin.Methods{},
		NameKey: fmt.Sprintf("test-plugin-%v", id),
	}
}
