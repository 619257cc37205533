package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/tracelens/trace-lsp/src/tvd/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// RequestToInitializeParams maps the parameters from a jsonrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsonrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToExecuteCommandParams maps the parameters from a jsonrpc2.Request into protocol.ExecuteCommandParams.
func RequestToExecuteCommandParams(req jsonrpc2.Request) (*protocol.ExecuteCommandParams, error) {
	params := protocol.ExecuteCommandParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeConfigurationParams maps the parameters from a jsonrpc2.Request into protocol.DidChangeConfigurationParams.
func RequestToDidChangeConfigurationParams(req jsonrpc2.Request) (*protocol.DidChangeConfigurationParams, error) {
	params := protocol.DidChangeConfigurationParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToPanelMessageParams maps the parameters from a jsonrpc2.Request into entity.PanelMessageParams.
func RequestToPanelMessageParams(req jsonrpc2.Request) (*entity.PanelMessageParams, error) {
	params := entity.PanelMessageParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToPanelDidDisposeParams maps the parameters from a jsonrpc2.Request into entity.PanelDidDisposeParams.
func RequestToPanelDidDisposeParams(req jsonrpc2.Request) (*entity.PanelDidDisposeParams, error) {
	params := entity.PanelDidDisposeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToThemeChangedParams maps the parameters from a jsonrpc2.Request into entity.ThemeChangedParams.
func RequestToThemeChangedParams(req jsonrpc2.Request) (*entity.ThemeChangedParams, error) {
	params := entity.ThemeChangedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}

// InitializeResultAppendExecuteCommandProvider appends ExecuteCommandOptions into an existing InitializeResult.
// Commands must be unique across all plugins, and this function will fail if a duplicate is found.
func InitializeResultAppendExecuteCommandProvider(initResult *protocol.InitializeResult, newOptions *protocol.ExecuteCommandOptions) error {
	if initResult.Capabilities.ExecuteCommandProvider == nil {
		initResult.Capabilities.ExecuteCommandProvider = newOptions
		return nil
	}

	if newOptions.Commands == nil {
		return nil
	}

	if initResult.Capabilities.ExecuteCommandProvider.Commands == nil {
		// If the current Commands is nil, just set it to the new value.
		initResult.Capabilities.ExecuteCommandProvider.Commands = newOptions.Commands
	} else {
		// Otherwise, combine with existing Commands and fail on duplicate.
		seen := map[string]interface{}{}
		combined := []string{}
		for _, cmd := range initResult.Capabilities.ExecuteCommandProvider.Commands {
			seen[cmd] = struct{}{}
			combined = append(combined, cmd)
		}
		for _, cmd := range newOptions.Commands {
			if _, ok := seen[cmd]; ok {
				return fmt.Errorf("command %q in ExecuteCommandOptions already exists and cannot be duplicated", cmd)
			}
			combined = append(combined, cmd)
		}
		initResult.Capabilities.ExecuteCommandProvider.Commands = combined
	}

	return nil
}
