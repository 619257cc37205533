package tvddaemon

import (
	"context"

	"github.com/tracelens/trace-lsp/src/tvd/entity"
	viewerplugin "github.com/tracelens/trace-lsp/src/tvd/entity/viewer-plugin"
)

func (c *controller) PanelMessage(ctx context.Context, params *entity.PanelMessageParams) error {
	call := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.PanelMessage(ctx, params); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	return c.executePluginMethods(ctx, entity.MethodPanelMessage, call, call)
}

func (c *controller) PanelDidDispose(ctx context.Context, params *entity.PanelDidDisposeParams) error {
	call := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.PanelDidDispose(ctx, params); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	return c.executePluginMethods(ctx, entity.MethodPanelDidDispose, call, call)
}

func (c *controller) ThemeChanged(ctx context.Context, params *entity.ThemeChangedParams) error {
	call := func(ctx context.Context, m *viewerplugin.Methods) {
		if err := m.ThemeChanged(ctx, params); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	return c.executePluginMethods(ctx, entity.MethodThemeChanged, call, call)
}
