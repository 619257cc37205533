package gateway

import (
	ideclient "github.com/tracelens/trace-lsp/src/tvd/gateway/ide-client"
	"go.uber.org/fx"
)

// Module provides all gateways used to send outbound calls and notifications.
var Module = fx.Options(
	fx.Provide(ideclient.New),
)
