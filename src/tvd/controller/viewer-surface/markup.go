package viewersurface

import (
	"html/template"
	"strings"

	"github.com/tracelens/trace-lsp/src/tvd/entity"
)

// Panel HTML is regenerated in full on every content change. The host script
// bridges the IDE webview messaging API and the embedded frame, tagging frame
// messages with their origin so the daemon can classify them.

var _placeholderTmpl = template.Must(template.New("placeholder").Parse(`<!DOCTYPE html>
<html class="{{.Mode}}">
<head>
<meta charset="utf-8">
<style>
html.dark body { background: #1e1e1e; color: #cccccc; }
html.light body { background: #ffffff; color: #333333; }
body { font-family: sans-serif; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; }
</style>
</head>
<body>
<p>Starting trace viewer&hellip;</p>
</body>
</html>
`))

var _viewerTmpl = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html class="{{.Mode}}">
<head>
<meta charset="utf-8">
<style>
html, body, iframe { height: 100%; width: 100%; margin: 0; border: 0; }
</style>
</head>
<body>
<iframe id="viewer" src="{{.Endpoint}}" allow="clipboard-read; clipboard-write"></iframe>
<script>
(function () {
	const api = acquireVsCodeApi();
	const frame = document.getElementById("viewer");
	const frameOrigin = "{{.FrameOrigin}}";
	frame.addEventListener("load", function () {
		// Seed the frame with the current theme; later changes arrive as
		// themeChanged messages relayed from the host.
		frame.contentWindow.postMessage({ type: "themeChanged", mode: "{{.Mode}}" }, frameOrigin);
	});
	window.addEventListener("message", function (event) {
		if (event.origin === frameOrigin) {
			var data = event.data || {};
			if (data.type === "keydown" && data.init) {
				// Re-dispatch keyboard events so host-level shortcuts keep
				// working while focus is inside the frame.
				window.dispatchEvent(new KeyboardEvent("keydown", data.init));
				return;
			}
			api.postMessage({ origin: event.origin, message: event.data });
		} else if (event.data && event.data.message !== undefined) {
			frame.contentWindow.postMessage(event.data.message, frameOrigin);
		}
	});
})();
</script>
</body>
</html>
`))

type placeholderData struct {
	Mode entity.ThemeMode
}

type viewerData struct {
	Mode        entity.ThemeMode
	Endpoint    string
	FrameOrigin string
}

func renderPlaceholder(mode entity.ThemeMode) (string, error) {
	var b strings.Builder
	if err := _placeholderTmpl.Execute(&b, placeholderData{Mode: mode}); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderViewer(endpoint, frameOrigin string, mode entity.ThemeMode) (string, error) {
	var b strings.Builder
	if err := _viewerTmpl.Execute(&b, viewerData{
		Mode:        mode,
		Endpoint:    endpoint,
		FrameOrigin: frameOrigin,
	}); err != nil {
		return "", err
	}
	return b.String(), nil
}
