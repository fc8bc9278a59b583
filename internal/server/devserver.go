package server

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// reloadScript is the hot-reload client injected into blueprints in
// development mode. It reconnects to the reload socket and reloads the
// page on a full_reload message.
const reloadScript = `(function () {
	var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
	ws.onmessage = function (event) {
		var message = JSON.parse(event.data);
		if (message.type === "full_reload") {
			window.location.reload();
		}
	};
})();`

// DevServer is the development collaborator supplying the hot-reload
// transform applied to blueprint output.
type DevServer struct {
	hub *Hub
}

// NewDevServer creates a development server bound to the reload hub.
func NewDevServer(hub *Hub) *DevServer {
	return &DevServer{hub: hub}
}

// Transform injects the hot-reload client script at the end of the
// document body.
func (d *DevServer) Transform(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing blueprint markup: %w", err)
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return markup + "<script>" + reloadScript + "</script>", nil
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: reloadScript})
	body.AppendChild(script)

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("rendering transformed markup: %w", err)
	}
	return buf.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}
