package rendering

import (
	"bytes"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	cmp "maragu.dev/gomponents"
)

// NodeRenderer implements echo.Renderer for gomponents nodes. Handlers call
// c.Render(status, "", node); the template name is ignored.
type NodeRenderer struct{}

// NewNodeRenderer creates a NodeRenderer.
func NewNodeRenderer() *NodeRenderer {
	return &NodeRenderer{}
}

// Render implements echo.Renderer. The node is rendered into a buffer first
// so a failed render never leaves a half-written page.
func (r *NodeRenderer) Render(w io.Writer, _ string, data interface{}, c echo.Context) error {
	node, ok := data.(cmp.Node)
	if !ok {
		return fmt.Errorf("unsupported component type: %T", data)
	}
	if c != nil && c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}

	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return fmt.Errorf("failed to render component: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
