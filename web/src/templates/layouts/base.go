package layouts

import (
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Base wraps page content in the document shell. Links and forms inside the
// body are htmx-boosted.
func Base(title, siteName string, content cmp.Node) cmp.Node {
	return g.Doctype(
		g.HTML(
			g.Lang("en"),
			g.Head(
				g.Meta(g.Charset("utf-8")),
				g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
				g.TitleEl(cmp.Text(CalculateTitle(title, siteName))),
				g.Link(g.Rel("stylesheet"), g.Href("/static/account.css")),
				g.Script(g.Src("https://unpkg.com/htmx.org@2.0.4"), g.Defer()),
				g.Script(g.Src("/static/account.js"), g.Defer()),
			),
			g.Body(
				g.Class("woocommerce-account"),
				hx.Boost("true"),
				g.Main(content),
			),
		),
	)
}
