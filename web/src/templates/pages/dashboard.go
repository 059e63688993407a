package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/accounttabs/internal/view/dto/account"
)

// Dashboard is shown to logged-in customers instead of the forms.
func Dashboard(data account.DashboardData) cmp.Node {
	return g.Div(
		g.Class("custom-wc-login-registration-container woocommerce-MyAccount-content"),
		Notices(data.Notices),
		g.P(
			cmp.Text("Hello "), g.Strong(cmp.Text(data.Username)),
			cmp.Textf(" (signed in as %s).", data.Email),
		),
		g.Form(
			g.Method("post"), g.Action(data.LogoutURL),
			g.P(g.Class("form-row"),
				g.Button(g.Type("submit"), g.Class("woocommerce-button button"), cmp.Text("Log out")),
			),
		),
	)
}
