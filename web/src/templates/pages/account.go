package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/forms"
	"github.com/nfrund/accounttabs/internal/view/dto/account"
)

// Values of the data-tab attribute. Content panes use "<name>-tab" as id.
const (
	paneLogin    = "login"
	paneRegister = "register"
	paneReset    = "lostpassword"
)

func paneFor(t domain.Tab) string {
	switch t {
	case domain.TabRegister:
		return paneRegister
	case domain.TabResetRequest, domain.TabResetConfirm:
		return paneReset
	default:
		return paneLogin
	}
}

// AccountPage renders the tabbed login, register and reset forms.
func AccountPage(data account.PageData) cmp.Node {
	active := paneFor(data.State.ActiveTab)
	showReset := data.State.ResetTabVisible || active == paneReset

	return g.Div(
		g.Class("custom-wc-login-registration-container"),
		Notices(data.Notices),
		g.Div(
			g.Class("custom-wc-login-registration-tabs"),
			tabHeader(paneLogin, "Login", active, false),
			tabHeader(paneRegister, "Register", active, false),
			tabHeader(paneReset, "Reset Password", active, showReset),
		),
		tabPane(paneLogin, active, loginForm(data)),
		tabPane(paneRegister, active, registerForm(data)),
		tabPane(paneReset, active,
			cmp.If(data.State.ActiveTab == domain.TabResetConfirm, resetConfirmForm(data)),
			cmp.If(data.State.ActiveTab != domain.TabResetConfirm, resetRequestForm(data)),
		),
	)
}

func tabHeader(name, label, active string, revealed bool) cmp.Node {
	class := "custom-wc-tab"
	if name == active {
		class += " active"
	}
	if revealed {
		class += " show-reset-tab"
	}
	return g.Div(
		g.Class(class),
		g.Data("tab", name),
		cmp.Text(label),
	)
}

func tabPane(name, active string, children ...cmp.Node) cmp.Node {
	class := "custom-wc-tab-content"
	if name == active {
		class += " active"
	}
	return g.Div(
		g.Class(class),
		g.ID(name+"-tab"),
		cmp.Group(children),
	)
}

// Notices renders error notices and informational notices as separate lists.
func Notices(notices []domain.Notice) cmp.Node {
	var errs, infos []cmp.Node
	for _, n := range notices {
		item := g.Li(cmp.Text(n.Message))
		if n.Severity == domain.SeverityError {
			errs = append(errs, item)
		} else {
			infos = append(infos, item)
		}
	}
	return cmp.Group{
		cmp.If(len(errs) > 0, g.Ul(g.Class("woocommerce-error"), g.Role("alert"), cmp.Group(errs))),
		cmp.If(len(infos) > 0, g.Ul(g.Class("woocommerce-message"), g.Role("status"), cmp.Group(infos))),
	}
}

func hidden(name, value string) cmp.Node {
	return g.Input(g.Type("hidden"), g.Name(name), g.Value(value))
}

func requiredLabel(forID, text string) cmp.Node {
	return g.Label(g.For(forID), cmp.Text(text), cmp.Raw("&nbsp;"), g.Span(g.Class("required"), cmp.Text("*")))
}

func submitRow(name, value, label string, extra ...cmp.Node) cmp.Node {
	return g.P(
		g.Class("form-row"),
		cmp.Group(extra),
		g.Button(g.Type("submit"), g.Class("woocommerce-button button"), g.Name(name), g.Value(value), cmp.Text(label)),
	)
}

func switchLink(class, wrapper, text string) cmp.Node {
	return g.P(g.Class(wrapper), g.A(g.Href("#"), g.Class(class), cmp.Text(text)))
}

func loginForm(data account.PageData) cmp.Node {
	return g.Form(
		g.Class("wc-login-form"), g.Method("post"), g.Action(data.ActionURL),
		g.P(
			g.Class("form-row"),
			requiredLabel("username", "Username or email address"),
			g.Input(g.Type("text"), g.Class("input-text"), g.Name(forms.FieldUsername), g.ID("username"),
				g.AutoComplete("username"), g.Required()),
		),
		g.P(
			g.Class("form-row"),
			requiredLabel("password", "Password"),
			g.Input(g.Type("password"), g.Class("input-text"), g.Name(forms.FieldPassword), g.ID("password"),
				g.AutoComplete("current-password"), g.Required()),
		),
		g.P(
			g.Class("form-row remember-me"),
			g.Label(
				g.Class("woocommerce-form__label"),
				g.Input(g.Class("woocommerce-form__input"), g.Name(forms.FieldRememberMe), g.Type("checkbox"),
					g.ID("rememberme"), g.Value("forever")),
				g.Span(cmp.Text("Remember me")),
			),
		),
		submitRow("login", "Log in", "Sign In",
			hidden(forms.NonceFieldLogin, data.Nonces.Login),
			hidden(forms.MarkerLogin, "1"),
		),
		switchLink("switch-to-reset", "lost-password", "Forgot your password?"),
		switchLink("switch-to-register", "no-account", "Don't have an account? Create one now"),
	)
}

func registerForm(data account.PageData) cmp.Node {
	return g.Form(
		g.Class("wc-register-form"), g.Method("post"), g.Action(data.ActionURL),
		g.P(
			g.Class("form-row"),
			requiredLabel("reg_email", "Email address"),
			g.Input(g.Type("email"), g.Class("input-text"), g.Name(forms.FieldEmail), g.ID("reg_email"),
				g.AutoComplete("email"), g.Required()),
		),
		cmp.If(!data.GeneratePassword, g.P(
			g.Class("form-row"),
			requiredLabel("reg_password", "Password"),
			g.Input(g.Type("password"), g.Class("input-text"), g.Name(forms.FieldPassword), g.ID("reg_password"),
				g.AutoComplete("new-password"), g.Required()),
		)),
		cmp.If(data.GeneratePassword, g.P(cmp.Text("A password will be sent to your email address."))),
		privacyNote(data.PrivacyPolicyURL),
		submitRow("register", "Register", "Register",
			hidden(forms.NonceFieldRegister, data.Nonces.Register),
			hidden(forms.MarkerRegister, "1"),
		),
		switchLink("switch-to-login", "has-account", "Already have an account? Sign in"),
	)
}

func privacyNote(policyURL string) cmp.Node {
	text := "Your personal data will be used to support your experience throughout this website, to manage access to your account, and for other purposes described in our "
	if policyURL == "" {
		return g.P(g.Class("form-row privacy-policy-text"), cmp.Text(text+"privacy policy."))
	}
	return g.P(
		g.Class("form-row privacy-policy-text"),
		cmp.Text(text),
		g.A(g.Href(policyURL), g.Class("woocommerce-privacy-policy-link"), g.Target("_blank"), cmp.Text("privacy policy")),
		cmp.Text("."),
	)
}

func resetRequestForm(data account.PageData) cmp.Node {
	return g.Form(
		g.Class("wc-lost-password-form"), g.Method("post"), g.Action(data.ActionURL),
		g.P(g.Class("lost-password-message"),
			cmp.Text("Lost your password? Please enter your username or email address. You will receive a link to create a new password via email.")),
		g.P(
			g.Class("form-row"),
			requiredLabel("user_login", "Username or email address"),
			g.Input(g.Class("input-text"), g.Type("text"), g.Name(forms.FieldUserLogin), g.ID("user_login"),
				g.AutoComplete("username"), g.Required()),
		),
		submitRow("lost_password", "Reset password", "Reset Password",
			hidden(forms.NonceFieldLostPassword, data.Nonces.LostPassword),
			hidden(forms.MarkerLostPassword, "1"),
		),
		switchLink("switch-to-login", "back-to-login", "Back to login"),
	)
}

func resetConfirmForm(data account.PageData) cmp.Node {
	return g.Form(
		g.Class("wc-reset-password-form"), g.Method("post"), g.Action(data.ActionURL),
		g.P(g.Class("reset-password-message"), cmp.Text("Enter your new password below")),
		g.P(
			g.Class("form-row"),
			requiredLabel("password_1", "New password"),
			g.Input(g.Type("password"), g.Class("input-text"), g.Name(forms.FieldPassword1), g.ID("password_1"),
				g.AutoComplete("new-password"), g.Required()),
		),
		g.P(
			g.Class("form-row"),
			requiredLabel("password_2", "Confirm new password"),
			g.Input(g.Type("password"), g.Class("input-text"), g.Name(forms.FieldPassword2), g.ID("password_2"),
				g.AutoComplete("new-password"), g.Required()),
		),
		hidden(forms.FieldResetKey, data.ResetKey),
		hidden(forms.FieldResetLogin, data.ResetLogin),
		submitRow("reset_password", "Reset password", "Reset Password",
			hidden(forms.NonceFieldResetPassword, data.Nonces.ResetPassword),
			hidden(forms.MarkerResetPassword, "1"),
		),
		switchLink("switch-to-login", "back-to-login", "Back to login"),
	)
}
