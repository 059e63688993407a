package email

import (
	"bytes"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Message is a rendered email ready for an EmailSender.
type Message struct {
	Subject string
	HTML    string
}

// NewAccountMessage tells a new customer their generated password.
func NewAccountMessage(siteName, username, password, accountURL string) (Message, error) {
	body, err := render(h.Div(
		h.P(g.Textf("Thanks for creating an account on %s. Your username is ", siteName), h.Strong(g.Text(username)), g.Text(".")),
		h.P(g.Text("Your password has been automatically generated: "), h.Strong(g.Text(password))),
		h.P(g.Text("You can access your account area to view orders, change your password, and more at: "),
			h.A(h.Href(accountURL), g.Text(accountURL))),
	))
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: "Your " + siteName + " account has been created!", HTML: body}, nil
}

// ResetLinkMessage carries the link to the confirm-reset form.
func ResetLinkMessage(siteName, username, resetURL string) (Message, error) {
	body, err := render(h.Div(
		h.P(g.Textf("Someone has requested a new password for the following account on %s:", siteName)),
		h.P(g.Text("Username: "), h.Strong(g.Text(username))),
		h.P(g.Text("If you didn't make this request, just ignore this email. If you'd like to proceed:")),
		h.P(h.A(h.Href(resetURL), g.Text("Click here to reset your password"))),
	))
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: "Password Reset Request for " + siteName, HTML: body}, nil
}

func render(n g.Node) (string, error) {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
