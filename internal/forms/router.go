package forms

import (
	"context"
	"net/url"
	"strings"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/logging"
	"github.com/nfrund/accounttabs/internal/nonce"
)

// NonceVerifier checks an anti-forgery token for an action context.
type NonceVerifier interface {
	Verify(token, action, seed string) bool
}

// Submission is one inbound POST: its form values and the per-browser seed
// its anti-forgery tokens must be bound to.
type Submission struct {
	Values url.Values
	Seed   string
}

type intent struct {
	form       domain.Form
	marker     string
	nonceField string
	action     string
	run        func(ctx context.Context, v url.Values) Outcome
}

// Router dispatches a submission to exactly one handler.
type Router struct {
	nonces  NonceVerifier
	intents []intent
}

// NewRouter creates a Router over h. Intents are inspected in the fixed order
// login, register, lost password, reset password.
func NewRouter(h *Handlers, nonces NonceVerifier) *Router {
	return &Router{
		nonces: nonces,
		intents: []intent{
			{
				form: domain.FormLogin, marker: MarkerLogin,
				nonceField: NonceFieldLogin, action: nonce.ActionLogin,
				run: func(ctx context.Context, v url.Values) Outcome {
					return h.Login(ctx, domain.Credentials{
						Identifier: strings.TrimSpace(v.Get(FieldUsername)),
						Secret:     v.Get(FieldPassword),
						Remember:   v.Has(FieldRememberMe),
					})
				},
			},
			{
				form: domain.FormRegister, marker: MarkerRegister,
				nonceField: NonceFieldRegister, action: nonce.ActionRegister,
				run: func(ctx context.Context, v url.Values) Outcome {
					return h.Register(ctx, domain.RegistrationRequest{
						Email:    v.Get(FieldEmail),
						Password: v.Get(FieldPassword),
					})
				},
			},
			{
				form: domain.FormResetRequest, marker: MarkerLostPassword,
				nonceField: NonceFieldLostPassword, action: nonce.ActionLostPassword,
				run: func(ctx context.Context, v url.Values) Outcome {
					return h.RequestReset(ctx, domain.ResetRequest{Identifier: v.Get(FieldUserLogin)})
				},
			},
			{
				form: domain.FormResetConfirm, marker: MarkerResetPassword,
				nonceField: NonceFieldResetPassword, action: nonce.ActionResetPassword,
				run: func(ctx context.Context, v url.Values) Outcome {
					return h.ConfirmReset(ctx, domain.ResetConfirmation{
						Token:              v.Get(FieldResetKey),
						Identifier:         v.Get(FieldResetLogin),
						NewPassword:        v.Get(FieldPassword1),
						NewPasswordConfirm: v.Get(FieldPassword2),
					})
				},
			},
		},
	}
}

// Route runs the handler of the first intent marker present in the
// submission. If that marker's token does not verify, nothing runs and the
// request falls through to a normal render. The boolean reports whether a
// handler ran.
func (r *Router) Route(ctx context.Context, sub Submission) (Outcome, bool) {
	for _, in := range r.intents {
		if !sub.Values.Has(in.marker) {
			continue
		}
		if !r.nonces.Verify(sub.Values.Get(in.nonceField), in.action, sub.Seed) {
			logging.FromContext(ctx).Warn("Rejected submission with invalid anti-forgery token", "form", in.form)
			return Outcome{}, false
		}
		logging.FromContext(ctx).Debug("Dispatching form submission", "form", in.form)
		return in.run(ctx, sub.Values), true
	}
	return Outcome{}, false
}
