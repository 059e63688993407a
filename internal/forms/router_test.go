package forms_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/forms"
	"github.com/nfrund/accounttabs/internal/nonce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginValues(token string) url.Values {
	return url.Values{
		forms.MarkerLogin:     {"1"},
		forms.NonceFieldLogin: {token},
		forms.FieldUsername:   {"alice"},
		forms.FieldPassword:   {"s3cret"},
	}
}

func registerValues(token string) url.Values {
	return url.Values{
		forms.MarkerRegister:     {"1"},
		forms.NonceFieldRegister: {token},
		forms.FieldEmail:         {"bob@example.com"},
		forms.FieldPassword:      {"Secret123"},
	}
}

func merge(vs ...url.Values) url.Values {
	out := url.Values{}
	for _, v := range vs {
		for k, x := range v {
			out[k] = append(out[k], x...)
		}
	}
	return out
}

func newRouter(idp *fakeIDP) *forms.Router {
	return forms.NewRouter(newHandlers(idp, false), fakeNonces{})
}

func TestRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("no marker falls through", func(t *testing.T) {
		_, handled := newRouter(newFakeIDP()).Route(ctx, forms.Submission{Values: url.Values{"foo": {"bar"}}, Seed: "seed"})
		assert.False(t, handled)
	})

	t.Run("login dispatched", func(t *testing.T) {
		idp := newFakeIDP("alice")
		idp.passwords["alice"] = "s3cret"

		out, handled := newRouter(idp).Route(ctx, forms.Submission{Values: loginValues("ok-" + nonce.ActionLogin), Seed: "seed"})

		require.True(t, handled)
		assert.Equal(t, domain.FormLogin, out.Form)
		assert.NotNil(t, out.Session)
	})

	t.Run("invalid token is a no-op", func(t *testing.T) {
		idp := newFakeIDP()

		_, handled := newRouter(idp).Route(ctx, forms.Submission{Values: registerValues("forged"), Seed: "seed"})

		assert.False(t, handled)
		assert.Empty(t, idp.created)
	})

	t.Run("token for another form is rejected", func(t *testing.T) {
		idp := newFakeIDP()

		_, handled := newRouter(idp).Route(ctx, forms.Submission{Values: registerValues("ok-" + nonce.ActionLogin), Seed: "seed"})

		assert.False(t, handled)
	})

	t.Run("token from another browser is rejected", func(t *testing.T) {
		idp := newFakeIDP()

		_, handled := newRouter(idp).Route(ctx, forms.Submission{Values: registerValues("ok-" + nonce.ActionRegister), Seed: "other"})

		assert.False(t, handled)
	})

	t.Run("two valid intents run only the higher priority one", func(t *testing.T) {
		idp := newFakeIDP("alice")
		idp.passwords["alice"] = "s3cret"
		values := merge(loginValues("ok-"+nonce.ActionLogin), registerValues("ok-"+nonce.ActionRegister))
		// Both forms share the password field; keep the login one.
		values.Set(forms.FieldPassword, "s3cret")

		out, handled := newRouter(idp).Route(ctx, forms.Submission{Values: values, Seed: "seed"})

		require.True(t, handled)
		assert.Equal(t, domain.FormLogin, out.Form)
		assert.Empty(t, idp.created, "register must not run")
	})

	t.Run("invalid higher priority token stops routing", func(t *testing.T) {
		idp := newFakeIDP()
		values := merge(loginValues("forged"), registerValues("ok-"+nonce.ActionRegister))

		_, handled := newRouter(idp).Route(ctx, forms.Submission{Values: values, Seed: "seed"})

		assert.False(t, handled)
		assert.Empty(t, idp.created)
	})

	t.Run("reset request before reset confirm", func(t *testing.T) {
		idp := newFakeIDP("alice")
		idp.resetKeys["alice"] = "good-key"
		values := url.Values{
			forms.MarkerLostPassword:      {"1"},
			forms.NonceFieldLostPassword:  {"ok-" + nonce.ActionLostPassword},
			forms.FieldUserLogin:          {"alice"},
			forms.MarkerResetPassword:     {"1"},
			forms.NonceFieldResetPassword: {"ok-" + nonce.ActionResetPassword},
			forms.FieldResetKey:           {"good-key"},
			forms.FieldResetLogin:         {"alice"},
			forms.FieldPassword1:          {"n"},
			forms.FieldPassword2:          {"n"},
		}

		out, handled := newRouter(idp).Route(ctx, forms.Submission{Values: values, Seed: "seed"})

		require.True(t, handled)
		assert.Equal(t, domain.FormResetRequest, out.Form)
		assert.Equal(t, []string{"alice"}, idp.resetIssued)
		assert.Empty(t, idp.setPasswords)
	})

	t.Run("reset confirm mismatch", func(t *testing.T) {
		idp := newFakeIDP("alice")
		idp.resetKeys["alice"] = "good-key"
		values := url.Values{
			forms.MarkerResetPassword:     {"1"},
			forms.NonceFieldResetPassword: {"ok-" + nonce.ActionResetPassword},
			forms.FieldResetKey:           {"good-key"},
			forms.FieldResetLogin:         {"alice"},
			forms.FieldPassword1:          {"a"},
			forms.FieldPassword2:          {"b"},
		}

		out, handled := newRouter(idp).Route(ctx, forms.Submission{Values: values, Seed: "seed"})

		require.True(t, handled)
		assert.Equal(t, forms.MsgPasswordsMismatch, out.Notice.Message)
		assert.Contains(t, out.Redirect, "key=good-key")
		assert.Contains(t, out.Redirect, "login=alice")
		assert.Empty(t, idp.setPasswords)
	})
}
