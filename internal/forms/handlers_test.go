package forms_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/domain/auth_errors"
	"github.com/nfrund/accounttabs/internal/forms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountURL = "https://shop.example/my-account"

func newHandlers(idp *fakeIDP, generate bool) *forms.Handlers {
	return forms.NewHandlers(idp, forms.Config{AccountURL: accountURL, GeneratePassword: generate})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success establishes session", func(t *testing.T) {
		idp := newFakeIDP("alice")
		idp.passwords["alice"] = "s3cret"

		out := newHandlers(idp, false).Login(ctx, domain.Credentials{Identifier: "  alice ", Secret: "s3cret", Remember: true})

		assert.False(t, out.Failed())
		assert.Equal(t, accountURL, out.Redirect)
		assert.Nil(t, out.Notice)
		require.NotNil(t, out.Session)
		assert.True(t, out.Session.Remember)
	})

	t.Run("failure queues provider message", func(t *testing.T) {
		idp := newFakeIDP("alice")
		idp.passwords["alice"] = "s3cret"

		out := newHandlers(idp, false).Login(ctx, domain.Credentials{Identifier: "alice", Secret: "wrong"})

		assert.ErrorIs(t, out.Err, auth_errors.ErrAuthenticationFailed)
		assert.Equal(t, accountURL, out.Redirect)
		require.NotNil(t, out.Notice)
		assert.Equal(t, domain.NewError(domain.FormLogin, "Unknown username or incorrect password."), *out.Notice)
		assert.Nil(t, out.Session)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("supplied password creates account and signs in", func(t *testing.T) {
		idp := newFakeIDP()

		out := newHandlers(idp, false).Register(ctx, domain.RegistrationRequest{Email: "bob@example.com", Password: "Secret123"})

		require.False(t, out.Failed(), "unexpected error: %v", out.Err)
		require.Len(t, idp.created, 1)
		assert.Equal(t, "bob", idp.created[0].username)
		assert.Equal(t, "Secret123", idp.created[0].password)
		assert.False(t, idp.created[0].generated)
		assert.NotNil(t, out.Session)
		assert.Nil(t, out.Notice)
		assert.Equal(t, accountURL, out.Redirect)
	})

	t.Run("colliding usernames get the next free suffix", func(t *testing.T) {
		idp := newFakeIDP("bob", "bob1")

		out := newHandlers(idp, false).Register(ctx, domain.RegistrationRequest{Email: "bob@example.com", Password: "Secret123"})

		require.False(t, out.Failed())
		require.Len(t, idp.created, 1)
		assert.Equal(t, "bob2", idp.created[0].username)
	})

	t.Run("missing password is generated", func(t *testing.T) {
		idp := newFakeIDP()

		out := newHandlers(idp, false).Register(ctx, domain.RegistrationRequest{Email: "carol@example.com"})

		require.False(t, out.Failed())
		require.Len(t, idp.created, 1)
		assert.True(t, idp.created[0].generated)
		assert.Equal(t, "generated-secret", idp.created[0].password)
		assert.Nil(t, out.Session)
		require.NotNil(t, out.Notice)
		assert.Equal(t, domain.SeverityInfo, out.Notice.Severity)
		assert.Equal(t, forms.MsgCheckEmailPassword, out.Notice.Message)
	})

	t.Run("site policy overrides supplied password", func(t *testing.T) {
		idp := newFakeIDP()

		out := newHandlers(idp, true).Register(ctx, domain.RegistrationRequest{Email: "dave@example.com", Password: "mine"})

		require.False(t, out.Failed())
		assert.True(t, idp.created[0].generated)
		assert.Nil(t, out.Session)
	})

	t.Run("email is normalized", func(t *testing.T) {
		idp := newFakeIDP()

		newHandlers(idp, false).Register(ctx, domain.RegistrationRequest{Email: "  Erin@Example.COM ", Password: "x"})

		require.Len(t, idp.created, 1)
		assert.Equal(t, "erin@example.com", idp.created[0].email)
		assert.Equal(t, "erin", idp.created[0].username)
	})

	errorCases := []struct {
		name  string
		setup func(*fakeIDP)
		email string
		kind  error
		msg   string
	}{
		{"malformed email", nil, "not-an-email", auth_errors.ErrValidationFailed, forms.MsgInvalidEmail},
		{"empty email", nil, "", auth_errors.ErrValidationFailed, forms.MsgInvalidEmail},
		{"already registered", nil, "alice@existing.test", auth_errors.ErrConflict, forms.MsgEmailRegistered},
		{"lookup failure", func(f *fakeIDP) { f.failEmailExists = true }, "new@example.com", auth_errors.ErrProvider, forms.MsgRegistrationFailed},
		{"create failure", func(f *fakeIDP) { f.failCreate = errors.New("disk full") }, "new@example.com", auth_errors.ErrProvider, forms.MsgRegistrationFailed},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			idp := newFakeIDP("alice")
			if tc.setup != nil {
				tc.setup(idp)
			}

			out := newHandlers(idp, false).Register(ctx, domain.RegistrationRequest{Email: tc.email, Password: "pw"})

			assert.Equal(t, tc.kind, auth_errors.KindOf(out.Err))
			require.NotNil(t, out.Notice)
			assert.Equal(t, domain.NewError(domain.FormRegister, tc.msg), *out.Notice)
			assert.Equal(t, accountURL, out.Redirect)
			assert.Nil(t, out.Session)
			assert.Empty(t, idp.created)
		})
	}
}

func TestRequestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("sends reset email", func(t *testing.T) {
		idp := newFakeIDP("alice")

		out := newHandlers(idp, false).RequestReset(ctx, domain.ResetRequest{Identifier: " alice@existing.test "})

		require.False(t, out.Failed())
		assert.Equal(t, []string{"alice"}, idp.resetIssued)
		assert.Equal(t, accountURL, out.Redirect)
		require.NotNil(t, out.Notice)
		assert.Equal(t, domain.NewInfo(domain.FormResetRequest, forms.MsgResetEmailSent), *out.Notice)
	})

	t.Run("empty identifier", func(t *testing.T) {
		idp := newFakeIDP()

		out := newHandlers(idp, false).RequestReset(ctx, domain.ResetRequest{Identifier: "  "})

		assert.ErrorIs(t, out.Err, auth_errors.ErrValidationFailed)
		assert.Equal(t, forms.MsgEnterLogin, out.Notice.Message)
		assert.Empty(t, idp.resetIssued)
	})

	t.Run("unknown account", func(t *testing.T) {
		idp := newFakeIDP()

		out := newHandlers(idp, false).RequestReset(ctx, domain.ResetRequest{Identifier: "ghost"})

		assert.ErrorIs(t, out.Err, auth_errors.ErrValidationFailed)
		assert.Equal(t, domain.NewError(domain.FormResetRequest, "Invalid username or email."), *out.Notice)
		assert.Equal(t, accountURL, out.Redirect)
	})
}

func TestConfirmReset(t *testing.T) {
	ctx := context.Background()

	newIDP := func() *fakeIDP {
		idp := newFakeIDP("alice")
		idp.resetKeys["alice"] = "good-key"
		return idp
	}

	t.Run("invalid key redirects to reset request", func(t *testing.T) {
		idp := newIDP()

		out := newHandlers(idp, false).ConfirmReset(ctx, domain.ResetConfirmation{
			Token: "bad-key", Identifier: "alice", NewPassword: "a", NewPasswordConfirm: "a",
		})

		assert.ErrorIs(t, out.Err, auth_errors.ErrTokenInvalid)
		assert.Equal(t, accountURL+"?action=lostpassword", out.Redirect)
		assert.Equal(t, forms.MsgResetKeyInvalid, out.Notice.Message)
		assert.Empty(t, idp.setPasswords)
	})

	t.Run("mismatched passwords keep key and login", func(t *testing.T) {
		idp := newIDP()

		out := newHandlers(idp, false).ConfirmReset(ctx, domain.ResetConfirmation{
			Token: "good-key", Identifier: "alice", NewPassword: "a", NewPasswordConfirm: "b",
		})

		assert.ErrorIs(t, out.Err, auth_errors.ErrValidationFailed)
		assert.Equal(t, domain.NewError(domain.FormResetConfirm, "Passwords do not match."), *out.Notice)
		assert.Empty(t, idp.setPasswords)

		u, err := url.Parse(out.Redirect)
		require.NoError(t, err)
		assert.Equal(t, "good-key", u.Query().Get("key"))
		assert.Equal(t, "alice", u.Query().Get("login"))
	})

	t.Run("empty password keeps key and login", func(t *testing.T) {
		idp := newIDP()

		out := newHandlers(idp, false).ConfirmReset(ctx, domain.ResetConfirmation{Token: "good-key", Identifier: "alice"})

		assert.Equal(t, forms.MsgEnterPassword, out.Notice.Message)
		assert.Equal(t, accountURL+"?key=good-key&login=alice", out.Redirect)
		assert.Empty(t, idp.setPasswords)
	})

	t.Run("success sets password", func(t *testing.T) {
		idp := newIDP()

		out := newHandlers(idp, false).ConfirmReset(ctx, domain.ResetConfirmation{
			Token: "good-key", Identifier: "alice", NewPassword: "n3w", NewPasswordConfirm: "n3w",
		})

		require.False(t, out.Failed())
		assert.Equal(t, []string{"n3w"}, idp.setPasswords)
		assert.Equal(t, accountURL, out.Redirect)
		assert.Equal(t, domain.NewInfo(domain.FormResetConfirm, forms.MsgPasswordResetDone), *out.Notice)
	})
}

func TestAccountURL(t *testing.T) {
	assert.Equal(t, accountURL, forms.AccountURL(accountURL, nil))
	assert.Equal(t, "/my-account?action=lostpassword", forms.AccountURL("/my-account", url.Values{"action": {"lostpassword"}}))
	assert.Equal(t, "/my-account?key=a%2Bb&login=x", forms.AccountURL("/my-account?key=old", url.Values{"key": {"a+b"}, "login": {"x"}}))
}
