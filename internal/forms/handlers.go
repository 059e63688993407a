package forms

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/domain/auth_errors"
	"github.com/nfrund/accounttabs/internal/logging"
	"github.com/nfrund/accounttabs/internal/tabs"
)

// Config holds the site settings the handlers depend on.
type Config struct {
	// AccountURL is the account landing page every handler redirects to.
	AccountURL string
	// GeneratePassword makes registration ignore submitted passwords and
	// have the identity provider generate one instead.
	GeneratePassword bool
}

// Handlers implements the four submission handlers. Each runs at most one
// state-changing identity provider call and never returns an error: failures
// are reported through the Outcome.
type Handlers struct {
	idp      domain.IdentityProvider
	cfg      Config
	validate *validator.Validate
}

// NewHandlers creates the submission handlers.
func NewHandlers(idp domain.IdentityProvider, cfg Config) *Handlers {
	return &Handlers{
		idp:      idp,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Login authenticates credentials and establishes a session.
func (h *Handlers) Login(ctx context.Context, creds domain.Credentials) Outcome {
	creds.Identifier = strings.TrimSpace(creds.Identifier)

	session, err := h.idp.Authenticate(ctx, creds)
	if err != nil {
		logging.FromContext(ctx).Warn("Failed login attempt", "login", creds.Identifier, "error", err)
		return fail(domain.FormLogin, h.cfg.AccountURL, auth_errors.Message(err, MsgLoginFailed), err)
	}

	out := succeed(domain.FormLogin, h.cfg.AccountURL, nil)
	out.Session = session
	return out
}

// Register creates a customer account with a username derived from the email
// address.
func (h *Handlers) Register(ctx context.Context, req domain.RegistrationRequest) Outcome {
	logger := logging.FromContext(ctx)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.validate.Struct(req); err != nil {
		return fail(domain.FormRegister, h.cfg.AccountURL, MsgInvalidEmail, auth_errors.Validation(MsgInvalidEmail))
	}

	exists, err := h.idp.EmailExists(ctx, req.Email)
	if err != nil {
		logger.Error("Error checking email during registration", "error", err)
		return fail(domain.FormRegister, h.cfg.AccountURL, MsgRegistrationFailed, auth_errors.Provider(MsgRegistrationFailed, err))
	}
	if exists {
		return fail(domain.FormRegister, h.cfg.AccountURL, MsgEmailRegistered, auth_errors.Conflict(MsgEmailRegistered))
	}

	username, err := DeriveUsername(ctx, req.Email, h.idp.UsernameExists)
	if err != nil {
		logger.Error("Error deriving username", "email", req.Email, "error", err)
		return fail(domain.FormRegister, h.cfg.AccountURL, MsgRegistrationFailed, auth_errors.Provider(MsgRegistrationFailed, err))
	}

	password, generated := req.Password, false
	if h.cfg.GeneratePassword || password == "" {
		password, err = h.idp.GeneratePassword()
		if err != nil {
			logger.Error("Error generating password", "error", err)
			return fail(domain.FormRegister, h.cfg.AccountURL, MsgRegistrationFailed, auth_errors.Provider(MsgRegistrationFailed, err))
		}
		generated = true
	}

	account, err := h.idp.CreateAccount(ctx, req.Email, username, password, generated)
	if err != nil {
		if !errors.Is(err, auth_errors.ErrConflict) && !errors.Is(err, auth_errors.ErrValidationFailed) {
			logger.Error("Error creating account", "email", req.Email, "username", username, "error", err)
		}
		return fail(domain.FormRegister, h.cfg.AccountURL, auth_errors.Message(err, MsgRegistrationFailed), err)
	}
	logger.Info("Account registered", "username", account.Username, "generated_password", generated)

	if generated {
		return succeed(domain.FormRegister, h.cfg.AccountURL, info(domain.FormRegister, MsgCheckEmailPassword))
	}

	session, err := h.idp.StartSession(ctx, account, false)
	if err != nil {
		logger.Error("Failed to sign in newly registered account", "username", account.Username, "error", err)
		return fail(domain.FormLogin, h.cfg.AccountURL, MsgCreatedLoginManually, auth_errors.Provider(MsgCreatedLoginManually, err))
	}

	out := succeed(domain.FormRegister, h.cfg.AccountURL, nil)
	out.Session = session
	return out
}

// RequestReset asks the identity provider to email a reset link.
func (h *Handlers) RequestReset(ctx context.Context, req domain.ResetRequest) Outcome {
	req.Identifier = strings.TrimSpace(req.Identifier)

	if err := h.validate.Struct(req); err != nil {
		return fail(domain.FormResetRequest, h.cfg.AccountURL, MsgEnterLogin, auth_errors.Validation(MsgEnterLogin))
	}

	if err := h.idp.IssueResetToken(ctx, req.Identifier); err != nil {
		if auth_errors.KindOf(err) == auth_errors.ErrProvider {
			logging.FromContext(ctx).Error("Error issuing reset token", "login", req.Identifier, "error", err)
		}
		return fail(domain.FormResetRequest, h.cfg.AccountURL, auth_errors.Message(err, MsgResetRequestFailed), err)
	}

	return succeed(domain.FormResetRequest, h.cfg.AccountURL, info(domain.FormResetRequest, MsgResetEmailSent))
}

// ConfirmReset sets a new password for the account named by a valid reset
// key pair.
func (h *Handlers) ConfirmReset(ctx context.Context, req domain.ResetConfirmation) Outcome {
	account, err := h.idp.CheckResetToken(ctx, req.Token, req.Identifier)
	if err != nil {
		lost := AccountURL(h.cfg.AccountURL, url.Values{"action": {tabs.ActionLostPassword}})
		return fail(domain.FormResetConfirm, lost, MsgResetKeyInvalid, auth_errors.TokenInvalid(MsgResetKeyInvalid))
	}

	retry := AccountURL(h.cfg.AccountURL, url.Values{"key": {req.Token}, "login": {req.Identifier}})
	if req.NewPassword != req.NewPasswordConfirm {
		return fail(domain.FormResetConfirm, retry, MsgPasswordsMismatch, auth_errors.Validation(MsgPasswordsMismatch))
	}
	if req.NewPassword == "" {
		return fail(domain.FormResetConfirm, retry, MsgEnterPassword, auth_errors.Validation(MsgEnterPassword))
	}

	if err := h.idp.SetPassword(ctx, account, req.NewPassword); err != nil {
		logging.FromContext(ctx).Error("Error setting new password", "login", req.Identifier, "error", err)
		return fail(domain.FormResetConfirm, retry, auth_errors.Message(err, MsgPasswordResetFailed), err)
	}

	return succeed(domain.FormResetConfirm, h.cfg.AccountURL, info(domain.FormResetConfirm, MsgPasswordResetDone))
}
