// Package identity implements the identity provider the account forms call
// into: credential checks, account creation, sessions and the password reset
// token lifecycle.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/domain/auth_errors"
	"github.com/nfrund/accounttabs/internal/email"
)

// Session lifetimes.
const (
	DefaultSessionTTL  = 2 * 24 * time.Hour
	DefaultRememberTTL = 14 * 24 * time.Hour
	DefaultResetTTL    = 24 * time.Hour
)

// User-facing messages produced by the provider.
const (
	MsgLoginFailed      = "Unknown username or incorrect password."
	MsgEmptyUsername    = "The username field is empty."
	MsgEmptyPassword    = "The password field is empty."
	MsgAccountExists    = "An account is already registered with that username or email address."
	MsgAccountFailed    = "Could not create your account."
	MsgInvalidLogin     = "Invalid username or email."
	MsgResetFailed      = "The password reset could not be started. Please try again."
	MsgEmailNotSent     = "The email could not be sent."
	MsgInvalidKey       = "Invalid key."
	MsgExpiredKey       = "Expired key."
	MsgSetPasswordError = "Your password could not be changed."
	MsgLoginUnavailable = "Login is temporarily unavailable. Please try again."
)

// Config configures a Service.
type Config struct {
	SiteName    string
	AccountURL  string
	ResetTTL    time.Duration
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

// Service implements domain.IdentityProvider over an AccountRepository.
type Service struct {
	repo   domain.AccountRepository
	hasher PasswordHasher
	mailer domain.EmailSender
	cfg    Config
	now    func() time.Time
}

var _ domain.IdentityProvider = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHasher overrides the password hasher.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

// NewService creates a Service.
func NewService(repo domain.AccountRepository, mailer domain.EmailSender, cfg Config, opts ...Option) *Service {
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = DefaultResetTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = DefaultRememberTTL
	}
	s := &Service{
		repo:   repo,
		hasher: NewArgon2idHasher(),
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// findByLogin looks an account up by email or username. Identifiers with an
// "@" try the email first.
func (s *Service) findByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	lookups := []func(context.Context, string) (*domain.Account, error){s.repo.FindByUsername, s.repo.FindByEmail}
	if strings.Contains(identifier, "@") {
		lookups[0], lookups[1] = lookups[1], lookups[0]
	}
	for _, find := range lookups {
		account, err := find(ctx, identifier)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, oops.Code("IDENTITY_LOOKUP_FAILED").With("identifier", identifier).Wrap(err)
		}
	}
	return nil, domain.ErrNotFound
}

// Authenticate checks credentials and issues a session.
func (s *Service) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	identifier := strings.TrimSpace(creds.Identifier)
	if identifier == "" {
		return nil, auth_errors.Validation(MsgEmptyUsername)
	}
	if creds.Secret == "" {
		return nil, auth_errors.Validation(MsgEmptyPassword)
	}

	account, err := s.findByLogin(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, auth_errors.Authentication(MsgLoginFailed)
	}
	if err != nil {
		return nil, auth_errors.Provider(MsgLoginUnavailable, err)
	}

	ok, err := s.hasher.Verify(creds.Secret, account.PasswordHash)
	if err != nil {
		return nil, auth_errors.Provider(MsgLoginUnavailable, err)
	}
	if !ok {
		return nil, auth_errors.Authentication(MsgLoginFailed)
	}

	return s.StartSession(ctx, account, creds.Remember)
}

// StartSession issues a new session for account.
func (s *Service) StartSession(ctx context.Context, account *domain.Account, remember bool) (*domain.Session, error) {
	token, hash, err := newToken()
	if err != nil {
		return nil, auth_errors.Provider(MsgLoginUnavailable, err)
	}

	ttl := s.cfg.SessionTTL
	if remember {
		ttl = s.cfg.RememberTTL
	}
	session := &domain.Session{
		Token:     token,
		TokenHash: hash,
		AccountID: account.ID,
		Remember:  remember,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, auth_errors.Provider(MsgLoginUnavailable,
			oops.Code("IDENTITY_SESSION_CREATE_FAILED").With("account_id", account.ID).Wrap(err))
	}
	return session, nil
}

// ResolveSession returns the account behind a session token. Unknown and
// expired sessions yield domain.ErrNotFound.
func (s *Service) ResolveSession(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	hash := hashToken(token)
	session, err := s.repo.FindSession(ctx, hash)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		if err := s.repo.DeleteSession(ctx, hash); err != nil {
			slog.Warn("Failed to delete expired session", "error", err)
		}
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, session.AccountID)
}

// EndSession deletes a session. Unknown tokens are not an error.
func (s *Service) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.repo.DeleteSession(ctx, hashToken(token))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return oops.Code("IDENTITY_SESSION_DELETE_FAILED").Wrap(err)
	}
	return nil
}

// EmailExists reports whether an account uses email.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, s.repo.FindByEmail, email)
}

// UsernameExists reports whether an account uses username.
func (s *Service) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, s.repo.FindByUsername, username)
}

func (s *Service) exists(ctx context.Context, find func(context.Context, string) (*domain.Account, error), key string) (bool, error) {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, oops.Code("IDENTITY_LOOKUP_FAILED").With("key", key).Wrap(err)
	}
}

// GeneratePassword returns a random password.
func (s *Service) GeneratePassword() (string, error) {
	return generatePassword()
}

// CreateAccount stores a new account. A generated password is emailed to the
// owner; a failed delivery is logged and does not undo the account.
func (s *Service) CreateAccount(ctx context.Context, emailAddr, username, password string, generated bool) (*domain.Account, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, ErrEmptyPassword) {
		return nil, auth_errors.Validation(MsgEmptyPassword)
	}
	if err != nil {
		return nil, auth_errors.Provider(MsgAccountFailed, err)
	}

	account, err := s.repo.Create(ctx, &domain.Account{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, domain.ErrAccountExists) {
		return nil, auth_errors.Conflict(MsgAccountExists)
	}
	if err != nil {
		return nil, auth_errors.Provider(MsgAccountFailed,
			oops.Code("IDENTITY_CREATE_FAILED").With("username", username).Wrap(err))
	}

	if generated {
		if err := s.deliver(emailAddr, func() (email.Message, error) {
			return email.NewAccountMessage(s.cfg.SiteName, username, password, s.cfg.AccountURL)
		}); err != nil {
			slog.Error("Failed to send generated password", "username", username, "error", err)
		}
	}
	return account, nil
}

// IssueResetToken stores a fresh reset token for the account and emails the
// reset link. Any earlier token for the account stops working.
func (s *Service) IssueResetToken(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return auth_errors.Validation(MsgInvalidLogin)
	}

	account, err := s.findByLogin(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return auth_errors.Validation(MsgInvalidLogin)
	}
	if err != nil {
		return auth_errors.Provider(MsgResetFailed, err)
	}

	token, hash, err := newToken()
	if err != nil {
		return auth_errors.Provider(MsgResetFailed, err)
	}
	if err := s.repo.SetResetToken(ctx, account.ID, hash, s.now().Add(s.cfg.ResetTTL)); err != nil {
		return auth_errors.Provider(MsgResetFailed,
			oops.Code("IDENTITY_RESET_STORE_FAILED").With("account_id", account.ID).Wrap(err))
	}

	link := ResetURL(s.cfg.AccountURL, token, account.Username)
	if err := s.deliver(account.Email, func() (email.Message, error) {
		return email.ResetLinkMessage(s.cfg.SiteName, account.Username, link)
	}); err != nil {
		return auth_errors.Provider(MsgEmailNotSent, err)
	}
	return nil
}

// CheckResetToken returns the account a valid, unexpired reset key belongs to.
func (s *Service) CheckResetToken(ctx context.Context, token, identifier string) (*domain.Account, error) {
	if token == "" || identifier == "" {
		return nil, auth_errors.TokenInvalid(MsgInvalidKey)
	}

	account, err := s.findByLogin(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, auth_errors.TokenInvalid(MsgInvalidKey)
	}
	if err != nil {
		return nil, auth_errors.Provider(MsgResetFailed, err)
	}

	if !tokenMatches(token, account.ResetTokenHash) {
		return nil, auth_errors.TokenInvalid(MsgInvalidKey)
	}
	if account.ResetTokenExpires == nil || !s.now().Before(*account.ResetTokenExpires) {
		return nil, auth_errors.TokenInvalid(MsgExpiredKey)
	}
	return account, nil
}

// SetPassword replaces the account password and consumes its reset token.
func (s *Service) SetPassword(ctx context.Context, account *domain.Account, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if errors.Is(err, ErrEmptyPassword) {
		return auth_errors.Validation(MsgEmptyPassword)
	}
	if err != nil {
		return auth_errors.Provider(MsgSetPasswordError, err)
	}

	if err := s.repo.UpdatePassword(ctx, account.ID, hash); err != nil {
		return auth_errors.Provider(MsgSetPasswordError,
			oops.Code("IDENTITY_PASSWORD_UPDATE_FAILED").With("account_id", account.ID).Wrap(err))
	}
	if err := s.repo.ClearResetToken(ctx, account.ID); err != nil {
		return auth_errors.Provider(MsgSetPasswordError,
			oops.Code("IDENTITY_RESET_CLEAR_FAILED").With("account_id", account.ID).Wrap(err))
	}
	return nil
}

func (s *Service) deliver(to string, build func() (email.Message, error)) error {
	if s.mailer == nil {
		return oops.Code("IDENTITY_NO_MAILER").Errorf("no email sender configured")
	}
	msg, err := build()
	if err != nil {
		return oops.Code("IDENTITY_EMAIL_RENDER_FAILED").Wrap(err)
	}
	if err := s.mailer.Send(to, msg.Subject, msg.HTML); err != nil {
		return oops.Code("IDENTITY_EMAIL_SEND_FAILED").With("to", to).Wrap(err)
	}
	return nil
}

// ResetURL builds the confirm-reset link for an account.
func ResetURL(accountURL, token, username string) string {
	u, err := url.Parse(accountURL)
	if err != nil {
		return accountURL + "?key=" + url.QueryEscape(token) + "&login=" + url.QueryEscape(username)
	}
	q := u.Query()
	q.Set("key", token)
	q.Set("login", username)
	u.RawQuery = q.Encode()
	return u.String()
}
