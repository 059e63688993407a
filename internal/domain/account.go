package domain

import (
	"context"
	"time"
)

// Account is a customer account as held by the account store.
type Account struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"password_hash,omitempty"`
	ResetTokenHash    string     `json:"reset_token_hash,omitempty"`
	ResetTokenExpires *time.Time `json:"reset_token_expires,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Session is an authenticated browser session. Token is only populated when
// the session is first issued; stores keep the hash.
type Session struct {
	Token     string    `json:"-"`
	TokenHash string    `json:"token_hash"`
	AccountID string    `json:"account_id"`
	Remember  bool      `json:"remember"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Credentials are built per login request and discarded afterwards.
type Credentials struct {
	Identifier string
	Secret     string
	Remember   bool
}

// RegistrationRequest is a submitted registration. An empty Password means
// the identity provider generates one.
type RegistrationRequest struct {
	Email    string `validate:"required,email"`
	Password string
}

// ResetRequest asks for a reset link for a username or email address.
type ResetRequest struct {
	Identifier string `validate:"required"`
}

// ResetConfirmation carries a new password together with the reset key pair.
type ResetConfirmation struct {
	Token              string
	Identifier         string
	NewPassword        string
	NewPasswordConfirm string
}

// IdentityProvider owns authentication, account storage and the reset token
// lifecycle. Submission handlers only call into it.
type IdentityProvider interface {
	Authenticate(ctx context.Context, creds Credentials) (*Session, error)
	ResolveSession(ctx context.Context, token string) (*Account, error)
	EndSession(ctx context.Context, token string) error

	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GeneratePassword() (string, error)

	// CreateAccount stores a new account. When generated is true the password
	// is delivered to the owner out of band.
	CreateAccount(ctx context.Context, email, username, password string, generated bool) (*Account, error)
	// StartSession issues a session for an account that was just created.
	StartSession(ctx context.Context, account *Account, remember bool) (*Session, error)

	IssueResetToken(ctx context.Context, identifier string) error
	CheckResetToken(ctx context.Context, token, identifier string) (*Account, error)
	SetPassword(ctx context.Context, account *Account, newPassword string) error
}

// AccountRepository is the persistence contract behind the identity provider.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error

	CreateSession(ctx context.Context, session *Session) error
	FindSession(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}
