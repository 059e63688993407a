package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/nfrund/accounttabs/internal/domain"
)

const (
	accountTable = "account"
	sessionTable = "session"
)

var _ domain.AccountRepository = (*SurrealStore)(nil)

// accountRow is the SurrealDB shape of a domain.Account.
type accountRow struct {
	ID                *surrealmodels.RecordID       `json:"id,omitempty"`
	Username          string                        `json:"username"`
	Email             string                        `json:"email"`
	PasswordHash      string                        `json:"password_hash"`
	ResetTokenHash    *string                       `json:"reset_token_hash,omitempty"`
	ResetTokenExpires *surrealmodels.CustomDateTime `json:"reset_token_expires,omitempty"`
	CreatedAt         *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

func (r *accountRow) toDomain() *domain.Account {
	a := &domain.Account{
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
	}
	if r.ID != nil {
		a.ID = fmt.Sprint(r.ID.ID)
	}
	if r.ResetTokenHash != nil {
		a.ResetTokenHash = *r.ResetTokenHash
	}
	if r.ResetTokenExpires != nil {
		t := r.ResetTokenExpires.Time
		a.ResetTokenExpires = &t
	}
	if r.CreatedAt != nil {
		a.CreatedAt = r.CreatedAt.Time
	}
	return a
}

type sessionRow struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	TokenHash string                        `json:"token_hash"`
	AccountID string                        `json:"account_id"`
	Remember  bool                          `json:"remember"`
	ExpiresAt *surrealmodels.CustomDateTime `json:"expires_at,omitempty"`
}

func (r *sessionRow) toDomain() *domain.Session {
	s := &domain.Session{
		TokenHash: r.TokenHash,
		AccountID: r.AccountID,
		Remember:  r.Remember,
	}
	if r.ExpiresAt != nil {
		s.ExpiresAt = r.ExpiresAt.Time
	}
	return s
}

// SurrealStore implements domain.AccountRepository on SurrealDB.
type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore creates a SurrealStore on an open connection.
func NewSurrealStore(db *surrealdb.DB) *SurrealStore {
	return &SurrealStore{db: db}
}

func accountID(id string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(accountTable, id)
}

func (s *SurrealStore) findAccount(ctx context.Context, query string, params map[string]any) (*domain.Account, error) {
	row, err := QueryOne[accountRow](ctx, s.db, query, params)
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", accountTable).Wrap(err)
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return row.toDomain(), nil
}

// FindByID returns the account with the given ID.
func (s *SurrealStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.findAccount(ctx, "SELECT * FROM $id", map[string]any{"id": accountID(id)})
}

// FindByEmail returns the account with the given email, ignoring case.
func (s *SurrealStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.findAccount(ctx, "SELECT * FROM account WHERE string::lowercase(email) = $email",
		map[string]any{"email": strings.ToLower(email)})
}

// FindByUsername returns the account with the given username, ignoring case.
func (s *SurrealStore) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.findAccount(ctx, "SELECT * FROM account WHERE string::lowercase(username) = $username",
		map[string]any{"username": strings.ToLower(username)})
}

// Create stores a new account. Email and username must both be unused.
func (s *SurrealStore) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account to create cannot be nil")
	}

	existing, err := QueryOne[accountRow](ctx, s.db,
		"SELECT * FROM account WHERE string::lowercase(email) = $email OR string::lowercase(username) = $username",
		map[string]any{
			"email":    strings.ToLower(account.Email),
			"username": strings.ToLower(account.Username),
		})
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", accountTable).Wrap(err)
	}
	if existing != nil {
		return nil, domain.ErrAccountExists
	}

	id := account.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := account.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	row, err := QueryOne[accountRow](ctx, s.db, "CREATE $id CONTENT $data", map[string]any{
		"id": accountID(id),
		"data": map[string]any{
			"username":      account.Username,
			"email":         account.Email,
			"password_hash": account.PasswordHash,
			"created_at":    surrealmodels.CustomDateTime{Time: created},
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil, domain.ErrAccountExists
		}
		return nil, oops.Code("DB_CREATE_FAILED").With("table", accountTable).Wrap(err)
	}
	if row == nil {
		return nil, oops.Code("DB_CREATE_FAILED").Errorf("create returned no account")
	}
	return row.toDomain(), nil
}

func (s *SurrealStore) update(ctx context.Context, id, set string, params map[string]any) error {
	params["id"] = accountID(id)
	row, err := QueryOne[accountRow](ctx, s.db, "UPDATE $id SET "+set+" WHERE id = $id", params)
	if err != nil {
		return oops.Code("DB_UPDATE_FAILED").With("table", accountTable).With("id", id).Wrap(err)
	}
	if row == nil {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (s *SurrealStore) UpdatePassword(ctx context.Context, id, hash string) error {
	return s.update(ctx, id, "password_hash = $hash", map[string]any{"hash": hash})
}

// SetResetToken stores a reset token hash, replacing any earlier one.
func (s *SurrealStore) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return s.update(ctx, id, "reset_token_hash = $hash, reset_token_expires = $expires", map[string]any{
		"hash":    tokenHash,
		"expires": surrealmodels.CustomDateTime{Time: expires.UTC()},
	})
}

// ClearResetToken removes the reset token of an account.
func (s *SurrealStore) ClearResetToken(ctx context.Context, id string) error {
	return s.update(ctx, id, "reset_token_hash = NONE, reset_token_expires = NONE", map[string]any{})
}

// CreateSession stores a session. Only the token hash is persisted.
func (s *SurrealStore) CreateSession(ctx context.Context, session *domain.Session) error {
	if session == nil || session.TokenHash == "" {
		return errors.New("session token hash is required")
	}
	err := Execute(ctx, s.db, "CREATE session CONTENT $data", map[string]any{
		"data": map[string]any{
			"token_hash": session.TokenHash,
			"account_id": session.AccountID,
			"remember":   session.Remember,
			"expires_at": surrealmodels.CustomDateTime{Time: session.ExpiresAt.UTC()},
		},
	})
	if err != nil {
		return oops.Code("DB_CREATE_FAILED").With("table", sessionTable).Wrap(err)
	}
	return nil
}

// FindSession returns the session stored under tokenHash.
func (s *SurrealStore) FindSession(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row, err := QueryOne[sessionRow](ctx, s.db, "SELECT * FROM session WHERE token_hash = $hash",
		map[string]any{"hash": tokenHash})
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", sessionTable).Wrap(err)
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return row.toDomain(), nil
}

// DeleteSession removes the session stored under tokenHash.
func (s *SurrealStore) DeleteSession(ctx context.Context, tokenHash string) error {
	rows, err := Query[sessionRow](ctx, s.db, "DELETE session WHERE token_hash = $hash RETURN BEFORE",
		map[string]any{"hash": tokenHash})
	if err != nil {
		return oops.Code("DB_DELETE_FAILED").With("table", sessionTable).Wrap(err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}
