package database

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/spf13/afero"

	"github.com/nfrund/accounttabs/internal/domain"
)

var _ domain.AccountRepository = (*FileStore)(nil)

// fileData is the on-disk layout of a FileStore.
type fileData struct {
	Accounts []domain.Account `json:"accounts"`
	Sessions []domain.Session `json:"sessions"`
}

// FileStore keeps accounts and sessions in a single JSON document on an
// afero filesystem. Every write replaces the document through a temp file and
// a rename.
type FileStore struct {
	fs   afero.Fs
	path string

	mu     sync.RWMutex
	loaded bool
	data   fileData
}

// NewFileStore creates a FileStore backed by path on fs. The file is created
// on the first write.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	raw, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return oops.Code("DB_FILE_READ_FAILED").With("path", s.path).Wrap(err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return oops.Code("DB_FILE_CORRUPT").With("path", s.path).Wrap(err)
		}
	}
	s.loaded = true
	return nil
}

func (s *FileStore) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return oops.Code("DB_FILE_ENCODE_FAILED").Wrap(err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return oops.Code("DB_FILE_WRITE_FAILED").With("path", s.path).Wrap(err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, raw, 0o600); err != nil {
		return oops.Code("DB_FILE_WRITE_FAILED").With("path", tmp).Wrap(err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return oops.Code("DB_FILE_WRITE_FAILED").With("path", s.path).Wrap(err)
	}
	return nil
}

// read runs fn under the read lock once the document is loaded.
func (s *FileStore) read(fn func() error) error {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return fn()
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	return fn()
}

// write runs fn under the write lock and persists the document when fn
// succeeds. A failed persist rolls the in-memory document back.
func (s *FileStore) write(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	snapshot := fileData{
		Accounts: append([]domain.Account(nil), s.data.Accounts...),
		Sessions: append([]domain.Session(nil), s.data.Sessions...),
	}
	if err := fn(); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *FileStore) accountIndex(match func(*domain.Account) bool) int {
	for i := range s.data.Accounts {
		if match(&s.data.Accounts[i]) {
			return i
		}
	}
	return -1
}

func (s *FileStore) findAccount(match func(*domain.Account) bool) (*domain.Account, error) {
	var found *domain.Account
	err := s.read(func() error {
		i := s.accountIndex(match)
		if i < 0 {
			return domain.ErrNotFound
		}
		account := s.data.Accounts[i]
		found = &account
		return nil
	})
	return found, err
}

// FindByID returns the account with the given ID.
func (s *FileStore) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return s.findAccount(func(a *domain.Account) bool { return a.ID == id })
}

// FindByEmail returns the account with the given email, ignoring case.
func (s *FileStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return s.findAccount(func(a *domain.Account) bool { return strings.EqualFold(a.Email, email) })
}

// FindByUsername returns the account with the given username, ignoring case.
func (s *FileStore) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return s.findAccount(func(a *domain.Account) bool { return strings.EqualFold(a.Username, username) })
}

// Create stores a new account and assigns its ID.
func (s *FileStore) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account to create cannot be nil")
	}
	created := *account
	err := s.write(func() error {
		taken := s.accountIndex(func(a *domain.Account) bool {
			return strings.EqualFold(a.Email, created.Email) || strings.EqualFold(a.Username, created.Username)
		})
		if taken >= 0 {
			return domain.ErrAccountExists
		}
		if created.ID == "" {
			created.ID = uuid.NewString()
		}
		if created.CreatedAt.IsZero() {
			created.CreatedAt = time.Now().UTC()
		}
		s.data.Accounts = append(s.data.Accounts, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *FileStore) updateAccount(id string, fn func(*domain.Account)) error {
	return s.write(func() error {
		i := s.accountIndex(func(a *domain.Account) bool { return a.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		fn(&s.data.Accounts[i])
		return nil
	})
}

// UpdatePassword replaces the stored password hash.
func (s *FileStore) UpdatePassword(_ context.Context, id, hash string) error {
	return s.updateAccount(id, func(a *domain.Account) { a.PasswordHash = hash })
}

// SetResetToken stores a reset token hash, replacing any earlier one.
func (s *FileStore) SetResetToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	return s.updateAccount(id, func(a *domain.Account) {
		a.ResetTokenHash = tokenHash
		a.ResetTokenExpires = &expires
	})
}

// ClearResetToken removes the reset token of an account.
func (s *FileStore) ClearResetToken(_ context.Context, id string) error {
	return s.updateAccount(id, func(a *domain.Account) {
		a.ResetTokenHash = ""
		a.ResetTokenExpires = nil
	})
}

// CreateSession stores a session. Only the token hash is persisted.
func (s *FileStore) CreateSession(_ context.Context, session *domain.Session) error {
	if session == nil || session.TokenHash == "" {
		return errors.New("session token hash is required")
	}
	stored := *session
	stored.Token = ""
	return s.write(func() error {
		s.data.Sessions = append(s.data.Sessions, stored)
		return nil
	})
}

// FindSession returns the session stored under tokenHash.
func (s *FileStore) FindSession(_ context.Context, tokenHash string) (*domain.Session, error) {
	var found *domain.Session
	err := s.read(func() error {
		for _, session := range s.data.Sessions {
			if session.TokenHash == tokenHash {
				found = &session
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}

// DeleteSession removes the session stored under tokenHash.
func (s *FileStore) DeleteSession(_ context.Context, tokenHash string) error {
	return s.write(func() error {
		for i, session := range s.data.Sessions {
			if session.TokenHash == tokenHash {
				s.data.Sessions = append(s.data.Sessions[:i], s.data.Sessions[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}
