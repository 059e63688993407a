package forms_test

import (
	"context"
	"errors"
	"strings"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/domain/auth_errors"
)

// fakeIDP is an in-memory identity provider that records calls.
type fakeIDP struct {
	accounts  map[string]*domain.Account // keyed by username
	passwords map[string]string

	resetKeys map[string]string // username -> key

	created      []createCall
	setPasswords []string
	resetIssued  []string
	sessions     int

	failEmailExists bool
	failCreate      error
}

type createCall struct {
	email, username, password string
	generated                 bool
}

func newFakeIDP(usernames ...string) *fakeIDP {
	f := &fakeIDP{
		accounts:  map[string]*domain.Account{},
		passwords: map[string]string{},
		resetKeys: map[string]string{},
	}
	for _, u := range usernames {
		f.accounts[u] = &domain.Account{ID: "acc-" + u, Username: u, Email: u + "@existing.test"}
	}
	return f
}

func (f *fakeIDP) find(identifier string) *domain.Account {
	if a, ok := f.accounts[identifier]; ok {
		return a
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, identifier) {
			return a
		}
	}
	return nil
}

func (f *fakeIDP) Authenticate(_ context.Context, creds domain.Credentials) (*domain.Session, error) {
	a := f.find(creds.Identifier)
	if a == nil || f.passwords[a.Username] != creds.Secret {
		return nil, auth_errors.Authentication("Unknown username or incorrect password.")
	}
	f.sessions++
	return &domain.Session{Token: "session-token", AccountID: a.ID, Remember: creds.Remember}, nil
}

func (f *fakeIDP) ResolveSession(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeIDP) EndSession(context.Context, string) error { return nil }

func (f *fakeIDP) EmailExists(_ context.Context, email string) (bool, error) {
	if f.failEmailExists {
		return false, errors.New("store unavailable")
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeIDP) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.accounts[username]
	return ok, nil
}

func (f *fakeIDP) GeneratePassword() (string, error) { return "generated-secret", nil }

func (f *fakeIDP) CreateAccount(_ context.Context, email, username, password string, generated bool) (*domain.Account, error) {
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.created = append(f.created, createCall{email, username, password, generated})
	a := &domain.Account{ID: "acc-" + username, Username: username, Email: email}
	f.accounts[username] = a
	f.passwords[username] = password
	return a, nil
}

func (f *fakeIDP) StartSession(_ context.Context, account *domain.Account, remember bool) (*domain.Session, error) {
	f.sessions++
	return &domain.Session{Token: "session-token", AccountID: account.ID, Remember: remember}, nil
}

func (f *fakeIDP) IssueResetToken(_ context.Context, identifier string) error {
	a := f.find(identifier)
	if a == nil {
		return auth_errors.Validation("Invalid username or email.")
	}
	f.resetIssued = append(f.resetIssued, a.Username)
	return nil
}

func (f *fakeIDP) CheckResetToken(_ context.Context, token, identifier string) (*domain.Account, error) {
	a := f.find(identifier)
	if a == nil || token == "" || f.resetKeys[a.Username] != token {
		return nil, auth_errors.TokenInvalid("invalid key")
	}
	return a, nil
}

func (f *fakeIDP) SetPassword(_ context.Context, account *domain.Account, newPassword string) error {
	f.setPasswords = append(f.setPasswords, newPassword)
	f.passwords[account.Username] = newPassword
	delete(f.resetKeys, account.Username)
	return nil
}

// fakeNonces accepts tokens of the form "ok-<action>" for seed "seed".
type fakeNonces struct{}

func (fakeNonces) Verify(token, action, seed string) bool {
	return seed == "seed" && token == "ok-"+action
}
