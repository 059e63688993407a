// Package tabs decides which pane of the account page is shown.
package tabs

import (
	"context"
	"net/url"
	"strings"

	"github.com/nfrund/accounttabs/internal/domain"
)

// ActionLostPassword is the value of the action query parameter that opens
// the reset request pane.
const ActionLostPassword = "lostpassword"

// Query holds the query parameters the account page reacts to.
type Query struct {
	Action string
	Key    string
	Login  string
}

// ParseQuery extracts a Query from URL values, trimming whitespace.
func ParseQuery(v url.Values) Query {
	return Query{
		Action: strings.TrimSpace(v.Get("action")),
		Key:    strings.TrimSpace(v.Get("key")),
		Login:  strings.TrimSpace(v.Get("login")),
	}
}

// HasResetPair reports whether both halves of a reset link are present.
func (q Query) HasResetPair() bool {
	return q.Key != "" && q.Login != ""
}

// TokenChecker validates a reset key for an account identifier.
type TokenChecker interface {
	CheckResetToken(ctx context.Context, token, identifier string) (*domain.Account, error)
}

// Compute returns the tab state for a render. It has no side effects; the
// only collaborator consulted is checker, and only when a reset pair is in
// the query.
func Compute(ctx context.Context, q Query, notices []domain.Notice, checker TokenChecker) domain.TabState {
	if q.HasResetPair() && checker != nil {
		if _, err := checker.CheckResetToken(ctx, q.Key, q.Login); err == nil {
			return domain.TabState{ActiveTab: domain.TabResetConfirm, ResetTabVisible: true}
		}
	}

	if q.Action == ActionLostPassword {
		return domain.TabState{ActiveTab: domain.TabResetRequest, ResetTabVisible: true}
	}

	switch fromNotices(notices) {
	case domain.TabRegister:
		return domain.TabState{ActiveTab: domain.TabRegister}
	case domain.TabResetRequest:
		return domain.TabState{ActiveTab: domain.TabResetRequest, ResetTabVisible: true}
	}
	return domain.TabState{ActiveTab: domain.TabLogin}
}

// fromNotices maps error notices to a tab. A register error wins over a reset
// error. Notices that name their form are mapped directly; the rest fall back
// to looking for keywords in the text.
func fromNotices(notices []domain.Notice) domain.Tab {
	register, reset := false, false
	for _, n := range notices {
		if n.Severity != domain.SeverityError {
			continue
		}
		switch formTab(n) {
		case domain.TabRegister:
			register = true
		case domain.TabResetRequest:
			reset = true
		}
	}

	switch {
	case register:
		return domain.TabRegister
	case reset:
		return domain.TabResetRequest
	}
	return domain.TabLogin
}

func formTab(n domain.Notice) domain.Tab {
	switch n.Form {
	case domain.FormLogin:
		return domain.TabLogin
	case domain.FormRegister:
		return domain.TabRegister
	case domain.FormResetRequest, domain.FormResetConfirm:
		return domain.TabResetRequest
	}

	text := strings.ToLower(n.Message)
	switch {
	case strings.Contains(text, "register"):
		return domain.TabRegister
	case strings.Contains(text, "password"), strings.Contains(text, "reset"):
		return domain.TabResetRequest
	}
	return domain.TabLogin
}
