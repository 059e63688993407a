package view

import (
	"encoding/gob"
	"log/slog"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/accounttabs/internal/domain"
)

const (
	flashSessionName = "flash-session"
	flashKeyNotices  = "notices"
)

func init() {
	// Notices travel inside the session cookie as gob-encoded flashes.
	gob.Register(domain.Notice{})
}

// AddNotice queues a notice for the next render of this session.
func AddNotice(c echo.Context, notice domain.Notice) {
	sess, err := session.Get(flashSessionName, c)
	if sess == nil {
		slog.Error("Flash session unavailable, dropping notice", "error", err, "message", notice.Message)
		return
	}
	if err != nil {
		slog.Warn("Flash session unreadable, starting a new one", "error", err)
	}
	sess.AddFlash(notice, flashKeyNotices)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save flash session", "error", err)
	}
}

// AddError queues an error notice raised by form.
func AddError(c echo.Context, form domain.Form, message string) {
	AddNotice(c, domain.NewError(form, message))
}

// AddInfo queues an informational notice raised by form.
func AddInfo(c echo.Context, form domain.Form, message string) {
	AddNotice(c, domain.NewInfo(form, message))
}

// DrainNotices returns the queued notices in the order they were added and
// clears them, so each notice is seen by exactly one render.
func DrainNotices(c echo.Context) []domain.Notice {
	sess, _ := session.Get(flashSessionName, c)
	if sess == nil {
		return nil
	}

	// Flashes() retrieves and then clears the flashes from the session.
	flashes := sess.Flashes(flashKeyNotices)
	if len(flashes) == 0 {
		return nil
	}

	notices := make([]domain.Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(domain.Notice); ok {
			notices = append(notices, n)
		}
	}

	// Persist the clearing of the flashes.
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save flash session", "error", err)
	}
	return notices
}

// Errors filters notices down to error severity.
func Errors(notices []domain.Notice) []domain.Notice {
	var out []domain.Notice
	for _, n := range notices {
		if n.Severity == domain.SeverityError {
			out = append(out, n)
		}
	}
	return out
}
