package forms

import (
	"net/url"

	"github.com/nfrund/accounttabs/internal/domain"
)

// Outcome is the result of one submission handler: where to send the browser,
// what to tell the user, and whether a session was established. Err is nil on
// success and otherwise classified by auth_errors.KindOf.
type Outcome struct {
	Form     domain.Form
	Redirect string
	Notice   *domain.Notice
	Session  *domain.Session
	Err      error
}

// Failed reports whether the handler ended on an error path.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

func fail(form domain.Form, redirect, message string, err error) Outcome {
	n := domain.NewError(form, message)
	return Outcome{Form: form, Redirect: redirect, Notice: &n, Err: err}
}

func succeed(form domain.Form, redirect string, notice *domain.Notice) Outcome {
	return Outcome{Form: form, Redirect: redirect, Notice: notice}
}

func info(form domain.Form, message string) *domain.Notice {
	n := domain.NewInfo(form, message)
	return &n
}

// AccountURL returns base with params merged into its query string. Invalid
// bases are returned unchanged.
func AccountURL(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, vs := range params {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
