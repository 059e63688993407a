package domain

// Severity of a user-visible notice.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Form identifies which of the account forms produced something.
type Form string

const (
	FormNone         Form = ""
	FormLogin        Form = "login"
	FormRegister     Form = "register"
	FormResetRequest Form = "reset_request"
	FormResetConfirm Form = "reset_confirm"
)

// Notice is a message queued for the next rendered page. Form records the
// originating form so the page can pick a tab without inspecting the text.
type Notice struct {
	Message  string
	Severity Severity
	Form     Form
}

// NewError builds an error notice raised by form.
func NewError(form Form, message string) Notice {
	return Notice{Message: message, Severity: SeverityError, Form: form}
}

// NewInfo builds an informational notice raised by form.
func NewInfo(form Form, message string) Notice {
	return Notice{Message: message, Severity: SeverityInfo, Form: form}
}
