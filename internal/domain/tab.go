package domain

// Tab is one of the panes of the account page.
type Tab string

const (
	TabLogin        Tab = "login"
	TabRegister     Tab = "register"
	TabResetRequest Tab = "reset_request"
	TabResetConfirm Tab = "reset_confirm"
)

// TabState is derived on every render and never stored.
type TabState struct {
	ActiveTab       Tab
	ResetTabVisible bool
}
