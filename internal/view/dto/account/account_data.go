package account

import "github.com/nfrund/accounttabs/internal/domain"

// Nonces carries the anti-forgery token rendered into each form.
type Nonces struct {
	Login         string
	Register      string
	LostPassword  string
	ResetPassword string
}

// PageData is the View Model for the logged-out account page.
type PageData struct {
	SiteName         string
	ActionURL        string
	State            domain.TabState
	Notices          []domain.Notice
	Nonces           Nonces
	GeneratePassword bool
	PrivacyPolicyURL string
	// ResetKey and ResetLogin are echoed into the confirm-reset form.
	ResetKey   string
	ResetLogin string
}

// DashboardData is the View Model for a logged-in customer.
type DashboardData struct {
	SiteName  string
	Username  string
	Email     string
	LogoutURL string
	Notices   []domain.Notice
}
