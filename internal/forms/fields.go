// Package forms routes account form submissions to their handlers and turns
// identity provider results into redirects and notices.
package forms

// Hidden intent markers, one per form.
const (
	MarkerLogin         = "custom-woocommerce-login"
	MarkerRegister      = "custom-woocommerce-register"
	MarkerLostPassword  = "custom-woocommerce-lost-password"
	MarkerResetPassword = "custom-woocommerce-reset-password"
)

// Anti-forgery token field names, one per form.
const (
	NonceFieldLogin         = "woocommerce-login-nonce"
	NonceFieldRegister      = "woocommerce-register-nonce"
	NonceFieldLostPassword  = "woocommerce-lost-password-nonce"
	NonceFieldResetPassword = "woocommerce-reset-password-nonce"
)

// Input field names.
const (
	FieldUsername   = "username"
	FieldPassword   = "password"
	FieldRememberMe = "rememberme"
	FieldEmail      = "email"
	FieldUserLogin  = "user_login"
	FieldPassword1  = "password_1"
	FieldPassword2  = "password_2"
	FieldResetKey   = "reset_key"
	FieldResetLogin = "reset_login"
)

// User-facing messages.
const (
	MsgLoginFailed          = "Unknown username or incorrect password."
	MsgInvalidEmail         = "Please provide a valid email address."
	MsgEmailRegistered      = "An account is already registered with your email address. Please log in."
	MsgRegistrationFailed   = "Could not create your account."
	MsgCheckEmailPassword   = "Your account was created successfully. Please check your email for the password."
	MsgCreatedLoginManually = "Your account was created, but we could not sign you in. Please log in."
	MsgEnterLogin           = "Enter a username or email address."
	MsgResetEmailSent       = "Password reset email has been sent."
	MsgResetRequestFailed   = "Could not send the password reset email. Please try again."
	MsgResetKeyInvalid      = "This password reset key is invalid or has already been used. Please request a new password reset."
	MsgPasswordsMismatch    = "Passwords do not match."
	MsgEnterPassword        = "Please enter your password."
	MsgPasswordResetDone    = "Your password has been reset successfully. Please log in with your new password."
	MsgPasswordResetFailed  = "Your password could not be changed. Please try again."
)
