package email_test

import (
	"testing"

	"github.com/nfrund/accounttabs/internal/config"
	"github.com/nfrund/accounttabs/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	t.Run("log", func(t *testing.T) {
		sender, err := email.NewEmailService(&config.Config{EmailProvider: "log"})
		require.NoError(t, err)
		assert.IsType(t, &email.LogSender{}, sender)
		assert.NoError(t, sender.Send("a@example.com", "s", "<p>b</p>"))
	})

	t.Run("resend requires key", func(t *testing.T) {
		_, err := email.NewEmailService(&config.Config{EmailProvider: "resend"})
		assert.ErrorContains(t, err, "EMAIL_API_KEY")
	})

	t.Run("resend", func(t *testing.T) {
		sender, err := email.NewEmailService(&config.Config{EmailProvider: "resend", EmailAPIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &email.ResendSender{}, sender)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := email.NewEmailService(&config.Config{EmailProvider: "pigeon"})
		assert.Error(t, err)
	})
}
