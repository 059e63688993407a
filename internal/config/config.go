package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Provider exposes configuration values to the rest of the application.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetAccountPath() string
	GetAccountURL() string
	GetSiteName() string
	GetPrivacyPolicyURL() string
	GetSessionSecret() string
	GetNonceLifetime() time.Duration
	GetRegistrationGeneratePassword() bool
	GetResetTokenTTL() time.Duration

	GetDBDriver() string
	GetDataFile() string
	GetDBUrl() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string

	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string

	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr          string        `validate:"required"`
	AppBaseURL       string        `validate:"required,url"`
	AccountPath      string        `validate:"required,startswith=/"`
	SiteName         string        `validate:"required"`
	PrivacyPolicyURL string        `validate:"omitempty,url"`
	SessionSecret    string        `validate:"required,min=32"`
	NonceLifetime    time.Duration `validate:"gte=1m"`
	GeneratePassword bool
	ResetTokenTTL    time.Duration `validate:"gt=0"`

	DBDriver string `validate:"oneof=memory file surreal"`
	DataFile string `validate:"required_if=DBDriver file"`
	DBUrl    string `validate:"required_if=DBDriver surreal"`
	DBNs     string `validate:"required_if=DBDriver surreal"`
	DBDb     string `validate:"required_if=DBDriver surreal"`
	DBUser   string
	DBPass   string

	EmailProvider string `validate:"oneof=log resend"`
	EmailAPIKey   string `validate:"required_if=EmailProvider resend"`
	EmailSender   string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string
}

var _ Provider = (*Config)(nil)

// New loads configuration from an optional .env file and the environment,
// then validates it.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet; this only reaches the default logger.
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []string
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(get(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return d
	}
	boolean := func(key string) bool {
		v := get(key, "false")
		if v == "yes" {
			return true
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return b
	}

	cfg := &Config{
		AppAddr:          get("APP_ADDR", ":8080"),
		AppBaseURL:       strings.TrimRight(get("APP_BASE_URL", "http://localhost:8080"), "/"),
		AccountPath:      get("ACCOUNT_PATH", "/my-account"),
		SiteName:         get("SITE_NAME", "Shop"),
		PrivacyPolicyURL: get("PRIVACY_POLICY_URL", ""),
		SessionSecret:    get("SESSION_SECRET", ""),
		NonceLifetime:    duration("NONCE_LIFETIME", "24h"),
		GeneratePassword: boolean("REGISTRATION_GENERATE_PASSWORD"),
		ResetTokenTTL:    duration("RESET_TOKEN_TTL", "24h"),

		DBDriver: get("DB_DRIVER", "memory"),
		DataFile: get("DATA_FILE", "data/accounts.json"),
		DBUrl:    get("SURREAL_URL", ""),
		DBNs:     get("SURREAL_NS", ""),
		DBDb:     get("SURREAL_DB", ""),
		DBUser:   get("SURREAL_USER", ""),
		DBPass:   get("SURREAL_PASS", ""),

		EmailProvider: get("EMAIL_PROVIDER", "log"),
		EmailAPIKey:   get("EMAIL_API_KEY", ""),
		EmailSender:   get("EMAIL_SENDER", ""),

		LogFormat: get("LOG_FORMAT", "text"),
		LogLevel:  get("LOG_LEVEL", "info"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) GetAppAddr() string          { return c.AppAddr }
func (c *Config) GetAppBaseURL() string       { return c.AppBaseURL }
func (c *Config) GetAccountPath() string      { return c.AccountPath }
func (c *Config) GetSiteName() string         { return c.SiteName }
func (c *Config) GetPrivacyPolicyURL() string { return c.PrivacyPolicyURL }
func (c *Config) GetSessionSecret() string    { return c.SessionSecret }

// GetAccountURL returns the absolute URL of the account landing page.
func (c *Config) GetAccountURL() string { return c.AppBaseURL + c.AccountPath }

func (c *Config) GetNonceLifetime() time.Duration       { return c.NonceLifetime }
func (c *Config) GetRegistrationGeneratePassword() bool { return c.GeneratePassword }
func (c *Config) GetResetTokenTTL() time.Duration       { return c.ResetTokenTTL }

func (c *Config) GetDBDriver() string { return c.DBDriver }
func (c *Config) GetDataFile() string { return c.DataFile }
func (c *Config) GetDBUrl() string    { return c.DBUrl }
func (c *Config) GetDBNs() string     { return c.DBNs }
func (c *Config) GetDBDb() string     { return c.DBDb }
func (c *Config) GetDBUser() string   { return c.DBUser }
func (c *Config) GetDBPass() string   { return c.DBPass }

func (c *Config) GetEmailProvider() string { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string   { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string   { return c.EmailSender }

func (c *Config) GetLogFormat() string { return c.LogFormat }
func (c *Config) GetLogLevel() string  { return c.LogLevel }
