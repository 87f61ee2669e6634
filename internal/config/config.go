package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StoreCredentials is the JSON blob in STORE_CREDENTIALS.
type StoreCredentials struct {
	Driver string `json:"driver"` // "postgres" or "sqlite"
	DSN    string `json:"dsn"`
}

// SMTPConfig contains mail relay settings.
type SMTPConfig struct {
	Host           string
	Port           int
	SenderEmail    string
	SenderPassword string
	SenderName     string
}

// InviteConfig contains the fixed parts of the invite email.
type InviteConfig struct {
	Recipients     []string
	Subject        string
	TemplatePath   string
	AttachmentPath string
}

// Config holds all application configuration.
type Config struct {
	AppPort     string
	Store       StoreCredentials
	SMTP        SMTPConfig
	Invite      InviteConfig
	RabbitMQURL string
	LogLevel    string
	LogFormat   string
}

// Load reads an optional .env file, then the environment. A missing or
// malformed store credential is an error.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_CREDENTIALS", "")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SENDER_EMAIL", "")
	v.SetDefault("SENDER_PASSWORD", "")
	v.SetDefault("SENDER_NAME", "Unified API Team")
	v.SetDefault("INVITE_RECIPIENTS", "")
	v.SetDefault("INVITE_SUBJECT", "Invitation to Review Unified API Documentation")
	v.SetDefault("INVITE_TEMPLATE_PATH", "templates/email_template.html")
	v.SetDefault("INVITE_ATTACHMENT_PATH", "resources/invite_attachment.png")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from already populated settings.
func FromViper(v *viper.Viper) (*Config, error) {
	store, err := ParseStoreCredentials(v.GetString("STORE_CREDENTIALS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		AppPort: v.GetString("APP_PORT"),
		Store:   store,
		SMTP: SMTPConfig{
			Host:           v.GetString("SMTP_HOST"),
			Port:           v.GetInt("SMTP_PORT"),
			SenderEmail:    v.GetString("SENDER_EMAIL"),
			SenderPassword: v.GetString("SENDER_PASSWORD"),
			SenderName:     v.GetString("SENDER_NAME"),
		},
		Invite: InviteConfig{
			Recipients:     splitList(v.GetString("INVITE_RECIPIENTS")),
			Subject:        v.GetString("INVITE_SUBJECT"),
			TemplatePath:   v.GetString("INVITE_TEMPLATE_PATH"),
			AttachmentPath: v.GetString("INVITE_ATTACHMENT_PATH"),
		},
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
	}, nil
}

// ParseStoreCredentials decodes and checks the store credential blob.
func ParseStoreCredentials(raw string) (StoreCredentials, error) {
	var creds StoreCredentials
	if strings.TrimSpace(raw) == "" {
		return creds, errors.New("STORE_CREDENTIALS environment variable is not set")
	}
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return creds, fmt.Errorf("invalid JSON format in STORE_CREDENTIALS: %w", err)
	}
	switch creds.Driver {
	case "postgres", "sqlite":
	default:
		return creds, fmt.Errorf("unsupported store driver %q", creds.Driver)
	}
	if creds.DSN == "" {
		return creds, errors.New("STORE_CREDENTIALS has an empty dsn")
	}
	return creds, nil
}

// String returns a representation of the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Store: %s (*** masked ***), SMTP: %s:%d as %s, Recipients: %d, RabbitMQ: %t}",
		c.AppPort, c.Store.Driver, c.SMTP.Host, c.SMTP.Port, c.SMTP.SenderEmail, len(c.Invite.Recipients), c.RabbitMQURL != "")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
