package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the report job reads from its environment.
// Email fields may legitimately be empty: a missing key resolves to the
// empty string and is never fatal.
type Config struct {
	DatabaseURL string
	Email       EmailConfig
}

// EmailConfig is the single seam to the mail collaborator: addresses and the
// display company name used in the message body.
type EmailConfig struct {
	ResendAPIKey string
	Recipient    string // comma separated addresses allowed
	Sender       string
	CC           string
	ReplyTo      string
	CompanyName  string
}

// Load reads configuration from an optional config.yaml and from
// PRICING_* environment variables. Env always wins.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// No config file is fine; env vars carry everything.
	}

	return &Config{
		DatabaseURL: v.GetString("database.url"),
		Email: EmailConfig{
			ResendAPIKey: v.GetString("email.resend_api_key"),
			Recipient:    v.GetString("email.recipient"),
			Sender:       v.GetString("email.sender"),
			CC:           v.GetString("email.cc"),
			ReplyTo:      v.GetString("email.reply_to"),
			CompanyName:  v.GetString("email.company_name"),
		},
	}, nil
}
