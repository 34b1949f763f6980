// Package config loads client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "MARKETPLACE_"

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultFiles are the dotenv files read by Load when none are given.
// Earlier files win: variables already set are never overwritten.
var DefaultFiles = []string{".env.local", ".env"}

// ErrInvalid indicates a setting that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete client configuration.
type Config struct {
	Env            string        `env:"ENV"             envDefault:"development"`
	APIURL         string        `env:"API_URL"         envDefault:"http://localhost:8080/api"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	Locale         string        `env:"LOCALE"          envDefault:"de"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	ConfigDir      string        `env:"CONFIG_DIR"`

	Firebase Firebase `envPrefix:"FIREBASE_"`
	Google   Google   `envPrefix:"GOOGLE_"`
}

// Firebase holds the web app settings of the identity provider project.
type Firebase struct {
	APIKey            string `env:"API_KEY"`
	AuthDomain        string `env:"AUTH_DOMAIN"`
	ProjectID         string `env:"PROJECT_ID"`
	StorageBucket     string `env:"STORAGE_BUCKET"`
	MessagingSenderID string `env:"MESSAGING_SENDER_ID"`
	AppID             string `env:"APP_ID"`
}

// Google is the OAuth client used for popup sign-in. Both fields empty
// disables it.
type Google struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

// Load reads dotenv files (DefaultFiles when none are given; missing files
// are skipped) and then parses the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = DefaultFiles
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return nil, fmt.Errorf("load dotenv: %w", err)
		}
	}

	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Production reports whether the production environment is selected.
func (c *Config) Production() bool { return c.Env == EnvProduction }

// Validate checks the settings. Missing identity provider keys are fatal in
// production only; elsewhere callers should warn about MissingFirebase.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("%w: %sENV=%q", ErrInvalid, Prefix, c.Env)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %sAPI_URL=%q", ErrInvalid, Prefix, c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %sREQUEST_TIMEOUT must be positive", ErrInvalid, Prefix)
	}
	if (c.Google.ClientID == "") != (c.Google.ClientSecret == "") {
		return fmt.Errorf("%w: %sGOOGLE_CLIENT_ID and %sGOOGLE_CLIENT_SECRET go together", ErrInvalid, Prefix, Prefix)
	}
	if missing := c.MissingFirebase(); len(missing) > 0 && c.Production() {
		return fmt.Errorf("%w: missing %v", ErrInvalid, missing)
	}
	return nil
}

// MissingFirebase lists the unset identity provider variables.
func (c *Config) MissingFirebase() []string {
	var missing []string
	for _, kv := range []struct{ name, value string }{
		{"API_KEY", c.Firebase.APIKey},
		{"AUTH_DOMAIN", c.Firebase.AuthDomain},
		{"PROJECT_ID", c.Firebase.ProjectID},
		{"STORAGE_BUCKET", c.Firebase.StorageBucket},
		{"MESSAGING_SENDER_ID", c.Firebase.MessagingSenderID},
		{"APP_ID", c.Firebase.AppID},
	} {
		if kv.value == "" {
			missing = append(missing, Prefix+"FIREBASE_"+kv.name)
		}
	}
	return missing
}

// PopupEnabled reports whether Google popup sign-in is configured.
func (c *Config) PopupEnabled() bool { return c.Google.ClientID != "" }
