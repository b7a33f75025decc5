// Package config loads the site configuration from the environment and
// optional .env files.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Content backends.
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Env  string `mapstructure:"ENV"`
	Addr string `mapstructure:"ADDR"`

	Site     SiteConfig     `mapstructure:",squash"`
	Content  ContentConfig  `mapstructure:",squash"`
	Admin    AdminConfig    `mapstructure:",squash"`
	Mail     MailConfig     `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
}

type SiteConfig struct {
	Name        string `mapstructure:"SITE_NAME"`
	URL         string `mapstructure:"SITE_URL"`
	Description string `mapstructure:"SITE_DESCRIPTION"`
	StaticDir   string `mapstructure:"STATIC_DIR"`
}

type ContentConfig struct {
	Backend            string `mapstructure:"CONTENT_BACKEND"` // "supabase", "sqlite"
	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseAnonKey    string `mapstructure:"SUPABASE_ANON_KEY"`
	SupabaseServiceKey string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"` // sitemap only
	DatabasePath       string `mapstructure:"DATABASE_PATH"`
	UploadsDir         string `mapstructure:"UPLOADS_DIR"`
}

type AdminConfig struct {
	User          string `mapstructure:"ADMIN_USER"`
	Password      string `mapstructure:"ADMIN_PASSWORD"`
	PasswordHash  string `mapstructure:"ADMIN_PASSWORD_HASH"` // bcrypt
	SessionSecret string `mapstructure:"ADMIN_SESSION_SECRET"`
	CookieSecure  bool   `mapstructure:"COOKIE_SECURE"`

	// GeneratedSecret is set when SessionSecret was generated at startup
	// because none was configured outside prod.
	GeneratedSecret bool `mapstructure:"-"`
}

type MailConfig struct {
	ServiceID  string `mapstructure:"EMAILJS_SERVICE_ID"`
	TemplateID string `mapstructure:"EMAILJS_TEMPLATE_ID"`
	PublicKey  string `mapstructure:"EMAILJS_PUBLIC_KEY"`
}

type SecurityConfig struct {
	LoginMaxAttempts int           `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginWindow      time.Duration `mapstructure:"LOGIN_WINDOW"`
	FormMaxPerWindow int           `mapstructure:"FORM_MAX_PER_WINDOW"`
	FormWindow       time.Duration `mapstructure:"FORM_WINDOW"`
	RateLimitRPM     int           `mapstructure:"RATE_LIMIT_RPM"`
}

var defaults = map[string]any{
	"ENV":                       "dev",
	"ADDR":                      ":3000",
	"SITE_NAME":                 "Northpoint IT",
	"SITE_URL":                  "http://localhost:3000",
	"SITE_DESCRIPTION":          "IT support, cloud, cyber security and web development for businesses in Leeds.",
	"STATIC_DIR":                "public",
	"CONTENT_BACKEND":           BackendSupabase,
	"SUPABASE_URL":              "",
	"SUPABASE_ANON_KEY":         "",
	"SUPABASE_SERVICE_ROLE_KEY": "",
	"DATABASE_PATH":             "data/site.db",
	"UPLOADS_DIR":               "public/uploads",
	"ADMIN_USER":                "admin",
	"ADMIN_PASSWORD":            "",
	"ADMIN_PASSWORD_HASH":       "",
	"ADMIN_SESSION_SECRET":      "",
	"COOKIE_SECURE":             false,
	"EMAILJS_SERVICE_ID":        "",
	"EMAILJS_TEMPLATE_ID":       "",
	"EMAILJS_PUBLIC_KEY":        "",
	"LOGIN_MAX_ATTEMPTS":        5,
	"LOGIN_WINDOW":              "1m",
	"FORM_MAX_PER_WINDOW":       5,
	"FORM_WINDOW":               "10m",
	"RATE_LIMIT_RPM":            300,
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		".env.local",
		filepath.Join("..", ".env"),
	}

	seen := make(map[string]struct{})
	for _, path := range candidates {
		abs := path
		if resolved, err := filepath.Abs(path); err == nil {
			abs = resolved
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}

		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // variables already set win
		}
	}
}

// Load reads .env files, then the process environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	loadDotEnvFiles()

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Admin.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.Admin.SessionSecret = secret
		cfg.Admin.GeneratedSecret = true
	}
	return &cfg, nil
}

// randomSecret returns 32 random bytes, hex encoded. Sessions signed with it
// do not survive a restart.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.Site.URL = strings.TrimRight(strings.TrimSpace(c.Site.URL), "/")
	c.Content.Backend = strings.ToLower(strings.TrimSpace(c.Content.Backend))
	c.Content.SupabaseURL = strings.TrimSpace(c.Content.SupabaseURL)
	c.Content.SupabaseAnonKey = strings.TrimSpace(c.Content.SupabaseAnonKey)
}

// Production reports whether ENV is "prod".
func (c *Config) Production() bool {
	return c.Env == "prod"
}

func (c *Config) validate() error {
	switch c.Content.Backend {
	case BackendSupabase, BackendSQLite:
	default:
		return fmt.Errorf("CONTENT_BACKEND must be %q or %q, got %q", BackendSupabase, BackendSQLite, c.Content.Backend)
	}
	if c.Site.URL == "" {
		return fmt.Errorf("SITE_URL is required")
	}
	if c.Security.LoginMaxAttempts <= 0 || c.Security.LoginWindow <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_WINDOW must be positive")
	}
	if c.Security.FormMaxPerWindow <= 0 || c.Security.FormWindow <= 0 {
		return fmt.Errorf("FORM_MAX_PER_WINDOW and FORM_WINDOW must be positive")
	}
	if c.Production() {
		if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in prod")
		}
		if len(c.Admin.SessionSecret) < 32 {
			return fmt.Errorf("ADMIN_SESSION_SECRET must be at least 32 characters in prod")
		}
	}
	return nil
}
