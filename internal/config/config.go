// Package config loads runtime configuration from the environment, an
// optional .env file and the TOML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

// Defaults.
const (
	DefaultListenAddr  = ":5000"
	DefaultBaseURL     = "http://localhost:5000"
	DefaultFrontendURL = "http://localhost:5173"
	DefaultCalendarID  = "primary"
	DefaultInterval    = 6 * time.Hour
	DefaultHTTPTimeout = 30 * time.Second
	DefaultConcurrency = 1

	// CallbackPath is where the identity provider redirects after consent.
	CallbackPath = "/auth/google/callback"

	// MinSessionSecretLen is the shortest accepted session secret.
	MinSessionSecretLen = 32
)

// Config is the resolved runtime configuration.
type Config struct {
	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	Server struct {
		ListenAddr     string
		BaseURL        string
		FrontendURL    string
		SessionSecret  string
		MetricsEnabled bool
	}

	Store struct {
		// DSN is a postgres:// URL or a SQLite data directory. "memory"
		// selects the in-memory store.
		DSN      string
		TokenKey string
	}

	Scheduler struct {
		Enabled     bool
		Interval    time.Duration
		Concurrency int
	}

	CalendarID  string
	HTTPTimeout time.Duration

	// Platforms limits which contest platforms are read. Empty means all.
	Platforms []string

	// FilePath is the TOML file the values were layered over, if any.
	FilePath string
}

// key pairs an environment variable with its TOML key.
type key struct {
	env  string
	toml string
}

var (
	keyClientID      = key{"GOOGLE_CLIENT_ID", "google.client_id"}
	keyClientSecret  = key{"GOOGLE_CLIENT_SECRET", "google.client_secret"}
	keyRedirectURL   = key{"REDIRECT_URL", "google.redirect_url"}
	keyBaseURL       = key{"BASE_URL", "server.base_url"}
	keyFrontendURL   = key{"FRONTEND_URL", "server.frontend_url"}
	keyListenAddr    = key{"LISTEN_ADDR", "server.listen_addr"}
	keySessionSecret = key{"SESSION_SECRET", "server.session_secret"}
	keyMetrics       = key{"PROMETHEUS_ENABLED", "server.metrics"}
	keyDSN           = key{"DATABASE_URL", "store.dsn"}
	keyTokenKey      = key{"TOKEN_ENCRYPTION_KEY", "store.token_key"}
	keySchedEnabled  = key{"SCHEDULER_ENABLED", "scheduler.enabled"}
	keyInterval      = key{"SYNC_INTERVAL", "scheduler.interval"}
	keyConcurrency   = key{"SYNC_CONCURRENCY", "scheduler.concurrency"}
	keyCalendarID    = key{"CALENDAR_ID", "calendar.id"}
	keyHTTPTimeout   = key{"HTTP_TIMEOUT", "http.timeout"}
	keyPlatforms     = key{"PLATFORMS", "sources.platforms"}
)

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load resolves configuration. file may be nil.
func Load(file driven.ConfigStore) (*Config, error) {
	r := resolver{file: file}
	cfg := &Config{}
	if file != nil {
		cfg.FilePath = file.Path()
	}

	cfg.Google.ClientID = r.str(keyClientID, "")
	cfg.Google.ClientSecret = r.str(keyClientSecret, "")

	cfg.Server.BaseURL = strings.TrimRight(r.str(keyBaseURL, DefaultBaseURL), "/")
	cfg.Server.FrontendURL = strings.TrimRight(r.str(keyFrontendURL, DefaultFrontendURL), "/")
	cfg.Server.ListenAddr = r.str(keyListenAddr, DefaultListenAddr)
	cfg.Server.SessionSecret = r.str(keySessionSecret, "")
	cfg.Server.MetricsEnabled = r.boolean(keyMetrics, false)

	cfg.Google.RedirectURL = r.str(keyRedirectURL, cfg.Server.BaseURL+CallbackPath)

	cfg.Store.DSN = r.str(keyDSN, "")
	cfg.Store.TokenKey = r.str(keyTokenKey, "")

	cfg.Scheduler.Enabled = r.boolean(keySchedEnabled, true)
	cfg.Scheduler.Interval = r.duration(keyInterval, DefaultInterval)
	cfg.Scheduler.Concurrency = r.integer(keyConcurrency, DefaultConcurrency)

	cfg.CalendarID = r.str(keyCalendarID, DefaultCalendarID)
	cfg.HTTPTimeout = r.duration(keyHTTPTimeout, DefaultHTTPTimeout)
	cfg.Platforms = r.list(keyPlatforms)

	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Interval < time.Minute {
		return nil, fmt.Errorf("%s must be at least 1m (got %s)", keyInterval.env, cfg.Scheduler.Interval)
	}
	if cfg.Scheduler.Concurrency < 1 {
		return nil, fmt.Errorf("%s must be at least 1 (got %d)", keyConcurrency.env, cfg.Scheduler.Concurrency)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", keyHTTPTimeout.env)
	}

	return cfg, nil
}

// requirement is one validated setting.
type requirement struct {
	name  string
	value string
	tag   string
}

var validate = validator.New()

// ValidateSync checks the settings a batch sync needs.
func (c *Config) ValidateSync() error {
	return check([]requirement{
		{keyClientID.env, c.Google.ClientID, "required"},
		{keyClientSecret.env, c.Google.ClientSecret, "required"},
	})
}

// ValidateServe checks the settings the HTTP server needs.
func (c *Config) ValidateServe() error {
	return check([]requirement{
		{keyClientID.env, c.Google.ClientID, "required"},
		{keyClientSecret.env, c.Google.ClientSecret, "required"},
		{keyRedirectURL.env, c.Google.RedirectURL, "required,url"},
		{keyBaseURL.env, c.Server.BaseURL, "required,url"},
		{keyFrontendURL.env, c.Server.FrontendURL, "required,url"},
		{keySessionSecret.env, c.Server.SessionSecret, fmt.Sprintf("required,min=%d", MinSessionSecretLen)},
	})
}

func check(reqs []requirement) error {
	var errs []error
	for _, req := range reqs {
		if err := validate.Var(req.value, req.tag); err != nil {
			errs = append(errs, describe(req, err))
		}
	}
	return errors.Join(errs...)
}

func describe(req requirement, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%s: %w", req.name, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", req.name)
	case "min":
		return fmt.Errorf("%s must be at least %s characters long (got %d)", req.name, fe.Param(), len(req.value))
	case "url":
		return fmt.Errorf("%s must be an absolute URL (got %q)", req.name, req.value)
	default:
		return fmt.Errorf("%s failed %s validation", req.name, fe.Tag())
	}
}

// resolver layers environment over file values and collects parse errors.
type resolver struct {
	file driven.ConfigStore
	errs []error
}

func (r *resolver) lookup(k key) (string, string, bool) {
	if v := strings.TrimSpace(os.Getenv(k.env)); v != "" {
		return v, k.env, true
	}
	if r.file != nil {
		if v, ok := r.file.Lookup(k.toml); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), k.toml, true
		}
	}
	return "", "", false
}

func (r *resolver) str(k key, def string) string {
	if v, _, ok := r.lookup(k); ok {
		return v
	}
	return def
}

func (r *resolver) boolean(k key, def bool) bool {
	v, from, ok := r.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", from, v))
	return def
}

func (r *resolver) integer(k key, def int) int {
	v, from, ok := r.lookup(k)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", from, v))
		return def
	}
	return n
}

func (r *resolver) duration(k key, def time.Duration) time.Duration {
	v, from, ok := r.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", from, v))
		return def
	}
	return d
}

func (r *resolver) list(k key) []string {
	v, _, ok := r.lookup(k)
	if !ok {
		return nil
	}
	var result []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
