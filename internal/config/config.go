// Package config loads service configuration from the environment, optional
// dotenv files and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"resume-api/internal/domain"
)

var ErrMissingDatastoreURL = errors.New("datastore url is not configured (set DATASTORE_URL or CONVEX_URL)")

type Config struct {
	Server     ServerConfig          `mapstructure:"server"`
	Datastore  DatastoreConfig       `mapstructure:"datastore"`
	Render     domain.RenderSettings `mapstructure:"render"`
	LaTeX      LaTeXConfig           `mapstructure:"latex"`
	RateLimit  RateLimitConfig       `mapstructure:"rate_limit"`
	AI         AIConfig              `mapstructure:"ai"`
	Automation AutomationConfig      `mapstructure:"automation"`
	LinkedIn   SiteCredentials       `mapstructure:"linkedin"`
	Simplify   SiteCredentials       `mapstructure:"simplify"`
	LogLevel   string                `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port" validate:"min=1,max=65535"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatastoreConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LaTeXConfig struct {
	Compiler string        `mapstructure:"compiler" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Attempts int           `mapstructure:"attempts" validate:"min=1,max=5"`
	TmpDir   string        `mapstructure:"tmp_dir"`
}

type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_min" validate:"min=0"`
	Burst     int `mapstructure:"burst" validate:"min=0"`
}

type AIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type AutomationConfig struct {
	CDPURL     string `mapstructure:"cdp_url"`
	ChromePath string `mapstructure:"chrome_path"`
	MaxSteps   int    `mapstructure:"max_steps" validate:"min=1"`
}

type SiteCredentials struct {
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	ProfileID string `mapstructure:"profile_id"`
}

// envKeys maps config keys to the environment variables that set them, in
// order of precedence.
var envKeys = map[string][]string{
	"server.host":            {"HOST"},
	"server.port":            {"PORT"},
	"server.cors_origins":    {"CORS_ORIGINS"},
	"datastore.url":          {"DATASTORE_URL", "CONVEX_URL", "VITE_CONVEX_URL"},
	"datastore.timeout":      {"DATASTORE_TIMEOUT"},
	"render.font_size":       {"RENDER_FONT_SIZE"},
	"render.margins":         {"RENDER_MARGINS"},
	"render.line_spacing":    {"RENDER_LINE_SPACING"},
	"render.compact_mode":    {"RENDER_COMPACT_MODE"},
	"latex.compiler":         {"LATEX_COMPILER"},
	"latex.timeout":          {"LATEX_TIMEOUT"},
	"latex.attempts":         {"LATEX_ATTEMPTS"},
	"latex.tmp_dir":          {"EXPORT_TMP_DIR"},
	"rate_limit.per_min":     {"RATE_LIMIT_PER_MIN"},
	"rate_limit.burst":       {"RATE_LIMIT_BURST"},
	"ai.url":                 {"AI_SERVICE_URL"},
	"ai.timeout":             {"AI_SERVICE_TIMEOUT"},
	"automation.cdp_url":     {"AUTOMATION_CDP_URL"},
	"automation.chrome_path": {"CHROME_PATH"},
	"automation.max_steps":   {"AUTOMATION_MAX_STEPS"},
	"linkedin.username":      {"LINKEDIN_USERNAME"},
	"linkedin.password":      {"LINKEDIN_PASSWORD"},
	"linkedin.profile_id":    {"LINKEDIN_PROFILE_ID"},
	"simplify.username":      {"SIMPLIFY_USERNAME"},
	"simplify.password":      {"SIMPLIFY_PASSWORD"},
	"log_level":              {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("datastore.url", "")
	v.SetDefault("datastore.timeout", 15*time.Second)

	v.SetDefault("render.font_size", domain.DefaultFontSize)
	v.SetDefault("render.margins", domain.DefaultMargins)
	v.SetDefault("render.line_spacing", domain.DefaultLineSpacing)
	v.SetDefault("render.compact_mode", false)

	v.SetDefault("latex.compiler", "pdflatex")
	v.SetDefault("latex.timeout", 30*time.Second)
	v.SetDefault("latex.attempts", 2)
	v.SetDefault("latex.tmp_dir", os.TempDir())

	v.SetDefault("rate_limit.per_min", 30)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("ai.url", "http://ai-service:8000")
	v.SetDefault("ai.timeout", 120*time.Second)

	v.SetDefault("automation.cdp_url", "")
	v.SetDefault("automation.chrome_path", "")
	v.SetDefault("automation.max_steps", 25)

	for _, site := range []string{"linkedin", "simplify"} {
		v.SetDefault(site+".username", "")
		v.SetDefault(site+".password", "")
		v.SetDefault(site+".profile_id", "")
	}

	v.SetDefault("log_level", "info")
}

// Load reads the given dotenv files (earlier files win, missing files are
// skipped), then resolves every setting from the environment over defaults.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, envs := range envKeys {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Datastore.URL = strings.TrimSpace(cfg.Datastore.URL)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Datastore.URL == "" {
		return ErrMissingDatastoreURL
	}
	return validator.New().Struct(c)
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
