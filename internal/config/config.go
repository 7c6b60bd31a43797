// Package config loads and validates harvester configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/youthball/portal-crawler/internal/crawler"
)

// gradeCodes maps the user-facing grade labels to the portal's internal
// listing codes. Built once; callers only ever receive copies.
var gradeCodes = map[string][]string{
	"elementary": {"1", "2"},
	"middle":     {"3", "4"},
	"high":       {"5", "6"},
	"club":       {"9"},
}

// Config captures all run parameters loaded via Viper.
type Config struct {
	Years       []int         `mapstructure:"years"`
	Grades      []string      `mapstructure:"grades"`
	OutputDir   string        `mapstructure:"output_dir"`
	DelayMs     int           `mapstructure:"delay_ms"`
	Limit       int           `mapstructure:"limit"`
	Concurrency int           `mapstructure:"concurrency"`
	PageSize    int           `mapstructure:"page_size"`
	Portal      PortalConfig  `mapstructure:"portal"`
	Session     SessionConfig `mapstructure:"session"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// PortalConfig points at the remote portal.
type PortalConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// SessionConfig carries the optional portal credentials. UserID and
// Secret together enable the match detail stage.
type SessionConfig struct {
	UserID    string `mapstructure:"user_id"`
	Secret    string `mapstructure:"secret"`
	SessionID string `mapstructure:"session_id"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// configKeys lists every key Unmarshal expects. Each one is bound to
// its HARVEST_ variable explicitly: AutomaticEnv only surfaces keys
// viper has already seen, so env-only configuration (no config file,
// no default for the key) needs the binds.
var configKeys = []string{
	"years",
	"grades",
	"output_dir",
	"delay_ms",
	"limit",
	"concurrency",
	"page_size",
	"portal.base_url",
	"portal.timeout_seconds",
	"portal.user_agent",
	"session.user_id",
	"session.secret",
	"session.session_id",
	"logging.development",
}

// Load builds a Config from disk/environment. An empty path falls back
// to ./harvest.yaml when present; a missing fallback file is not an
// error, environment variables alone may carry the run.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("harvest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	// Env values arrive as strings; decode weakly so HARVEST_YEARS of
	// "2025,2026" satisfies []int.
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grades", []string{"elementary", "middle", "high"})
	v.SetDefault("output_dir", "out")
	v.SetDefault("delay_ms", 300)
	v.SetDefault("concurrency", 4)
	v.SetDefault("page_size", 30)
	v.SetDefault("portal.base_url", "https://portal.youthball.example")
	v.SetDefault("portal.timeout_seconds", 15)
	v.SetDefault("portal.user_agent", "portal-crawler/0.1")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Years) == 0 {
		return fmt.Errorf("years must list at least one year")
	}
	if len(c.Grades) == 0 {
		return fmt.Errorf("grades must list at least one grade label")
	}
	for _, label := range c.Grades {
		if _, ok := gradeCodes[label]; !ok {
			return fmt.Errorf("unknown grade label %q", label)
		}
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0")
	}
	if c.DelayMs < 0 {
		return fmt.Errorf("delay_ms must be >= 0")
	}
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url must be set")
	}
	if c.Portal.TimeoutSeconds <= 0 {
		return fmt.Errorf("portal.timeout_seconds must be > 0")
	}
	if c.Session.UserID != "" && c.Session.Secret == "" {
		return fmt.Errorf("session.secret must be set when session.user_id is set")
	}
	return nil
}

// Delay converts the per-call delay into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Timeout converts the portal HTTP timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Portal.TimeoutSeconds) * time.Second
}

// ResolveGrades maps the configured grade labels onto their portal
// codes, in configuration order.
func (c Config) ResolveGrades() []crawler.Grade {
	grades := make([]crawler.Grade, 0, len(c.Grades))
	for _, label := range c.Grades {
		codes := gradeCodes[label]
		grades = append(grades, crawler.Grade{
			Label: label,
			Codes: append([]string(nil), codes...),
		})
	}
	return grades
}
