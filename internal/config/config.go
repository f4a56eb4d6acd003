// Package config loads cafebot settings from defaults, a YAML file,
// CAFEBOT_* environment variables and command-line flags, in that order of
// precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/eliseohh/cafebot/internal/menu"
)

const (
	DefaultFile        = "cafebot.yaml"
	DefaultDatabase    = "cafe.db"
	DefaultImagesDir   = "images"
	DefaultPollTimeout = 10 * time.Second

	envPrefix = "CAFEBOT_"
	// tokenEnv is read when no token was configured any other way.
	tokenEnv = "TELEGRAM_TOKEN"
)

var ErrInvalid = errors.New("invalid config")

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type Config struct {
	Token       string        `koanf:"token"`
	Database    string        `koanf:"database"`
	ImagesDir   string        `koanf:"images_dir"`
	PollTimeout time.Duration `koanf:"poll_timeout"`
	Log         LogConfig     `koanf:"log"`
	Menu        menu.Config   `koanf:"menu"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Load builds a Config. cfgFile may be empty, in which case ./cafebot.yaml is
// used when present. flags may be nil; only flags the user changed are applied.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"database":     DefaultDatabase,
		"images_dir":   DefaultImagesDir,
		"poll_timeout": DefaultPollTimeout.String(),
		"log.level":    "info",
		"log.format":   "text",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// CAFEBOT_IMAGES_DIR -> images_dir, CAFEBOT_LOG_LEVEL -> log.level,
	// CAFEBOT_MENU_CAPTION_LIMIT -> menu.caption_limit
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return configKey(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return configKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if cfg.Token == "" {
		cfg.Token = os.Getenv(tokenEnv)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills whatever the sources left empty.
func (c *Config) ApplyDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.ImagesDir == "" {
		c.ImagesDir = DefaultImagesDir
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	c.Menu.ApplyDefaults()
}

// Validate checks values that would otherwise fail much later. A missing
// token is not an error here since only serve needs one.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	for cat, sd := range c.Menu.SpecialDesserts {
		if sd.ItemID == "" {
			return fmt.Errorf("%w: menu.special_desserts.%s: item_id is required", ErrInvalid, cat)
		}
	}
	for cat, rules := range c.Menu.Compound {
		for _, r := range rules {
			if r.Prefix == "" || r.Segments < 2 {
				return fmt.Errorf("%w: menu.compound.%s: need a prefix and at least 2 segments", ErrInvalid, cat)
			}
		}
	}
	return nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// configKey maps env var and flag names onto koanf paths.
func configKey(name string) string {
	key := strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	for _, section := range []string{"log", "menu"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}
