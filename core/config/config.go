// Package config loads recipecards settings.
//
// Precedence, lowest to highest: built-in defaults, the optional YAML file,
// RECIPECARDS_* environment variables (a .env file in the working directory is
// loaded first and never overrides the real environment), then CLI flags,
// which the cmd package applies on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/recipecards/core/theme"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RECIPECARDS_"

// DefaultSource is the document loaded when none is given.
const DefaultSource = "recipes.md"

// Config holds all settings.
type Config struct {
	Source    string        `yaml:"source"`
	Theme     string        `yaml:"theme"`
	OutputDir string        `yaml:"output_dir"`
	FontPath  string        `yaml:"font_path"`
	FromHTML  bool          `yaml:"from_html"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Server    ServerConfig  `yaml:"server"`
	Log       LogConfig     `yaml:"log"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Source:  DefaultSource,
		Timeout: 30 * time.Second,
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (if non-empty) over the defaults and applies environment
// overrides. A missing .env file is not an error; a missing config file is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("SOURCE", &c.Source)
	str("THEME", &c.Theme)
	str("OUTPUT_DIR", &c.OutputDir)
	str("FONT_PATH", &c.FontPath)
	str("USER_AGENT", &c.UserAgent)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "FROM_HTML"); ok && v != "" {
		c.FromHTML = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("source must not be empty")
	}
	if _, ok := theme.Lookup(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", c.Timeout)
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "text" && f != "json" {
		return fmt.Errorf("log format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
