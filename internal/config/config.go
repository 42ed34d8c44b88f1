// Package config resolves runtime settings: defaults, then an optional
// YAML or TOML file, then .env, then ATM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/atm/internal/scheduler"
	"github.com/sandeepkv93/atm/internal/storage"
)

var ErrUnsupportedFormat = errors.New("config: unsupported file format")

type Config struct {
	DataDir              string
	Backend              string
	DesktopNotifications bool
	SchedulerBuffer      int
	NotifyLead           time.Duration
}

// fileConfig is the on-disk shape. Durations are strings like "90m".
type fileConfig struct {
	DataDir              string `yaml:"data_dir" toml:"data_dir"`
	Backend              string `yaml:"backend" toml:"backend"`
	DesktopNotifications *bool  `yaml:"desktop_notifications" toml:"desktop_notifications"`
	SchedulerBuffer      int    `yaml:"scheduler_buffer" toml:"scheduler_buffer"`
	NotifyLead           string `yaml:"notify_lead" toml:"notify_lead"`
}

func Default() Config {
	return Config{
		DataDir:              DefaultDataDir(),
		Backend:              storage.BackendSQLite,
		DesktopNotifications: true,
		SchedulerBuffer:      64,
		NotifyLead:           scheduler.DefaultLeadTime,
	}
}

func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "atm")
	}
	return ".atm"
}

// Load applies the file at path (if any), .env, and the environment on top
// of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = FromFile(cfg, path)
		if err != nil {
			return cfg, err
		}
	}
	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	return FromEnv(cfg), nil
}

func FromFile(base Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fc)
	case ".toml":
		_, err = toml.Decode(string(raw), &fc)
	default:
		return base, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc.merge(base)
}

func (fc fileConfig) merge(base Config) (Config, error) {
	cfg := base
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.Backend != "" {
		cfg.Backend = strings.ToLower(fc.Backend)
	}
	if fc.DesktopNotifications != nil {
		cfg.DesktopNotifications = *fc.DesktopNotifications
	}
	if fc.SchedulerBuffer > 0 {
		cfg.SchedulerBuffer = fc.SchedulerBuffer
	}
	if fc.NotifyLead != "" {
		lead, err := time.ParseDuration(fc.NotifyLead)
		if err != nil || lead <= 0 {
			return base, fmt.Errorf("config: notify_lead %q: want a positive duration", fc.NotifyLead)
		}
		cfg.NotifyLead = lead
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("ATM_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ATM_BACKEND")); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvBool("ATM_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("ATM_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvDuration("ATM_NOTIFY_LEAD"); ok && v > 0 {
		cfg.NotifyLead = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
