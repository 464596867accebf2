package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "spot-trainer"

// Slider bounds for both phase durations, in seconds
const (
	MinSeconds = 1
	MaxSeconds = 60
)

const (
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = time.Second
)

// Store selects and locates the preference backend
type Store struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir,omitempty"`
}

// Sound configures the phase-change beep
type Sound struct {
	Dir    string `yaml:"dir,omitempty"`
	File   string `yaml:"file,omitempty"`
	Player string `yaml:"player,omitempty"`
}

// Tmux contains tmux-related configuration
type Tmux struct {
	Status bool `yaml:"status"`
}

// Config holds all configuration options
type Config struct {
	ExerciseSeconds int           `yaml:"exercise_seconds"`
	RestSeconds     int           `yaml:"rest_seconds"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	Store           Store         `yaml:"store"`
	Sound           Sound         `yaml:"sound"`
	Tmux            Tmux          `yaml:"tmux"`
	LogFile         string        `yaml:"log_file,omitempty"`
	LogLevel        string        `yaml:"log_level,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ExerciseSeconds: 30,
		RestSeconds:     10,
		TickInterval:    100 * time.Millisecond,
		Store:           Store{Backend: "file"},
		Tmux:            Tmux{Status: true},
		LogLevel:        "info",
	}
}

// configPath returns the path to the config file
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, "config.yaml")
}

// dataDir is where the exercise list, sounds and log live by default
func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// Load loads config from the default path, falling back to defaults
func Load() *Config {
	return LoadFrom(configPath())
}

// LoadFrom reads path, applies SPOT_TRAINER_* environment overrides and
// normalizes the result. A missing or invalid file yields the defaults.
//
//	SPOT_TRAINER_EXERCISE_SECONDS, SPOT_TRAINER_REST_SECONDS,
//	SPOT_TRAINER_TICK_INTERVAL, SPOT_TRAINER_STORE_BACKEND,
//	SPOT_TRAINER_DATA_DIR, SPOT_TRAINER_SOUND_FILE,
//	SPOT_TRAINER_SOUND_PLAYER, SPOT_TRAINER_LOG_FILE,
//	SPOT_TRAINER_LOG_LEVEL, SPOT_TRAINER_TMUX_STATUS
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = DefaultConfig()
		}
	}

	applyEnvOverrides(cfg)
	cfg.normalize()
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPOT_TRAINER_EXERCISE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ExerciseSeconds = n
		}
	}
	if v := os.Getenv("SPOT_TRAINER_REST_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RestSeconds = n
		}
	}
	if v := os.Getenv("SPOT_TRAINER_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TickInterval = d
		}
	}
	if v := os.Getenv("SPOT_TRAINER_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("SPOT_TRAINER_DATA_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("SPOT_TRAINER_SOUND_FILE"); v != "" {
		cfg.Sound.File = v
	}
	if v := os.Getenv("SPOT_TRAINER_SOUND_PLAYER"); v != "" {
		cfg.Sound.Player = v
	}
	if v := os.Getenv("SPOT_TRAINER_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SPOT_TRAINER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SPOT_TRAINER_TMUX_STATUS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tmux.Status = b
		}
	}
}

func (c *Config) normalize() {
	c.ExerciseSeconds = ClampSeconds(c.ExerciseSeconds)
	c.RestSeconds = ClampSeconds(c.RestSeconds)
	c.TickInterval = min(max(c.TickInterval, minTickInterval), maxTickInterval)
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))

	if c.Store.Dir == "" {
		c.Store.Dir = dataDir()
	}
	c.Store.Dir = expandHome(c.Store.Dir)
	if c.Sound.Dir == "" {
		c.Sound.Dir = filepath.Join(c.Store.Dir, "sounds")
	}
	c.Sound.Dir = expandHome(c.Sound.Dir)
	c.Sound.File = expandHome(c.Sound.File)
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.Store.Dir, appName+".log")
	}
	c.LogFile = expandHome(c.LogFile)
}

// ClampSeconds bounds a duration to the slider range
func ClampSeconds(n int) int {
	return min(max(n, MinSeconds), MaxSeconds)
}

// Level parses LogLevel, defaulting to info
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}

// Path returns the config file path (for help text)
func Path() string {
	return configPath()
}
