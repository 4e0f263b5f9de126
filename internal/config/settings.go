// Package config loads scratchpad server settings from JSON or YAML files
// and SCRATCHPAD_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/armatrix/agent-scratchpad/format"
	"github.com/armatrix/agent-scratchpad/permission"
	"github.com/armatrix/agent-scratchpad/session"
)

// Settings holds merged configuration from multiple sources.
// Later sources override earlier ones (user < project < explicit < env).
// Durations are Go duration strings such as "24h" or "90m".
type Settings struct {
	TTL           string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	SweepInterval string `json:"sweepInterval,omitempty" yaml:"sweepInterval,omitempty"`
	IDLength      int    `json:"idLength,omitempty" yaml:"idLength,omitempty"`
	TodoIDLength  int    `json:"todoIdLength,omitempty" yaml:"todoIdLength,omitempty"`
	DefaultFormat string `json:"defaultFormat,omitempty" yaml:"defaultFormat,omitempty"`
	LogLevel      string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat     string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`

	// ReadOnly restricts the server to tools that never change a session.
	ReadOnly bool `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	// DenyTools lists glob patterns of tool names that are always refused.
	DenyTools []string `json:"denyTools,omitempty" yaml:"denyTools,omitempty"`

	// MetricsAddr is the listen address for the Prometheus endpoint
	// (for example ":9464"). Empty disables it.
	MetricsAddr string `json:"metricsAddr,omitempty" yaml:"metricsAddr,omitempty"`
}

// Environment variables read by ApplyEnv.
const (
	EnvTTL           = "SCRATCHPAD_TTL"
	EnvSweepInterval = "SCRATCHPAD_SWEEP_INTERVAL"
	EnvIDLength      = "SCRATCHPAD_ID_LENGTH"
	EnvTodoIDLength  = "SCRATCHPAD_TODO_ID_LENGTH"
	EnvDefaultFormat = "SCRATCHPAD_FORMAT"
	EnvLogLevel      = "SCRATCHPAD_LOG_LEVEL"
	EnvLogFormat     = "SCRATCHPAD_LOG_FORMAT"
	EnvReadOnly      = "SCRATCHPAD_READ_ONLY"
	EnvMetricsAddr   = "SCRATCHPAD_METRICS_ADDR"
)

// LoadSettings merges settings from the given file paths in order.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
// Missing files are skipped; unreadable or malformed files are an error.
func LoadSettings(paths ...string) (*Settings, error) {
	merged := &Settings{}

	for _, path := range paths {
		s, err := loadSettingsFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		mergeSettings(merged, s)
	}

	return merged, nil
}

// DefaultSettingsPaths returns the standard settings file search paths.
func DefaultSettingsPaths(projectDir string) []string {
	home, _ := os.UserHomeDir()
	var paths []string

	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".scratchpad", "settings.json"),
			filepath.Join(home, ".scratchpad", "settings.yaml"),
		)
	}
	if projectDir != "" {
		paths = append(paths,
			filepath.Join(projectDir, ".scratchpad", "settings.json"),
			filepath.Join(projectDir, ".scratchpad", "settings.yaml"),
		)
	}

	return paths
}

// ApplyEnv overrides fields from SCRATCHPAD_* variables. lookup is usually
// os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTTL); ok && v != "" {
		s.TTL = v
	}
	if v, ok := lookup(EnvSweepInterval); ok && v != "" {
		s.SweepInterval = v
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{
		{EnvIDLength, &s.IDLength},
		{EnvTodoIDLength, &s.TodoIDLength},
	} {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", e.name, err)
		}
		*e.dst = n
	}
	if v, ok := lookup(EnvDefaultFormat); ok && v != "" {
		s.DefaultFormat = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		s.LogFormat = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok && v != "" {
		s.MetricsAddr = v
	}
	if v, ok := lookup(EnvReadOnly); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvReadOnly, err)
		}
		s.ReadOnly = b
	}
	return nil
}

// Permission builds the tool access policy.
func (s *Settings) Permission() (*permission.Checker, error) {
	mode := permission.ModeDefault
	if s.ReadOnly {
		mode = permission.ModeReadOnly
	}
	return permission.NewChecker(mode, permission.DenyRules(s.DenyTools...), nil)
}

// Format returns the configured default output format, JSON when unset.
func (s *Settings) Format() (format.Format, error) {
	if s.DefaultFormat == "" {
		return format.JSON, nil
	}
	return format.ParseFormat(s.DefaultFormat)
}

// StoreOptions converts the settings into session store options. Unset
// fields are omitted so the store defaults apply.
func (s *Settings) StoreOptions() ([]session.Option, error) {
	var opts []session.Option

	ttl, err := parseDuration("ttl", s.TTL)
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		opts = append(opts, session.WithTTL(ttl))
	}

	interval, err := parseDuration("sweepInterval", s.SweepInterval)
	if err != nil {
		return nil, err
	}
	if interval > 0 {
		opts = append(opts, session.WithSweepInterval(interval))
	}

	if s.IDLength < 0 || s.TodoIDLength < 0 {
		return nil, fmt.Errorf("config: id lengths must be positive")
	}
	if s.IDLength > 0 {
		opts = append(opts, session.WithIDLength(s.IDLength))
	}
	if s.TodoIDLength > 0 {
		opts = append(opts, session.WithTodoIDLength(s.TodoIDLength))
	}
	return opts, nil
}

// Validate reports the first field that cannot be interpreted.
func (s *Settings) Validate() error {
	if _, err := s.StoreOptions(); err != nil {
		return err
	}
	if _, err := s.Format(); err != nil {
		return fmt.Errorf("config: defaultFormat: %w", err)
	}
	if _, err := s.Permission(); err != nil {
		return fmt.Errorf("config: denyTools: %w", err)
	}
	return nil
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", field, v)
	}
	return d, nil
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func mergeSettings(dst, src *Settings) {
	if src.TTL != "" {
		dst.TTL = src.TTL
	}
	if src.SweepInterval != "" {
		dst.SweepInterval = src.SweepInterval
	}
	if src.IDLength > 0 {
		dst.IDLength = src.IDLength
	}
	if src.TodoIDLength > 0 {
		dst.TodoIDLength = src.TodoIDLength
	}
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.ReadOnly {
		dst.ReadOnly = true
	}
	if len(src.DenyTools) > 0 {
		dst.DenyTools = src.DenyTools
	}
	if src.MetricsAddr != "" {
		dst.MetricsAddr = src.MetricsAddr
	}
}
