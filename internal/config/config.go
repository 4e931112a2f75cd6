// Package config handles configuration loading, validation, and management for voxtyped.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"voxtyped/internal/activation"
	"voxtyped/internal/input"
)

// Version is the current configuration schema version.
const Version = 2

// Activation mode names accepted in the hotkey section.
const (
	ModeKeyboardHold      = "keyboard_hold"
	ModeModifierDoubleTap = "modifier_double_tap"
	ModePointerHold       = "pointer_hold"
)

// Config holds the complete daemon configuration.
type Config struct {
	// Version is the configuration schema version for migrations.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Hotkey configuration for activation detection.
	Hotkey HotkeyConfig `toml:"hotkey" json:"hotkey" yaml:"hotkey"`

	// Audio configuration for capture.
	Audio AudioConfig `toml:"audio" json:"audio" yaml:"audio"`

	// Server configuration for the transcription backend.
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`

	// Dictionary configuration for text replacement.
	Dictionary DictionaryConfig `toml:"dictionary" json:"dictionary" yaml:"dictionary"`

	// Clipboard configuration for text delivery.
	Clipboard ClipboardConfig `toml:"clipboard" json:"clipboard" yaml:"clipboard"`

	// Storage configuration for persistence.
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`

	// IPC configuration for inter-process communication.
	IPC IPCConfig `toml:"ipc" json:"ipc" yaml:"ipc"`

	// Notify configuration for desktop notifications.
	Notify NotifyConfig `toml:"notify" json:"notify" yaml:"notify"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// mu protects concurrent access to the config.
	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// HotkeyConfig holds activation strategy configuration.
type HotkeyConfig struct {
	// Mode selects the activation strategy:
	// "keyboard_hold", "modifier_double_tap", or "pointer_hold".
	Mode string `toml:"mode" json:"mode" yaml:"mode"`

	// Key is the hold combination for keyboard_hold, e.g. "ctrl+shift+f13".
	Key string `toml:"key" json:"key" yaml:"key"`

	// TapKey is the modifier key for modifier_double_tap, e.g. "rctrl".
	// Empty selects the platform default.
	TapKey string `toml:"tap_key" json:"tap_key" yaml:"tap_key"`

	// TapWindowMs is the maximum gap between the two taps of a pair.
	TapWindowMs int `toml:"tap_window_ms" json:"tap_window_ms" yaml:"tap_window_ms"`

	// ScrollAxis is the wheel axis for pointer_hold: "vertical" or "horizontal".
	ScrollAxis string `toml:"scroll_axis" json:"scroll_axis" yaml:"scroll_axis"`

	// ScrollModifiers are modifiers that must be held while scrolling,
	// e.g. ["ctrl", "alt"]. Empty means bare scrolling qualifies.
	ScrollModifiers []string `toml:"scroll_modifiers" json:"scroll_modifiers" yaml:"scroll_modifiers"`

	// IdleTimeoutMs is the pointer_hold disengagement timeout.
	IdleTimeoutMs int `toml:"idle_timeout_ms" json:"idle_timeout_ms" yaml:"idle_timeout_ms"`

	// TickIntervalMs is the idle-check polling interval for pointer_hold.
	TickIntervalMs int `toml:"tick_interval_ms" json:"tick_interval_ms" yaml:"tick_interval_ms"`

	// UseFallback forces the registered-hotkey source instead of the
	// global hook. Only keyboard_hold works in this mode.
	UseFallback bool `toml:"use_fallback" json:"use_fallback" yaml:"use_fallback"`
}

// AudioConfig holds audio capture configuration.
type AudioConfig struct {
	// SampleRate is the capture rate in Hz.
	SampleRate int `toml:"sample_rate" json:"sample_rate" yaml:"sample_rate"`

	// Channels is the number of capture channels.
	Channels int `toml:"channels" json:"channels" yaml:"channels"`

	// TempDir is where in-flight recordings are written.
	TempDir string `toml:"temp_dir" json:"temp_dir" yaml:"temp_dir"`
}

// ServerConfig holds transcription backend configuration.
type ServerConfig struct {
	// BaseURL is the transcription server base URL.
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`

	// Token is the bearer token, if the server requires one
	// (use env var VOXTYPED_SERVER_TOKEN).
	Token string `toml:"token" json:"token" yaml:"token"`

	// Model selects the server model tier: "fast" or "smart".
	Model string `toml:"model" json:"model" yaml:"model"`

	// VADThreshold is the voice activity threshold (0.0-1.0, 0 = server default).
	VADThreshold float64 `toml:"vad_threshold" json:"vad_threshold" yaml:"vad_threshold"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`

	// MaxRetries is the number of retries for failed requests.
	MaxRetries int `toml:"max_retries" json:"max_retries" yaml:"max_retries"`
}

// DictionaryConfig holds replacement dictionary configuration.
type DictionaryConfig struct {
	// Enabled determines whether replacements are applied.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// ImportPaths are dictionary files to load on startup (JSON or YAML).
	ImportPaths []string `toml:"import_paths" json:"import_paths" yaml:"import_paths"`
}

// ClipboardConfig holds text delivery configuration.
type ClipboardConfig struct {
	// RestoreOriginal restores the prior clipboard contents after delivery.
	RestoreOriginal bool `toml:"restore_original" json:"restore_original" yaml:"restore_original"`

	// RestoreDelayMs is how long to wait before restoring.
	RestoreDelayMs int `toml:"restore_delay_ms" json:"restore_delay_ms" yaml:"restore_delay_ms"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	// DatabasePath is the path to the SQLite database.
	DatabasePath string `toml:"database_path" json:"database_path" yaml:"database_path"`

	// HistoryLimit caps the number of retained transcriptions (0 = unlimited).
	HistoryLimit int `toml:"history_limit" json:"history_limit" yaml:"history_limit"`

	// KeepAudio retains recordings after transcription.
	KeepAudio bool `toml:"keep_audio" json:"keep_audio" yaml:"keep_audio"`

	// AudioDir is where retained recordings are moved.
	AudioDir string `toml:"audio_dir" json:"audio_dir" yaml:"audio_dir"`
}

// IPCConfig holds inter-process communication configuration.
type IPCConfig struct {
	// Enabled determines whether the IPC server is enabled.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// SocketPath is the path to the Unix socket.
	SocketPath string `toml:"socket_path" json:"socket_path" yaml:"socket_path"`
}

// NotifyConfig holds desktop notification configuration.
type NotifyConfig struct {
	// Enabled determines whether state changes raise notifications.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", or "file".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output is "file").
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of old log files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := VoxtypedDir()

	return &Config{
		Version: Version,
		Hotkey: HotkeyConfig{
			Mode:            ModeModifierDoubleTap,
			Key:             "ctrl+shift+space",
			TapKey:          "",
			TapWindowMs:     400,
			ScrollAxis:      "vertical",
			ScrollModifiers: []string{"ctrl", "alt"},
			IdleTimeoutMs:   1000,
			TickIntervalMs:  250,
			UseFallback:     false,
		},
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
			TempDir:    os.TempDir(),
		},
		Server: ServerConfig{
			BaseURL:        "http://127.0.0.1:4242",
			Model:          "fast",
			VADThreshold:   0,
			TimeoutSeconds: 120,
			MaxRetries:     2,
		},
		Dictionary: DictionaryConfig{
			Enabled:     true,
			ImportPaths: []string{},
		},
		Clipboard: ClipboardConfig{
			RestoreOriginal: true,
			RestoreDelayMs:  300,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(dir, "voxtyped.db"),
			HistoryLimit: 1000,
			KeepAudio:    false,
			AudioDir:     filepath.Join(dir, "audio"),
		},
		IPC: IPCConfig{
			Enabled:    true,
			SocketPath: defaultSocketPath(),
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			FilePath:   filepath.Join(PlatformLogDir(), "voxtyped.log"),
			MaxSizeMB:  20,
			MaxBackups: 3,
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// VoxtypedDir returns the base voxtyped data directory.
// Uses platform-specific paths or VOXTYPED_DATA_DIR environment override.
func VoxtypedDir() string {
	if envDir := os.Getenv("VOXTYPED_DATA_DIR"); envDir != "" {
		return envDir
	}
	return PlatformDataDir()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates all directories the daemon writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Storage.DatabasePath),
		filepath.Dir(c.Logging.FilePath),
		c.Audio.TempDir,
	}
	if c.Storage.KeepAudio {
		dirs = append(dirs, c.Storage.AudioDir)
	}
	if c.IPC.Enabled {
		dirs = append(dirs, filepath.Dir(c.IPC.SocketPath))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with VOXTYPED_ and use underscores.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := os.Getenv("VOXTYPED_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("VOXTYPED_SERVER_TOKEN"); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv("VOXTYPED_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VOXTYPED_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("VOXTYPED_SOCKET_PATH"); v != "" {
		c.IPC.SocketPath = v
	}
	if v := os.Getenv("VOXTYPED_DATABASE_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := *c
	clone.Hotkey.ScrollModifiers = append([]string{}, c.Hotkey.ScrollModifiers...)
	clone.Dictionary.ImportPaths = append([]string{}, c.Dictionary.ImportPaths...)

	return &clone
}

// Activation translates the hotkey section into an engine configuration.
// Key names are resolved against the current platform's tables and numeric
// ranges are clamped to their operational bounds.
func (h *HotkeyConfig) Activation() (activation.Config, error) {
	var cfg activation.Config

	switch h.Mode {
	case ModeKeyboardHold:
		cfg.Mode = activation.ModeKeyboardHold
		combo, err := input.ParseHotkey(h.Key)
		if err != nil {
			return cfg, &ValidationError{Field: "hotkey.key", Message: err.Error()}
		}
		cfg.HoldKey = combo.Code
		cfg.HoldMods = combo.Mods

	case ModeModifierDoubleTap:
		cfg.Mode = activation.ModeModifierDoubleTap
		cfg.TapCode = input.DefaultTapCode
		if h.TapKey != "" {
			code, err := input.KeyCodeByName(h.TapKey)
			if err != nil {
				return cfg, &ValidationError{Field: "hotkey.tap_key", Message: err.Error()}
			}
			if !input.IsModifierCode(code) {
				return cfg, &ValidationError{
					Field:   "hotkey.tap_key",
					Message: fmt.Sprintf("%q is not a modifier key", h.TapKey),
				}
			}
			cfg.TapCode = code
		}
		cfg.TapWindow = float64(h.TapWindowMs) / 1000.0

	case ModePointerHold:
		cfg.Mode = activation.ModePointerHold
		axis, err := input.ScrollAxisByName(h.ScrollAxis)
		if err != nil {
			return cfg, &ValidationError{Field: "hotkey.scroll_axis", Message: err.Error()}
		}
		cfg.ScrollCode = axis
		for _, name := range h.ScrollModifiers {
			mod, ok := input.ParseModifier(name)
			if !ok {
				return cfg, &ValidationError{
					Field:   "hotkey.scroll_modifiers",
					Message: fmt.Sprintf("unknown modifier %q", name),
				}
			}
			cfg.ScrollMods = cfg.ScrollMods.With(mod)
		}
		cfg.IdleTimeout = float64(h.IdleTimeoutMs) / 1000.0
		cfg.TickInterval = float64(h.TickIntervalMs) / 1000.0

	default:
		return cfg, &ValidationError{
			Field:   "hotkey.mode",
			Message: fmt.Sprintf("unknown mode %q (valid: %s, %s, %s)", h.Mode, ModeKeyboardHold, ModeModifierDoubleTap, ModePointerHold),
		}
	}

	return cfg.Normalized(), nil
}

// SaveConfig writes the configuration to disk as TOML.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
