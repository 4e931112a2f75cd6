package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateHotkey(&c.Hotkey)...)
	errs = append(errs, validateAudio(&c.Audio)...)
	errs = append(errs, validateServer(&c.Server)...)
	errs = append(errs, validateClipboard(&c.Clipboard)...)
	errs = append(errs, validateStorage(&c.Storage)...)
	errs = append(errs, validateIPC(&c.IPC)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHotkey(h *HotkeyConfig) ValidationErrors {
	var errs ValidationErrors

	switch h.Mode {
	case ModeKeyboardHold, ModeModifierDoubleTap, ModePointerHold:
		// Valid modes
	default:
		errs = append(errs, ValidationError{
			Field: "hotkey.mode",
			Message: fmt.Sprintf("invalid mode: %s (valid: %s, %s, %s)",
				h.Mode, ModeKeyboardHold, ModeModifierDoubleTap, ModePointerHold),
		})
	}

	if h.Mode == ModeKeyboardHold && h.Key == "" {
		errs = append(errs, ValidationError{
			Field:   "hotkey.key",
			Message: "key is required for keyboard_hold mode",
		})
	}

	if h.TapWindowMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "hotkey.tap_window_ms",
			Message: "tap window cannot be negative",
		})
	}

	if h.Mode == ModePointerHold {
		switch h.ScrollAxis {
		case "vertical", "horizontal":
			// Valid axes
		default:
			errs = append(errs, ValidationError{
				Field:   "hotkey.scroll_axis",
				Message: fmt.Sprintf("invalid scroll axis: %s (valid: vertical, horizontal)", h.ScrollAxis),
			})
		}
	}

	if h.IdleTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "hotkey.idle_timeout_ms",
			Message: "idle timeout cannot be negative",
		})
	}
	if h.TickIntervalMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "hotkey.tick_interval_ms",
			Message: "tick interval cannot be negative",
		})
	}

	if h.UseFallback && h.Mode != ModeKeyboardHold {
		errs = append(errs, ValidationError{
			Field:   "hotkey.use_fallback",
			Message: "fallback hotkey source only supports keyboard_hold mode",
		})
	}

	return errs
}

func validateAudio(a *AudioConfig) ValidationErrors {
	var errs ValidationErrors

	switch a.SampleRate {
	case 8000, 16000, 22050, 44100, 48000:
		// Common capture rates
	default:
		errs = append(errs, ValidationError{
			Field:   "audio.sample_rate",
			Message: fmt.Sprintf("unsupported sample rate: %d", a.SampleRate),
		})
	}

	if a.Channels < 1 || a.Channels > 2 {
		errs = append(errs, ValidationError{
			Field:   "audio.channels",
			Message: "channels must be 1 or 2",
		})
	}

	return errs
}

func validateServer(s *ServerConfig) ValidationErrors {
	var errs ValidationErrors

	if s.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: "server base URL is required",
		})
	} else if !isValidURL(s.BaseURL) {
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: fmt.Sprintf("invalid URL: %s", s.BaseURL),
		})
	}

	switch s.Model {
	case "fast", "smart":
		// Valid tiers
	default:
		errs = append(errs, ValidationError{
			Field:   "server.model",
			Message: fmt.Sprintf("invalid model: %s (valid: fast, smart)", s.Model),
		})
	}

	if s.VADThreshold < 0.0 || s.VADThreshold > 1.0 {
		errs = append(errs, ValidationError{
			Field:   "server.vad_threshold",
			Message: "VAD threshold must be between 0.0 and 1.0",
		})
	}

	if s.TimeoutSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_seconds",
			Message: "timeout must be at least 1 second",
		})
	}

	if s.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_retries",
			Message: "max retries cannot be negative",
		})
	}

	return errs
}

func validateClipboard(c *ClipboardConfig) ValidationErrors {
	var errs ValidationErrors

	if c.RestoreDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "clipboard.restore_delay_ms",
			Message: "restore delay cannot be negative",
		})
	}

	return errs
}

func validateStorage(s *StorageConfig) ValidationErrors {
	var errs ValidationErrors

	if s.DatabasePath == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.database_path",
			Message: "database path is required",
		})
	}

	if s.HistoryLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.history_limit",
			Message: "history limit cannot be negative",
		})
	}

	if s.KeepAudio && s.AudioDir == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.audio_dir",
			Message: "audio directory is required when keep_audio is enabled",
		})
	}

	return errs
}

func validateIPC(i *IPCConfig) ValidationErrors {
	var errs ValidationErrors

	if !i.Enabled {
		return errs
	}

	if i.SocketPath == "" {
		errs = append(errs, ValidationError{
			Field:   "ipc.socket_path",
			Message: "socket path is required when IPC is enabled",
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
		// Valid formats
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
		// Valid outputs
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is %q", l.Output),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	if l.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size must be at least 1 MB",
		})
	}

	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}

	return errs
}

func isValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
