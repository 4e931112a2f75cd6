package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/voxtyped/
//   - Linux:   ~/.local/share/voxtyped/
//   - Windows: %APPDATA%\voxtyped\
//
// Falls back to ~/.voxtyped if platform detection fails.
func PlatformDataDir() string {
	switch runtime.GOOS {
	case "darwin":
		return macOSDataDir()
	case "linux":
		return linuxDataDir()
	case "windows":
		return windowsDataDir()
	default:
		return fallbackDataDir()
	}
}

// PlatformConfigDir returns the platform-specific config directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/voxtyped/
//   - Linux:   ~/.config/voxtyped/
//   - Windows: %APPDATA%\voxtyped\
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		return macOSDataDir() // macOS uses same dir for config and data
	case "linux":
		return linuxConfigDir()
	case "windows":
		return windowsDataDir() // Windows uses same dir for config and data
	default:
		return fallbackDataDir()
	}
}

// PlatformLogDir returns the platform-specific log directory.
//
// Platform paths:
//   - macOS:   ~/Library/Logs/voxtyped/
//   - Linux:   ~/.local/share/voxtyped/logs/
//   - Windows: %LOCALAPPDATA%\voxtyped\logs\
func PlatformLogDir() string {
	switch runtime.GOOS {
	case "darwin":
		return macOSLogDir()
	case "linux":
		return filepath.Join(linuxDataDir(), "logs")
	case "windows":
		return windowsLogDir()
	default:
		return filepath.Join(fallbackDataDir(), "logs")
	}
}

// PlatformRuntimeDir returns the platform-specific runtime directory for sockets.
//
// Platform paths:
//   - macOS:   /tmp/voxtyped-$UID/
//   - Linux:   $XDG_RUNTIME_DIR/voxtyped/ or /tmp/voxtyped-$UID/
//   - Windows: (no socket support, not applicable)
func PlatformRuntimeDir() string {
	switch runtime.GOOS {
	case "linux":
		return linuxRuntimeDir()
	case "windows":
		return ""
	default:
		return filepath.Join("/tmp", "voxtyped-"+userID())
	}
}

// macOS-specific paths

func macOSDataDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, "Library", "Application Support", "voxtyped")
}

func macOSLogDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, "Library", "Logs", "voxtyped")
}

// Linux-specific paths following XDG Base Directory Specification

func linuxDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "voxtyped")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "voxtyped")
}

func linuxConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "voxtyped")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "voxtyped")
}

func linuxRuntimeDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "voxtyped")
	}
	return filepath.Join("/tmp", "voxtyped-"+userID())
}

// Windows-specific paths

func windowsDataDir() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "voxtyped")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "AppData", "Roaming", "voxtyped")
}

func windowsLogDir() string {
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, "voxtyped", "logs")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "AppData", "Local", "voxtyped", "logs")
}

// Fallback path

func fallbackDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".voxtyped")
}

func userID() string {
	if uid := os.Getuid(); uid >= 0 {
		return strconv.Itoa(uid)
	}
	return "0"
}

func defaultSocketPath() string {
	if runtime.GOOS == "windows" {
		return ""
	}
	if dir := PlatformRuntimeDir(); dir != "" {
		return filepath.Join(dir, "voxtyped.sock")
	}
	return "/tmp/voxtyped.sock"
}

// SupportedConfigFormats returns the list of supported config file formats.
func SupportedConfigFormats() []string {
	return []string{"toml", "json", "yaml", "yml"}
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path to the first found config file, or empty string if none found.
func FindConfigFile() string {
	searchDirs := []string{
		".",
		PlatformConfigDir(),
		PlatformDataDir(),
	}

	for _, dir := range searchDirs {
		for _, ext := range SupportedConfigFormats() {
			path := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}
