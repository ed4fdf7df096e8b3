// Package config loads the engine's static configuration: default sample
// rate and block size, where to find the worker and scanner executables,
// and the plugin-bundle discovery directories from §6.4. original_source's
// vvdaw-app crate carries a settings module with this same shape; the
// distilled spec dropped it, but a host process launched from a terminal
// still needs it to avoid a field of CLI flags duplicating every knob.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the engine's static configuration, loaded once at startup
// from a YAML file and never mutated afterward.
type Config struct {
	// SampleRate and MaxBlockSize are the defaults passed to
	// Initialize for every node unless a command overrides them.
	SampleRate   float64 `yaml:"sample_rate"`
	MaxBlockSize int     `yaml:"max_block_size"`

	// WorkerPath, if set, overrides the default "adjacent to this
	// executable" resolution in pkg/proxy for the vvdaw-worker binary.
	WorkerPath string `yaml:"worker_path"`

	// ScannerPath, if set, overrides the default resolution for the
	// vvdaw-scanner binary.
	ScannerPath string `yaml:"scanner_path"`

	// DiscoveryDirs lists additional directories to probe for VST3
	// bundles, appended after the platform's standard directories
	// (§6.4).
	DiscoveryDirs []string `yaml:"discovery_dirs"`
}

// Default returns the configuration used when no file is given: 48 kHz,
// 512-frame blocks, worker/scanner resolved adjacent to the running
// executable, no extra discovery directories.
func Default() Config {
	return Config{
		SampleRate:   48000,
		MaxBlockSize: 512,
	}
}

// Load reads and parses a YAML configuration file at path, filling in
// Default() for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// StandardDiscoveryDirs returns the platform's standard VST3 bundle
// directories per §6.4, before any DiscoveryDirs overrides are appended.
func StandardDiscoveryDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Library/Audio/Plug-Ins/VST3",
			filepath.Join(home, "Library/Audio/Plug-Ins/VST3"),
		}
	case "windows":
		common := os.Getenv("CommonProgramFiles")
		local := os.Getenv("LOCALAPPDATA")
		return []string{
			filepath.Join(common, "VST3"),
			filepath.Join(local, "Programs", "Common", "VST3"),
		}
	default:
		return []string{
			filepath.Join(home, ".vst3"),
			"/usr/lib/vst3",
			"/usr/local/lib/vst3",
		}
	}
}

// AllDiscoveryDirs returns the standard directories for the current
// platform followed by cfg.DiscoveryDirs.
func (c Config) AllDiscoveryDirs() []string {
	return append(StandardDiscoveryDirs(), c.DiscoveryDirs...)
}
