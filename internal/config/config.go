/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
// Minimal schema to start; can evolve with config_version migrations.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

// ViewerConfig tunes the page view and the annotation engine.
type ViewerConfig struct {
	CacheMaxBytes    int     `yaml:"cache_max_bytes"`    // page byte cache budget
	SnapThresholdPx  float64 `yaml:"snap_threshold_px"`  // on-screen snap magnet radius
	CloseThresholdPx float64 `yaml:"close_threshold_px"` // on-screen polygon close radius
	TileTimeoutMs    int     `yaml:"tile_timeout_ms"`    // overlay hides after this idle span
	CursorTimeoutMs  int     `yaml:"cursor_timeout_ms"`  // cursor hides after this idle span
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Viewer        ViewerConfig  `yaml:"viewer"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Viewer: ViewerConfig{
			CacheMaxBytes:    64 << 20,
			SnapThresholdPx:  20,
			CloseThresholdPx: 20,
			TileTimeoutMs:    5000,
			CursorTimeoutMs:  3000,
		},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvCacheMaxBytes   = "CVW_CACHE_MAX_BYTES"
	EnvSnapThreshold   = "CVW_SNAP_THRESHOLD_PX"
	EnvCloseThreshold  = "CVW_CLOSE_THRESHOLD_PX"
	EnvTileTimeoutMs   = "CVW_TILE_TIMEOUT_MS"
	EnvCursorTimeoutMs = "CVW_CURSOR_TIMEOUT_MS"
	EnvTelemetryOptIn  = "CVW_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "CVW_LOG_LEVEL"
	EnvLogFormat = "CVW_LOG_FORMAT"
	EnvLogSource = "CVW_LOG_SOURCE"
	EnvLogFile   = "CVW_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ComicsViewer")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ComicsViewer")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "comicsviewer")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.Viewer.CacheMaxBytes != 0 {
		dst.Viewer.CacheMaxBytes = src.Viewer.CacheMaxBytes
	}
	if src.Viewer.SnapThresholdPx != 0 {
		dst.Viewer.SnapThresholdPx = src.Viewer.SnapThresholdPx
	}
	if src.Viewer.CloseThresholdPx != 0 {
		dst.Viewer.CloseThresholdPx = src.Viewer.CloseThresholdPx
	}
	if src.Viewer.TileTimeoutMs != 0 {
		dst.Viewer.TileTimeoutMs = src.Viewer.TileTimeoutMs
	}
	if src.Viewer.CursorTimeoutMs != 0 {
		dst.Viewer.CursorTimeoutMs = src.Viewer.CursorTimeoutMs
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCacheMaxBytes)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Viewer.CacheMaxBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapThreshold)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Viewer.SnapThresholdPx = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCloseThreshold)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Viewer.CloseThresholdPx = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvTileTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Viewer.TileTimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCursorTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Viewer.CursorTimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.TelemetryOptIn = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "viewer.cache_max_bytes":
		if os.Getenv(EnvCacheMaxBytes) != "" {
			return EnvCacheMaxBytes, true
		}
	case "viewer.snap_threshold_px":
		if os.Getenv(EnvSnapThreshold) != "" {
			return EnvSnapThreshold, true
		}
	case "viewer.close_threshold_px":
		if os.Getenv(EnvCloseThreshold) != "" {
			return EnvCloseThreshold, true
		}
	case "viewer.tile_timeout_ms":
		if os.Getenv(EnvTileTimeoutMs) != "" {
			return EnvTileTimeoutMs, true
		}
	case "viewer.cursor_timeout_ms":
		if os.Getenv(EnvCursorTimeoutMs) != "" {
			return EnvCursorTimeoutMs, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}

// TileTimeout returns the overlay idle timeout as a duration.
func (v ViewerConfig) TileTimeout() time.Duration {
	if v.TileTimeoutMs <= 0 {
		return time.Duration(Defaults().Viewer.TileTimeoutMs) * time.Millisecond
	}
	return time.Duration(v.TileTimeoutMs) * time.Millisecond
}

// CursorTimeout returns the cursor idle timeout as a duration.
func (v ViewerConfig) CursorTimeout() time.Duration {
	if v.CursorTimeoutMs <= 0 {
		return time.Duration(Defaults().Viewer.CursorTimeoutMs) * time.Millisecond
	}
	return time.Duration(v.CursorTimeoutMs) * time.Millisecond
}
