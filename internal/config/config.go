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

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the
// user scope. Environment variables are read-only overrides at runtime.
// Secrets (backend token, SMTP password) never touch the YAML file; they live
// in the OS keyring.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type BackendConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// UserKey identifies whose template document this installation edits.
	UserKey string `yaml:"user_key"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	// Password is not stored on disk; it lives in the OS keyring.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type EditorConfig struct {
	GridSize    int  `yaml:"grid_size"`
	GridEnabled bool `yaml:"grid_enabled"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Backend       BackendConfig `yaml:"backend"`
	SMTP          SMTPConfig    `yaml:"smtp"`
	Logging       LoggingConfig `yaml:"logging"`
	Editor        EditorConfig  `yaml:"editor"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Backend:       BackendConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, UserKey: "default"},
		SMTP:          SMTPConfig{Host: "localhost", Port: 587},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Editor:        EditorConfig{GridSize: 20, GridEnabled: false},
	}
}

// Env var names used as overrides.
const (
	EnvBackendURL       = "EMT_BACKEND_URL"
	EnvBackendTimeoutMs = "EMT_BACKEND_TIMEOUT_MS"
	EnvUserKey          = "EMT_USER_KEY"
	EnvSMTPHost         = "EMT_SMTP_HOST"
	EnvSMTPPort         = "EMT_SMTP_PORT"
	EnvSMTPFrom         = "EMT_SMTP_FROM"
	EnvSMTPUser         = "EMT_SMTP_USER"
	EnvLogLevel         = "EMT_LOG_LEVEL"
	EnvLogFormat        = "EMT_LOG_FORMAT"
	EnvLogSource        = "EMT_LOG_SOURCE"
	EnvLogFile          = "EMT_LOG_FILE"
)

// Service/keys for the OS keyring.
const (
	keyringService  = "EditMyTicket"
	keyringToken    = "backend_token"
	keyringSMTPPass = "smtp_password"
)

// SecretStore abstracts the keyring so tests can stub it.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

var secrets SecretStore = osKeyring{}

// Secrets carries runtime-only secret material loaded from the keyring.
type Secrets struct {
	BackendToken string
	SMTPPassword string
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "EditMyTicket")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "EditMyTicket")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "editmyticket")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, merges
// environment overrides, and loads secrets from the keyring. Keyring failures
// are soft: missing entries simply yield empty secrets.
func Load() (AppConfig, Secrets, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, Secrets{}, err
	}
	if data, rerr := os.ReadFile(path); rerr == nil {
		var fileCfg AppConfig
		if uerr := yaml.Unmarshal(data, &fileCfg); uerr == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	var sec Secrets
	sec.BackendToken, _ = secrets.Get(keyringService, keyringToken)
	sec.SMTPPassword, _ = secrets.Get(keyringService, keyringSMTPPass)
	return cfg, sec, nil
}

// Save writes the user config YAML and persists non-empty secrets into the
// OS keyring.
func Save(cfg AppConfig, sec Secrets) error {
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
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if sec.BackendToken != "" {
		if err := secrets.Set(keyringService, keyringToken, sec.BackendToken); err != nil {
			return err
		}
	}
	if sec.SMTPPassword != "" {
		if err := secrets.Set(keyringService, keyringSMTPPass, sec.SMTPPassword); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	if src.Backend.UserKey != "" {
		dst.Backend.UserKey = src.Backend.UserKey
	}
	if src.SMTP.Host != "" {
		dst.SMTP.Host = src.SMTP.Host
	}
	if src.SMTP.Port != 0 {
		dst.SMTP.Port = src.SMTP.Port
	}
	if src.SMTP.From != "" {
		dst.SMTP.From = src.SMTP.From
	}
	if src.SMTP.Username != "" {
		dst.SMTP.Username = src.SMTP.Username
	}
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
	if src.Editor.GridSize != 0 {
		dst.Editor.GridSize = src.Editor.GridSize
	}
	dst.Editor.GridEnabled = src.Editor.GridEnabled
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvUserKey)); v != "" {
		cfg.Backend.UserKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSMTPHost)); v != "" {
		cfg.SMTP.Host = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSMTPPort)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSMTPFrom)); v != "" {
		cfg.SMTP.From = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSMTPUser)); v != "" {
		cfg.SMTP.Username = v
	}
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
