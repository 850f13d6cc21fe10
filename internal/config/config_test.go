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
	"testing"
)

type memSecrets struct{ m map[string]string }

func (s *memSecrets) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *memSecrets) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *memSecrets) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Backend.BaseURL == "" || cfg.Backend.TimeoutMs <= 0 {
		t.Fatalf("bad backend defaults: %+v", cfg.Backend)
	}
	if cfg.Editor.GridSize != 20 {
		t.Fatalf("default grid size should be 20, got %d", cfg.Editor.GridSize)
	}
}

func TestMergeIntoKeepsDefaultsForEmptyFields(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Backend: BackendConfig{UserKey: "acme"}}
	mergeInto(&dst, &src)
	if dst.Backend.UserKey != "acme" {
		t.Fatalf("user key not merged")
	}
	if dst.Backend.BaseURL != Defaults().Backend.BaseURL {
		t.Fatalf("empty base_url should not override default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://tickets.example.com")
	t.Setenv(EnvSMTPPort, "2525")
	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Backend.BaseURL != "https://tickets.example.com" {
		t.Fatalf("env base_url not applied: %q", cfg.Backend.BaseURL)
	}
	if cfg.SMTP.Port != 2525 {
		t.Fatalf("env smtp port not applied: %d", cfg.SMTP.Port)
	}
}

func TestSecretsRoundTripViaStub(t *testing.T) {
	old := secrets
	secrets = &memSecrets{m: map[string]string{}}
	defer func() { secrets = old }()

	if err := secrets.Set(keyringService, keyringToken, "tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := secrets.Get(keyringService, keyringToken)
	if err != nil || got != "tok-123" {
		t.Fatalf("get: %q %v", got, err)
	}
}
