// Copyright 2025 CurioShorts, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package test provides utility functions and fake service backends to
// support the test suite. The fakes stand in for every external service the
// pipeline touches, so workflow tests run hermetically: no model, no TTS
// service, no footage API, no ffmpeg.
package test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/curioshorts/go-shorts-factory/internal/config"
)

// StateManager caches the test configuration so it is loaded once per test
// run.
type StateManager struct {
	config *config.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// findConfigDir walks up from the working directory until it finds the
// repository's configs directory. Tests run from their own package
// directories, so a bare relative path would not resolve.
func findConfigDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "configs")
		if _, err := os.Stat(filepath.Join(candidate, ".env.toml")); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no configs directory above %s", dir)
		}
		dir = parent
	}
}

// SetupOS points the configuration loader at the test configuration files
// (configs/.env.toml overridden by configs/.env.test.toml).
func SetupOS() (err error) {
	configDir, err := findConfigDir()
	if err != nil {
		return err
	}
	if err = os.Setenv(config.EnvConfigFilePrefix, configDir); err != nil {
		return err
	}
	err = os.Setenv(config.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}
