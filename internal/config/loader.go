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

// This file implements the hierarchical configuration loader. It first reads
// a base configuration file and then overwrites values with a second,
// environment-specific file (e.g. .env.local.toml, .env.test.toml). The
// config directory and runtime name are taken from environment variables,
// which themselves may be seeded from a dotenv file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Configuration loading constants. The loader looks for files named
// <prefix>.env.toml and <prefix>.env.<runtime>.toml.
const (
	ConfigFileBaseName  = ".env"                  // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"                 // The file extension for configuration files.
	ConfigSeparator     = "."                     // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "SHORTS_CONFIG_PREFIX"  // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "SHORTS_RUNTIME"        // The environment variable for specifying the runtime context (e.g., "local", "test").
	DefaultRuntime      = "test"                  // Runtime used when SHORTS_RUNTIME is unset.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It
// first loads a base configuration file and then overwrites its values with
// an environment-specific configuration file. The paths and environment are
// determined by environment variables; a .env dotenv file in the working
// directory, when present, is loaded first so it can supply them.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct that will be
//     populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	// Best-effort: a missing dotenv file is the normal case in
	// production, where the variables come from the environment itself.
	_ = godotenv.Load()

	// Read the directory path for config files from an environment variable.
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	// Read the runtime environment (e.g., "local", "test") from an
	// environment variable, defaulting to "test" when unset.
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = DefaultRuntime
	}

	// Construct the path for the base configuration file (e.g., "configs/.env.toml").
	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension

	// Construct the path for the environment-specific override file
	// (e.g., "configs/.env.test.toml").
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	// If the base configuration file exists, decode it into the baseConfig struct.
	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// If the environment-specific configuration file exists, decode it.
	// Any values in this file overwrite the values from the base config.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// Validate checks the populated configuration against the struct validation
// tags and returns a single error describing every violated rule.
func Validate(cfg *Config) error {
	applyDefaults(cfg)
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed rule %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// applyDefaults fills in the values a minimal configuration file is allowed
// to omit.
func applyDefaults(cfg *Config) {
	if cfg.Application.ThreadPoolSize == 0 {
		cfg.Application.ThreadPoolSize = 4
	}
	if cfg.Generation.Attempts == 0 {
		cfg.Generation.Attempts = 5
	}
	if cfg.Render.VideoCodec == "" {
		cfg.Render.VideoCodec = "libx264"
	}
	if cfg.Render.Preset == "" {
		cfg.Render.Preset = "veryfast"
	}
	if cfg.Render.FrameRate == 0 {
		cfg.Render.FrameRate = 30
	}
	if cfg.Speech.TimeoutSeconds == 0 {
		cfg.Speech.TimeoutSeconds = 60
	}
	if cfg.Footage.TimeoutSeconds == 0 {
		cfg.Footage.TimeoutSeconds = 60
	}
	if cfg.Footage.PerPage == 0 {
		cfg.Footage.PerPage = 5
	}
	if cfg.Trends.TimeoutSeconds == 0 {
		cfg.Trends.TimeoutSeconds = 15
	}
}
