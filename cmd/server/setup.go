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

package main

import (
	"context"
	"log"
	"os"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/workflow"
)

// StateManager holds the shared components of the server process.
type StateManager struct {
	config   *config.Config
	services *backends.ServiceClients
	pipeline *workflow.VideoProductionWorkflow
	runs     *RunRegistry
}

var state = &StateManager{}

// SetupOS seeds the configuration environment variables when they are not
// already present, so a bare `go run ./cmd/server` works from the repo root.
func SetupOS() (err error) {
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(config.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		err = os.Setenv(config.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig lazily loads and validates the application configuration.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up environment: %v", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		if err := config.Validate(cfg); err != nil {
			log.Fatalf("configuration error: %v", err)
		}
		state.config = cfg
	}
	return state.config
}

// InitState initializes the service clients, the production workflow, and
// the run registry.
func InitState(ctx context.Context) {
	cfg := GetConfig()

	services, err := backends.NewServiceClients(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize service clients: %v", err)
	}

	state.services = services
	state.pipeline = workflow.NewVideoProductionWorkflow(cfg, services)
	state.runs = NewRunRegistry()
}
