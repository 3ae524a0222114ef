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

// This file holds the suite-wide setup for the workflow tests: TestMain
// initializes logging and telemetry once, and the shipped test
// configuration is checked against the validation rules so a broken
// configs/.env.test.toml fails fast here instead of somewhere inside a
// workflow test.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/telemetry"
	test "github.com/curioshorts/go-shorts-factory/internal/testutil"
)

// Constants and global tracers/loggers for telemetry.
const tName = "github.com/curioshorts/go-shorts-factory/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

// TestMain sets up the shared state for the package: the test
// configuration, structured logging, and the OpenTelemetry providers. The
// shutdown function is called after the run so buffered telemetry is
// flushed.
func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := test.GetConfig()

	telemetry.SetupLogging()
	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}

	logger.Info("completed test setup")

	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}

	os.Exit(exitCode)
}

// TestShippedConfigIsValid loads configs/.env.toml overlaid with
// configs/.env.test.toml and runs it through validation.
func TestShippedConfigIsValid(t *testing.T) {
	cfg := test.GetConfig()
	assert.NoError(t, config.Validate(cfg))

	assert.Equal(t, "gemini", cfg.Generation.Backend)
	assert.GreaterOrEqual(t, cfg.Application.ThreadPoolSize, 1)
	assert.NotEmpty(t, cfg.Trends.FallbackTopic)
	// The test runtime must never reach YouTube.
	assert.False(t, cfg.Publish.Enabled)
}
