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

// Command pipeline runs one video production end to end: resolve a topic,
// generate and segment a script, synchronize narration with footage, and
// assemble (optionally publish) the final video.
//
// Usage:
//
//	pipeline --mode short [--topic "roman bridges"] [--publish]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/core/workflow"
	"github.com/curioshorts/go-shorts-factory/internal/telemetry"
)

func main() {
	mode := flag.String("mode", "short", "production mode: short or long")
	topic := flag.String("topic", "", "topic to produce; empty picks a trending topic")
	publish := flag.Bool("publish", false, "upload the finished video")
	flag.Parse()

	telemetry.SetupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewConfig()
	config.LoadConfig(cfg)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	services, err := backends.NewServiceClients(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize service clients: %v", err)
	}

	pipeline := workflow.NewVideoProductionWorkflow(cfg, services)

	request := &model.PipelineRequest{
		Mode:    model.ParseMode(*mode),
		Topic:   *topic,
		Publish: *publish,
	}

	video, err := pipeline.Run(ctx, request)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	slog.Info("pipeline complete",
		"output", video.Path,
		"mode", video.Mode,
		"topic", video.Topic,
		"duration_seconds", video.DurationSeconds,
		"video_id", video.VideoID)
}
