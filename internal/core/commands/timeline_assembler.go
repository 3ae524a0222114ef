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

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/media"
)

// TimelineAssembler concatenates the synced segments, in script order, into
// the final video. Segments share encode parameters, so the join is a
// stream copy; the portrait sixty-second ceiling is applied as an output
// duration limit, cutting mid-segment when necessary.
type TimelineAssembler struct {
	cor.BaseCommand
	outputDir string
	renderer  media.Renderer
	runKey    string
}

func NewTimelineAssembler(name string, outputDir string, renderer media.Renderer, runKey string) *TimelineAssembler {
	return &TimelineAssembler{
		BaseCommand: *cor.NewBaseCommand(name),
		outputDir:   outputDir,
		renderer:    renderer,
		runKey:      runKey,
	}
}

func (t *TimelineAssembler) IsExecutable(context cor.Context) bool {
	synced, ok := context.Get(t.GetInputParam()).([]*model.SyncedSegment)
	if !ok || len(synced) == 0 {
		return false
	}
	_, ok = context.Get(t.runKey).(*model.RawScript)
	return ok
}

func (t *TimelineAssembler) Execute(context cor.Context) {
	synced := context.Get(t.GetInputParam()).([]*model.SyncedSegment)
	raw := context.Get(t.runKey).(*model.RawScript)

	timeline := &model.Timeline{
		Segments:    synced,
		Orientation: raw.Mode.Orientation(),
	}

	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("creating output directory: %w", err))
		return
	}
	outputPath := filepath.Join(t.outputDir, raw.Mode.OutputFileName())

	paths := make([]string, 0, len(synced))
	segments := make([]*model.Segment, 0, len(synced))
	for _, s := range synced {
		paths = append(paths, s.Path)
		segments = append(segments, s.Segment)
	}

	// Zero means unbounded; only the capped total is passed to ffmpeg.
	var ceiling float64
	if max := timeline.Orientation.MaxDurationSeconds(); max > 0 && timeline.TotalDurationSeconds() > max {
		ceiling = max
	}

	if err := t.renderer.Concat(context.GetContext(), paths, outputPath, ceiling); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	slog.InfoContext(context.GetContext(), "assembled timeline",
		"output", outputPath,
		"segments", len(synced),
		"total_seconds", timeline.TotalDurationSeconds(),
		"final_seconds", timeline.CappedDurationSeconds())

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), &model.ProducedVideo{
		Path:            outputPath,
		Mode:            raw.Mode,
		Topic:           raw.Topic,
		DurationSeconds: timeline.CappedDurationSeconds(),
		Segments:        segments,
	})
}
