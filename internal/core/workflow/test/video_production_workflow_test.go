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

// Package workflow_test exercises the full production chain end to end
// against fake backends: topic resolution, generation, normalization,
// segmentation, synchronization, assembly, and publishing.
package workflow_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/core/workflow"
	test "github.com/curioshorts/go-shorts-factory/internal/testutil"
)

// sampleScript parses into three titled segments.
const sampleScript = "Sure, here is your script! " +
	"1) LAVA LAKES: Only a handful of lava lakes exist on Earth. " +
	"2) ASH CLOUDS: Volcanic ash can circle the globe for years. " +
	"3) NEW ISLANDS: Eruptions are still building new land today."

// testHarness bundles the workflow under test with the fakes behind it so
// assertions can reach into every backend.
type testHarness struct {
	pipeline  *workflow.VideoProductionWorkflow
	generator *test.FakeGenerator
	speech    *test.FakeSpeech
	clips     *test.FakeClips
	topics    *test.FakeTopics
	publisher *test.FakePublisher
	renderer  *test.FakeRenderer
	outputDir string
}

// newTestHarness wires a complete workflow over fakes with an in-memory
// configuration. The renderer reports a fixed duration per segment.
func newTestHarness(t *testing.T, segmentSeconds float64) *testHarness {
	t.Helper()

	h := &testHarness{
		generator: &test.FakeGenerator{Outputs: []string{sampleScript}},
		speech:    &test.FakeSpeech{},
		clips:     &test.FakeClips{},
		topics:    &test.FakeTopics{Topic: "volcanoes"},
		publisher: &test.FakePublisher{},
		renderer:  &test.FakeRenderer{DefaultDuration: segmentSeconds},
		outputDir: t.TempDir(),
	}

	cfg := config.NewConfig()
	cfg.Application.Name = "shorts-factory-test"
	cfg.Application.ThreadPoolSize = 2
	cfg.Application.ScratchDir = t.TempDir()
	cfg.Application.OutputDir = h.outputDir
	cfg.Generation = config.Generation{
		Backend:           "gemini",
		Attempts:          2,
		RetryDelaySeconds: 0,
		ShortPrompt:       "Write a short script about '%s'.",
		LongPrompt:        "Write a long script about '%s'.",
		FallbackTemplate:  "Here are some interesting facts about %s.",
	}
	cfg.Publish = config.Publish{
		Enabled:       true,
		CategoryID:    "27",
		PrivacyStatus: "unlisted",
		Tags:          []string{"facts"},
	}

	services := &backends.ServiceClients{
		Generator: h.generator,
		Speech:    h.speech,
		Clips:     h.clips,
		Topics:    h.topics,
		Publisher: h.publisher,
		Renderer:  h.renderer,
	}
	h.pipeline = workflow.NewVideoProductionWorkflow(cfg, services)
	return h
}

// TestShortRunEndToEnd drives a full portrait run: explicit topic, three
// titled segments, publish requested.
func TestShortRunEndToEnd(t *testing.T) {
	h := newTestHarness(t, 10)

	traceCtx, span := tracer.Start(context.Background(), "short-run-end-to-end")
	defer span.End()

	video, err := h.pipeline.Run(traceCtx, &model.PipelineRequest{
		Mode:    model.ModeShort,
		Topic:   "volcanoes",
		Publish: true,
	})

	assert.Nil(t, err)
	if assert.NotNil(t, video) {
		assert.Equal(t, filepath.Join(h.outputDir, "short.mp4"), video.Path)
		assert.Equal(t, model.ModeShort, video.Mode)
		assert.Equal(t, "volcanoes", video.Topic)
		// Three ten-second segments stay under the portrait ceiling.
		assert.Equal(t, float64(30), video.DurationSeconds)
		assert.Equal(t, "fake-video-id", video.VideoID)
		assert.Len(t, video.Segments, 3)
	}

	// Each segment body was narrated and each clip search used the segment
	// title.
	assert.Len(t, h.speech.Texts, 3)
	assert.Contains(t, h.clips.Queries, "Lava Lakes")
	assert.Contains(t, h.clips.Queries, "Ash Clouds")
	assert.Contains(t, h.clips.Queries, "New Islands")

	// All segments rendered in the portrait frame and joined uncapped.
	if assert.Len(t, h.renderer.RenderedFrames, 3) {
		assert.Equal(t, model.ModeShort.Orientation().Frame(), h.renderer.RenderedFrames[0])
	}
	assert.Equal(t, []float64{0}, h.renderer.ConcatCeilings)

	if assert.Len(t, h.publisher.Titles, 1) {
		assert.Equal(t, "volcanoes: Lava Lakes and more #shorts", h.publisher.Titles[0])
	}
}

// TestShortRunAppliesDurationCeiling verifies that a portrait run over
// sixty seconds is cut to exactly sixty.
func TestShortRunAppliesDurationCeiling(t *testing.T) {
	h := newTestHarness(t, 25) // 3 x 25s = 75s total

	video, err := h.pipeline.Run(context.Background(), &model.PipelineRequest{
		Mode:  model.ModeShort,
		Topic: "volcanoes",
	})

	assert.Nil(t, err)
	if assert.NotNil(t, video) {
		assert.Equal(t, float64(60), video.DurationSeconds)
	}
	assert.Equal(t, []float64{60}, h.renderer.ConcatCeilings)
}

// TestLongRunIsUnbounded verifies the landscape path: long output name,
// landscape frame, no duration ceiling, no publish when not requested.
func TestLongRunIsUnbounded(t *testing.T) {
	h := newTestHarness(t, 90)

	video, err := h.pipeline.Run(context.Background(), &model.PipelineRequest{
		Mode:  model.ModeLong,
		Topic: "volcanoes",
	})

	assert.Nil(t, err)
	if assert.NotNil(t, video) {
		assert.Equal(t, filepath.Join(h.outputDir, "long.mp4"), video.Path)
		assert.Equal(t, float64(270), video.DurationSeconds)
		assert.Empty(t, video.VideoID)
	}
	assert.Equal(t, []float64{0}, h.renderer.ConcatCeilings)
	if assert.Len(t, h.renderer.RenderedFrames, 3) {
		assert.Equal(t, model.ModeLong.Orientation().Frame(), h.renderer.RenderedFrames[0])
	}
	assert.Empty(t, h.publisher.Titles)
}

// TestEmptyTopicResolvedFromTrends verifies that a request without a topic
// is filled from the trending-topic source before generation.
func TestEmptyTopicResolvedFromTrends(t *testing.T) {
	h := newTestHarness(t, 10)

	video, err := h.pipeline.Run(context.Background(), &model.PipelineRequest{
		Mode: model.ModeShort,
	})

	assert.Nil(t, err)
	if assert.NotNil(t, video) {
		assert.Equal(t, "volcanoes", video.Topic)
	}
	assert.Equal(t, 1, h.generator.Calls)
}

// TestRunFailsWhenAssetsUnavailable verifies that a run is aborted, not
// padded, when no clip can be found for a segment or for the topic.
func TestRunFailsWhenAssetsUnavailable(t *testing.T) {
	h := newTestHarness(t, 10)
	h.clips.FailQueries = map[string]bool{
		"Ash Clouds": true,
		"volcanoes":  true,
	}

	video, err := h.pipeline.Run(context.Background(), &model.PipelineRequest{
		Mode:  model.ModeShort,
		Topic: "volcanoes",
	})

	assert.Nil(t, video)
	var assetErr *model.AssetUnavailableError
	assert.ErrorAs(t, err, &assetErr)
	assert.Empty(t, h.publisher.Titles)
}

// TestRunFailsHardOnExhaustedGeneration verifies that the strict policy
// surfaces the exhaustion error from a full run.
func TestRunFailsHardOnExhaustedGeneration(t *testing.T) {
	h := newTestHarness(t, 10)
	h.generator.Outputs = nil // every attempt returns blank output
	h.pipeline = nil

	cfg := config.NewConfig()
	cfg.Application.ThreadPoolSize = 2
	cfg.Application.ScratchDir = t.TempDir()
	cfg.Application.OutputDir = h.outputDir
	cfg.Generation = config.Generation{
		Backend:          "gemini",
		Attempts:         2,
		FailHard:         true,
		ShortPrompt:      "Write a short script about '%s'.",
		LongPrompt:       "Write a long script about '%s'.",
		FallbackTemplate: "Here are some interesting facts about %s.",
	}
	h.pipeline = workflow.NewVideoProductionWorkflow(cfg, &backends.ServiceClients{
		Generator: h.generator,
		Speech:    h.speech,
		Clips:     h.clips,
		Topics:    h.topics,
		Renderer:  h.renderer,
	})

	video, err := h.pipeline.Run(context.Background(), &model.PipelineRequest{
		Mode:  model.ModeShort,
		Topic: "volcanoes",
	})

	assert.Nil(t, video)
	assert.ErrorIs(t, err, model.ErrGenerationExhausted)
	assert.Equal(t, 2, h.generator.Calls)
	assert.Empty(t, h.speech.Texts)
}

// TestFallbackScriptStillProducesVideo verifies the soft-fail default: when
// generation never succeeds the fallback template still yields a complete
// video.
func TestFallbackScriptStillProducesVideo(t *testing.T) {
	h := newTestHarness(t, 10)
	h.generator.Outputs = nil // exhaust the budget

	video, err := h.pipeline.Run(context.Background(), &model.PipelineRequest{
		Mode:  model.ModeShort,
		Topic: "volcanoes",
	})

	assert.Nil(t, err)
	if assert.NotNil(t, video) {
		// The fallback has no numbered markers, so it narrates as a single
		// segment.
		assert.Len(t, video.Segments, 1)
	}
	if assert.Len(t, h.speech.Texts, 1) {
		assert.Contains(t, h.speech.Texts[0], "volcanoes")
	}
}
