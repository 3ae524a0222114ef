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

// This file defines the segment synchronization command, the concurrent
// heart of the pipeline.
//
// Logic Flow:
// For each segment, independently and in parallel across a bounded worker
// pool:
//  1. Synthesize the segment's narration audio and probe its exact duration.
//  2. Fetch a background clip for the segment's query key, falling back to
//     the run topic when the key finds nothing.
//  3. Render a per-segment video cut to exactly the narration duration,
//     looping the clip when it is shorter than the narration.
//
// Workers pull jobs from a channel and push indexed results; the collector
// reorders by index so the output order matches script order regardless of
// completion order. Any segment failure fails the run.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/media"
)

// SegmentSynchronizer produces one narrated, duration-matched video per
// segment using a fixed-size worker pool.
type SegmentSynchronizer struct {
	cor.BaseCommand
	workers    int
	scratchDir string
	speech     backends.SpeechSynthesizer
	clips      backends.ClipProvider
	renderer   media.Renderer
	runKey     string
}

type syncJob struct {
	index   int
	segment *model.Segment
}

type syncResult struct {
	index  int
	synced *model.SyncedSegment
	err    error
}

func NewSegmentSynchronizer(
	name string,
	workers int,
	scratchDir string,
	speech backends.SpeechSynthesizer,
	clips backends.ClipProvider,
	renderer media.Renderer,
	runKey string) *SegmentSynchronizer {
	if workers < 1 {
		workers = 1
	}
	return &SegmentSynchronizer{
		BaseCommand: *cor.NewBaseCommand(name),
		workers:     workers,
		scratchDir:  scratchDir,
		speech:      speech,
		clips:       clips,
		renderer:    renderer,
		runKey:      runKey,
	}
}

// IsExecutable requires the segment list plus the parked raw script that
// carries the run's topic and mode.
func (t *SegmentSynchronizer) IsExecutable(context cor.Context) bool {
	segments, ok := context.Get(t.GetInputParam()).([]*model.Segment)
	if !ok || len(segments) == 0 {
		return false
	}
	_, ok = context.Get(t.runKey).(*model.RawScript)
	return ok
}

func (t *SegmentSynchronizer) Execute(chCtx cor.Context) {
	segments := chCtx.Get(t.GetInputParam()).([]*model.Segment)
	raw := chCtx.Get(t.runKey).(*model.RawScript)
	orientation := raw.Mode.Orientation()

	// Each run gets its own scratch directory, tracked on the chain
	// context so Close removes it with everything inside.
	runDir, err := os.MkdirTemp(t.scratchDir, "run-")
	if err != nil {
		t.GetErrorCounter().Add(chCtx.GetContext(), 1)
		chCtx.AddError(t.GetName(), fmt.Errorf("creating scratch directory: %w", err))
		return
	}
	chCtx.AddTempDir(runDir)

	// A failed segment cancels the remaining work.
	ctx, cancel := context.WithCancel(chCtx.GetContext())
	defer cancel()

	jobs := make(chan syncJob)
	results := make(chan syncResult)

	var wg sync.WaitGroup
	for w := 0; w < t.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				synced, err := t.syncSegment(ctx, orientation, raw.Topic, runDir, job.segment)
				select {
				case results <- syncResult{index: job.index, synced: synced, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, segment := range segments {
			select {
			case jobs <- syncJob{index: i, segment: segment}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect and reorder by index. Completion order depends on clip
	// sizes and narration lengths; playback order must not.
	ordered := make([]*model.SyncedSegment, len(segments))
	var firstErr error
	for result := range results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
				cancel()
			}
			continue
		}
		ordered[result.index] = result.synced
	}

	if firstErr != nil {
		t.GetErrorCounter().Add(chCtx.GetContext(), 1)
		chCtx.AddError(t.GetName(), firstErr)
		return
	}

	t.GetSuccessCounter().Add(chCtx.GetContext(), 1)
	chCtx.Add(t.GetOutputParam(), ordered)
}

// syncSegment runs the full audio-visual pairing for one segment.
func (t *SegmentSynchronizer) syncSegment(ctx context.Context, orientation model.Orientation, topic, dir string, segment *model.Segment) (*model.SyncedSegment, error) {
	// Narration first: its duration dictates everything downstream.
	audioPath := filepath.Join(dir, fmt.Sprintf("audio_%03d_%s.wav", segment.Index, uuid.NewString()))
	audioPath, err := t.speech.Synthesize(ctx, segment.Body, audioPath)
	if err != nil {
		return nil, fmt.Errorf("synthesizing segment %d: %w", segment.Index, err)
	}

	duration, err := t.renderer.AudioDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("probing audio for segment %d: %w", segment.Index, err)
	}

	query := segment.QueryKey()
	clipPath, err := t.clips.FetchClip(ctx, query, string(orientation), dir)
	if err != nil {
		// A niche query key may find nothing; the run topic is a
		// broader second chance before giving up.
		slog.WarnContext(ctx, "clip search failed, retrying with topic",
			"segment", segment.Index, "query", query, "topic", topic, "error", err)
		clipPath, err = t.clips.FetchClip(ctx, topic, string(orientation), dir)
		if err != nil {
			return nil, &model.AssetUnavailableError{SegmentIndex: segment.Index, Query: query, Err: err}
		}
	}

	visual, err := t.renderer.ClipInfo(ctx, clipPath)
	if err != nil {
		return nil, fmt.Errorf("probing clip for segment %d: %w", segment.Index, err)
	}

	outputPath := filepath.Join(dir, fmt.Sprintf("segment_%03d_%s.mp4", segment.Index, uuid.NewString()))
	if err := t.renderer.RenderSegment(ctx, orientation.Frame(), clipPath, audioPath, outputPath, duration); err != nil {
		return nil, fmt.Errorf("rendering segment %d: %w", segment.Index, err)
	}

	return &model.SyncedSegment{
		Segment:         segment,
		Audio:           &model.AudioAsset{Path: audioPath, DurationSeconds: duration},
		Visual:          visual,
		Path:            outputPath,
		DurationSeconds: duration,
	}, nil
}
