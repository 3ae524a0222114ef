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

package test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// FakeGenerator replays a scripted sequence of generation outcomes. An
// empty string in Outputs simulates a blank model response; entries in Errs
// (matched by call index) simulate transport failures.
type FakeGenerator struct {
	mu      sync.Mutex
	Outputs []string
	Errs    map[int]error
	Calls   int
}

func (f *FakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.Calls
	f.Calls++
	if err, ok := f.Errs[call]; ok {
		return "", err
	}
	if call < len(f.Outputs) {
		return f.Outputs[call], nil
	}
	return "", nil
}

// FakeSpeech writes a placeholder audio file per call and records the
// narrated texts in order of arrival.
type FakeSpeech struct {
	mu    sync.Mutex
	Texts []string
	Err   error
}

func (f *FakeSpeech) Synthesize(_ context.Context, text string, outputPath string) (string, error) {
	f.mu.Lock()
	f.Texts = append(f.Texts, text)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if err := os.WriteFile(outputPath, []byte("RIFF"), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// FakeClips hands out placeholder clip files. FailQueries lists queries
// that return an error, which exercises the topic-retry path.
type FakeClips struct {
	mu           sync.Mutex
	Queries      []string
	Orientations []string
	FailQueries  map[string]bool
}

func (f *FakeClips) FetchClip(_ context.Context, query string, orientation string, dir string) (string, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, query)
	f.Orientations = append(f.Orientations, orientation)
	fail := f.FailQueries[query]
	f.mu.Unlock()
	if fail {
		return "", fmt.Errorf("no clips for %q", query)
	}
	path := filepath.Join(dir, fmt.Sprintf("clip_%s.mp4", uuid.NewString()))
	if err := os.WriteFile(path, []byte("mp4"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// FakeTopics returns a fixed topic.
type FakeTopics struct {
	Topic string
}

func (f *FakeTopics) TrendingTopic(_ context.Context) (string, error) {
	return f.Topic, nil
}

// FakePublisher records what would have been uploaded.
type FakePublisher struct {
	mu     sync.Mutex
	Titles []string
	Metas  []backends.VideoMetadata
	Err    error
}

func (f *FakePublisher) Publish(_ context.Context, _ string, meta backends.VideoMetadata) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.mu.Lock()
	f.Titles = append(f.Titles, meta.Title)
	f.Metas = append(f.Metas, meta)
	f.mu.Unlock()
	return "fake-video-id", nil
}

// FakeRenderer simulates ffmpeg. Audio durations come from the Durations
// map keyed by narrated segment order of the audio file name; when absent,
// DefaultDuration applies. Rendered and concatenated outputs are written as
// placeholder files so path handling is exercised for real.
type FakeRenderer struct {
	mu              sync.Mutex
	DefaultDuration float64
	// Durations maps a substring of the audio path (e.g. "audio_001") to
	// a duration, letting tests vary per-segment narration lengths.
	Durations map[string]float64

	RenderedFrames []model.Frame
	ConcatInputs   []string
	ConcatCeilings []float64
	ClipInfoErr    error
	RenderErr      error
	ConcatErr      error
}

func (f *FakeRenderer) AudioDuration(_ context.Context, audioPath string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, d := range f.Durations {
		if key != "" && strings.Contains(audioPath, key) {
			return d, nil
		}
	}
	if f.DefaultDuration > 0 {
		return f.DefaultDuration, nil
	}
	return 5, nil
}

func (f *FakeRenderer) ClipInfo(_ context.Context, clipPath string) (*model.VisualAsset, error) {
	if f.ClipInfoErr != nil {
		return nil, f.ClipInfoErr
	}
	return &model.VisualAsset{Path: clipPath, Width: 1280, Height: 720, DurationSeconds: 10}, nil
}

func (f *FakeRenderer) RenderSegment(_ context.Context, frame model.Frame, _, _, outputPath string, _ float64) error {
	if f.RenderErr != nil {
		return f.RenderErr
	}
	f.mu.Lock()
	f.RenderedFrames = append(f.RenderedFrames, frame)
	f.mu.Unlock()
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}

func (f *FakeRenderer) Concat(_ context.Context, segmentPaths []string, outputPath string, maxDurationSeconds float64) error {
	if f.ConcatErr != nil {
		return f.ConcatErr
	}
	f.mu.Lock()
	f.ConcatInputs = append([]string{}, segmentPaths...)
	f.ConcatCeilings = append(f.ConcatCeilings, maxDurationSeconds)
	f.mu.Unlock()
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}
