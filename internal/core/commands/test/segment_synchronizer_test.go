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

// This file covers the segment synchronization worker pool: ordering,
// the topic fallback for failed clip searches, and the double-failure
// abort path.
package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioshorts/go-shorts-factory/internal/core/commands"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	test "github.com/curioshorts/go-shorts-factory/internal/testutil"
)

const scriptKey = "__script__"

// newSegmentContext parks a raw script under the run key and supplies the
// given segments as chain input.
func newSegmentContext(t *testing.T, mode model.Mode, segments []*model.Segment) cor.Context {
	t.Helper()
	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(scriptKey, &model.RawScript{Topic: "volcanoes", Mode: mode})
	ctx.Add(cor.CtxIn, segments)
	return ctx
}

func threeSegments() []*model.Segment {
	return []*model.Segment{
		{Index: 0, Title: "Lava Lakes", Body: "Only a handful of lava lakes exist."},
		{Index: 1, Title: "Ash Clouds", Body: "Ash can circle the globe for years."},
		{Index: 2, Title: "New Islands", Body: "Eruptions still build new land today."},
	}
}

// TestSynchronizerOrdersResults verifies that the synced output preserves
// script order even though segments complete concurrently, and that each
// segment is cut to its own narration length.
func TestSynchronizerOrdersResults(t *testing.T) {
	speech := &test.FakeSpeech{}
	clips := &test.FakeClips{}
	renderer := &test.FakeRenderer{Durations: map[string]float64{
		"audio_000": 4.5,
		"audio_001": 12,
		"audio_002": 7.25,
	}}

	cmd := commands.NewSegmentSynchronizer("synchronize-segments", 3, t.TempDir(), speech, clips, renderer, scriptKey)
	ctx := newSegmentContext(t, model.ModeShort, threeSegments())
	cmd.Execute(ctx)
	defer ctx.Close()

	assert.False(t, ctx.HasErrors())
	synced := ctx.Get(cor.CtxOut).([]*model.SyncedSegment)
	if assert.Len(t, synced, 3) {
		assert.Equal(t, 0, synced[0].Segment.Index)
		assert.Equal(t, 1, synced[1].Segment.Index)
		assert.Equal(t, 2, synced[2].Segment.Index)
		assert.Equal(t, 4.5, synced[0].DurationSeconds)
		assert.Equal(t, float64(12), synced[1].DurationSeconds)
		assert.Equal(t, 7.25, synced[2].DurationSeconds)

		// The source clip's probed metadata rides along with the segment.
		if assert.NotNil(t, synced[0].Visual) {
			assert.NotEmpty(t, synced[0].Visual.Path)
			assert.Equal(t, 1280, synced[0].Visual.Width)
			assert.Equal(t, 720, synced[0].Visual.Height)
		}
	}

	// Every segment was narrated and rendered in the portrait frame, and
	// clip searches carried the portrait orientation.
	assert.Len(t, speech.Texts, 3)
	if assert.Len(t, renderer.RenderedFrames, 3) {
		assert.Equal(t, model.ModeShort.Orientation().Frame(), renderer.RenderedFrames[0])
	}
	if assert.Len(t, clips.Orientations, 3) {
		assert.Equal(t, string(model.OrientationPortrait), clips.Orientations[0])
	}
}

// TestSynchronizerRetriesWithTopic verifies that a failed clip search is
// retried with the run topic before the segment is given up on.
func TestSynchronizerRetriesWithTopic(t *testing.T) {
	speech := &test.FakeSpeech{}
	clips := &test.FakeClips{FailQueries: map[string]bool{"Ash Clouds": true}}
	renderer := &test.FakeRenderer{}

	cmd := commands.NewSegmentSynchronizer("synchronize-segments", 2, t.TempDir(), speech, clips, renderer, scriptKey)
	ctx := newSegmentContext(t, model.ModeShort, threeSegments())
	cmd.Execute(ctx)
	defer ctx.Close()

	assert.False(t, ctx.HasErrors())
	synced := ctx.Get(cor.CtxOut).([]*model.SyncedSegment)
	assert.Len(t, synced, 3)
	assert.Contains(t, clips.Queries, "Ash Clouds")
	assert.Contains(t, clips.Queries, "volcanoes")
}

// TestSynchronizerFailsWhenNoClipFound verifies that when both the query
// key and the topic fallback find nothing, the run fails with an asset
// error naming the segment.
func TestSynchronizerFailsWhenNoClipFound(t *testing.T) {
	speech := &test.FakeSpeech{}
	clips := &test.FakeClips{FailQueries: map[string]bool{
		"Ash Clouds": true,
		"volcanoes":  true,
	}}
	renderer := &test.FakeRenderer{}

	cmd := commands.NewSegmentSynchronizer("synchronize-segments", 2, t.TempDir(), speech, clips, renderer, scriptKey)
	ctx := newSegmentContext(t, model.ModeShort, threeSegments())
	cmd.Execute(ctx)
	defer ctx.Close()

	assert.True(t, ctx.HasErrors())
	var assetErr *model.AssetUnavailableError
	for _, err := range ctx.GetErrors() {
		assert.True(t, errors.As(err, &assetErr))
	}
	if assert.NotNil(t, assetErr) {
		assert.Equal(t, 1, assetErr.SegmentIndex)
		assert.Equal(t, "Ash Clouds", assetErr.Query)
	}
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

// TestSynchronizerFailsOnSpeechError verifies that a synthesis failure
// aborts the run.
func TestSynchronizerFailsOnSpeechError(t *testing.T) {
	speech := &test.FakeSpeech{Err: errors.New("tts unreachable")}
	cmd := commands.NewSegmentSynchronizer("synchronize-segments", 2, t.TempDir(), speech, &test.FakeClips{}, &test.FakeRenderer{}, scriptKey)

	ctx := newSegmentContext(t, model.ModeLong, threeSegments())
	cmd.Execute(ctx)
	defer ctx.Close()

	assert.True(t, ctx.HasErrors())
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

// TestSynchronizerRequiresSegments verifies the executable guard.
func TestSynchronizerRequiresSegments(t *testing.T) {
	cmd := commands.NewSegmentSynchronizer("synchronize-segments", 2, t.TempDir(), &test.FakeSpeech{}, &test.FakeClips{}, &test.FakeRenderer{}, scriptKey)

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, []*model.Segment{})
	ctx.Add(scriptKey, &model.RawScript{Topic: "volcanoes", Mode: model.ModeShort})
	assert.False(t, cmd.IsExecutable(ctx))

	ctx.Add(cor.CtxIn, threeSegments())
	assert.True(t, cmd.IsExecutable(ctx))

	ctx.Remove(scriptKey)
	assert.False(t, cmd.IsExecutable(ctx))
}
