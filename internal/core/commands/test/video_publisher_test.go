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

// This file covers the publish command: title derivation, tag assembly,
// and the pass-through paths when publishing is not requested.
package commands_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/commands"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	test "github.com/curioshorts/go-shorts-factory/internal/testutil"
)

const requestKey = "__request__"

func newPublishConfig() config.Publish {
	return config.Publish{
		Enabled:       true,
		CategoryID:    "27",
		PrivacyStatus: "unlisted",
		Tags:          []string{"facts", "curiosities"},
	}
}

// newVideoContext builds a chain context carrying a produced video and the
// originating request.
func newVideoContext(video *model.ProducedVideo, publish bool) cor.Context {
	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(requestKey, &model.PipelineRequest{Mode: video.Mode, Topic: video.Topic, Publish: publish})
	ctx.Add(cor.CtxIn, video)
	return ctx
}

func portraitVideo() *model.ProducedVideo {
	return &model.ProducedVideo{
		Path:  "/tmp/out/short.mp4",
		Mode:  model.ModeShort,
		Topic: "volcanoes",
		Segments: []*model.Segment{
			{Index: 0, Body: "untitled opener"},
			{Index: 1, Title: "Lava Lakes", Body: "facts"},
		},
	}
}

// TestPublisherUploadsShort verifies the portrait upload path: the title
// combines the topic with the first titled segment, carries the shorts
// suffix, and the tags include the topic and the shorts marker.
func TestPublisherUploadsShort(t *testing.T) {
	publisher := &test.FakePublisher{}
	cmd := commands.NewVideoPublisher("publish-video", newPublishConfig(), publisher, requestKey)

	ctx := newVideoContext(portraitVideo(), true)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	video := ctx.Get(cor.CtxOut).(*model.ProducedVideo)
	assert.Equal(t, "fake-video-id", video.VideoID)

	if assert.Len(t, publisher.Metas, 1) {
		meta := publisher.Metas[0]
		assert.Equal(t, "volcanoes: Lava Lakes and more #shorts", meta.Title)
		assert.True(t, strings.HasSuffix(meta.Title, commands.ShortsSuffix))
		assert.LessOrEqual(t, utf8.RuneCountInString(meta.Title), 100)
		assert.Equal(t, []string{"facts", "curiosities", "volcanoes", "shorts"}, meta.Tags)
		assert.Equal(t, "27", meta.CategoryID)
		assert.Equal(t, "unlisted", meta.Privacy)
		assert.Contains(t, meta.Description, "volcanoes")
	}
}

// TestPublisherTruncatesLongTitleKeepingSuffix verifies that an oversized
// derived title is truncated at a word boundary while the shorts suffix
// survives and the limit holds in runes.
func TestPublisherTruncatesLongTitleKeepingSuffix(t *testing.T) {
	publisher := &test.FakePublisher{}
	cmd := commands.NewVideoPublisher("publish-video", newPublishConfig(), publisher, requestKey)

	video := portraitVideo()
	video.Topic = strings.Repeat("measureless ", 12) + "caverns"
	video.Segments[1].Title = "Sunless Seas Of The Deep Interior"

	ctx := newVideoContext(video, true)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	if assert.Len(t, publisher.Titles, 1) {
		title := publisher.Titles[0]
		assert.True(t, strings.HasSuffix(title, commands.ShortsSuffix))
		assert.LessOrEqual(t, utf8.RuneCountInString(title), 100)
		assert.Contains(t, title, "…")
	}
}

// TestPublisherUploadsLong verifies the landscape path: topic-only title,
// no shorts suffix, no shorts tag.
func TestPublisherUploadsLong(t *testing.T) {
	publisher := &test.FakePublisher{}
	cmd := commands.NewVideoPublisher("publish-video", newPublishConfig(), publisher, requestKey)

	video := &model.ProducedVideo{Path: "/tmp/out/long.mp4", Mode: model.ModeLong, Topic: "volcanoes"}
	ctx := newVideoContext(video, true)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	if assert.Len(t, publisher.Metas, 1) {
		meta := publisher.Metas[0]
		assert.Equal(t, "volcanoes", meta.Title)
		assert.Equal(t, []string{"facts", "curiosities", "volcanoes"}, meta.Tags)
	}
}

// TestPublisherSkipsWhenNotRequested verifies that a run without the
// publish flag passes the produced video through without uploading.
func TestPublisherSkipsWhenNotRequested(t *testing.T) {
	publisher := &test.FakePublisher{}
	cmd := commands.NewVideoPublisher("publish-video", newPublishConfig(), publisher, requestKey)

	ctx := newVideoContext(portraitVideo(), false)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Empty(t, publisher.Metas)
	video := ctx.Get(cor.CtxOut).(*model.ProducedVideo)
	assert.Empty(t, video.VideoID)
}

// TestPublisherSkipsWithoutPublisher verifies that a nil publisher (uploads
// disabled in configuration) is also a pass-through, not an error.
func TestPublisherSkipsWithoutPublisher(t *testing.T) {
	cmd := commands.NewVideoPublisher("publish-video", newPublishConfig(), nil, requestKey)

	ctx := newVideoContext(portraitVideo(), true)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.NotNil(t, ctx.Get(cor.CtxOut))
}
