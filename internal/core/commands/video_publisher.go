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

// This file defines the publish command. Publishing is optional twice over:
// the run must request it and a publisher must be configured. When either
// is missing the command passes the produced video through untouched, so
// the workflow shape is the same with and without uploads.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/core/script"
)

// ShortsSuffix is appended to the title of every portrait upload.
const ShortsSuffix = " #shorts"

// VideoPublisher uploads the produced video with a derived, length-safe
// title.
type VideoPublisher struct {
	cor.BaseCommand
	publish    config.Publish
	publisher  backends.Publisher
	requestKey string
}

func NewVideoPublisher(name string, publish config.Publish, publisher backends.Publisher, requestKey string) *VideoPublisher {
	return &VideoPublisher{
		BaseCommand: *cor.NewBaseCommand(name),
		publish:     publish,
		publisher:   publisher,
		requestKey:  requestKey,
	}
}

func (t *VideoPublisher) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(*model.ProducedVideo)
	return ok
}

// buildTitle derives the upload title from the topic and, for shorts, the
// first titled segment. The result always respects the title length limit;
// portrait titles keep their suffix even when truncation is needed.
func buildTitle(video *model.ProducedVideo) (string, error) {
	title := video.Topic
	if video.Mode == model.ModeShort {
		for _, s := range video.Segments {
			if s.Title != "" {
				title = fmt.Sprintf("%s: %s and more", video.Topic, s.Title)
				break
			}
		}
		return script.SafeTitleWithSuffix(title, ShortsSuffix)
	}
	return script.SafeTitle(title)
}

func (t *VideoPublisher) Execute(context cor.Context) {
	video := context.Get(t.GetInputParam()).(*model.ProducedVideo)

	request, _ := context.Get(t.requestKey).(*model.PipelineRequest)
	if request == nil || !request.Publish || t.publisher == nil {
		slog.InfoContext(context.GetContext(), "publish skipped",
			"path", video.Path, "requested", request != nil && request.Publish)
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(t.GetOutputParam(), video)
		return
	}

	title, err := buildTitle(video)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("building title: %w", err))
		return
	}

	tags := append([]string{}, t.publish.Tags...)
	tags = append(tags, video.Topic)
	if video.Mode == model.ModeShort {
		tags = append(tags, "shorts")
	}

	privacy := t.publish.PrivacyStatus
	if privacy == "" {
		privacy = "private"
	}

	videoID, err := t.publisher.Publish(context.GetContext(), video.Path, backends.VideoMetadata{
		Title:       title,
		Description: fmt.Sprintf("Discover facts and curiosities about %s. Watch now!", video.Topic),
		Tags:        tags,
		CategoryID:  t.publish.CategoryID,
		Privacy:     privacy,
	})
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("uploading video: %w", err))
		return
	}

	video.VideoID = videoID
	slog.InfoContext(context.GetContext(), "published video",
		"video_id", videoID, "title", title)

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), video)
}
