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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that resolves the run's topic: an explicit topic on the request
// passes straight through, an empty one is filled from the trending-topic
// source.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// TopicPicker resolves the topic of a pipeline run.
type TopicPicker struct {
	cor.BaseCommand
	topics backends.TopicSource
}

func NewTopicPicker(name string, topics backends.TopicSource) *TopicPicker {
	return &TopicPicker{
		BaseCommand: *cor.NewBaseCommand(name),
		topics:      topics,
	}
}

// IsExecutable requires a PipelineRequest on the input key.
func (t *TopicPicker) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(*model.PipelineRequest)
	return ok
}

func (t *TopicPicker) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.PipelineRequest)

	if request.Topic == "" {
		topic, err := t.topics.TrendingTopic(context.GetContext())
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("resolving topic: %w", err))
			return
		}
		request.Topic = topic
		slog.InfoContext(context.GetContext(), "picked trending topic", "topic", topic)
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), request)
}
