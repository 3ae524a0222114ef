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

// This file defines the script generation command and its retry controller.
//
// Logic Flow:
//  1. The resolved PipelineRequest is read from the context and the prompt
//     for the run's mode is built from the configured template.
//  2. The generation backend is called up to the configured attempt budget,
//     sleeping between attempts. An attempt succeeds only when it returns a
//     non-empty script.
//  3. When the budget is exhausted the behavior depends on configuration:
//     fail-hard aborts the run, otherwise a deterministic fallback script is
//     produced from the fallback template so the pipeline always has input.
package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// ScriptGenerator drives the generation backend with a bounded retry loop.
type ScriptGenerator struct {
	cor.BaseCommand
	generation config.Generation
	generator  backends.ScriptGenerator
	// sleep is injectable so tests run without real delays.
	sleep        func(time.Duration)
	retryCounter func(cor.Context)
}

func NewScriptGenerator(name string, generation config.Generation, generator backends.ScriptGenerator) *ScriptGenerator {
	out := &ScriptGenerator{
		BaseCommand: *cor.NewBaseCommand(name),
		generation:  generation,
		generator:   generator,
		sleep:       time.Sleep,
	}
	retries, err := out.GetMeter().Int64Counter(fmt.Sprintf("%s.generation.retries", out.GetName()))
	if err != nil {
		slog.Warn("failed to create retry counter", "command", name, "error", err)
	}
	out.retryCounter = func(c cor.Context) {
		if retries != nil {
			retries.Add(c.GetContext(), 1)
		}
	}
	return out
}

// SetSleep replaces the inter-attempt delay function.
func (t *ScriptGenerator) SetSleep(sleep func(time.Duration)) {
	t.sleep = sleep
}

// IsExecutable requires a PipelineRequest with a resolved topic.
func (t *ScriptGenerator) IsExecutable(context cor.Context) bool {
	request, ok := context.Get(t.GetInputParam()).(*model.PipelineRequest)
	return ok && request.Topic != ""
}

// prompt builds the mode-appropriate prompt for the topic.
func (t *ScriptGenerator) prompt(request *model.PipelineRequest) string {
	template := t.generation.ShortPrompt
	if request.Mode == model.ModeLong {
		template = t.generation.LongPrompt
	}
	return fmt.Sprintf(template, request.Topic)
}

func (t *ScriptGenerator) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.PipelineRequest)
	prompt := t.prompt(request)
	delay := time.Duration(t.generation.RetryDelaySeconds) * time.Second

	var lastErr error
	for attempt := 1; attempt <= t.generation.Attempts; attempt++ {
		if attempt > 1 {
			t.retryCounter(context)
			t.sleep(delay)
		}

		text, err := t.generator.Generate(context.GetContext(), prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			t.GetSuccessCounter().Add(context.GetContext(), 1)
			context.Add(t.GetOutputParam(), &model.RawScript{
				Topic: request.Topic,
				Mode:  request.Mode,
				Text:  text,
			})
			return
		}

		lastErr = err
		slog.WarnContext(context.GetContext(), "script generation attempt failed",
			"attempt", attempt, "attempts", t.generation.Attempts, "error", err)
	}

	if t.generation.FailHard {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("%w after %d attempts: %v",
			model.ErrGenerationExhausted, t.generation.Attempts, lastErr))
		return
	}

	// Soft failure: the fallback template guarantees a usable, if plain,
	// script so the rest of the pipeline still runs.
	slog.WarnContext(context.GetContext(), "generation exhausted, using fallback script",
		"topic", request.Topic, "attempts", t.generation.Attempts)
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), &model.RawScript{
		Topic:    request.Topic,
		Mode:     request.Mode,
		Text:     fmt.Sprintf(t.generation.FallbackTemplate, request.Topic),
		Fallback: true,
	})
}
