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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the video production workflow: topic to script to segments to synced
// media to an assembled, optionally published video.
package workflow

import (
	"context"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/core/commands"
	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// Context keys used to keep run-scoped data available beside the CtxIn/CtxOut
// piping. The request key carries the original request to the publisher; the
// script key carries topic and mode to the synchronizer and assembler.
const (
	RequestParamName = "__request__"
	ScriptParamName  = "__script__"
)

// VideoProductionWorkflow orchestrates one full pipeline run. It is
// structured as a Chain of Responsibility (cor.Chain) executing a fixed
// sequence of commands; the output of each command is the input of the next.
type VideoProductionWorkflow struct {
	cor.BaseCommand
	config          *config.Config
	services        *backends.ServiceClients
	numberOfWorkers int
	chain           cor.Chain
}

// Execute runs the entire production workflow by invoking the underlying
// chain.
func (m *VideoProductionWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// Run is a convenience wrapper that executes the workflow for one request on
// a fresh chain context and returns the produced video. Scratch files are
// removed before it returns.
func (m *VideoProductionWorkflow) Run(ctx context.Context, request *model.PipelineRequest) (*model.ProducedVideo, error) {
	chainCtx := cor.NewBaseContext(ctx)
	defer chainCtx.Close()

	chainCtx.Add(cor.CtxIn, request)
	chainCtx.Add(RequestParamName, request)

	m.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for _, err := range chainCtx.GetErrors() {
			return nil, err
		}
	}

	// The chain's flip-flop piping leaves the last command's output on the
	// input key after the final iteration.
	video, ok := chainCtx.Get(cor.CtxIn).(*model.ProducedVideo)
	if !ok {
		// The chain finished without errors but produced nothing usable;
		// treat it the same as a failed run.
		return nil, cor.ErrNoOutput
	}
	return video, nil
}

// initializeChain builds the sequence of commands that make up this
// workflow. Each command is an atomic unit of work whose output feeds the
// next command.
func (m *VideoProductionWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Resolve the topic. An explicit topic passes through; an
	// empty one is filled from the trending-topic source.
	out.AddCommand(commands.NewTopicPicker("pick-topic", m.services.Topics))

	// Step 2: Generate the script with the configured backend, retrying
	// up to the attempt budget and falling back to the static template
	// when allowed.
	out.AddCommand(commands.NewScriptGenerator("generate-script", m.config.Generation, m.services.Generator))

	// Step 3: Strip chatter, markdown, and emoji so segmentation and
	// narration see clean text.
	out.AddCommand(commands.NewScriptNormalizer("normalize-script"))

	// Step 4: Split the script into ordered segments, preferring titled
	// numbered markers and degrading gracefully to flat items or the
	// whole script.
	out.AddCommand(commands.NewScriptSegmenter("segment-script", ScriptParamName))

	// Step 5: For every segment, synthesize narration, fetch a clip, and
	// render a duration-matched segment video. Runs on a worker pool;
	// results are reordered to script order.
	out.AddCommand(commands.NewSegmentSynchronizer(
		"synchronize-segments",
		m.numberOfWorkers,
		m.config.Application.ScratchDir,
		m.services.Speech,
		m.services.Clips,
		m.services.Renderer,
		ScriptParamName))

	// Step 6: Concatenate the segment videos into the final cut, applying
	// the portrait duration ceiling.
	out.AddCommand(commands.NewTimelineAssembler(
		"assemble-timeline",
		m.config.Application.OutputDir,
		m.services.Renderer,
		ScriptParamName))

	// Step 7: Upload when the request asks for it and a publisher is
	// configured; otherwise pass the video through.
	out.AddCommand(commands.NewVideoPublisher(
		"publish-video",
		m.config.Publish,
		m.services.Publisher,
		RequestParamName))

	m.chain = out
}

// NewVideoProductionWorkflow is the constructor for the production
// workflow. It wires the shared service clients into the command chain.
func NewVideoProductionWorkflow(cfg *config.Config, services *backends.ServiceClients) *VideoProductionWorkflow {
	pipeline := &VideoProductionWorkflow{
		BaseCommand:     *cor.NewBaseCommand("video-production-pipeline"),
		config:          cfg,
		services:        services,
		numberOfWorkers: cfg.Application.ThreadPoolSize,
	}
	pipeline.initializeChain()
	return pipeline
}
