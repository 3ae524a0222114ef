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

// This file implements the run registry and the /runs route group. Runs are
// tracked in memory only; restarting the server forgets past runs, which is
// acceptable for a single-operator pipeline host.
package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// RunStatus is the lifecycle state of one pipeline run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunExecuting RunStatus = "executing"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is the registry's record of one pipeline execution.
type Run struct {
	ID        string               `json:"id"`
	Status    RunStatus            `json:"status"`
	Request   model.PipelineRequest `json:"request"`
	StartedAt time.Time            `json:"started_at"`
	EndedAt   *time.Time           `json:"ended_at,omitempty"`
	Output    *model.ProducedVideo `json:"output,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// RunRegistry is a mutex-guarded in-memory map of runs by ID.
type RunRegistry struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: make(map[string]*Run)}
}

// Create registers a new pending run and returns it.
func (r *RunRegistry) Create(request model.PipelineRequest) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Status:    RunPending,
		Request:   request,
		StartedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()
	return run
}

// Get returns a copy of the run with the given ID.
func (r *RunRegistry) Get(id string) (Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// List returns copies of all known runs.
func (r *RunRegistry) List() []Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, *run)
	}
	return out
}

func (r *RunRegistry) setExecuting(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		run.Status = RunExecuting
	}
}

func (r *RunRegistry) finish(id string, video *model.ProducedVideo, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	run.EndedAt = &now
	if err != nil {
		run.Status = RunFailed
		run.Error = err.Error()
		return
	}
	run.Status = RunSucceeded
	run.Output = video
}

// createRunRequest is the POST /runs body. Mode is constrained by binding.
type createRunRequest struct {
	Mode    string `json:"mode" binding:"required,oneof=short long"`
	Topic   string `json:"topic"`
	Publish bool   `json:"publish"`
}

// RunsRouter sets up the routes for triggering and inspecting pipeline runs.
func RunsRouter(ctx context.Context, r *gin.RouterGroup) {
	runs := r.Group("/runs")
	{
		runs.POST("", func(c *gin.Context) {
			var body createRunRequest
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			request := model.PipelineRequest{
				Mode:    model.ParseMode(body.Mode),
				Topic:   body.Topic,
				Publish: body.Publish,
			}
			run := state.runs.Create(request)

			// Execution outlives the HTTP request; tie it to the server
			// context so shutdown cancels in-flight runs.
			go func(id string, request model.PipelineRequest) {
				state.runs.setExecuting(id)
				video, err := state.pipeline.Run(ctx, &request)
				state.runs.finish(id, video, err)
			}(run.ID, request)

			c.JSON(http.StatusAccepted, run)
		})

		runs.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, state.runs.List())
		})

		runs.GET("/:id", func(c *gin.Context) {
			run, ok := state.runs.Get(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			c.JSON(http.StatusOK, run)
		})
	}
}
