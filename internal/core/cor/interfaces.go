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

// Package cor (Chain of Responsibility) provides the building blocks for
// pipeline workflows: commands as atomic units of work, chains that run them
// in order, and a shared context that carries data, errors, and scratch
// files between them.
package cor

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoOutput is returned when a chain completes without errors but leaves
// nothing on the output key.
var ErrNoOutput = errors.New("chain produced no output")

// CtxIn and CtxOut are the keys used to pipe the primary data flow through a
// chain: after each command runs, the value it stored under CtxOut becomes
// the next command's CtxIn.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands for
// one pipeline run. It is a property bag plus an error collector plus a
// scratch-space tracker. It is not safe for concurrent mutation; commands
// that fan out internally must collect results before writing back.
type Context interface {
	// SetContext and GetContext manage the standard Go context used for
	// cancellation and trace propagation.
	SetContext(ctx context.Context)
	GetContext() context.Context

	// Add stores a key-value pair. It returns the Context for chaining.
	Add(key string, value interface{}) Context
	// Get retrieves a value by key, or nil.
	Get(key string) interface{}
	// Remove deletes a key.
	Remove(key string)

	// AddError records an error under the name of the command that
	// produced it. Any recorded error aborts the chain.
	AddError(key string, err error)
	GetErrors() map[string]error
	HasErrors() bool

	// AddTempFile and AddTempDir track scratch artifacts created during
	// the run so Close can remove them. Directories are removed
	// recursively, so a per-run scratch directory only needs a single
	// AddTempDir call.
	AddTempFile(file string)
	AddTempDir(dir string)
	GetTempFiles() []string

	// Close removes all tracked scratch files and directories. Defer it
	// at the start of a run.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, individually traceable unit of work.
type Command interface {
	Executable

	// GetName identifies the command in logs, traces, and the error map.
	GetName() string

	// GetInputParam and GetOutputParam name the context keys this command
	// reads from and writes to. They default to CtxIn/CtxOut, which is
	// what makes chain piping work.
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a sequence of commands. A Chain is itself a Command, so chains
// nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing
	// after a command records an error. The default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
