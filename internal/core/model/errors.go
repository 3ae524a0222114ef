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

// Package model defines the core data structures for the pipeline.
// This file holds the error taxonomy. A run either produces exactly one
// complete output file or terminates with one of these classifications;
// per-segment failures are never silently skipped.
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationExhausted reports that the upstream text generation
	// failed past the retry budget and the hard-fail policy is active.
	ErrGenerationExhausted = errors.New("script generation exhausted retry budget")

	// ErrEmptyTitle reports that a title became empty after safe
	// truncation. Such a video is never published.
	ErrEmptyTitle = errors.New("title empty after truncation")
)

// AssetUnavailableError reports that no usable audio or visual asset could be
// obtained for a segment. It is fatal for the whole run.
type AssetUnavailableError struct {
	SegmentIndex int
	Query        string
	Err          error
}

func (e *AssetUnavailableError) Error() string {
	return fmt.Sprintf("no asset available for segment %d (query %q): %v", e.SegmentIndex, e.Query, e.Err)
}

func (e *AssetUnavailableError) Unwrap() error { return e.Err }

// RenderError reports a failed encode step. Fatal for the run, never retried.
type RenderError struct {
	Stage string // "segment" or "concat"
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
