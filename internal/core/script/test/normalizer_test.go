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

// Package script_test contains unit tests for the script processing
// package. This file covers the normalizer: markdown and emoji stripping
// and preamble removal.
package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioshorts/go-shorts-factory/internal/core/script"
)

// TestNormalizeStripsMarkdownAndEmoji verifies that markdown punctuation
// and pictographic characters are removed while the narration text itself
// is preserved.
func TestNormalizeStripsMarkdownAndEmoji(t *testing.T) {
	in := "1) **Amazing** _facts_ about `bridges` 🌉✨"
	out := script.Normalize(in)

	assert.Equal(t, "1) Amazing facts about bridges", out)
}

// TestNormalizeDropsPreamble verifies that everything before the first
// numbered marker is discarded, which removes conversational lead-ins from
// generation backends.
func TestNormalizeDropsPreamble(t *testing.T) {
	in := "Sure, here is your script!\nHope you like it.\n1) First fact here.\n2) Second fact here."
	out := script.Normalize(in)

	assert.Equal(t, "1) First fact here.\n2) Second fact here.", out)
}

// TestNormalizeKeepsTextWithoutMarker verifies the no-marker case: the
// cleaned text is returned whole rather than discarded.
func TestNormalizeKeepsTextWithoutMarker(t *testing.T) {
	in := "A plain paragraph with *no* numbering at all."
	out := script.Normalize(in)

	assert.Equal(t, "A plain paragraph with no numbering at all.", out)
}

// TestNormalizeIsIdempotent verifies that running the normalizer on its own
// output changes nothing, so accidental double normalization is harmless.
func TestNormalizeIsIdempotent(t *testing.T) {
	in := "Intro **chatter**.\n1. One thing 🎉\n2. Another thing"
	once := script.Normalize(in)
	twice := script.Normalize(once)

	assert.Equal(t, once, twice)
}

// TestNormalizeRecognizesDottedBoundary verifies that "1." starts the
// content just like "1)".
func TestNormalizeRecognizesDottedBoundary(t *testing.T) {
	in := "Preamble line.\n1. Dotted first item\n2. Dotted second item"
	out := script.Normalize(in)

	assert.Equal(t, "1. Dotted first item\n2. Dotted second item", out)
}
