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

// Package backends holds the clients for every external service the
// pipeline talks to: generative text models, text-to-speech, stock footage,
// trending topics, and YouTube. Each service is fronted by a small
// interface so workflow tests can substitute fakes.
package backends

import "context"

// ScriptGenerator produces a single script draft from a prompt. Retry and
// fallback policy is the caller's concern; a generator reports exactly one
// attempt.
type ScriptGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer converts narration text into an audio file on disk.
type SpeechSynthesizer interface {
	// Synthesize writes the spoken rendition of text to outputPath and
	// returns the path actually written.
	Synthesize(ctx context.Context, text string, outputPath string) (string, error)
}

// ClipProvider finds and downloads one background clip for a search query.
type ClipProvider interface {
	// FetchClip downloads a clip matching query into dir and returns the
	// local file path. orientation ("portrait" or "landscape") narrows the
	// search to footage that fits the target frame.
	FetchClip(ctx context.Context, query string, orientation string, dir string) (string, error)
}

// TopicSource supplies a topic when a pipeline run starts without one.
type TopicSource interface {
	// TrendingTopic returns a topic of current interest. Implementations
	// fall back to a configured default rather than failing.
	TrendingTopic(ctx context.Context) (string, error)
}

// VideoMetadata is the publish-time description of a finished video.
type VideoMetadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// Publisher uploads a finished video.
type Publisher interface {
	// Publish uploads the file at videoPath and returns the remote video ID.
	Publish(ctx context.Context, videoPath string, meta VideoMetadata) (string, error)
}
