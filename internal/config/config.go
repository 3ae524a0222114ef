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

// Package config defines the data structures for application configuration,
// loaded from TOML files. It centralizes every configurable parameter of the
// video pipeline: worker pool sizing, scratch and output locations, script
// generation models and retry policy, speech synthesis, stock footage
// search, topic discovery, rendering, and publishing.
//
// Structs:
//   - Config: The top-level struct that aggregates all other configuration structs.
//   - Generation: Script generation backend, prompts, and retry policy.
//   - GenerativeModel: Configuration for a single generative text model.
//   - Speech: Text-to-speech service configuration.
//   - Footage: Stock footage provider configuration.
//   - Trends: Trending-topic discovery configuration.
//   - Render: ffmpeg/ffprobe binary locations and encoder settings.
//   - Publish: YouTube upload configuration.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package config

import "google.golang.org/genai"

// DefaultSafetySettings defines the default content safety thresholds for
// Gemini models. The generated scripts are short educational narrations, so
// the thresholds are left non-restrictive and filtering is handled by the
// prompt instead.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// GenerativeModel represents the configuration for a single generative text
// model, keyed in the config file by a logical name (e.g. "script-writer").
type GenerativeModel struct {
	Model              string  `toml:"model"`               // The provider model identifier (e.g., "gemini-2.0-flash").
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32 `toml:"temperature"`         // The sampling temperature.
	TopP               float32 `toml:"top_p"`               // The top_p parameter.
	TopK               float32 `toml:"top_k"`               // The top_k parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of output tokens.
	RateLimit          int     `toml:"rate_limit"`          // The client-side rate limit in requests per second.
}

// Generation holds the script generation settings: which backend produces
// scripts, the prompt templates, and the retry policy applied when the model
// returns empty or malformed output.
type Generation struct {
	// Backend selects the text generation provider: "gemini" or "openai".
	Backend string `toml:"backend" validate:"oneof=gemini openai"`
	// Attempts is the number of times generation is tried before the
	// controller gives up on the model.
	Attempts int `toml:"attempts" validate:"gte=1"`
	// RetryDelaySeconds is the pause between attempts.
	RetryDelaySeconds int `toml:"retry_delay_seconds" validate:"gte=0"`
	// FailHard aborts the run when every attempt fails. When false the
	// pipeline falls back to the static fallback template instead.
	FailHard bool `toml:"fail_hard"`
	// ShortPrompt and LongPrompt are fmt templates with a single %s verb
	// for the topic.
	ShortPrompt string `toml:"short_prompt" validate:"required"`
	LongPrompt  string `toml:"long_prompt" validate:"required"`
	// FallbackTemplate is the static script used when generation is
	// exhausted and FailHard is false. It takes the topic as its %s verb.
	FallbackTemplate string `toml:"fallback_template"`
}

// Speech represents the configuration of the HTTP text-to-speech service.
type Speech struct {
	Endpoint string `toml:"endpoint" validate:"required,url"` // The TTS service URL.
	Voice    string `toml:"voice"`                            // The voice identifier passed to the service.
	Language string `toml:"language"`                         // BCP-47 language tag (e.g., "en-US").
	APIKey   string `toml:"api_key"`                          // Optional bearer token.
	// TimeoutSeconds bounds a single synthesis call.
	TimeoutSeconds int `toml:"timeout_in_seconds" validate:"gte=1"`
}

// Footage represents the configuration of the stock footage provider used to
// find a background clip for each narration segment.
type Footage struct {
	APIKey string `toml:"api_key" validate:"required"` // The Pexels API key.
	// PerPage is how many candidate clips a search requests; the first
	// usable result wins.
	PerPage int `toml:"per_page" validate:"gte=1,lte=80"`
	// MinDurationSeconds filters out clips too short to be worth looping.
	MinDurationSeconds int `toml:"min_duration_seconds"`
	TimeoutSeconds     int `toml:"timeout_in_seconds" validate:"gte=1"`
}

// Trends represents the configuration of the trending-topic source consulted
// when a pipeline run is started without an explicit topic.
type Trends struct {
	Endpoint string `toml:"endpoint" validate:"omitempty,url"` // The daily trends feed URL.
	Region   string `toml:"region"`                            // Geo code (e.g., "US").
	// FallbackTopic is used when the feed is unreachable or empty.
	FallbackTopic  string `toml:"fallback_topic" validate:"required"`
	TimeoutSeconds int    `toml:"timeout_in_seconds" validate:"gte=1"`
}

// Render holds the locations of the ffmpeg/ffprobe binaries and the encoder
// settings used when rendering segments.
type Render struct {
	FFmpegPath  string `toml:"ffmpeg_path" validate:"required"`  // Path to the ffmpeg binary.
	FFprobePath string `toml:"ffprobe_path" validate:"required"` // Path to the ffprobe binary.
	VideoCodec  string `toml:"video_codec"`                      // Defaults to libx264.
	Preset      string `toml:"preset"`                           // Defaults to veryfast.
	FrameRate   int    `toml:"frame_rate" validate:"gte=1"`      // Defaults to 30.
}

// Publish represents the configuration for uploading finished videos to
// YouTube. OAuth credentials follow the standard installed-application flow:
// a client secret file plus a cached token file.
type Publish struct {
	Enabled          bool     `toml:"enabled"`            // Whether the publish step runs at all.
	ClientSecretFile string   `toml:"client_secret_file"` // Path to the OAuth client secret JSON.
	TokenFile        string   `toml:"token_file"`         // Path to the cached OAuth token JSON.
	CategoryID       string   `toml:"category_id"`        // YouTube category (e.g., "27" for Education).
	PrivacyStatus    string   `toml:"privacy_status" validate:"omitempty,oneof=public unlisted private"`
	Tags             []string `toml:"tags"` // Base tag set; "#shorts" is appended for portrait uploads.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other configuration
// structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name string `toml:"name"` // The name of the application.
		// ThreadPoolSize is the worker count for per-segment
		// audio/clip synchronization.
		ThreadPoolSize int `toml:"thread_pool_size" validate:"gte=1"`
		// ScratchDir is the root under which each run creates its
		// own temporary directory.
		ScratchDir string `toml:"scratch_dir" validate:"required"`
		// OutputDir is where finished videos land.
		OutputDir string `toml:"output_dir" validate:"required"`
	} `toml:"application"`
	Generation  Generation                 `toml:"generation"`   // Script generation configuration.
	AgentModels map[string]GenerativeModel `toml:"agent_models"` // Generative models, keyed by logical name.
	Speech      Speech                     `toml:"speech"`       // Text-to-speech configuration.
	Footage     Footage                    `toml:"footage"`      // Stock footage configuration.
	Trends      Trends                     `toml:"trends"`       // Trending-topic source configuration.
	Render      Render                     `toml:"render"`       // ffmpeg configuration.
	Publish     Publish                    `toml:"publish"`      // YouTube publishing configuration.
}

// NewConfig creates a new, initialized Config instance. The maps within the
// struct must be initialized to avoid nil map assignment when the loader
// populates them.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]GenerativeModel),
	}
}
