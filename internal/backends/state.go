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

// This file initializes and holds every external client the pipeline needs.
// It acts as a dependency injection container: NewServiceClients reads the
// configuration once at startup and bundles the resulting clients into a
// single ServiceClients struct that is passed to the workflow builders.
package backends

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/curioshorts/go-shorts-factory/internal/config"
	"github.com/curioshorts/go-shorts-factory/internal/media"
)

// ScriptWriterModel is the logical name of the agent model used for script
// generation when the Gemini backend is selected.
const ScriptWriterModel = "script-writer"

// ServiceClients is the central container for all external service clients
// and the renderer. Workflow builders take this struct instead of
// constructing clients themselves, which keeps test substitution trivial.
type ServiceClients struct {
	GenAIClient *genai.Client
	AgentModels map[string]*QuotaAwareGenerativeAIModel

	Generator ScriptGenerator
	Speech    SpeechSynthesizer
	Clips     ClipProvider
	Topics    TopicSource
	Publisher Publisher
	Renderer  media.Renderer
}

// NewServiceClients initializes every client the configured pipeline needs.
//
// Inputs:
//   - ctx: The root context for client initialization.
//   - cfg: The loaded application configuration.
//
// Outputs:
//   - *ServiceClients: The fully initialized container.
//   - error: An error if any client fails to initialize.
func NewServiceClients(ctx context.Context, cfg *config.Config) (*ServiceClients, error) {
	clients := &ServiceClients{
		AgentModels: make(map[string]*QuotaAwareGenerativeAIModel),
	}

	// Script generation backend. The Gemini path builds the full set of
	// configured agent models; the OpenAI path needs only its API key.
	switch cfg.Generation.Backend {
	case "gemini":
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		clients.GenAIClient = gc

		for key, values := range cfg.AgentModels {
			generateConfig := &genai.GenerateContentConfig{
				Temperature:       genai.Ptr[float32](values.Temperature),
				TopP:              genai.Ptr[float32](values.TopP),
				TopK:              genai.Ptr[float32](values.TopK),
				MaxOutputTokens:   values.MaxTokens,
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
				SafetySettings:    config.DefaultSafetySettings,
			}
			clients.AgentModels[key] = NewQuotaAwareModel(generateConfig, values.Model, gc.Models, values.RateLimit)
		}

		writer, ok := clients.AgentModels[ScriptWriterModel]
		if !ok {
			return nil, fmt.Errorf("no %q model configured under [agent_models]", ScriptWriterModel)
		}
		clients.Generator = NewGeminiScriptGenerator(writer)

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set for openai generation backend")
		}
		model, temperature := "", 0.7
		if values, ok := cfg.AgentModels[ScriptWriterModel]; ok {
			model = values.Model
			temperature = float64(values.Temperature)
			clients.Generator = NewOpenAIScriptGenerator(apiKey, model, values.SystemInstructions, temperature)
		} else {
			clients.Generator = NewOpenAIScriptGenerator(apiKey, model, "", temperature)
		}

	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Generation.Backend)
	}

	clients.Speech = NewHTTPSpeechSynthesizer(
		cfg.Speech.Endpoint,
		cfg.Speech.Voice,
		cfg.Speech.Language,
		cfg.Speech.APIKey,
		time.Duration(cfg.Speech.TimeoutSeconds)*time.Second,
	)

	clients.Clips = NewPexelsClipProvider(
		cfg.Footage.APIKey,
		cfg.Footage.PerPage,
		cfg.Footage.MinDurationSeconds,
		time.Duration(cfg.Footage.TimeoutSeconds)*time.Second,
	)

	clients.Topics = NewTrendsTopicSource(
		cfg.Trends.Endpoint,
		cfg.Trends.Region,
		cfg.Trends.FallbackTopic,
		time.Duration(cfg.Trends.TimeoutSeconds)*time.Second,
	)

	clients.Renderer = media.NewFFmpegRenderer(
		cfg.Render.FFmpegPath,
		cfg.Render.FFprobePath,
		media.EncoderSettings{
			VideoCodec: cfg.Render.VideoCodec,
			Preset:     cfg.Render.Preset,
			FrameRate:  cfg.Render.FrameRate,
		},
	)

	if cfg.Publish.Enabled {
		publisher, err := NewYouTubePublisher(ctx, cfg.Publish.ClientSecretFile, cfg.Publish.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("creating youtube publisher: %w", err)
		}
		clients.Publisher = publisher
	}

	return clients, nil
}
