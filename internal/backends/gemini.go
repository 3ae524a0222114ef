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

// This file implements the Gemini script generation backend. The raw genai
// client is wrapped with a rate limiter (Decorator pattern) so the pipeline
// never exceeds the model's request quota even when multiple runs overlap.
package backends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel wraps a genai model handle and its generation
// config with a client-side rate limiter. Wait blocks until a request slot
// is available rather than failing fast, so calls queue under load.
type QuotaAwareGenerativeAIModel struct {
	GenerateConfig *genai.GenerateContentConfig
	ModelName      string
	ModelHandle    *genai.Models
	RateLimit      *rate.Limiter
}

// NewQuotaAwareModel creates a rate-limited model wrapper allowing
// requestsPerSecond calls with an equal burst.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond < 1 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerateConfig: config,
		ModelName:      name,
		ModelHandle:    handle,
		RateLimit:      rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond),
	}
}

// GenerateContent acquires a rate-limit slot and forwards the request to the
// underlying model.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerateConfig)
}

// GeminiScriptGenerator implements ScriptGenerator on top of a quota-aware
// Gemini model.
type GeminiScriptGenerator struct {
	Model *QuotaAwareGenerativeAIModel
}

func NewGeminiScriptGenerator(model *QuotaAwareGenerativeAIModel) *GeminiScriptGenerator {
	return &GeminiScriptGenerator{Model: model}
}

// Generate sends the prompt as a single text part and concatenates the text
// parts of every candidate into one script draft.
func (g *GeminiScriptGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation: %w", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
