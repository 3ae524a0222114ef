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

// This file implements the OpenAI script generation backend, selected when
// generation.backend is "openai". It mirrors the Gemini backend's contract:
// one prompt in, one trimmed script draft out.
package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIScriptGenerator implements ScriptGenerator against the OpenAI chat
// completions API.
type OpenAIScriptGenerator struct {
	Client             openai.Client
	Model              string
	SystemInstructions string
	Temperature        float64
}

// NewOpenAIScriptGenerator builds a generator for the named model. An empty
// model falls back to gpt-4o-mini.
func NewOpenAIScriptGenerator(apiKey, model, systemInstructions string, temperature float64) *OpenAIScriptGenerator {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIScriptGenerator{
		Client:             openai.NewClient(option.WithAPIKey(apiKey)),
		Model:              model,
		SystemInstructions: systemInstructions,
		Temperature:        temperature,
	}
}

func (g *OpenAIScriptGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if g.SystemInstructions != "" {
		messages = append(messages, openai.SystemMessage(g.SystemInstructions))
	}
	messages = append(messages, openai.UserMessage(prompt))

	completion, err := g.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       g.Model,
		Temperature: openai.Float(g.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai generation: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai generation: empty choice list")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
