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

// This file implements the HTTP text-to-speech client. The service speaks a
// simple JSON protocol: a POST with the narration text and voice settings,
// answered with base64-encoded audio.
package backends

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// HTTPSpeechSynthesizer implements SpeechSynthesizer against a JSON
// text-to-speech service.
type HTTPSpeechSynthesizer struct {
	Endpoint string
	Voice    string
	Language string
	APIKey   string
	Client   *http.Client
}

// NewHTTPSpeechSynthesizer builds a synthesizer with the given per-request
// timeout.
func NewHTTPSpeechSynthesizer(endpoint, voice, language, apiKey string, timeout time.Duration) *HTTPSpeechSynthesizer {
	return &HTTPSpeechSynthesizer{
		Endpoint: endpoint,
		Voice:    voice,
		Language: language,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: timeout},
	}
}

type speechRequest struct {
	Inputs   []string `json:"inputs"`
	Voice    string   `json:"voice,omitempty"`
	Language string   `json:"language,omitempty"`
}

type speechResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize posts the text to the service, decodes the first returned
// audio blob, and writes it to outputPath.
func (s *HTTPSpeechSynthesizer) Synthesize(ctx context.Context, text string, outputPath string) (string, error) {
	payload, err := json.Marshal(speechRequest{
		Inputs:   []string{text},
		Voice:    s.Voice,
		Language: s.Language,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech synthesis request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech synthesis: status %d: %s", resp.StatusCode, string(body))
	}

	var result speechResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("speech synthesis: decoding response: %w", err)
	}
	if len(result.Audios) == 0 {
		return "", fmt.Errorf("speech synthesis: no audio in response")
	}

	audio := result.Audios[0]
	// Some services return a data URI; strip the header before decoding.
	if idx := strings.Index(audio, ","); idx != -1 && strings.HasPrefix(audio, "data:") {
		audio = audio[idx+1:]
	}
	audioBytes, err := base64.StdEncoding.DecodeString(audio)
	if err != nil {
		return "", fmt.Errorf("speech synthesis: decoding audio: %w", err)
	}

	if err := os.WriteFile(outputPath, audioBytes, 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}
