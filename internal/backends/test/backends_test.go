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

// Package backends_test contains the test suite for the external service
// clients, run against local HTTP test servers.
package backends_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/curioshorts/go-shorts-factory/internal/backends"
)

// TestParseDailyTrends verifies that the anti-XSSI prefix is stripped and
// the first day's query titles are extracted.
func TestParseDailyTrends(t *testing.T) {
	raw := `)]}',{"default":{"trendingSearchesDays":[` +
		`{"trendingSearches":[{"title":{"query":"solar eclipse"}},{"title":{"query":"deep sea mining"}}]},` +
		`{"trendingSearches":[{"title":{"query":"yesterday topic"}}]}]}}`

	topics, err := backends.ParseDailyTrends([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, []string{"solar eclipse", "deep sea mining"}, topics)
}

// TestParseDailyTrendsWithoutPrefix verifies that a document without the
// prefix still decodes.
func TestParseDailyTrendsWithoutPrefix(t *testing.T) {
	raw := `{"default":{"trendingSearchesDays":[{"trendingSearches":[{"title":{"query":"glaciers"}}]}]}}`

	topics, err := backends.ParseDailyTrends([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, []string{"glaciers"}, topics)
}

// TestTrendingTopicFallsBack verifies that an unreachable feed and an empty
// endpoint both yield the fallback topic without an error.
func TestTrendingTopicFallsBack(t *testing.T) {
	// Empty endpoint: fallback immediately.
	source := backends.NewTrendsTopicSource("", "US", "curiosities", time.Second)
	topic, err := source.TrendingTopic(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "curiosities", topic)

	// Failing endpoint: fallback after the request errors.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source = backends.NewTrendsTopicSource(server.URL, "US", "curiosities", time.Second)
	topic, err = source.TrendingTopic(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "curiosities", topic)
}

// TestTrendingTopicFromFeed verifies the happy path: the feed's single
// topic is returned and the geo parameter is forwarded.
func TestTrendingTopicFromFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "IT", r.URL.Query().Get("geo"))
		_, _ = w.Write([]byte(`)]}',{"default":{"trendingSearchesDays":[` +
			`{"trendingSearches":[{"title":{"query":"aurora borealis"}}]}]}}`))
	}))
	defer server.Close()

	source := backends.NewTrendsTopicSource(server.URL, "IT", "curiosities", time.Second)
	topic, err := source.TrendingTopic(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "aurora borealis", topic)
}

// TestSynthesizeWritesAudio verifies the speech client: request shape,
// bearer header, base64 decoding, and the written file.
func TestSynthesizeWritesAudio(t *testing.T) {
	audio := []byte("RIFF fake wav bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"audios":["` + base64.StdEncoding.EncodeToString(audio) + `"]}`))
	}))
	defer server.Close()

	synth := backends.NewHTTPSpeechSynthesizer(server.URL, "voice-a", "en-US", "secret", time.Second)
	outputPath := filepath.Join(t.TempDir(), "narration.wav")

	written, err := synth.Synthesize(context.Background(), "Only a handful of lava lakes exist.", outputPath)
	assert.NoError(t, err)
	assert.Equal(t, outputPath, written)

	got, err := os.ReadFile(outputPath)
	assert.NoError(t, err)
	assert.Equal(t, audio, got)
}

// TestSynthesizeDataURI verifies that a data-URI audio payload is decoded
// the same as a bare base64 one.
func TestSynthesizeDataURI(t *testing.T) {
	audio := []byte("RIFF")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		encoded := base64.StdEncoding.EncodeToString(audio)
		_, _ = w.Write([]byte(`{"audios":["data:audio/wav;base64,` + encoded + `"]}`))
	}))
	defer server.Close()

	synth := backends.NewHTTPSpeechSynthesizer(server.URL, "", "", "", time.Second)
	outputPath := filepath.Join(t.TempDir(), "narration.wav")

	_, err := synth.Synthesize(context.Background(), "text", outputPath)
	assert.NoError(t, err)

	got, err := os.ReadFile(outputPath)
	assert.NoError(t, err)
	assert.Equal(t, audio, got)
}

// TestSynthesizeErrorStatus verifies that a non-200 response surfaces as an
// error, not a written file.
func TestSynthesizeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	synth := backends.NewHTTPSpeechSynthesizer(server.URL, "", "", "", time.Second)
	_, err := synth.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "narration.wav"))
	assert.Error(t, err)
}
