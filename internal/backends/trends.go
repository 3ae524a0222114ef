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

// This file implements the trending-topic source backed by the Google
// Trends daily feed. The feed is best-effort: any failure falls back to the
// configured default topic so a missing topic never blocks a run.
package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// antiXSSIPrefix is prepended by the trends endpoint to every JSON response
// and must be stripped before decoding.
const antiXSSIPrefix = ")]}',"

// TrendsTopicSource implements TopicSource against the Google Trends daily
// feed.
type TrendsTopicSource struct {
	Endpoint      string
	Region        string
	FallbackTopic string
	Client        *http.Client
	// now is injectable for tests of the feed URL.
	now func() time.Time
}

// NewTrendsTopicSource builds a topic source. endpoint may be empty, in
// which case every call returns the fallback topic.
func NewTrendsTopicSource(endpoint, region, fallbackTopic string, timeout time.Duration) *TrendsTopicSource {
	return &TrendsTopicSource{
		Endpoint:      endpoint,
		Region:        region,
		FallbackTopic: fallbackTopic,
		Client:        &http.Client{Timeout: timeout},
		now:           time.Now,
	}
}

// trendsResponse mirrors the nesting of the daily trends JSON document down
// to the search titles.
type trendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// TrendingTopic fetches today's trending searches and picks one at random.
// On any failure it logs the cause and returns the fallback topic with a
// nil error.
func (t *TrendsTopicSource) TrendingTopic(ctx context.Context) (string, error) {
	if t.Endpoint == "" {
		return t.FallbackTopic, nil
	}

	topics, err := t.fetchDaily(ctx)
	if err != nil || len(topics) == 0 {
		slog.Warn("trends feed unavailable, using fallback topic",
			"fallback", t.FallbackTopic, "error", err)
		return t.FallbackTopic, nil
	}
	return topics[rand.Intn(len(topics))], nil
}

func (t *TrendsTopicSource) fetchDaily(ctx context.Context) ([]string, error) {
	feedURL := fmt.Sprintf("%s?geo=%s&ed=%s", t.Endpoint, t.Region, t.now().Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends feed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseDailyTrends(body)
}

// ParseDailyTrends decodes a daily trends document, tolerating the anti-XSSI
// prefix, and returns the trending search titles for the most recent day.
func ParseDailyTrends(raw []byte) ([]string, error) {
	text := strings.TrimPrefix(string(raw), antiXSSIPrefix)

	var doc trendsResponse
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("trends feed: decoding: %w", err)
	}

	days := doc.Default.TrendingSearchesDays
	if len(days) == 0 {
		return nil, nil
	}

	var topics []string
	for _, s := range days[0].TrendingSearches {
		if q := strings.TrimSpace(s.Title.Query); q != "" {
			topics = append(topics, q)
		}
	}
	return topics, nil
}

// decodeJSON decodes a JSON body into out, draining the reader.
func decodeJSON(r io.Reader, out interface{}) error {
	return json.NewDecoder(r).Decode(out)
}
