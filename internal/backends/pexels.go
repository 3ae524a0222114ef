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

// This file implements the Pexels stock footage client: a video search for
// the segment's query followed by a download of the first acceptable result.
package backends

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

const pexelsSearchURL = "https://api.pexels.com/videos/search"

// PexelsClipProvider implements ClipProvider against the Pexels video API.
type PexelsClipProvider struct {
	APIKey             string
	PerPage            int
	MinDurationSeconds int
	Client             *http.Client

	// SearchURL overrides the Pexels endpoint, for tests.
	SearchURL string
}

// NewPexelsClipProvider builds a provider. perPage bounds how many
// candidates a search returns; minDuration filters out clips too short to
// loop well.
func NewPexelsClipProvider(apiKey string, perPage, minDurationSeconds int, timeout time.Duration) *PexelsClipProvider {
	return &PexelsClipProvider{
		APIKey:             apiKey,
		PerPage:            perPage,
		MinDurationSeconds: minDurationSeconds,
		Client:             &http.Client{Timeout: timeout},
	}
}

// pexelsVideo mirrors the subset of the search response this client reads.
type pexelsVideo struct {
	Duration   int `json:"duration"`
	VideoFiles []struct {
		Link string `json:"link"`
	} `json:"video_files"`
}

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

// FetchClip searches Pexels for query and downloads the first result that
// meets the duration floor and has a file link. The downloaded file gets a
// unique name with an extension sniffed from its content.
func (p *PexelsClipProvider) FetchClip(ctx context.Context, query string, orientation string, dir string) (string, error) {
	video, err := p.search(ctx, query, orientation)
	if err != nil {
		return "", err
	}
	return p.download(ctx, video.VideoFiles[0].Link, dir)
}

func (p *PexelsClipProvider) search(ctx context.Context, query, orientation string) (*pexelsVideo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(p.PerPage))
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	searchURL := p.SearchURL
	if searchURL == "" {
		searchURL = pexelsSearchURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search %q: %w", query, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels search %q: status %d: %s", query, resp.StatusCode, string(body))
	}

	var result pexelsSearchResponse
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("pexels search %q: %w", query, err)
	}

	for i := range result.Videos {
		v := &result.Videos[i]
		if v.Duration < p.MinDurationSeconds {
			continue
		}
		if len(v.VideoFiles) > 0 && v.VideoFiles[0].Link != "" {
			return v, nil
		}
	}
	return nil, fmt.Errorf("pexels search %q: no usable results", query)
}

func (p *PexelsClipProvider) download(ctx context.Context, link, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pexels download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pexels download: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("pexels download: %w", err)
	}

	// Sniff the container from the content rather than trusting the URL.
	ext := "mp4"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		ext = kind.Extension
	}

	path := filepath.Join(dir, fmt.Sprintf("clip_%s.%s", uuid.NewString(), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
