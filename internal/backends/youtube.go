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

// This file implements the YouTube publisher using the installed-application
// OAuth flow: a client secret file identifies the application and a cached
// token file carries the user grant. Obtaining the initial token is an
// interactive step done outside the pipeline.
package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubePublisher implements Publisher against the YouTube Data API.
type YouTubePublisher struct {
	Service *youtube.Service
}

// NewYouTubePublisher builds a publisher from the OAuth client secret and a
// previously cached token.
func NewYouTubePublisher(ctx context.Context, clientSecretFile, tokenFile string) (*YouTubePublisher, error) {
	secret, err := os.ReadFile(clientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("reading client secret: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(secret, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret: %w", err)
	}

	token, err := readToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("reading oauth token: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTubePublisher{Service: service}, nil
}

func readToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Publish uploads the video file with the given metadata and returns the
// YouTube video ID.
func (p *YouTubePublisher) Publish(ctx context.Context, videoPath string, meta VideoMetadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("opening video for upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: meta.Privacy},
	}

	call := p.Service.Videos.Insert([]string{"snippet", "status"}, upload).Context(ctx)
	video, err := call.Media(file).Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}
	return video.Id, nil
}
