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

// Package media wraps the ffmpeg and ffprobe binaries. The command-line
// argument lists are built by pure functions so the exact invocations can be
// asserted in tests without media files or the binaries present.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// probeOutput captures the subset of ffprobe JSON output this package needs:
// the container duration and the first video stream's dimensions.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober reads media metadata through ffprobe.
type Prober struct {
	// FFprobePath is the ffprobe binary to invoke.
	FFprobePath string
}

// ProbeArgs returns the ffprobe argument list used to read the duration and
// stream layout of a file as JSON.
func ProbeArgs(filePath string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}
}

// Duration returns the playable length of a media file in seconds.
func (p *Prober) Duration(ctx context.Context, filePath string) (float64, error) {
	out, err := p.probe(ctx, filePath)
	if err != nil {
		return 0, err
	}
	if out.Format.Duration == "" {
		return 0, fmt.Errorf("no duration in ffprobe output for %s", filePath)
	}
	seconds, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe duration %q: %w", out.Format.Duration, err)
	}
	return seconds, nil
}

// Dimensions returns the width and height of the first video stream.
func (p *Prober) Dimensions(ctx context.Context, filePath string) (width, height int, err error) {
	out, err := p.probe(ctx, filePath)
	if err != nil {
		return 0, 0, err
	}
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("no video stream in %s", filePath)
}

func (p *Prober) probe(ctx context.Context, filePath string) (*probeOutput, error) {
	cmd := exec.CommandContext(ctx, p.FFprobePath, ProbeArgs(filePath)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w: %s", filePath, err, stderr.String())
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("unmarshalling ffprobe output for %s: %w", filePath, err)
	}
	return &out, nil
}
