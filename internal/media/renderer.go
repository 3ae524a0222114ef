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

package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// Renderer is the rendering surface the pipeline commands depend on.
// Workflow tests substitute a fake; production uses FFmpegRenderer.
type Renderer interface {
	// AudioDuration reports the length of an audio file in seconds.
	AudioDuration(ctx context.Context, audioPath string) (float64, error)
	// ClipInfo probes a fetched clip's dimensions and length.
	ClipInfo(ctx context.Context, clipPath string) (*model.VisualAsset, error)
	// RenderSegment produces one narrated segment video at outputPath.
	RenderSegment(ctx context.Context, frame model.Frame, clipPath, audioPath, outputPath string, durationSeconds float64) error
	// Concat joins the given segment videos, in order, into outputPath.
	// A positive maxDurationSeconds truncates the result.
	Concat(ctx context.Context, segmentPaths []string, outputPath string, maxDurationSeconds float64) error
}

// FFmpegRenderer renders by shelling out to ffmpeg, with ffprobe for
// duration probing.
type FFmpegRenderer struct {
	FFmpegPath string
	Settings   EncoderSettings
	Prober     *Prober
}

// NewFFmpegRenderer wires a renderer around the configured binary paths.
func NewFFmpegRenderer(ffmpegPath, ffprobePath string, settings EncoderSettings) *FFmpegRenderer {
	return &FFmpegRenderer{
		FFmpegPath: ffmpegPath,
		Settings:   settings,
		Prober:     &Prober{FFprobePath: ffprobePath},
	}
}

func (r *FFmpegRenderer) AudioDuration(ctx context.Context, audioPath string) (float64, error) {
	return r.Prober.Duration(ctx, audioPath)
}

func (r *FFmpegRenderer) ClipInfo(ctx context.Context, clipPath string) (*model.VisualAsset, error) {
	width, height, err := r.Prober.Dimensions(ctx, clipPath)
	if err != nil {
		return nil, err
	}
	duration, err := r.Prober.Duration(ctx, clipPath)
	if err != nil {
		return nil, err
	}
	return &model.VisualAsset{
		Path:            clipPath,
		Width:           width,
		Height:          height,
		DurationSeconds: duration,
	}, nil
}

func (r *FFmpegRenderer) RenderSegment(ctx context.Context, frame model.Frame, clipPath, audioPath, outputPath string, durationSeconds float64) error {
	args := SegmentRenderArgs(r.Settings, frame, clipPath, audioPath, outputPath, durationSeconds)
	if err := r.run(ctx, args); err != nil {
		return &model.RenderError{Stage: "segment", Err: err}
	}
	return nil
}

func (r *FFmpegRenderer) Concat(ctx context.Context, segmentPaths []string, outputPath string, maxDurationSeconds float64) error {
	// The concat demuxer reads its inputs from a list file, which lives
	// next to the output so it lands in the run's scratch space.
	listPath := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	if err := os.WriteFile(listPath, []byte(ConcatListContent(segmentPaths)), 0o644); err != nil {
		return &model.RenderError{Stage: "concat", Err: err}
	}
	defer func() {
		if err := os.Remove(listPath); err != nil {
			slog.Warn("failed to remove concat list", "path", listPath, "error", err)
		}
	}()

	if err := r.run(ctx, ConcatArgs(listPath, outputPath, maxDurationSeconds)); err != nil {
		return &model.RenderError{Stage: "concat", Err: err}
	}
	return nil
}

func (r *FFmpegRenderer) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.FFmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, stderr.String())
	}
	return nil
}
