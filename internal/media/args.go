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
	"fmt"
	"strconv"
	"strings"

	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// EncoderSettings holds the re-encode parameters applied when a segment is
// rendered. Concatenation runs with stream copy and never re-encodes.
type EncoderSettings struct {
	VideoCodec string // e.g. "libx264"
	Preset     string // e.g. "veryfast"
	FrameRate  int    // e.g. 30
}

// FrameFilter returns the ffmpeg video filter that fits arbitrary source
// footage into the target frame without distortion: scale to the frame
// height preserving aspect, center-crop footage wider than the frame, and
// composite narrower footage over a black background (pillarbox) instead of
// stretching it. setsar=1 squares the sample aspect so concat inputs agree.
func FrameFilter(frame model.Frame) string {
	return fmt.Sprintf(
		"scale=-2:%d,crop='min(iw,%d)':%d,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1",
		frame.Height, frame.Width, frame.Height, frame.Width, frame.Height,
	)
}

// SegmentRenderArgs builds the ffmpeg argument list that marries one clip
// with one narration track. The clip is looped (-stream_loop -1) so footage
// shorter than the narration repeats, and the output is cut at exactly the
// narration duration so audio and video always end together.
func SegmentRenderArgs(settings EncoderSettings, frame model.Frame, clipPath, audioPath, outputPath string, durationSeconds float64) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-stream_loop", "-1",
		"-i", clipPath,
		"-i", audioPath,
		"-t", formatSeconds(durationSeconds),
		"-filter:v", FrameFilter(frame),
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", settings.VideoCodec,
		"-preset", settings.Preset,
		"-r", strconv.Itoa(settings.FrameRate),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-f", "mp4",
		outputPath,
	}
}

// ConcatArgs builds the ffmpeg argument list that joins pre-rendered
// segments with the concat demuxer. The segments were encoded with
// identical parameters, so the streams are copied rather than re-encoded.
// A positive maxDurationSeconds adds an output ceiling (-t), which is how
// the portrait length cap is enforced.
func ConcatArgs(listPath, outputPath string, maxDurationSeconds float64) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
	}
	if maxDurationSeconds > 0 {
		args = append(args, "-t", formatSeconds(maxDurationSeconds))
	}
	args = append(args, "-f", "mp4", outputPath)
	return args
}

// ConcatListContent renders the concat demuxer's input list: one
// "file '<path>'" line per segment, in playback order. Single quotes inside
// a path are escaped the way the demuxer expects.
func ConcatListContent(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		escaped := strings.ReplaceAll(p, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return b.String()
}

// formatSeconds renders a duration for an ffmpeg -t flag with millisecond
// precision.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}
