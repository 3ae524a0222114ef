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

// Package model defines the core data structures for the pipeline. All of
// these objects are transient: they exist for the duration of a single run,
// are passed between commands through the chain context, and are never
// persisted anywhere.
package model

import "strings"

// Mode selects the production target of a run. It fixes the prompt shape,
// the output orientation, and the duration ceiling.
type Mode string

const (
	// ModeShort produces a portrait video capped at sixty seconds.
	ModeShort Mode = "short"
	// ModeLong produces a landscape video with no duration ceiling.
	ModeLong Mode = "long"
)

// ParseMode converts a user-supplied string into a Mode. Unknown values
// fall back to ModeShort so a bare CLI invocation still does something useful.
func ParseMode(in string) Mode {
	if strings.EqualFold(strings.TrimSpace(in), string(ModeLong)) {
		return ModeLong
	}
	return ModeShort
}

// Orientation is the target aspect mode of the rendered frames.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Orientation returns the framing implied by the mode: shorts are vertical,
// long-form is horizontal.
func (m Mode) Orientation() Orientation {
	if m == ModeShort {
		return OrientationPortrait
	}
	return OrientationLandscape
}

// OutputFileName returns the fixed artifact name for the mode.
func (m Mode) OutputFileName() string {
	return string(m) + ".mp4"
}

// Frame describes the fixed output frame for an orientation.
type Frame struct {
	Width  int
	Height int
}

// Frame sizes are fixed delivery targets, not configuration: every portrait
// segment is composed onto 1080x1920 and every landscape segment onto
// 1920x1080 so concatenation never has to reconcile mismatched dimensions.
func (o Orientation) Frame() Frame {
	if o == OrientationPortrait {
		return Frame{Width: 1080, Height: 1920}
	}
	return Frame{Width: 1920, Height: 1080}
}

// MaxDurationSeconds returns the hard timeline ceiling for the orientation,
// or zero when the timeline is unbounded. The ceiling is enforced by
// truncation only; audio and video are never re-timed to fit.
func (o Orientation) MaxDurationSeconds() float64 {
	if o == OrientationPortrait {
		return 60
	}
	return 0
}

// PipelineRequest is the initial input of a run, placed on the chain context
// before the first command executes.
type PipelineRequest struct {
	Mode    Mode   `json:"mode"`
	Topic   string `json:"topic,omitempty"` // empty means "ask the topic source"
	Publish bool   `json:"publish"`
}

// RawScript is the opaque text returned by the generation backend for one
// (topic, mode) request. Fallback marks scripts produced by the deterministic
// fallback template after the retry budget was exhausted.
type RawScript struct {
	Topic    string
	Mode     Mode
	Text     string
	Fallback bool
}

// Segment is one numbered unit of script content. Index is 0-based and
// defines playback order; it reflects the order markers appeared in the text,
// not the numbers printed next to them. Title is optional and short; Body is
// the narration text and is never empty.
type Segment struct {
	Index int    `json:"index"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

// QueryKey derives the stock-footage search key for the segment: the title
// when present, otherwise the first three whitespace-separated tokens of the
// body.
func (s *Segment) QueryKey() string {
	if s.Title != "" {
		return s.Title
	}
	fields := strings.Fields(s.Body)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}

// AudioAsset is the narration waveform for exactly one segment. The duration
// is only known after synthesis, discovered by probing the written file.
type AudioAsset struct {
	Path            string
	DurationSeconds float64
}

// VisualAsset is a clip candidate fetched for a segment's query key. It is
// consumed by exactly one segment and never shared.
type VisualAsset struct {
	Path            string
	Width           int
	Height          int
	DurationSeconds float64
}

// SyncedSegment pairs a segment's audio with a rendered visual whose duration
// equals the audio duration exactly. This is the unit the assembler consumes.
type SyncedSegment struct {
	Segment         *Segment
	Audio           *AudioAsset
	Visual          *VisualAsset // the source clip the segment was rendered from
	Path            string       // rendered per-segment file, video already muxed with narration
	DurationSeconds float64
}

// Timeline is the ordered sequence of synced segments to be concatenated
// without gaps or overlaps.
type Timeline struct {
	Segments    []*SyncedSegment
	Orientation Orientation
}

// TotalDurationSeconds is the sum of the constituent durations before any
// ceiling is applied.
func (t *Timeline) TotalDurationSeconds() float64 {
	var total float64
	for _, s := range t.Segments {
		total += s.DurationSeconds
	}
	return total
}

// CappedDurationSeconds applies the orientation's hard ceiling to the summed
// duration. Truncation only; segments past the ceiling are simply cut.
func (t *Timeline) CappedDurationSeconds() float64 {
	total := t.TotalDurationSeconds()
	if max := t.Orientation.MaxDurationSeconds(); max > 0 && total > max {
		return max
	}
	return total
}

// ProducedVideo is the assembled artifact of a run, handed to the publish
// step. Segments carries the segment list that went into the cut so the
// publisher can derive a title.
type ProducedVideo struct {
	Path            string
	Mode            Mode
	Topic           string
	DurationSeconds float64
	Segments        []*Segment
	// VideoID is set after a successful upload.
	VideoID string
}
