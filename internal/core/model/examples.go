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

// Package model defines the core data structures for the pipeline.
// This file provides canonical example values. They are used by tests and as
// few-shot material when building generation prompts, so the shapes shown to
// the model match the shapes the segmenter accepts.
package model

// GetExampleRawText returns a raw generated script in the titled numbered
// shape, including the kind of preamble the normalizer is expected to drop.
func GetExampleRawText() string {
	return "Sure, here is an exciting script about bridges!\n\n" +
		"1) BRIDGE DESIGN: Bridges are engineering marvels. They carry enormous loads across impossible spans.\n" +
		"2) SUSPENSION CABLES: A single main cable contains tens of thousands of steel wires.\n" +
		"3) RESONANCE: Soldiers break step on bridges to avoid destructive resonance.\n"
}

// GetExampleSegments returns the segments the example raw text should
// produce after normalization and segmentation.
func GetExampleSegments() []*Segment {
	return []*Segment{
		{Index: 0, Title: "Bridge Design", Body: "Bridges are engineering marvels. They carry enormous loads across impossible spans."},
		{Index: 1, Title: "Suspension Cables", Body: "A single main cable contains tens of thousands of steel wires."},
		{Index: 2, Title: "Resonance", Body: "Soldiers break step on bridges to avoid destructive resonance."},
	}
}
