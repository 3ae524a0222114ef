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

// Package script turns an unstructured generated text blob into ordered
// narration segments. This file implements the normalizer, the first pass
// over raw backend output.
//
// Generation backends decorate their answers with markdown, emoji, and
// throwaway preamble ("Sure, here is..."). None of that may reach narration
// or titles, so normalization runs before any segmentation:
//
//  1. Per line, drop a fixed set of markdown punctuation characters.
//  2. Per line, drop emoji and pictographic code points.
//  3. Trim surrounding whitespace per line, then rejoin.
//  4. Discard everything before the first line that begins with "1)" or
//     "1.", the start of the numbered content. If no such marker exists the
//     cleaned text is returned whole.
package script

import "strings"

// markdownStripSet is the fixed set of markdown punctuation removed from
// every line. The dash is included: generated lists frequently use it as a
// bullet and it never carries narration meaning at this stage.
const markdownStripSet = "`*_>#~-"

// emojiRanges covers the pictographic blocks seen in backend output.
// Variation selectors ride along with the symbols they modify.
var emojiRanges = [][2]rune{
	{0x1F1E6, 0x1F1FF}, // regional indicators (flags)
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport and map symbols
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA00, 0x1FAFF}, // extended pictographs
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
	{0x2B00, 0x2BFF},   // misc symbols and arrows
	{0xFE00, 0xFE0F},   // variation selectors
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

func cleanLine(line string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(markdownStripSet, r) || isEmoji(r) {
			return -1
		}
		return r
	}, line)
	return strings.TrimSpace(cleaned)
}

// isContentBoundary reports whether a cleaned line starts the numbered
// content of the script.
func isContentBoundary(line string) bool {
	return strings.HasPrefix(line, "1)") || strings.HasPrefix(line, "1.")
}

// Normalize cleans raw generated text and drops any preamble before the
// first numbered marker. It never fails; worst case it returns the cleaned
// input unchanged.
func Normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	for i, line := range lines {
		if isContentBoundary(line) {
			lines = lines[i:]
			break
		}
	}
	return strings.Join(lines, "\n")
}
