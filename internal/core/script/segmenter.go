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
// narration segments. This file implements the segmenter, a small grammar
// with two accepted shapes and an explicit fallback:
//
//   - Titled numbered list: "N) TITLE IN CAPS: body ..." blocks, where the
//     body runs to the next numbered marker or the end of text. Markers are
//     recognized mid-line too, since backends often emit the whole list as
//     one paragraph.
//   - Flat numbered list: one "N) body" or "N. body" item per line.
//
// Titled parsing wins when it matches at least one block; otherwise flat
// parsing is tried; if neither matches, the entire text becomes a single
// untitled segment. Segmentation therefore never returns an empty list and
// never fails. Items keep the order they appear in the text; duplicate or
// out-of-sequence numbers are not renumbered.
package script

import (
	"regexp"
	"strings"

	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// parsedItem is the tagged result of matching one grammar shape. titled
// distinguishes Titled(title, body) from Flat(body).
type parsedItem struct {
	titled bool
	title  string
	body   string
}

var (
	// A titled marker is a number, a closing paren, and a 3-50 character
	// uppercase label ending in a colon. The leading (^|\s) keeps digits
	// inside words or times from opening a block.
	titledMarkerRe = regexp.MustCompile(`(?m)(?:^|\s)\d+\)\s*([A-Z0-9][A-Z0-9 ]{1,48}[A-Z0-9]):`)

	// A flat item is a whole line led by "N)" or "N.".
	flatItemRe = regexp.MustCompile(`^\s*\d+[.)]\s*(.+)`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// collapse folds all runs of whitespace (including newlines) into single
// spaces and trims the ends.
func collapse(in string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(in, " "))
}

// titleCase lowercases an uppercase label and capitalizes each word:
// "BRIDGE DESIGN" becomes "Bridge Design".
func titleCase(in string) string {
	words := strings.Fields(strings.ToLower(in))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// parseTitled matches the titled numbered shape. Each block's body spans
// from the end of its marker to the start of the next marker.
func parseTitled(text string) []parsedItem {
	matches := titledMarkerRe.FindAllStringSubmatchIndex(text, -1)
	items := make([]parsedItem, 0, len(matches))
	for i, m := range matches {
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := collapse(text[m[1]:bodyEnd])
		if body == "" {
			continue
		}
		items = append(items, parsedItem{
			titled: true,
			title:  titleCase(text[m[2]:m[3]]),
			body:   body,
		})
	}
	return items
}

// parseFlat matches the flat numbered shape, one item per line.
func parseFlat(text string) []parsedItem {
	var items []parsedItem
	for _, line := range strings.Split(text, "\n") {
		if m := flatItemRe.FindStringSubmatch(line); m != nil {
			body := collapse(m[1])
			if body != "" {
				items = append(items, parsedItem{body: body})
			}
		}
	}
	return items
}

// Parse segments normalized text. The result is never empty: when neither
// grammar shape matches, the whole text (newlines collapsed) is returned as
// one untitled segment.
func Parse(normalized string) []*model.Segment {
	items := parseTitled(normalized)
	if len(items) == 0 {
		items = parseFlat(normalized)
	}
	if len(items) == 0 {
		items = []parsedItem{{body: collapse(normalized)}}
	}

	segments := make([]*model.Segment, 0, len(items))
	for i, item := range items {
		segments = append(segments, &model.Segment{
			Index: i,
			Title: item.title,
			Body:  item.body,
		})
	}
	return segments
}
