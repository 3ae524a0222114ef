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

package script

import (
	"strings"
	"unicode/utf8"

	"github.com/curioshorts/go-shorts-factory/internal/core/model"
)

// TitleLimit is the maximum title length accepted by the publishing
// platform, counted in runes.
const TitleLimit = 100

const ellipsis = "…"

// SafeTitle enforces the platform title constraint: at most TitleLimit
// runes, truncated on a word boundary with an ellipsis when exceeded. An
// empty input, or a title that becomes empty after truncation, returns
// model.ErrEmptyTitle; such a video must never be published.
func SafeTitle(in string) (string, error) {
	return SafeTitleWithSuffix(in, "")
}

// SafeTitleWithSuffix behaves like SafeTitle but reserves room for a fixed
// suffix (for example " #shorts") so the combined result still honors the
// limit. The suffix is appended verbatim after truncation.
func SafeTitleWithSuffix(in, suffix string) (string, error) {
	title := strings.TrimSpace(in)
	if title == "" {
		return "", model.ErrEmptyTitle
	}

	budget := TitleLimit - utf8.RuneCountInString(suffix)
	if utf8.RuneCountInString(title) > budget {
		title = truncateOnWordBoundary(title, budget-utf8.RuneCountInString(ellipsis))
		if title == "" {
			return "", model.ErrEmptyTitle
		}
		title += ellipsis
	}
	return title + suffix, nil
}

// truncateOnWordBoundary cuts the string to at most n runes, preferring the
// last whole word that fits. When no word boundary exists inside the budget
// the cut is mid-word rather than over-long.
func truncateOnWordBoundary(in string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(in)
	if len(runes) <= n {
		return in
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ")
}
