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

package commands

import (
	"fmt"
	"log/slog"

	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/core/script"
)

// ScriptSegmenter splits the normalized script into ordered narration
// segments. The whole-script fallback inside the parser means this command
// only fails when the script itself is empty.
type ScriptSegmenter struct {
	cor.BaseCommand
	// runKey is the context key under which the segmenter republishes the
	// raw script, since CtxOut is taken by the segment list.
	runKey string
}

// NewScriptSegmenter creates the segmenter. runKey names the context slot
// that keeps the script's topic and mode available to later commands.
func NewScriptSegmenter(name string, runKey string) *ScriptSegmenter {
	return &ScriptSegmenter{
		BaseCommand: *cor.NewBaseCommand(name),
		runKey:      runKey,
	}
}

func (t *ScriptSegmenter) IsExecutable(context cor.Context) bool {
	raw, ok := context.Get(t.GetInputParam()).(*model.RawScript)
	return ok && raw.Text != ""
}

func (t *ScriptSegmenter) Execute(context cor.Context) {
	raw := context.Get(t.GetInputParam()).(*model.RawScript)

	segments := script.Parse(raw.Text)
	if len(segments) == 0 {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("no segments extracted for topic %q", raw.Topic))
		return
	}

	slog.InfoContext(context.GetContext(), "segmented script",
		"topic", raw.Topic, "segments", len(segments))

	// Later commands (synchronizer, publisher) still need the run's topic
	// and mode; park the script under a stable side key.
	context.Add(t.runKey, raw)

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), segments)
}
