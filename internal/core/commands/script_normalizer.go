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

	"github.com/curioshorts/go-shorts-factory/internal/core/cor"
	"github.com/curioshorts/go-shorts-factory/internal/core/model"
	"github.com/curioshorts/go-shorts-factory/internal/core/script"
)

// ScriptNormalizer strips model chatter, markdown, and emoji from the raw
// script so downstream segmentation and narration see clean text.
type ScriptNormalizer struct {
	cor.BaseCommand
}

func NewScriptNormalizer(name string) *ScriptNormalizer {
	return &ScriptNormalizer{BaseCommand: *cor.NewBaseCommand(name)}
}

func (t *ScriptNormalizer) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(*model.RawScript)
	return ok
}

func (t *ScriptNormalizer) Execute(context cor.Context) {
	raw := context.Get(t.GetInputParam()).(*model.RawScript)

	normalized := script.Normalize(raw.Text)
	if normalized == "" {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("script for topic %q is empty after normalization", raw.Topic))
		return
	}

	raw.Text = normalized
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), raw)
}
