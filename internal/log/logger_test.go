/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelDebug}, w: &buf}
	l := slog.New(h).With(slog.String("component", "editor"))
	l.Info("saved", slog.Int("elements", 7))
	out := buf.String()
	if !strings.Contains(out, "INF saved") {
		t.Fatalf("missing level/message: %q", out)
	}
	if !strings.Contains(out, "component=editor") || !strings.Contains(out, "elements=7") {
		t.Fatalf("missing attrs: %q", out)
	}
}

func TestPrettyHandlerLevelGate(t *testing.T) {
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelWarn}, w: &bytes.Buffer{}}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be suppressed at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("warning") != slog.LevelWarn {
		t.Fatalf("warning not mapped")
	}
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatalf("fallback should be info")
	}
}

func TestWithComponentAndOperation(t *testing.T) {
	Init(Options{Level: "error", Format: "json"})
	l := WithOperation(WithComponent("storage"), "save")
	if l == nil {
		t.Fatalf("nil logger")
	}
}
