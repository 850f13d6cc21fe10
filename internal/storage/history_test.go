/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"testing"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

func historyFixture(t *testing.T) *WorkspaceHandle {
	t.Helper()
	wh, err := InitWorkspace(t.TempDir(), *domain.DefaultDocument())
	if err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	return wh
}

func TestSaveListVersions(t *testing.T) {
	wh := historyFixture(t)
	ctx := context.Background()

	wh.Document.CanvasWidth = 620
	id1, err := SaveVersion(ctx, wh, "wider canvas")
	if err != nil {
		t.Fatalf("save version: %v", err)
	}
	wh.Document.CanvasWidth = 640
	id2, err := SaveVersion(ctx, wh, "")
	if err != nil {
		t.Fatalf("save version: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("ids should grow: %d then %d", id1, id2)
	}

	list, err := ListVersions(ctx, wh, 0)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("version count = %d", len(list))
	}
	if list[0].ID != id2 {
		t.Fatalf("newest first expected, got id %d", list[0].ID)
	}
	if list[1].Name != "wider canvas" || list[0].Name != "unnamed" {
		t.Fatalf("names wrong: %q %q", list[0].Name, list[1].Name)
	}
}

func TestRestoreVersion(t *testing.T) {
	wh := historyFixture(t)
	ctx := context.Background()

	wh.Document.CanvasWidth = 620
	id, err := SaveVersion(ctx, wh, "before change")
	if err != nil {
		t.Fatalf("save version: %v", err)
	}
	wh.Document.CanvasWidth = 999
	if err := RestoreVersion(ctx, wh, id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if wh.Document.CanvasWidth != 620 {
		t.Fatalf("restored width = %v", wh.Document.CanvasWidth)
	}
}

func TestDeleteVersion(t *testing.T) {
	wh := historyFixture(t)
	ctx := context.Background()

	id, err := SaveVersion(ctx, wh, "v1")
	if err != nil {
		t.Fatalf("save version: %v", err)
	}
	if err := DeleteVersion(ctx, wh, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteVersion(ctx, wh, id); err == nil {
		t.Fatalf("second delete should report not found")
	}
	if _, err := GetVersion(ctx, wh, id); err == nil {
		t.Fatalf("deleted version should be gone")
	}
}

func TestPruneVersions(t *testing.T) {
	wh := historyFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := SaveVersion(ctx, wh, "v"); err != nil {
			t.Fatalf("save version: %v", err)
		}
	}
	n, err := PruneVersions(ctx, wh, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 3 {
		t.Fatalf("pruned %d, want 3", n)
	}
	list, err := ListVersions(ctx, wh, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("kept %d, want 2", len(list))
	}
}
