package app

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/models"
)

var errFake = errors.New("fake git failure")

// testSnapshot covers all three sections:
//
//	Index:     a.go b.go
//	Workspace: c.go d.go
//	Untracked: e.txt f.txt
func testSnapshot() *models.StatusSnapshot {
	return &models.StatusSnapshot{
		Index: []models.FileStatus{
			{Path: "a.go", Status: "modified"},
			{Path: "b.go", Status: "new file"},
		},
		Workspace: []models.FileStatus{
			{Path: "c.go", Status: "modified"},
			{Path: "d.go", Status: "deleted"},
		},
		Untracked: []string{"e.txt", "f.txt"},
	}
}

type gitCalls struct {
	calls []string
}

func (g *gitCalls) runner(ctx context.Context, name string, args ...string) *exec.Cmd {
	g.calls = append(g.calls, name+" "+strings.Join(args, " "))
	return exec.CommandContext(ctx, "true")
}

func newTestModel(t *testing.T, snapshot *models.StatusSnapshot) (*Model, *gitCalls) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.ShowIcons = false

	calls := &gitCalls{}
	m := NewModel(context.Background(), cfg, t.TempDir())
	m.git.SetRunner(calls.runner)
	m.width = 80
	m.height = 24
	m.rebuildRows(snapshot)
	m.selectFirst()
	return m, calls
}

func selectedPath(m *Model) string {
	if m.position == nil {
		return ""
	}
	return m.position.Path
}

func selectPath(t *testing.T, m *Model, path string) {
	t.Helper()
	for _, row := range m.filtered {
		if item, ok := row.(*models.Item); ok && item.Path == path {
			m.position = item
			return
		}
	}
	t.Fatalf("path %q not in filtered view", path)
}

func itemByPath(t *testing.T, m *Model, path string) *models.Item {
	t.Helper()
	for _, row := range m.rows {
		if item, ok := row.(*models.Item); ok && item.Path == path {
			return item
		}
	}
	t.Fatalf("path %q not in rows", path)
	return nil
}
