package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazystage/internal/models"
)

func press(t *testing.T, m *Model, key string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+d":
		msg = tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		msg = tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func typeString(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		press(t, m, string(r))
	}
}

func TestNumericPrefixRepeatsMovement(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	press(t, m, "3")
	press(t, m, "j")

	if selectedPath(m) != "d.go" {
		t.Fatalf("expected d.go after 3j, got %q", selectedPath(m))
	}
	if m.keys.pending() != "" {
		t.Fatalf("expected prefix buffer consumed, got %q", m.keys.pending())
	}
}

func TestStageCurrentEntry(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "c.go")

	if cmd := press(t, m, "s"); cmd == nil {
		t.Fatal("expected a reload command")
	}
	if len(calls.calls) != 1 || calls.calls[0] != "git add -A -- c.go" {
		t.Fatalf("unexpected git calls: %v", calls.calls)
	}
}

func TestStageOnStagedEntryIsNoop(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "a.go")

	press(t, m, "s")
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls, got %v", calls.calls)
	}
}

func TestStageMarkedEntriesClearsMarks(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	itemByPath(t, m, "c.go").Marked = true
	itemByPath(t, m, "e.txt").Marked = true

	press(t, m, "s")

	want := []string{"git add -A -- c.go", "git add -A -- e.txt"}
	if strings.Join(calls.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected git calls: %v", calls.calls)
	}
	if len(m.markedItems()) != 0 {
		t.Fatal("expected marks cleared after bulk action")
	}
}

func TestUnstageStagedEntry(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "a.go")

	press(t, m, "u")
	if len(calls.calls) != 1 || calls.calls[0] != "git reset -q HEAD -- a.go" {
		t.Fatalf("unexpected git calls: %v", calls.calls)
	}
}

func TestUnstageWorkspaceDeletionUsesCheckout(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "d.go")

	press(t, m, "u")
	if len(calls.calls) != 1 || calls.calls[0] != "git checkout -- d.go" {
		t.Fatalf("unexpected git calls: %v", calls.calls)
	}
}

func TestBulkStageWithoutMarksOnlyNotifies(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())

	press(t, m, "S")
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls, got %v", calls.calls)
	}
	if m.notifyText != "No marked entries" {
		t.Fatalf("expected a no-marks notification, got %q", m.notifyText)
	}
}

func TestBulkUnstageWithoutMarksOnlyNotifies(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())

	press(t, m, "U")
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls, got %v", calls.calls)
	}
	if m.notifyText != "No marked entries" {
		t.Fatalf("expected a no-marks notification, got %q", m.notifyText)
	}
}

func TestBulkUnstageMarkedEntries(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	itemByPath(t, m, "a.go").Marked = true
	itemByPath(t, m, "b.go").Marked = true

	press(t, m, "U")
	want := []string{
		"git reset -q HEAD -- a.go",
		"git reset -q HEAD -- b.go",
	}
	if strings.Join(calls.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected git calls: %v", calls.calls)
	}
}

func TestUnstageUntrackedEntryDeletesAfterConfirm(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	full := filepath.Join(m.git.RepoDir(), "e.txt")
	if err := os.WriteFile(full, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	selectPath(t, m, "e.txt")

	press(t, m, "u")
	if m.mode != modeConfirm {
		t.Fatal("expected confirm prompt before deleting")
	}
	if !strings.Contains(m.confirmPrompt, "Delete e.txt?") {
		t.Fatalf("unexpected prompt %q", m.confirmPrompt)
	}

	press(t, m, "y")
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls, got %v", calls.calls)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatal("expected e.txt removed")
	}
}

func TestUnstageMarkedUntrackedPromptsOnce(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	itemByPath(t, m, "e.txt").Marked = true
	itemByPath(t, m, "f.txt").Marked = true

	press(t, m, "u")
	if m.mode != modeConfirm {
		t.Fatal("expected confirm prompt")
	}
	if !strings.Contains(m.confirmPrompt, "Delete 2 untracked files?") {
		t.Fatalf("unexpected prompt %q", m.confirmPrompt)
	}
}

func TestUnstageUntrackedWithoutConfirmSetting(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	m.config.ConfirmDelete = false
	full := filepath.Join(m.git.RepoDir(), "e.txt")
	if err := os.WriteFile(full, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	selectPath(t, m, "e.txt")

	press(t, m, "u")
	if m.mode != modeNormal {
		t.Fatal("expected delete to run without a prompt")
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatal("expected e.txt removed")
	}
}

func TestDiscardWorkspaceEntryConfirmsCheckout(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "c.go")

	press(t, m, "x")
	if m.mode != modeConfirm {
		t.Fatal("expected confirm prompt")
	}
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls before confirmation, got %v", calls.calls)
	}

	press(t, m, "y")
	if m.mode != modeNormal {
		t.Fatal("expected normal mode after confirming")
	}
	if len(calls.calls) != 1 || calls.calls[0] != "git checkout -- c.go" {
		t.Fatalf("unexpected git calls: %v", calls.calls)
	}
}

func TestDiscardDeclinedRunsNothing(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "c.go")

	press(t, m, "x")
	press(t, m, "n")

	if m.mode != modeNormal {
		t.Fatal("expected normal mode after declining")
	}
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls, got %v", calls.calls)
	}
}

func TestDiscardStagedEntryOnlyNotifies(t *testing.T) {
	m, calls := newTestModel(t, testSnapshot())
	selectPath(t, m, "a.go")

	press(t, m, "x")
	if m.mode != modeNormal {
		t.Fatal("expected no confirm prompt for staged entries")
	}
	if m.notifyText == "" {
		t.Fatal("expected a notification")
	}
	if len(calls.calls) != 0 {
		t.Fatalf("expected no git calls, got %v", calls.calls)
	}
}

func TestDiscardUntrackedWithoutConfirmSetting(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	m.config.ConfirmDelete = false
	selectPath(t, m, "e.txt")

	press(t, m, "x")
	if m.mode != modeNormal {
		t.Fatal("expected delete to run without a prompt")
	}
}

func TestSearchFiltersLive(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	press(t, m, "/")
	if m.mode != modeSearch {
		t.Fatal("expected search mode")
	}

	typeString(t, m, ".txt")
	items := 0
	for _, row := range m.filtered {
		if _, ok := row.(*models.Item); ok {
			items++
		}
	}
	if items != 2 {
		t.Fatalf("expected 2 visible items while typing, got %d", items)
	}
	if selectedPath(m) != "e.txt" {
		t.Fatalf("expected selection moved into the narrowed view, got %q", selectedPath(m))
	}

	press(t, m, "enter")
	if m.mode != modeNormal || m.searchTerm != ".txt" {
		t.Fatalf("expected term kept after enter, got %q", m.searchTerm)
	}
}

func TestSearchEscapeCancelsFilter(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	press(t, m, "/")
	typeString(t, m, ".txt")
	press(t, m, "esc")

	if m.searchTerm != "" {
		t.Fatalf("expected term cleared, got %q", m.searchTerm)
	}
	if len(m.filtered) != len(m.rows) {
		t.Fatal("expected full view restored")
	}
}

func TestEscapeClearsFilterBeforeVisualMarks(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	m.setSearchTerm(".go")
	m.toggleVisual()

	press(t, m, "esc")
	if m.searchTerm != "" {
		t.Fatal("expected filter cleared first")
	}
	if !m.visualMark {
		t.Fatal("expected visual mode kept on first escape")
	}

	press(t, m, "esc")
	if m.visualMark {
		t.Fatal("expected visual mode cancelled on second escape")
	}
	if len(m.markedItems()) != 0 {
		t.Fatal("expected marks cleared with visual mode")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	press(t, m, "h")
	if m.mode != modeHelp {
		t.Fatal("expected help mode")
	}

	press(t, m, "q")
	if m.mode != modeNormal {
		t.Fatal("expected normal mode after leaving help")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected a QuitMsg")
	}
}

func TestStatusLoadedRestoresSelection(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	selectPath(t, m, "c.go")
	m.rememberSelection()

	next := testSnapshot()
	next.Workspace = next.Workspace[1:] // c.go is gone
	m.Update(statusLoadedMsg{snapshot: next})

	if selectedPath(m) != "d.go" {
		t.Fatalf("expected d.go selected after reload, got %q", selectedPath(m))
	}
}

func TestStatusLoadedErrorNotifies(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.Update(statusLoadedMsg{err: errFake})

	if m.notifyText == "" {
		t.Fatal("expected error notification")
	}
	if len(m.rows) != 9 {
		t.Fatal("expected old rows kept on failed reload")
	}
}
