package app

import (
	"testing"

	"github.com/chmouel/lazystage/internal/models"
)

func TestSelectFirstSkipsHeader(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	if selectedPath(m) != "a.go" {
		t.Fatalf("expected a.go selected, got %q", selectedPath(m))
	}
}

func TestSelectLast(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.selectLast()
	if selectedPath(m) != "f.txt" {
		t.Fatalf("expected f.txt selected, got %q", selectedPath(m))
	}
}

func TestMoveSkipsHeaders(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	selectPath(t, m, "b.go")

	m.moveSelection(stepLine, 1)
	if selectedPath(m) != "c.go" {
		t.Fatalf("expected c.go after skipping workspace header, got %q", selectedPath(m))
	}

	m.moveSelection(-stepLine, 1)
	if selectedPath(m) != "b.go" {
		t.Fatalf("expected b.go moving back up, got %q", selectedPath(m))
	}
}

func TestMoveWrapsAtEnds(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.selectLast()
	m.moveSelection(stepLine, 1)
	if selectedPath(m) != "a.go" {
		t.Fatalf("expected wrap to a.go, got %q", selectedPath(m))
	}

	m.moveSelection(-stepLine, 1)
	if selectedPath(m) != "f.txt" {
		t.Fatalf("expected wrap back to f.txt, got %q", selectedPath(m))
	}
}

func TestMoveRepeatCount(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.moveSelection(stepLine, 3)
	if selectedPath(m) != "d.go" {
		t.Fatalf("expected d.go after 3j, got %q", selectedPath(m))
	}
}

func TestPageMoveWraps(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	selectPath(t, m, "c.go")

	m.moveSelection(stepPage, 1)
	if selectedPath(m) != "a.go" {
		t.Fatalf("expected page down past the end to wrap to a.go, got %q", selectedPath(m))
	}
}

func TestSelectCategory(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.selectCategory(models.CategoryUntracked)
	if selectedPath(m) != "e.txt" {
		t.Fatalf("expected e.txt, got %q", selectedPath(m))
	}

	m.selectCategory(models.CategoryWorkspace)
	if selectedPath(m) != "c.go" {
		t.Fatalf("expected c.go, got %q", selectedPath(m))
	}
}

func TestSelectCategoryMissingKeepsSelection(t *testing.T) {
	m, _ := newTestModel(t, &models.StatusSnapshot{
		Index: []models.FileStatus{{Path: "a.go", Status: "modified"}},
	})

	m.selectCategory(models.CategoryUntracked)
	if selectedPath(m) != "a.go" {
		t.Fatalf("expected selection to stay on a.go, got %q", selectedPath(m))
	}
}

func TestSelectByIndexSlidesPastHeader(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	// Index 3 is the workspace header.
	m.selectByIndex(3)
	if selectedPath(m) != "c.go" {
		t.Fatalf("expected c.go, got %q", selectedPath(m))
	}
}

func TestSelectByIndexPastEndSelectsLast(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.selectByIndex(50)
	if selectedPath(m) != "f.txt" {
		t.Fatalf("expected f.txt, got %q", selectedPath(m))
	}
}

func TestReresolveSelectionPrefersIdentity(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	selectPath(t, m, "d.go")
	previous, previousIndex := m.position, m.positionIndex()

	m.rebuildRows(testSnapshot())
	m.reresolveSelection(previous, previousIndex)

	if selectedPath(m) != "d.go" {
		t.Fatalf("expected d.go re-selected, got %q", selectedPath(m))
	}
}

func TestReresolveSelectionFallsBackToIndex(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	selectPath(t, m, "d.go")
	previous, previousIndex := m.position, m.positionIndex()

	next := testSnapshot()
	next.Workspace = next.Workspace[:1] // d.go is gone
	m.rebuildRows(next)
	m.reresolveSelection(previous, previousIndex)

	if selectedPath(m) != "e.txt" {
		t.Fatalf("expected the row sliding into d.go's place, got %q", selectedPath(m))
	}
}

func TestReresolveSelectionEmptyView(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())
	previous, previousIndex := m.position, m.positionIndex()

	m.rebuildRows(&models.StatusSnapshot{})
	m.reresolveSelection(previous, previousIndex)

	if m.position != nil {
		t.Fatalf("expected nil selection for empty view, got %q", selectedPath(m))
	}
}

func TestVisualMoveMarksEveryRowLandedOn(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot())

	m.toggleVisual()
	m.moveSelection(stepLine, 2)

	for _, path := range []string{"a.go", "b.go", "c.go"} {
		if !itemByPath(t, m, path).Marked {
			t.Errorf("expected %s marked", path)
		}
	}
	if itemByPath(t, m, "d.go").Marked {
		t.Errorf("did not expect d.go marked")
	}
}
