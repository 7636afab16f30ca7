package app

import (
	"strings"

	"github.com/chmouel/lazystage/internal/models"
)

// buildRows converts a status snapshot into the full row list: each non-empty
// group is prefixed by exactly one header, groups in fixed category order.
func buildRows(snapshot *models.StatusSnapshot) []models.Row {
	size := len(snapshot.Index) + len(snapshot.Workspace) + len(snapshot.Untracked)
	rows := make([]models.Row, 0, size+3)

	appendGroup := func(category models.Category, entries []models.FileStatus) {
		if len(entries) == 0 {
			return
		}
		rows = append(rows, &models.Header{Category: category})
		for _, entry := range entries {
			rows = append(rows, &models.Item{
				Path:     entry.Path,
				Status:   entry.Status,
				Category: category,
			})
		}
	}

	appendGroup(models.CategoryIndex, snapshot.Index)
	appendGroup(models.CategoryWorkspace, snapshot.Workspace)

	if len(snapshot.Untracked) > 0 {
		rows = append(rows, &models.Header{Category: models.CategoryUntracked})
		for _, path := range snapshot.Untracked {
			rows = append(rows, &models.Item{
				Path:     path,
				Status:   "untracked",
				Category: models.CategoryUntracked,
			})
		}
	}

	return rows
}

// filterRows derives the filtered view from the row list. A row passes when
// the term is empty, the row is a header, or the item's path contains term as
// a case-sensitive substring. Headers always pass, even when every item in
// their group is filtered out.
func filterRows(rows []models.Row, term string) []models.Row {
	if term == "" {
		return append([]models.Row(nil), rows...)
	}
	filtered := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		switch r := row.(type) {
		case *models.Header:
			filtered = append(filtered, r)
		case *models.Item:
			if strings.Contains(r.Path, term) {
				filtered = append(filtered, r)
			}
		}
	}
	return filtered
}

// rebuildRows replaces the entry store from a snapshot and re-derives the
// filtered view. Any previously held selection must be re-resolved by the
// caller; the old row values are gone after this.
func (m *Model) rebuildRows(snapshot *models.StatusSnapshot) {
	m.rows = buildRows(snapshot)
	m.applyFilter()
}

// applyFilter recomputes the filtered view for the current search term.
func (m *Model) applyFilter() {
	m.filtered = filterRows(m.rows, m.searchTerm)
}
