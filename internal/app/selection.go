package app

import (
	"github.com/chmouel/lazystage/internal/models"
)

// Single-step distances used by moveSelection.
const (
	stepLine = 1
	stepPage = 10
)

// positionIndex returns the index of the current selection within the
// filtered view, or -1 when the selection is nil or no longer present.
func (m *Model) positionIndex() int {
	if m.position == nil {
		return -1
	}
	for i, row := range m.filtered {
		if row == models.Row(m.position) {
			return i
		}
	}
	return -1
}

// selectFirst moves the selection to the first item row of the filtered
// view. With no item rows the selection becomes nil.
func (m *Model) selectFirst() {
	m.position = nil
	for _, row := range m.filtered {
		if item, ok := row.(*models.Item); ok {
			m.position = item
			return
		}
	}
}

// selectLast moves the selection to the last item row of the filtered view.
func (m *Model) selectLast() {
	m.position = nil
	for i := len(m.filtered) - 1; i >= 0; i-- {
		if item, ok := m.filtered[i].(*models.Item); ok {
			m.position = item
			return
		}
	}
}

// selectCategory jumps to the first item of the given category in the
// filtered view. The selection is left unchanged when the category has no
// visible items.
func (m *Model) selectCategory(category models.Category) {
	for _, row := range m.filtered {
		if item, ok := row.(*models.Item); ok && item.Category == category {
			m.position = item
			return
		}
	}
}

// moveSelection advances the selection count times by direction, where
// direction is a signed step distance (±stepLine or ±stepPage). Each step
// skips header rows by continuing in the same direction, wraps from either
// end of the view, and, while visual marking is active, marks every item
// landed on.
func (m *Model) moveSelection(direction, count int) {
	if count < 1 {
		count = 1
	}
	for ; count > 0; count-- {
		m.moveStep(direction)
	}
}

func (m *Model) moveStep(direction int) {
	pos := m.positionIndex()
	if pos < 0 {
		m.selectFirst()
		m.markCurrent()
		return
	}
	for {
		pos += direction
		if pos < 0 {
			m.selectLast()
			break
		}
		if pos >= len(m.filtered) {
			m.selectFirst()
			break
		}
		if item, ok := m.filtered[pos].(*models.Item); ok {
			m.position = item
			break
		}
	}
	m.markCurrent()
}

func (m *Model) markCurrent() {
	if m.visualMark && m.position != nil {
		m.position.Marked = true
	}
}

// selectByIndex selects the item at the given view index; when the index
// lands on a header the selection slides forward to the next item. Indexes
// past the end of the view select the last item.
func (m *Model) selectByIndex(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(m.filtered) {
		m.selectLast()
		return
	}
	for i := index; i < len(m.filtered); i++ {
		if item, ok := m.filtered[i].(*models.Item); ok {
			m.position = item
			return
		}
	}
	m.selectLast()
}

// reresolveSelection restores the selection after the row store has been
// rebuilt. It prefers the item with the same path and category as before,
// then the item at or after the previous view index, then the first item.
func (m *Model) reresolveSelection(previous *models.Item, previousIndex int) {
	if previous != nil {
		for _, row := range m.filtered {
			if item, ok := row.(*models.Item); ok && item.SameIdentity(previous) {
				m.position = item
				return
			}
		}
	}
	if previousIndex >= 0 {
		m.selectByIndex(previousIndex)
		if m.position != nil {
			return
		}
	}
	m.selectFirst()
}
