package app

import (
	"github.com/chmouel/lazystage/internal/models"
)

// toggleMark flips the persistent mark on the current selection.
func (m *Model) toggleMark() {
	if m.position != nil {
		m.position.Marked = !m.position.Marked
	}
}

// toggleSection sets every item in the current selection's category to the
// opposite of the selection's own mark state: anchored on an unmarked row
// the section becomes fully marked, anchored on a marked row it becomes
// fully unmarked. The walk covers the whole store so items hidden by an
// active filter flip along with the visible ones.
func (m *Model) toggleSection() {
	if m.position == nil {
		return
	}
	category := m.position.Category
	marked := !m.position.Marked
	for _, row := range m.rows {
		if item, ok := row.(*models.Item); ok && item.Category == category {
			item.Marked = marked
		}
	}
}

// toggleVisual enters or leaves visual mark mode. Entering toggles the mark
// of the current selection so the anchor row joins (or leaves) the run;
// leaving keeps the marks.
func (m *Model) toggleVisual() {
	m.visualMark = !m.visualMark
	if m.visualMark {
		m.toggleMark()
	}
}

// clearMarks unmarks every item in the store and leaves visual mark mode.
func (m *Model) clearMarks() {
	m.visualMark = false
	for _, row := range m.rows {
		if item, ok := row.(*models.Item); ok {
			item.Marked = false
		}
	}
}

// markedItems returns every marked item in store order.
func (m *Model) markedItems() []*models.Item {
	var marked []*models.Item
	for _, row := range m.rows {
		if item, ok := row.(*models.Item); ok && item.Marked {
			marked = append(marked, item)
		}
	}
	return marked
}

// markedAnchor picks the row the selection should land on after a bulk
// action consumes the marked items: the first unmarked item at or after the
// current view index. It returns the anchor item, or nil with the fallback
// view index when everything from the selection onward is marked.
func (m *Model) markedAnchor() (*models.Item, int) {
	pos := m.positionIndex()
	if pos < 0 {
		return nil, 0
	}
	for i := pos; i < len(m.filtered); i++ {
		if item, ok := m.filtered[i].(*models.Item); ok && !item.Marked {
			return item, i
		}
	}
	return nil, pos
}
