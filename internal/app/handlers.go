package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazystage/internal/models"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCommand:
		return m.handleCommandKey(msg)
	case modeHelp:
		return m.handleHelpKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.keys.consumeDigit(key) {
		return m, nil
	}
	count := m.keys.takeCount()

	switch actionForKey(key) {
	case actionQuit:
		return m, m.quit()
	case actionHelp:
		m.mode = modeHelp
	case actionSearch:
		m.searchInput.SetValue(m.searchTerm)
		m.searchInput.CursorEnd()
		m.mode = modeSearch
		return m, m.searchInput.Focus()
	case actionCommand:
		m.commandInput.SetValue("")
		m.mode = modeCommand
		return m, m.commandInput.Focus()
	case actionEscape:
		m.handleEscape()
	case actionMoveDown:
		m.moveSelection(stepLine, count)
	case actionMoveUp:
		m.moveSelection(-stepLine, count)
	case actionPageDown:
		m.moveSelection(stepPage, count)
	case actionPageUp:
		m.moveSelection(-stepPage, count)
	case actionTop:
		m.selectFirst()
		m.markCurrent()
	case actionBottom:
		m.selectLast()
		m.markCurrent()
	case actionJumpIndex:
		m.selectCategory(models.CategoryIndex)
		m.markCurrent()
	case actionJumpWorkspace:
		m.selectCategory(models.CategoryWorkspace)
		m.markCurrent()
	case actionJumpUntracked:
		m.selectCategory(models.CategoryUntracked)
		m.markCurrent()
	case actionStage:
		return m, m.stageSelection()
	case actionUnstage:
		return m, m.unstageSelection()
	case actionBulkStage:
		return m, m.bulkStage()
	case actionBulkUnstage:
		return m, m.bulkUnstage()
	case actionCheckout:
		return m, m.discardSelection()
	case actionMark:
		m.toggleMark()
	case actionMarkSection:
		m.toggleSection()
	case actionVisual:
		m.toggleVisual()
	case actionDiff:
		return m, m.showDiff()
	case actionInteractive:
		return m, m.interactiveStage()
	case actionCommit:
		return m, m.commit(false)
	case actionAmend:
		return m, m.commit(true)
	case actionPush:
		return m, m.push(false)
	case actionPushUpstream:
		return m, m.push(true)
	case actionEdit:
		return m, m.editSelection()
	case actionReload:
		m.rememberSelection()
		return m, m.reloadStatus()
	}
	return m, nil
}

/// handleEscape unwinds transient state one layer at a time: an active
// search filter first, then visual mode with its marks.
func (m *Model) handleEscape() {
	if m.searchTerm != "" {
		m.searchInput.SetValue("")
		m.setSearchTerm("")
		return
	}
	if m.visualMark {
		m.clearMarks()
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searchInput.SetValue("")
		m.setSearchTerm("")
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.setSearchTerm(m.searchInput.Value())
	return m, cmd
}

// setSearchTerm applies a new filter term and re-resolves the selection
// against the narrowed or widened view.
func (m *Model) setSearchTerm(term string) {
	if term == m.searchTerm {
		return
	}
	previous, previousIndex := m.position, m.positionIndex()
	m.searchTerm = term
	m.applyFilter()
	m.reresolveSelection(previous, previousIndex)
}

func (m *Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.runCommandLine()
	case "esc":
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m *Model) handleHelpKey(tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fn := m.confirmFn
	switch msg.String() {
	case "y", "Y":
		m.mode = modeNormal
		m.confirmPrompt = ""
		m.confirmFn = nil
		if fn != nil {
			return m, fn()
		}
	case "n", "N", "esc", "q":
		m.mode = modeNormal
		m.confirmPrompt = ""
		m.confirmFn = nil
	}
	return m, nil
}

// confirm switches into the y/n prompt; fn runs only on confirmation.
func (m *Model) confirm(prompt string, fn func() tea.Cmd) tea.Cmd {
	m.mode = modeConfirm
	m.confirmPrompt = prompt
	m.confirmFn = fn
	return nil
}

// applyAction runs fn over the marked items, or over the current selection
// when nothing is marked, then reloads the status. Failures surface in the
// status bar and never abort the remaining items.
func (m *Model) applyAction(fn func(*models.Item) error) tea.Cmd {
	marked := m.markedItems()
	if len(marked) > 0 {
		anchor, anchorIndex := m.markedAnchor()
		m.pendingItem = anchor
		m.pendingIndex = anchorIndex
		return m.withNotifyClear(func() {
			for _, item := range marked {
				_ = fn(item)
			}
			m.clearMarks()
		}, m.reloadStatus())
	}
	if m.position == nil {
		return nil
	}
	item := m.position
	m.pendingItem = nil
	m.pendingIndex = m.positionIndex()
	return m.withNotifyClear(func() {
		_ = fn(item)
	}, m.reloadStatus())
}

func (m *Model) stageSelection() tea.Cmd {
	return m.applyAction(func(item *models.Item) error {
		if item.Category == models.CategoryIndex {
			return nil
		}
		return m.git.Stage(m.ctx, item.Path)
	})
}

// unstageSelection reverses whatever the entry's category shows: staged
// entries reset to HEAD, workspace entries leave the index, and untracked
// files are deleted the way gitsi's unstage does, behind the usual
// confirmation.
func (m *Model) unstageSelection() tea.Cmd {
	apply := func(item *models.Item) error {
		switch item.Category {
		case models.CategoryIndex:
			return m.git.UnstageIndex(m.ctx, item.Path)
		case models.CategoryWorkspace:
			return m.git.UnstageWorkspace(m.ctx, item.Path, item.Status)
		default:
			return m.git.DeleteUntracked(item.Path)
		}
	}
	untracked := m.untrackedTargets()
	if len(untracked) == 0 || !m.config.ConfirmDelete {
		return m.applyAction(apply)
	}
	prompt := fmt.Sprintf("Delete %s? [y/n]", untracked[0].Path)
	if len(untracked) > 1 {
		prompt = fmt.Sprintf("Delete %d untracked files? [y/n]", len(untracked))
	}
	return m.confirm(prompt, func() tea.Cmd {
		return m.applyAction(apply)
	})
}

// untrackedTargets lists the untracked items an unstage would touch: the
// marked set when anything is marked, otherwise the current selection.
func (m *Model) untrackedTargets() []*models.Item {
	marked := m.markedItems()
	if len(marked) == 0 {
		if m.position != nil && m.position.Category == models.CategoryUntracked {
			return []*models.Item{m.position}
		}
		return nil
	}
	var untracked []*models.Item
	for _, item := range marked {
		if item.Category == models.CategoryUntracked {
			untracked = append(untracked, item)
		}
	}
	return untracked
}

// bulkStage stages the marked items; with nothing marked it only reports.
func (m *Model) bulkStage() tea.Cmd {
	if len(m.markedItems()) == 0 {
		return m.withNotifyClear(func() {
			m.notify("No marked entries", "info")
		}, nil)
	}
	return m.stageSelection()
}

// bulkUnstage unstages the marked items; with nothing marked it only
// reports.
func (m *Model) bulkUnstage() tea.Cmd {
	if len(m.markedItems()) == 0 {
		return m.withNotifyClear(func() {
			m.notify("No marked entries", "info")
		}, nil)
	}
	return m.unstageSelection()
}

/// discardSelection throws the current entry away: checkout for workspace
// changes, file deletion for untracked files. Both ask first.
func (m *Model) discardSelection() tea.Cmd {
	if m.position == nil {
		return nil
	}
	item := m.position
	switch item.Category {
	case models.CategoryIndex:
		return m.withNotifyClear(func() {
			m.notify(fmt.Sprintf("%s is staged, unstage it before discarding", item.Path), "info")
		}, nil)
	case models.CategoryWorkspace:
		return m.confirm(fmt.Sprintf("Discard changes to %s? [y/n]", item.Path), func() tea.Cmd {
			m.pendingItem = nil
			m.pendingIndex = m.positionIndex()
			return m.withNotifyClear(func() {
				_ = m.git.Checkout(m.ctx, item.Path)
			}, m.reloadStatus())
		})
	default:
		run := func() tea.Cmd {
			m.pendingItem = nil
			m.pendingIndex = m.positionIndex()
			return m.withNotifyClear(func() {
				_ = m.git.DeleteUntracked(item.Path)
			}, m.reloadStatus())
		}
		if !m.config.ConfirmDelete {
			return run()
		}
		return m.confirm(fmt.Sprintf("Delete %s? [y/n]", item.Path), run)
	}
}

// runCommandLine executes the command mode input through a shell in the
// repository root, suspending the UI while it runs.
func (m *Model) runCommandLine() tea.Cmd {
	command := strings.TrimSpace(m.commandInput.Value())
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	m.mode = modeNormal
	if command == "" {
		return nil
	}
	m.rememberSelection()
	// #nosec G204 -- the command comes from the user's own prompt
	c := m.commandRunner(m.ctx, "bash", "-c", command)
	c.Dir = m.git.RepoDir()
	return m.execProcess(c, func(err error) tea.Msg {
		return externalDoneMsg{err: err}
	})
}
