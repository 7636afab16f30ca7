// Package app implements the interactive staging UI.
package app

import (
	"context"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazystage/internal/app/services"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/models"
	"github.com/chmouel/lazystage/internal/theme"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeCommand
	modeHelp
	modeConfirm
)

// notifyTimeout controls how long a transient status bar notification stays
// visible.
const notifyTimeout = 4 * time.Second

// Model is the single bubbletea model for the whole UI. It owns the entry
// store, the filtered view, the selection, and all modal input state.
type Model struct {
	config *config.AppConfig
	theme  *theme.Theme
	git    *git.Service
	watch  *services.GitWatchService

	ctx context.Context

	rows       []models.Row
	filtered   []models.Row
	position   *models.Item
	visualMark bool
	searchTerm string

	mode         inputMode
	searchInput  textinput.Model
	commandInput textinput.Model
	keys         keyHandler

	confirmPrompt string
	confirmFn     func() tea.Cmd

	notifyText     string
	notifySeverity string
	notifySeq      int
	notifyOnceSeen map[string]struct{}

	// Selection to restore after the next status reload.
	pendingItem  *models.Item
	pendingIndex int

	width  int
	height int

	// Injectable for tests so no real processes are spawned.
	commandRunner func(ctx context.Context, name string, args ...string) *exec.Cmd
	execProcess   func(cmd *exec.Cmd, fn tea.ExecCallback) tea.Cmd
}

// NewModel builds the model for the repository at repoDir. Call Open before
// handing the model to bubbletea.
func NewModel(ctx context.Context, cfg *config.AppConfig, repoDir string) *Model {
	searchInput := textinput.New()
	searchInput.Prompt = "/"
	commandInput := textinput.New()
	commandInput.Prompt = ":"

	m := &Model{
		config:         cfg,
		theme:          theme.ByName(cfg.Theme),
		ctx:            ctx,
		searchInput:    searchInput,
		commandInput:   commandInput,
		notifyOnceSeen: make(map[string]struct{}),
		pendingIndex:   -1,
		commandRunner:  exec.CommandContext,
		execProcess:    tea.ExecProcess,
	}
	m.git = git.NewService(repoDir, m.notify, m.notifyOnce)
	m.watch = services.NewGitWatchService(m.git, log.Printf)
	return m
}

// Open verifies the repository and pins the model to its top level.
func (m *Model) Open(ctx context.Context) error {
	return m.git.Open(ctx)
}

// LoadInitial fetches the first status snapshot before the UI starts. It
// reports empty=true when there is nothing to stage, in which case the
// caller should not start the program at all.
func (m *Model) LoadInitial(ctx context.Context) (empty bool, err error) {
	snapshot, err := m.git.Status(ctx)
	if err != nil {
		return false, err
	}
	if snapshot.Empty() {
		return true, nil
	}
	m.rebuildRows(snapshot)
	m.selectFirst()
	return false, nil
}

// Init starts the repository watcher when auto refresh is enabled.
func (m *Model) Init() tea.Cmd {
	if m.config.AutoRefresh {
		if _, err := m.watch.Start(m.ctx); err != nil {
			log.Printf("git watcher start failed: %v", err)
		}
	}
	return m.waitForGitChange()
}

// Update is the bubbletea message loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusLoadedMsg:
		return m, m.handleStatusLoaded(msg)

	case externalDoneMsg:
		if msg.err != nil {
			return m, m.withNotifyClear(func() {
				m.notify(msg.err.Error(), "error")
			}, m.reloadStatus())
		}
		return m, m.reloadStatus()

	case gitChangedMsg:
		m.watch.ResetWaiting()
		if !m.watch.ShouldRefresh(time.Now()) {
			return m, m.waitForGitChange()
		}
		m.rememberSelection()
		return m, tea.Batch(m.reloadStatus(), m.waitForGitChange())

	case clearNotifyMsg:
		if msg.seq == m.notifySeq {
			m.notifyText = ""
			m.notifySeverity = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleStatusLoaded(msg statusLoadedMsg) tea.Cmd {
	if msg.err != nil {
		return m.withNotifyClear(func() {
			m.notify(msg.err.Error(), "error")
		}, nil)
	}
	previous, previousIndex := m.takePendingSelection()
	m.rebuildRows(msg.snapshot)
	m.reresolveSelection(previous, previousIndex)
	return nil
}

// rememberSelection records the current selection so it can be re-resolved
// after the next reload.
func (m *Model) rememberSelection() {
	m.pendingItem = m.position
	m.pendingIndex = m.positionIndex()
}

func (m *Model) takePendingSelection() (*models.Item, int) {
	previous, previousIndex := m.pendingItem, m.pendingIndex
	if previous == nil && previousIndex < 0 {
		previous, previousIndex = m.position, m.positionIndex()
	}
	m.pendingItem = nil
	m.pendingIndex = -1
	return previous, previousIndex
}

// reloadStatus queries git status off the update loop and delivers the
// result as a message.
func (m *Model) reloadStatus() tea.Cmd {
	ctx := m.ctx
	svc := m.git
	return func() tea.Msg {
		snapshot, err := svc.Status(ctx)
		return statusLoadedMsg{snapshot: snapshot, err: err}
	}
}

func (m *Model) waitForGitChange() tea.Cmd {
	ch := m.watch.NextEvent()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return gitChangedMsg{}
	}
}

// notify replaces the transient status bar notification. Severity is
// "error", "success", or "info".
func (m *Model) notify(message, severity string) {
	m.notifyText = message
	m.notifySeverity = severity
	m.notifySeq++
}

// notifyOnce reports a message only the first time its key is seen.
func (m *Model) notifyOnce(key, message, severity string) {
	if _, ok := m.notifyOnceSeen[key]; ok {
		return
	}
	m.notifyOnceSeen[key] = struct{}{}
	m.notify(message, severity)
}

// withNotifyClear runs fn and, when it raised a notification, batches a
// timed clear for it alongside next.
func (m *Model) withNotifyClear(fn func(), next tea.Cmd) tea.Cmd {
	before := m.notifySeq
	fn()
	if m.notifySeq == before {
		return next
	}
	seq := m.notifySeq
	clear := tea.Tick(notifyTimeout, func(time.Time) tea.Msg {
		return clearNotifyMsg{seq: seq}
	})
	if next == nil {
		return clear
	}
	return tea.Batch(next, clear)
}

func (m *Model) quit() tea.Cmd {
	m.watch.Stop()
	return tea.Quit
}
