package app

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/models"
)

// externalDone is the shared callback for suspended processes.
func externalDone(err error) tea.Msg {
	return externalDoneMsg{err: err}
}

// showDiff pipes the diff for the current entry through the pager, diffing
// against whatever the entry's category shows: HEAD for staged entries, the
// index for workspace entries, /dev/null for untracked files.
func (m *Model) showDiff() tea.Cmd {
	if m.position == nil {
		return nil
	}
	item := m.position
	m.rememberSelection()

	args := git.DiffArgs(item.Category, item.Path)
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, shellQuote(arg))
	}
	cmdStr := fmt.Sprintf("git %s | %s", strings.Join(quoted, " "), m.pagerCommand())
	// #nosec G204 -- pager comes from config or environment, path from git status
	c := m.commandRunner(m.ctx, "bash", "-c", cmdStr)
	c.Dir = m.git.RepoDir()
	return m.execProcess(c, externalDone)
}

// pagerCommand resolves the diff pager: GIT_PAGER, then the configured
// pager, then PAGER, then less.
func (m *Model) pagerCommand() string {
	if pager := strings.TrimSpace(os.Getenv("GIT_PAGER")); pager != "" {
		return pager
	}
	if pager := strings.TrimSpace(m.config.Pager); pager != "" {
		return pager
	}
	if pager := strings.TrimSpace(os.Getenv("PAGER")); pager != "" {
		return pager
	}
	return "less"
}

// interactiveStage suspends into `git add -p` for the current entry.
// Untracked files are registered with intent-to-add first so they have
// hunks to offer.
func (m *Model) interactiveStage() tea.Cmd {
	if m.position == nil {
		return nil
	}
	item := m.position
	m.rememberSelection()

	cmdStr := fmt.Sprintf("git add -p -- %s", shellQuote(item.Path))
	if item.Category == models.CategoryUntracked {
		cmdStr = fmt.Sprintf("git add -N -- %s && %s", shellQuote(item.Path), cmdStr)
	}
	// #nosec G204 -- path comes from git status
	c := m.commandRunner(m.ctx, "bash", "-c", cmdStr)
	c.Dir = m.git.RepoDir()
	return m.execProcess(c, externalDone)
}

// commit suspends into the commit editor.
func (m *Model) commit(amend bool) tea.Cmd {
	m.rememberSelection()
	args := []string{"commit"}
	if amend {
		args = append(args, "--amend")
	}
	c := m.commandRunner(m.ctx, "git", args...)
	c.Dir = m.git.RepoDir()
	return m.execProcess(c, externalDone)
}

// push runs git push in the foreground so credential prompts still work.
func (m *Model) push(setUpstream bool) tea.Cmd {
	m.rememberSelection()
	c := m.commandRunner(m.ctx, "git", git.PushArgs(setUpstream)...)
	c.Dir = m.git.RepoDir()
	return m.execProcess(c, externalDone)
}

// editSelection opens the current entry in the configured editor.
func (m *Model) editSelection() tea.Cmd {
	if m.position == nil {
		return nil
	}
	item := m.position
	m.rememberSelection()

	editor := m.config.EditorCommand()
	cmdStr := fmt.Sprintf("%s %s", editor, shellQuote(item.Path))
	// #nosec G204 -- editor comes from config or environment, path from git status
	c := m.commandRunner(m.ctx, "bash", "-c", cmdStr)
	c.Dir = m.git.RepoDir()
	return m.execProcess(c, externalDone)
}

func shellQuote(input string) string {
	if input == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(input, "'", "'\"'\"'") + "'"
}
