package app

import (
	"github.com/chmouel/lazystage/internal/models"
)

// statusLoadedMsg delivers the result of a git status refresh.
type statusLoadedMsg struct {
	snapshot *models.StatusSnapshot
	err      error
}

// externalDoneMsg is sent when a suspended external process (pager, editor,
// interactive add, commit) returns control to the TUI.
type externalDoneMsg struct {
	err error
}

// gitChangedMsg is sent by the repository watcher when the git directory
// changed on disk.
type gitChangedMsg struct{}

// clearNotifyMsg expires a transient status bar notification. The sequence
// number guards against clearing a newer notification than the one that
// scheduled it.
type clearNotifyMsg struct {
	seq int
}
