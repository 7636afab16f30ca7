package app

import (
	"strconv"
)

type keyAction int

const (
	actionNone keyAction = iota
	actionQuit
	actionHelp
	actionSearch
	actionCommand
	actionEscape
	actionMoveDown
	actionMoveUp
	actionPageDown
	actionPageUp
	actionTop
	actionBottom
	actionJumpIndex
	actionJumpWorkspace
	actionJumpUntracked
	actionStage
	actionUnstage
	actionBulkStage
	actionBulkUnstage
	actionCheckout
	actionMark
	actionMarkSection
	actionVisual
	actionDiff
	actionInteractive
	actionCommit
	actionAmend
	actionPush
	actionPushUpstream
	actionEdit
	actionReload
)

// actionForKey maps a normal-mode key to its action. Unknown keys map to
// actionNone.
func actionForKey(key string) keyAction {
	switch key {
	case "q", "ctrl+c":
		return actionQuit
	case "h":
		return actionHelp
	case "/":
		return actionSearch
	case ":":
		return actionCommand
	case "esc":
		return actionEscape
	case "j", "down":
		return actionMoveDown
	case "k", "up":
		return actionMoveUp
	case "ctrl+d":
		return actionPageDown
	case "ctrl+u":
		return actionPageUp
	case "g":
		return actionTop
	case "G":
		return actionBottom
	case "!":
		return actionJumpIndex
	case "@":
		return actionJumpWorkspace
	case "#":
		return actionJumpUntracked
	case "s":
		return actionStage
	case "u":
		return actionUnstage
	case "S":
		return actionBulkStage
	case "U":
		return actionBulkUnstage
	case "x":
		return actionCheckout
	case "m":
		return actionMark
	case "M":
		return actionMarkSection
	case "V":
		return actionVisual
	case "d":
		return actionDiff
	case "i":
		return actionInteractive
	case "c":
		return actionCommit
	case "C":
		return actionAmend
	case "P":
		return actionPush
	case "ctrl+p":
		return actionPushUpstream
	case "e":
		return actionEdit
	case "R":
		return actionReload
	}
	return actionNone
}

// Numeric prefixes longer than this are ignored rather than grown further.
const maxCountDigits = 7

// keyHandler accumulates a vi style numeric prefix for normal mode keys.
type keyHandler struct {
	buffer string
}

// consumeDigit reports whether key was a digit absorbed into the prefix
// buffer.
func (h *keyHandler) consumeDigit(key string) bool {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return false
	}
	if len(h.buffer) < maxCountDigits {
		h.buffer += key
	}
	return true
}

// takeCount returns the accumulated repeat count and resets the buffer. An
// empty buffer yields 1.
func (h *keyHandler) takeCount() int {
	defer h.reset()
	if h.buffer == "" {
		return 1
	}
	count, err := strconv.Atoi(h.buffer)
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// pending returns the raw prefix buffer for display in the status bar.
func (h *keyHandler) pending() string {
	return h.buffer
}

func (h *keyHandler) reset() {
	h.buffer = ""
}
