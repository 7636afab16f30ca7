package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/chmouel/lazystage/internal/models"
)

// renderRow is one visible line of the list, resolved from the filtered
// view by buildRenderPlan.
type renderRow struct {
	row      models.Row
	selected bool
	relative int // distance in item rows from the selection, -1 for headers
}

// buildRenderPlan picks the window of rows to draw and computes relative
// line numbers. The window is centered on the selection when the view is
// taller than the screen and clamped at both ends, so the list never shows
// blank space while rows are hidden. Relative numbers count item rows only;
// headers get none.
func buildRenderPlan(view []models.Row, selected, visible int) []renderRow {
	if visible <= 0 || len(view) == 0 {
		return nil
	}
	start := 0
	if len(view) > visible {
		start = selected - visible/2
		if start > len(view)-visible {
			start = len(view) - visible
		}
		if start < 0 {
			start = 0
		}
	}
	end := start + visible
	if end > len(view) {
		end = len(view)
	}

	plan := make([]renderRow, 0, end-start)
	selectedOrdinal := -1
	ordinal := 0
	for i := start; i < end; i++ {
		rr := renderRow{row: view[i], relative: -1}
		if _, ok := view[i].(*models.Item); ok {
			rr.relative = ordinal
			if i == selected {
				rr.selected = true
				selectedOrdinal = ordinal
			}
			ordinal++
		}
		plan = append(plan, rr)
	}
	if selectedOrdinal >= 0 {
		for i := range plan {
			if plan[i].relative >= 0 {
				if plan[i].relative > selectedOrdinal {
					plan[i].relative -= selectedOrdinal
				} else {
					plan[i].relative = selectedOrdinal - plan[i].relative
				}
			}
		}
	}
	return plan
}

func (m *Model) visibleLines() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

// View renders the whole screen: the list window plus a single bottom bar.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.mode == modeHelp {
		return m.helpView()
	}

	plan := buildRenderPlan(m.filtered, m.positionIndex(), m.visibleLines())

	// Column width follows the longest path visible in this frame,
	// measured in terminal cells so non-ASCII paths line up.
	pathWidth := 0
	for _, rr := range plan {
		if item, ok := rr.row.(*models.Item); ok {
			if w := lipgloss.Width(item.Path); w > pathWidth {
				pathWidth = w
			}
		}
	}

	lines := make([]string, 0, m.visibleLines()+1)
	for _, rr := range plan {
		lines = append(lines, m.renderRow(rr, pathWidth))
	}
	for len(lines) < m.visibleLines() {
		lines = append(lines, "")
	}
	lines = append(lines, m.bottomBar())
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(rr renderRow, pathWidth int) string {
	switch row := rr.row.(type) {
	case *models.Header:
		style := lipgloss.NewStyle().Foreground(m.theme.HeaderFg).Bold(true)
		return style.Render(row.Category.Title())
	case *models.Item:
		return m.renderItem(row, rr, pathWidth)
	}
	return ""
}

func (m *Model) renderItem(item *models.Item, rr renderRow, pathWidth int) string {
	linum := "   "
	if rr.relative >= 0 {
		linum = fmt.Sprintf("%3d", rr.relative)
	}
	mark := " "
	if item.Marked {
		mark = "*"
	}

	icon := ""
	if i := m.fileIcon(item.Path); i != "" {
		icon = i + " "
	}
	path := item.Path
	if pad := pathWidth - lipgloss.Width(path); pad > 0 {
		path += strings.Repeat(" ", pad)
	}
	line := fmt.Sprintf("%s %s %s%s  %s", linum, mark, icon, path, item.Status)
	width := uint(m.width) // #nosec G115 -- terminal widths are small positives
	line = truncate.StringWithTail(line, width, "…")

	style := lipgloss.NewStyle().Foreground(m.categoryColor(item.Category))
	switch {
	case rr.selected:
		style = lipgloss.NewStyle().
			Background(m.theme.Accent).
			Foreground(m.theme.AccentFg).
			Width(m.width)
	case item.Marked:
		style = lipgloss.NewStyle().
			Background(m.theme.VisualBg).
			Foreground(m.theme.VisualFg).
			Width(m.width)
	}
	return style.Render(line)
}

func (m *Model) categoryColor(category models.Category) lipgloss.Color {
	switch category {
	case models.CategoryIndex:
		return m.theme.IndexFg
	case models.CategoryWorkspace:
		return m.theme.WorkFg
	default:
		return m.theme.NewFg
	}
}

// bottomBar renders whichever bar the current mode needs: the confirm
// prompt, the command or search input, a pending notification, or the
// default key hints.
func (m *Model) bottomBar() string {
	switch m.mode {
	case modeConfirm:
		style := lipgloss.NewStyle().Foreground(m.theme.WorkFg).Bold(true)
		return truncate.String(style.Render(m.confirmPrompt), uint(m.width)) // #nosec G115
	case modeCommand:
		return truncate.String(m.commandInput.View(), uint(m.width)) // #nosec G115
	case modeSearch:
		hint := lipgloss.NewStyle().Foreground(m.theme.MutedFg).
			Render("  [enter] keep  [esc] cancel")
		return truncate.String(m.searchInput.View()+hint, uint(m.width)) // #nosec G115
	}

	if m.notifyText != "" {
		color := m.theme.TextFg
		switch m.notifySeverity {
		case "error":
			color = m.theme.ErrorFg
		case "success":
			color = m.theme.SuccessFg
		}
		style := lipgloss.NewStyle().Foreground(color)
		return truncate.StringWithTail(style.Render(m.notifyText), uint(m.width), "…") // #nosec G115
	}

	var parts []string
	if m.searchTerm != "" {
		parts = append(parts, "/"+m.searchTerm)
	}
	if pending := m.keys.pending(); pending != "" {
		parts = append(parts, pending)
	}
	parts = append(parts, m.actionHints())
	if m.visualMark {
		parts = append(parts, "VISUAL")
	}
	parts = append(parts, "[h]elp [q]uit")

	style := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	return truncate.String(style.Render(strings.Join(parts, "  ")), uint(m.width)) // #nosec G115
}

// actionHints names the mutating keys for the selected entry's category.
// The same keys act differently per section, so the labels follow the
// selection around.
func (m *Model) actionHints() string {
	if m.position == nil {
		return ""
	}
	switch m.position.Category {
	case models.CategoryIndex:
		return "[u]nstage [d]iff [c]ommit"
	case models.CategoryWorkspace:
		return "[s]tage [u]ntrack [x] discard [d]iff"
	default:
		return "[s]tage [u/x] delete [d]iff"
	}
}

var helpEntries = [][2]string{
	{"j / k", "move down / up (repeat with a count prefix)"},
	{"ctrl+d / ctrl+u", "jump ten rows down / up"},
	{"g / G", "first / last entry"},
	{"! / @ / #", "jump to index / workspace / untracked section"},
	{"s / u", "stage / unstage entry (deletes untracked files)"},
	{"S / U", "stage / unstage all marked entries"},
	{"x", "discard changes or delete untracked file"},
	{"i", "interactively stage hunks (git add -p)"},
	{"d", "show diff in the pager"},
	{"e", "open entry in the editor"},
	{"m / M", "mark entry / toggle whole section"},
	{"V", "visual mark mode"},
	{"c / C", "commit / amend last commit"},
	{"P / ctrl+p", "push / push and set upstream"},
	{"/", "filter entries by substring"},
	{":", "run a shell command in the repository"},
	{"R", "reload status"},
	{"esc", "clear the filter, then cancel visual marks"},
	{"q", "quit"},
}

func (m *Model) helpView() string {
	title := lipgloss.NewStyle().Foreground(m.theme.HeaderFg).Bold(true).
		Render("lazystage keys")
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	lines := []string{title, ""}
	for _, entry := range helpEntries {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			keyStyle.Render(fmt.Sprintf("%-16s", entry[0])),
			descStyle.Render(entry[1])))
	}
	lines = append(lines, "", descStyle.Render("press any key to go back"))

	for len(lines) < m.height {
		lines = append(lines, "")
	}
	if len(lines) > m.height && m.height > 0 {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}
