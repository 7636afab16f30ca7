package git

import (
	"strings"

	"github.com/chmouel/lazystage/internal/models"
)

// statusLabel maps a porcelain v2 change letter to the label shown in the
// description column.
func statusLabel(code byte) string {
	switch code {
	case 'A':
		return "new file"
	case 'M':
		return "modified"
	case 'D':
		return "deleted"
	case 'R', 'C':
		return "renamed"
	case 'T':
		return "typechange"
	}
	return ""
}

// ParseStatusV2 parses `git status --porcelain=v2` output into the three
// display groups. Ordinary entries are `1` lines, renames are `2` lines with
// a tab-separated origin path, unmerged entries are `u` lines (treated as
// workspace modifications), and untracked files are `?` lines.
func ParseStatusV2(raw string) *models.StatusSnapshot {
	snapshot := &models.StatusSnapshot{}

	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case '1':
			// 1 XY sub mH mI mW hH hI path
			fields := strings.SplitN(line, " ", 9)
			if len(fields) < 9 {
				continue
			}
			appendEntry(snapshot, fields[1], fields[8])
		case '2':
			// 2 XY sub mH mI mW hH hI Xscore path<TAB>origPath
			fields := strings.SplitN(line, " ", 10)
			if len(fields) < 10 {
				continue
			}
			path := fields[9]
			if tab := strings.IndexByte(path, '\t'); tab >= 0 {
				path = path[:tab]
			}
			appendEntry(snapshot, fields[1], path)
		case 'u':
			// u XY sub m1 m2 m3 mW h1 h2 h3 path
			fields := strings.SplitN(line, " ", 11)
			if len(fields) < 11 {
				continue
			}
			snapshot.Workspace = append(snapshot.Workspace, models.FileStatus{
				Path:   fields[10],
				Status: "modified",
			})
		case '?':
			snapshot.Untracked = append(snapshot.Untracked, strings.TrimPrefix(line, "? "))
		}
	}

	return snapshot
}

func appendEntry(snapshot *models.StatusSnapshot, xy, path string) {
	if len(xy) < 2 {
		return
	}
	if label := statusLabel(xy[0]); label != "" {
		snapshot.Index = append(snapshot.Index, models.FileStatus{Path: path, Status: label})
	}
	if label := statusLabel(xy[1]); label != "" {
		snapshot.Workspace = append(snapshot.Workspace, models.FileStatus{Path: path, Status: label})
	}
}
