// Package tasktable renders a task list as a terminal table whose columns
// adapt to the data: optional columns appear only when some task needs them,
// narrow columns shrink to their content, and the command and path columns
// share whatever width is left.
package tasktable

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/five82/pueuetop/internal/pueue"
)

// TimeFormat is the timestamp layout used in every time column.
const TimeFormat = "2006-01-02 15:04:05"

const (
	columnSpacing = 2
	minFlexWidth  = 8
)

// Column identifies one table column.
type Column int

const (
	ColID Column = iota
	ColStatus
	ColPriority
	ColEnqueueAt
	ColDeps
	ColLabel
	ColCommand
	ColPath
	ColStart
	ColEnd
)

var columnTitles = [...]string{
	ColID:        "Id",
	ColStatus:    "Status",
	ColPriority:  "Prio",
	ColEnqueueAt: "Enqueue At",
	ColDeps:      "Deps",
	ColLabel:     "Label",
	ColCommand:   "Command",
	ColPath:      "Path",
	ColStart:     "Start",
	ColEnd:       "End",
}

// Title is the header text of the column.
func (c Column) Title() string {
	if c < 0 || int(c) >= len(columnTitles) {
		return ""
	}
	return columnTitles[c]
}

// Columns picks the columns for tasks. Id, Status, Command, Path, Start and
// End are always present; the rest only when at least one task has a value.
func Columns(tasks []pueue.Task) []Column {
	var hasPrio, hasEnqueueAt, hasDeps, hasLabel bool
	for _, t := range tasks {
		hasPrio = hasPrio || t.Priority != 0
		hasEnqueueAt = hasEnqueueAt || scheduledAt(t) != ""
		hasDeps = hasDeps || len(t.Dependencies) > 0
		hasLabel = hasLabel || t.Label != nil
	}

	cols := []Column{ColID, ColStatus}
	if hasPrio {
		cols = append(cols, ColPriority)
	}
	if hasEnqueueAt {
		cols = append(cols, ColEnqueueAt)
	}
	if hasDeps {
		cols = append(cols, ColDeps)
	}
	if hasLabel {
		cols = append(cols, ColLabel)
	}
	return append(cols, ColCommand, ColPath, ColStart, ColEnd)
}

// CellText is the plain text shown for task in column c.
func CellText(c Column, t pueue.Task) string {
	switch c {
	case ColID:
		return strconv.Itoa(t.ID)
	case ColStatus:
		return StatusText(t.Status)
	case ColPriority:
		return strconv.Itoa(t.Priority)
	case ColEnqueueAt:
		return scheduledAt(t)
	case ColDeps:
		return joinIDs(t.Dependencies)
	case ColLabel:
		if t.Label == nil {
			return ""
		}
		return oneLine(*t.Label)
	case ColCommand:
		return oneLine(t.Command)
	case ColPath:
		return oneLine(t.Path)
	case ColStart:
		start, _ := t.StartAndEnd()
		return formatTime(start)
	case ColEnd:
		_, end := t.StartAndEnd()
		return formatTime(end)
	default:
		return ""
	}
}

// StatusText is the status phrase. Finished tasks show their result.
func StatusText(s pueue.TaskStatus) string {
	if s.Kind != pueue.StatusDone {
		return s.Kind.String()
	}
	switch s.Result.Kind {
	case pueue.ResultSuccess:
		return "Success"
	case pueue.ResultFailed:
		return "Failed (" + strconv.Itoa(s.Result.ExitCode) + ")"
	case pueue.ResultFailedToSpawn:
		return "Failed to spawn"
	case pueue.ResultKilled:
		return "Killed"
	case pueue.ResultErrored:
		return "Errored"
	case pueue.ResultDependencyFailed:
		return "Dependency failed"
	default:
		return s.Result.Kind.String()
	}
}

// Widths assigns a width to each column so that the table fits in total
// cells where possible. Columns that cannot fit are clipped by the caller.
func Widths(cols []Column, tasks []pueue.Task, total int) []int {
	widths := make([]int, len(cols))
	used := columnSpacing * max(len(cols)-1, 0)
	var flex []int

	for i, c := range cols {
		switch c {
		case ColID, ColStatus, ColPriority, ColDeps, ColLabel:
			w := runewidth.StringWidth(c.Title())
			for _, t := range tasks {
				w = max(w, runewidth.StringWidth(CellText(c, t)))
			}
			widths[i] = w
		case ColEnqueueAt, ColStart, ColEnd:
			widths[i] = len(TimeFormat)
		case ColCommand, ColPath:
			flex = append(flex, i)
			continue
		}
		used += widths[i]
	}

	if len(flex) == 0 {
		return widths
	}
	remaining := max(total-used, 0)
	share, extra := remaining/len(flex), remaining%len(flex)
	for n, i := range flex {
		w := share
		if n < extra {
			w++
		}
		widths[i] = max(w, minFlexWidth)
	}
	return widths
}

func scheduledAt(t pueue.Task) string {
	if t.Status.Kind != pueue.StatusStashed || t.Status.EnqueueAt == nil {
		return ""
	}
	return t.Status.EnqueueAt.Local().Format(TimeFormat)
}

// oneLine replaces control characters so a cell never spans rows.
func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
