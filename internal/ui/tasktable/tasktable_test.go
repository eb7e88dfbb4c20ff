package tasktable

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/five82/pueuetop/internal/pueue"
)

func testStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("0")),
		Neutral:   lipgloss.NewStyle(),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Scrollbar: lipgloss.NewStyle(),
	}
}

func ptr[T any](v T) *T { return &v }

func task(id int, status pueue.TaskStatus) pueue.Task {
	return pueue.Task{ID: id, Command: "echo " + strings.Repeat("x", id), Path: "/tmp", Status: status}
}

func done(kind pueue.ResultKind) pueue.TaskStatus {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)
	return pueue.TaskStatus{Kind: pueue.StatusDone, Start: &start, End: &end, Result: pueue.TaskResult{Kind: kind}}
}

func threeTasks() []pueue.Task {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return []pueue.Task{
		task(1, pueue.TaskStatus{Kind: pueue.StatusQueued}),
		task(2, pueue.TaskStatus{Kind: pueue.StatusRunning, Start: &start}),
		task(3, done(pueue.ResultSuccess)),
	}
}

func titles(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title()
	}
	return out
}

func TestColumnsBaseSet(t *testing.T) {
	want := []string{"Id", "Status", "Command", "Path", "Start", "End"}
	require.Equal(t, want, titles(Columns(nil)))
	require.Equal(t, want, titles(Columns(threeTasks())))
}

func TestColumnsOptionalInOrder(t *testing.T) {
	scheduled := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []pueue.Task{
		{ID: 0, Label: ptr("nightly"), Status: pueue.TaskStatus{Kind: pueue.StatusQueued}},
		{ID: 1, Dependencies: []int{0}, Status: pueue.TaskStatus{Kind: pueue.StatusQueued}},
		{ID: 2, Priority: -1, Status: pueue.TaskStatus{Kind: pueue.StatusQueued}},
		{ID: 3, Status: pueue.TaskStatus{Kind: pueue.StatusStashed, EnqueueAt: &scheduled}},
	}
	require.Equal(t,
		[]string{"Id", "Status", "Prio", "Enqueue At", "Deps", "Label", "Command", "Path", "Start", "End"},
		titles(Columns(tasks)))
}

func TestColumnsStashedWithoutScheduleHasNoEnqueueAt(t *testing.T) {
	tasks := []pueue.Task{{Status: pueue.TaskStatus{Kind: pueue.StatusStashed}}}
	require.NotContains(t, Columns(tasks), ColEnqueueAt)
}

func TestColumnsFollowContent(t *testing.T) {
	tasks := threeTasks()
	require.NotContains(t, Columns(tasks), ColPriority)

	withPrio := append(append([]pueue.Task(nil), tasks...), pueue.Task{ID: 4, Priority: 5})
	require.Contains(t, Columns(withPrio), ColPriority)

	require.NotContains(t, Columns(withPrio[:3]), ColPriority)
}

func TestStatusText(t *testing.T) {
	cases := map[string]pueue.TaskStatus{
		"Locked":            {Kind: pueue.StatusLocked},
		"Stashed":           {Kind: pueue.StatusStashed},
		"Queued":            {Kind: pueue.StatusQueued},
		"Running":           {Kind: pueue.StatusRunning},
		"Paused":            {Kind: pueue.StatusPaused},
		"Success":           done(pueue.ResultSuccess),
		"Failed (3)":        {Kind: pueue.StatusDone, Result: pueue.TaskResult{Kind: pueue.ResultFailed, ExitCode: 3}},
		"Failed to spawn":   done(pueue.ResultFailedToSpawn),
		"Killed":            done(pueue.ResultKilled),
		"Errored":           done(pueue.ResultErrored),
		"Dependency failed": done(pueue.ResultDependencyFailed),
	}
	for want, status := range cases {
		require.Equal(t, want, StatusText(status))
	}
}

func TestStatusStyle(t *testing.T) {
	styles := testStyles()
	cases := []struct {
		status pueue.TaskStatus
		want   lipgloss.Style
	}{
		{pueue.TaskStatus{Kind: pueue.StatusLocked}, styles.Neutral},
		{pueue.TaskStatus{Kind: pueue.StatusPaused}, styles.Neutral},
		{pueue.TaskStatus{Kind: pueue.StatusStashed}, styles.Warning},
		{pueue.TaskStatus{Kind: pueue.StatusQueued}, styles.Warning},
		{pueue.TaskStatus{Kind: pueue.StatusRunning}, styles.Success},
		{done(pueue.ResultSuccess), styles.Success},
		{done(pueue.ResultKilled), styles.Danger},
		{done(pueue.ResultFailed), styles.Danger},
	}
	for _, tc := range cases {
		got := StatusStyle(tc.status, styles)
		require.True(t, got.GetBold(), "%s must be bold", StatusText(tc.status))
		require.Equal(t, tc.want.GetForeground(), got.GetForeground(), StatusText(tc.status))
	}
}

func TestCellText(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	tk := pueue.Task{
		ID:           7,
		Command:      "make\tall\nnow",
		Path:         "/src",
		Dependencies: []int{1, 2, 3},
		Priority:     2,
		Status:       pueue.TaskStatus{Kind: pueue.StatusRunning, Start: &start},
	}
	require.Equal(t, "7", CellText(ColID, tk))
	require.Equal(t, "1, 2, 3", CellText(ColDeps, tk))
	require.Equal(t, "2", CellText(ColPriority, tk))
	require.Equal(t, "", CellText(ColLabel, tk))
	require.Equal(t, "make all now", CellText(ColCommand, tk))
	require.Equal(t, "2024-05-01 10:00:00", CellText(ColStart, tk))
	require.Equal(t, "", CellText(ColEnd, tk), "absent timestamps render empty")
	require.Equal(t, "", CellText(ColEnqueueAt, tk))
}

func TestWidths(t *testing.T) {
	tasks := []pueue.Task{
		{ID: 123, Status: pueue.TaskStatus{Kind: pueue.StatusRunning}},
	}
	cols := Columns(tasks)
	// Fixed part: 3 (Id) + 7 (Running) + 19 + 19 + 5 gaps of 2.
	require.Equal(t, []int{3, 7, 21, 21, 19, 19}, Widths(cols, tasks, 100))
	require.Equal(t, []int{3, 7, 22, 21, 19, 19}, Widths(cols, tasks, 101))
	require.Equal(t, []int{3, 7, 8, 8, 19, 19}, Widths(cols, tasks, 60))
	require.Equal(t, []int{3, 7, 8, 8, 19, 19}, Widths(cols, tasks, 0))
}

func TestWidthsUseHeaderWhenCellsAreShort(t *testing.T) {
	tasks := []pueue.Task{{ID: 1, Label: ptr("a"), Status: pueue.TaskStatus{Kind: pueue.StatusPaused}}}
	cols := Columns(tasks)
	widths := Widths(cols, tasks, 200)
	require.Equal(t, 2, widths[0])
	require.Equal(t, 6, widths[1])
	require.Equal(t, ColLabel, cols[2])
	require.Equal(t, 5, widths[2])
}

func TestRenderThreeTaskScenario(t *testing.T) {
	st := NewState()
	out := Render(threeTasks(), 120, 10, &st, testStyles())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	require.Equal(t, []string{"Id", "Status", "Command", "Path", "Start", "End"}, strings.Fields(ansi.Strip(lines[0])))
	require.Contains(t, ansi.Strip(lines[3]), "Success")
	require.NotContains(t, out, thumbSymbol)
	require.NotContains(t, out, trackSymbol)
	for _, line := range lines {
		require.LessOrEqual(t, ansi.StringWidth(line), 120)
	}
}

func TestRenderEmptyList(t *testing.T) {
	st := NewState()
	out := Render(nil, 80, 5, &st, testStyles())
	require.Equal(t, 1, strings.Count(out, "\n")+1, "header only")
	require.NotContains(t, out, trackSymbol)
	require.Equal(t, 0, st.Scroll.ContentLength)
}

func TestRenderDegenerateArea(t *testing.T) {
	st := NewState()
	require.Equal(t, "", Render(threeTasks(), 0, 10, &st, testStyles()))
	require.Equal(t, "", Render(threeTasks(), 80, 0, &st, testStyles()))
}

func TestRenderScrollbarThreshold(t *testing.T) {
	tasks := threeTasks()

	st := NewState()
	out := Render(tasks, 100, 4, &st, testStyles())
	require.NotContains(t, out, trackSymbol, "height == rows + header needs no scrollbar")
	require.NotContains(t, out, thumbSymbol)

	st = NewState()
	out = Render(tasks, 100, 3, &st, testStyles())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasSuffix(lines[0], "  "), "header row has a blank gutter")
	for _, line := range lines[1:] {
		plain := ansi.Strip(line)
		require.True(t, strings.HasSuffix(plain, trackSymbol) || strings.HasSuffix(plain, thumbSymbol), plain)
		require.Equal(t, 100, ansi.StringWidth(line))
	}
}

func TestRenderKeepsSelectionVisible(t *testing.T) {
	var tasks []pueue.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, task(i, pueue.TaskStatus{Kind: pueue.StatusQueued}))
	}

	st := State{Selected: 8, Scroll: ScrollState{Position: 8}}
	out := Render(tasks, 100, 4, &st, testStyles())
	require.Equal(t, 6, st.Offset)
	lines := strings.Split(out, "\n")
	require.True(t, strings.HasPrefix(ansi.Strip(lines[3]), "8 "))

	st.Selected, st.Scroll.Position = 0, 0
	Render(tasks, 100, 4, &st, testStyles())
	require.Equal(t, 0, st.Offset)
}

func TestRenderTruncatesLongCells(t *testing.T) {
	tk := task(1, pueue.TaskStatus{Kind: pueue.StatusQueued})
	tk.Command = strings.Repeat("c", 200)
	st := NewState()
	out := Render([]pueue.Task{tk}, 80, 2, &st, testStyles())
	row := ansi.Strip(strings.Split(out, "\n")[1])
	require.Contains(t, row, ellipsis)
	require.LessOrEqual(t, ansi.StringWidth(row), 80)
}

func TestThumbGeometry(t *testing.T) {
	cases := []struct {
		track, content, pos int
		start, length       int
	}{
		{4, 8, 0, 0, 1},
		{4, 8, 7, 3, 1},
		{4, 8, 100, 3, 1},
		{10, 11, 0, 0, 5},
		{10, 11, 10, 5, 5},
		{3, 0, 0, 0, 0},
	}
	for _, tc := range cases {
		start, length := thumb(tc.track, ScrollState{ContentLength: tc.content, Position: tc.pos})
		require.Equal(t, tc.start, start, "%+v", tc)
		require.Equal(t, tc.length, length, "%+v", tc)
	}
}

func TestScrollbarSymbols(t *testing.T) {
	bar := scrollbar(4, ScrollState{ContentLength: 8, Position: 0})
	require.Equal(t, []string{thumbSymbol, trackSymbol, trackSymbol, trackSymbol}, bar)
	require.Nil(t, scrollbar(0, ScrollState{ContentLength: 8}))
}
