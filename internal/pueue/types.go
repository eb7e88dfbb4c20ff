package pueue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// StatusKind enumerates the lifecycle states of a task.
type StatusKind int

const (
	StatusLocked StatusKind = iota
	StatusStashed
	StatusQueued
	StatusRunning
	StatusPaused
	StatusDone
)

var statusNames = map[StatusKind]string{
	StatusLocked:  "Locked",
	StatusStashed: "Stashed",
	StatusQueued:  "Queued",
	StatusRunning: "Running",
	StatusPaused:  "Paused",
	StatusDone:    "Done",
}

func (k StatusKind) String() string {
	if name, ok := statusNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ResultKind enumerates how a finished task ended.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultFailed
	ResultFailedToSpawn
	ResultKilled
	ResultErrored
	ResultDependencyFailed
)

var resultNames = map[ResultKind]string{
	ResultSuccess:          "Success",
	ResultFailed:           "Failed",
	ResultFailedToSpawn:    "FailedToSpawn",
	ResultKilled:           "Killed",
	ResultErrored:          "Errored",
	ResultDependencyFailed: "DependencyFailed",
}

func (k ResultKind) String() string {
	if name, ok := resultNames[k]; ok {
		return name
	}
	return "Unknown"
}

// TaskResult is the outcome of a Done task. ExitCode is set for ResultFailed,
// SpawnError for ResultFailedToSpawn.
type TaskResult struct {
	Kind       ResultKind
	ExitCode   int
	SpawnError string
}

// TaskStatus mirrors the daemon's tagged status union. Only the timestamps
// that belong to Kind are populated.
type TaskStatus struct {
	Kind StatusKind

	// EnqueueAt is the scheduled enqueue time of a Stashed task.
	EnqueueAt  *time.Time
	EnqueuedAt *time.Time
	Start      *time.Time
	End        *time.Time

	// Result is meaningful only when Kind is StatusDone.
	Result TaskResult
}

func (s TaskStatus) String() string {
	return s.Kind.String()
}

// Task is a single queue entry as reported by the daemon.
type Task struct {
	ID              int               `json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	OriginalCommand string            `json:"original_command"`
	Command         string            `json:"command"`
	Path            string            `json:"path"`
	Envs            map[string]string `json:"envs"`
	Group           string            `json:"group"`
	Dependencies    []int             `json:"dependencies"`
	Priority        int               `json:"priority"`
	Label           *string           `json:"label"`
	Status          TaskStatus        `json:"status"`
}

// StartAndEnd returns the start and end timestamps carried by the status.
func (t Task) StartAndEnd() (start, end *time.Time) {
	switch t.Status.Kind {
	case StatusRunning, StatusPaused:
		return t.Status.Start, nil
	case StatusDone:
		return t.Status.Start, t.Status.End
	default:
		return nil, nil
	}
}

// Group describes a daemon task group.
type Group struct {
	Status        string `json:"status"`
	ParallelTasks int    `json:"parallel_tasks"`
}

// State is a full snapshot of the daemon. Tasks are ordered by ID.
type State struct {
	Tasks  []Task
	Groups map[string]Group
}

// StatusResponse mirrors the payload returned by /api/status.
type StatusResponse struct {
	Tasks  map[string]Task  `json:"tasks"`
	Groups map[string]Group `json:"groups"`
}

// State converts the keyed wire payload into an ordered snapshot.
func (r StatusResponse) State() (State, error) {
	tasks := make([]Task, 0, len(r.Tasks))
	for key, task := range r.Tasks {
		id, err := strconv.Atoi(key)
		if err != nil {
			return State{}, fmt.Errorf("task key %q is not an id", key)
		}
		if id != task.ID {
			return State{}, fmt.Errorf("task key %d does not match id %d", id, task.ID)
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return State{Tasks: tasks, Groups: r.Groups}, nil
}

// statusTimes is the body of every struct-shaped status variant.
type statusTimes struct {
	EnqueueAt  *time.Time      `json:"enqueue_at,omitempty"`
	EnqueuedAt *time.Time      `json:"enqueued_at,omitempty"`
	Start      *time.Time      `json:"start,omitempty"`
	End        *time.Time      `json:"end,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// UnmarshalJSON accepts both the bare tag ("Queued") and the single-key object
// form ({"Done": {...}}).
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	tag, body, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	kind, ok := lookupName(statusNames, tag)
	if !ok {
		return fmt.Errorf("decode status: unknown variant %q", tag)
	}

	out := TaskStatus{Kind: kind}
	if len(body) > 0 {
		var times statusTimes
		if err := json.Unmarshal(body, &times); err != nil {
			return fmt.Errorf("decode %s status: %w", tag, err)
		}
		out.EnqueueAt = times.EnqueueAt
		out.EnqueuedAt = times.EnqueuedAt
		out.Start = times.Start
		out.End = times.End
		if kind == StatusDone {
			if len(times.Result) == 0 {
				return fmt.Errorf("decode Done status: missing result")
			}
			if err := json.Unmarshal(times.Result, &out.Result); err != nil {
				return err
			}
		}
	} else if kind == StatusDone {
		return fmt.Errorf("decode Done status: missing result")
	}
	*s = out
	return nil
}

// MarshalJSON writes the object form.
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	body := statusTimes{
		EnqueueAt:  s.EnqueueAt,
		EnqueuedAt: s.EnqueuedAt,
		Start:      s.Start,
		End:        s.End,
	}
	if s.Kind == StatusDone {
		raw, err := json.Marshal(s.Result)
		if err != nil {
			return nil, err
		}
		body.Result = raw
	}
	return json.Marshal(map[string]statusTimes{s.Kind.String(): body})
}

// UnmarshalJSON decodes "Success", {"Failed": 3}, {"FailedToSpawn": "..."} etc.
func (r *TaskResult) UnmarshalJSON(data []byte) error {
	tag, body, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	kind, ok := lookupName(resultNames, tag)
	if !ok {
		return fmt.Errorf("decode result: unknown variant %q", tag)
	}

	out := TaskResult{Kind: kind}
	switch kind {
	case ResultFailed:
		if err := json.Unmarshal(body, &out.ExitCode); err != nil {
			return fmt.Errorf("decode Failed exit code: %w", err)
		}
	case ResultFailedToSpawn:
		if len(body) > 0 {
			if err := json.Unmarshal(body, &out.SpawnError); err != nil {
				return fmt.Errorf("decode FailedToSpawn message: %w", err)
			}
		}
	}
	*r = out
	return nil
}

// MarshalJSON writes the daemon's representation of the result.
func (r TaskResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResultFailed:
		return json.Marshal(map[string]int{r.Kind.String(): r.ExitCode})
	case ResultFailedToSpawn:
		return json.Marshal(map[string]string{r.Kind.String(): r.SpawnError})
	default:
		return json.Marshal(r.Kind.String())
	}
}

// splitTagged handles serde's externally tagged enum encoding.
func splitTagged(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty value")
	}
	if data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return "", nil, err
		}
		return tag, nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("expected exactly one variant, got %d", len(obj))
	}
	for tag, body := range obj {
		if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			body = nil
		}
		return tag, body, nil
	}
	return "", nil, nil
}

func lookupName[K comparable](names map[K]string, tag string) (K, bool) {
	for k, name := range names {
		if name == tag {
			return k, true
		}
	}
	var zero K
	return zero, false
}
