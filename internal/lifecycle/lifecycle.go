// Package lifecycle holds the task state machine.
//
// A task is Pending, Active, Completed or Archived (see profile.Task.State).
// Every function here is pure: it takes the current task list and returns a
// new one, leaving the input untouched, so the engine can commit the result
// and its save in one step or discard it on error.
//
// The central rule is that at most one non-archived task is in progress.
// Start refuses to break it; Switch, Complete and Expire preserve it by
// construction.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yotip/homestead/internal/catalog"
	"github.com/yotip/homestead/internal/profile"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskActive        = errors.New("another task is already in progress")
	ErrInvalidTransition = errors.New("invalid task transition")
)

// ValidationError reports a rejected task field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid task %s: %s", e.Field, e.Reason)
}

// Find returns the index of the task with id.
func Find(tasks []profile.Task, id int64) (int, bool) {
	for i, t := range tasks {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Active returns the task currently in progress, if any.
func Active(tasks []profile.Task) (profile.Task, bool) {
	for _, t := range tasks {
		if t.IsActive() {
			return t, true
		}
	}
	return profile.Task{}, false
}

// Visible returns the non-archived tasks in list order.
func Visible(tasks []profile.Task) []profile.Task {
	out := make([]profile.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Archived {
			out = append(out, t)
		}
	}
	return out
}

// OpenCount counts tasks that are neither completed nor archived.
func OpenCount(tasks []profile.Task) int {
	n := 0
	for _, t := range tasks {
		if t.IsOpen() {
			n++
		}
	}
	return n
}

// Start moves a Pending task to Active. It fails with ErrTaskActive when any
// other task is already in progress.
func Start(tasks []profile.Task, id int64) ([]profile.Task, error) {
	idx, ok := Find(tasks, id)
	if !ok {
		return nil, fmt.Errorf("start %d: %w", id, ErrTaskNotFound)
	}
	if !tasks[idx].IsPending() {
		return nil, fmt.Errorf("start %d from %s: %w", id, tasks[idx].State(), ErrInvalidTransition)
	}
	if active, ok := Active(tasks); ok {
		return nil, fmt.Errorf("start %d while %q is active: %w", id, active.Name, ErrTaskActive)
	}
	out := clone(tasks)
	out[idx].InProgress = true
	return out, nil
}

// Switch makes id the active task, returning any previously active task to
// Pending in the same result.
func Switch(tasks []profile.Task, id int64) ([]profile.Task, error) {
	idx, ok := Find(tasks, id)
	if !ok {
		return nil, fmt.Errorf("switch to %d: %w", id, ErrTaskNotFound)
	}
	if tasks[idx].Completed || tasks[idx].Archived {
		return nil, fmt.Errorf("switch to %d from %s: %w", id, tasks[idx].State(), ErrInvalidTransition)
	}
	out := clone(tasks)
	for i := range out {
		if i == idx {
			out[i].InProgress = true
			continue
		}
		if out[i].InProgress {
			out[i].InProgress = false
		}
	}
	return out, nil
}

// Complete moves an Active task to Completed, attaching proof. It returns the
// reward the caller should credit.
func Complete(tasks []profile.Task, id int64, proof string, now time.Time) ([]profile.Task, int, error) {
	idx, ok := Find(tasks, id)
	if !ok {
		return nil, 0, fmt.Errorf("complete %d: %w", id, ErrTaskNotFound)
	}
	if !tasks[idx].IsActive() {
		return nil, 0, fmt.Errorf("complete %d from %s: %w", id, tasks[idx].State(), ErrInvalidTransition)
	}
	out := clone(tasks)
	done := now
	out[idx].Completed = true
	out[idx].InProgress = false
	out[idx].ProofImage = proof
	out[idx].CompletedAt = &done
	return out, out[idx].Reward, nil
}

// Expire archives every open task whose deadline is before now. The penalty
// is the reward of the expired task that was in progress, or zero.
func Expire(tasks []profile.Task, now time.Time) (out []profile.Task, expired []profile.Task, penalty int) {
	out = clone(tasks)
	for i := range out {
		t := out[i]
		if t.Deadline == nil || !t.IsOpen() || !t.Deadline.Before(now) {
			continue
		}
		if t.IsActive() {
			penalty += t.Reward
		}
		expired = append(expired, t)
		out[i].Archived = true
		out[i].InProgress = false
	}
	return out, expired, penalty
}

// ArchiveAll archives every open task and clears its progress flag.
// Completed tasks are left as they are. Calling it twice is a no-op the
// second time.
func ArchiveAll(tasks []profile.Task) []profile.Task {
	out := clone(tasks)
	for i := range out {
		if out[i].IsOpen() {
			out[i].Archived = true
			out[i].InProgress = false
		}
	}
	return out
}

// Reroll replaces the name and reward of an open task with a template from
// pool. pick returns an index in [0, n). The state flags are unchanged.
func Reroll(tasks []profile.Task, id int64, pool []catalog.TaskTemplate, pick func(n int) int) ([]profile.Task, error) {
	idx, ok := Find(tasks, id)
	if !ok {
		return nil, fmt.Errorf("reroll %d: %w", id, ErrTaskNotFound)
	}
	if !tasks[idx].IsOpen() {
		return nil, fmt.Errorf("reroll %d from %s: %w", id, tasks[idx].State(), ErrInvalidTransition)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("reroll %d: template pool is empty", id)
	}

	candidates := make([]catalog.TaskTemplate, 0, len(pool))
	for _, tt := range pool {
		if tt.Name != tasks[idx].Name {
			candidates = append(candidates, tt)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}
	choice := candidates[pick(len(candidates))]

	out := clone(tasks)
	out[idx].Name = choice.Name
	out[idx].Reward = choice.Reward
	return out, nil
}

// New validates input and builds a Pending task with an id unique within
// existing.
func New(name string, reward int, deadline *time.Time, existing []profile.Task, now time.Time) (profile.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return profile.Task{}, ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if reward <= 0 {
		return profile.Task{}, ValidationError{Field: "reward", Reason: "must be greater than zero"}
	}
	t := profile.Task{ID: nextID(existing, now), Name: name, Reward: reward}
	if deadline != nil {
		if !deadline.After(now) {
			return profile.Task{}, ValidationError{Field: "deadline", Reason: "must be in the future"}
		}
		d := *deadline
		t.Deadline = &d
	}
	return t, nil
}

// Seed builds the default task list for a new profile.
func Seed(templates []catalog.TaskTemplate, now time.Time) []profile.Task {
	out := make([]profile.Task, 0, len(templates))
	for _, tt := range templates {
		out = append(out, profile.Task{ID: nextID(out, now), Name: tt.Name, Reward: tt.Reward})
	}
	return out
}

func nextID(existing []profile.Task, now time.Time) int64 {
	id := now.UnixMilli()
	for _, t := range existing {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

func clone(tasks []profile.Task) []profile.Task {
	return profile.Profile{Tasks: tasks}.Clone().Tasks
}
