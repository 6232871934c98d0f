package profile

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxCoins caps the balance so completed rewards cannot accumulate without bound.
	MaxCoins = 999999

	// DefaultTheme is used when a profile carries no theme.
	DefaultTheme = "indigo"

	minUsernameLen = 3
	maxUsernameLen = 20
)

// ErrInvalidUsername reports a username that fails normalization rules.
var ErrInvalidUsername = errors.New("username must be 3-20 characters of a-z, 0-9 or _")

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Profile is the durable per-user record.
type Profile struct {
	Coins    int                `json:"coins"`
	Objects  []DecorativeObject `json:"objects"`
	Tasks    []Task             `json:"tasks"`
	Username string             `json:"username,omitempty"`
	Theme    string             `json:"theme,omitempty"`
}

// Position places an object on the canvas as percentages of its size.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// DecorativeObject is a purchased item placed on the canvas.
type DecorativeObject struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Cost     int      `json:"cost"`
	Position Position `json:"position"`
}

// Task is a to-do item. Completed, InProgress and Archived are independent
// flags; see package lifecycle for the legal combinations.
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Reward      int        `json:"reward"`
	Completed   bool       `json:"completed"`
	InProgress  bool       `json:"inProgress"`
	Archived    bool       `json:"archived"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ProofImage  string     `json:"proofImage,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// IsActive reports whether the task counts toward the single-active-task limit.
func (t Task) IsActive() bool {
	return t.InProgress && !t.Archived && !t.Completed
}

// IsPending reports whether the task can be started.
func (t Task) IsPending() bool {
	return !t.InProgress && !t.Completed && !t.Archived
}

// IsOpen reports whether the task still shows on the active list.
func (t Task) IsOpen() bool {
	return !t.Completed && !t.Archived
}

// State returns a short label for display and logging.
func (t Task) State() string {
	switch {
	case t.Archived:
		return "archived"
	case t.Completed:
		return "completed"
	case t.InProgress:
		return "active"
	default:
		return "pending"
	}
}

// Fields is a partial update. Nil members are left unchanged by Merge.
type Fields struct {
	Coins    *int                `json:"coins,omitempty"`
	Objects  *[]DecorativeObject `json:"objects,omitempty"`
	Tasks    *[]Task             `json:"tasks,omitempty"`
	Username *string             `json:"username,omitempty"`
	Theme    *string             `json:"theme,omitempty"`
}

// FieldsOf returns a Fields value that sets every member of p.
func FieldsOf(p Profile) Fields {
	c := p.Clone()
	f := Fields{
		Coins:   &c.Coins,
		Objects: &c.Objects,
		Tasks:   &c.Tasks,
	}
	if c.Username != "" {
		f.Username = &c.Username
	}
	if c.Theme != "" {
		f.Theme = &c.Theme
	}
	return f
}

// Merge returns a copy of p with every non-nil member of f applied.
func (p Profile) Merge(f Fields) Profile {
	out := p.Clone()
	if f.Coins != nil {
		out.Coins = *f.Coins
	}
	if f.Objects != nil {
		out.Objects = cloneObjects(*f.Objects)
	}
	if f.Tasks != nil {
		out.Tasks = cloneTasks(*f.Tasks)
	}
	if f.Username != nil {
		out.Username = *f.Username
	}
	if f.Theme != nil {
		out.Theme = *f.Theme
	}
	return out
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	out := p
	out.Objects = cloneObjects(p.Objects)
	out.Tasks = cloneTasks(p.Tasks)
	return out
}

// ClampCoins bounds a balance to [0, MaxCoins].
func ClampCoins(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxCoins {
		return MaxCoins
	}
	return v
}

// ClampPosition bounds both axes to [0, 100].
func ClampPosition(p Position) Position {
	return Position{Top: clampPercent(p.Top), Left: clampPercent(p.Left)}
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NormalizeUsername trims and lower-cases name and validates the result.
func NormalizeUsername(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) < minUsernameLen || len(n) > maxUsernameLen || !usernamePattern.MatchString(n) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidUsername)
	}
	return n, nil
}

// IsHexColor reports whether theme is a custom #rgb or #rrggbb color.
func IsHexColor(theme string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(theme))
}

func cloneObjects(objs []DecorativeObject) []DecorativeObject {
	if objs == nil {
		return nil
	}
	dup := make([]DecorativeObject, len(objs))
	copy(dup, objs)
	return dup
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	dup := make([]Task, len(tasks))
	for i, t := range tasks {
		dup[i] = t
		if t.Deadline != nil {
			d := *t.Deadline
			dup[i].Deadline = &d
		}
		if t.CompletedAt != nil {
			c := *t.CompletedAt
			dup[i].CompletedAt = &c
		}
	}
	return dup
}
