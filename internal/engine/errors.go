package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotLoaded      = errors.New("profile is still loading")
	ErrUnknownItem    = errors.New("unknown store item")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidTheme   = errors.New("theme must be a palette name or a #rgb/#rrggbb color")
	ErrUsernameTaken  = errors.New("username is already taken")
)

// CooldownError is returned by CreateTask while the task-creation cooldown runs.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("task limit reached, try again in %s", e.Remaining.Round(time.Second))
}
