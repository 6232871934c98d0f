package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yotip/homestead/internal/profile"
)

// Buy purchases a store item. It returns false, with no state change, when
// the balance does not cover the cost.
func (e *Engine) Buy(kind string) (bool, error) {
	item, ok := e.catalog.Item(kind)
	if !ok {
		return false, fmt.Errorf("%q: %w", kind, ErrUnknownItem)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return false, ErrNotLoaded
	}
	if e.p.Coins < item.Cost {
		return false, nil
	}

	coins := e.p.Coins - item.Cost
	objects := append(append([]profile.DecorativeObject(nil), e.p.Objects...), profile.DecorativeObject{
		ID:       e.newObjectID(),
		Kind:     item.Kind,
		Name:     item.Name,
		Cost:     item.Cost,
		Position: DefaultObjectPosition,
	})
	e.save(profile.Fields{Coins: &coins, Objects: &objects})
	e.log.Info("item bought", "kind", item.Kind, "cost", item.Cost, "coins", coins)
	e.publishLocked("")
	return true, nil
}

func (e *Engine) newObjectID() string {
	return fmt.Sprintf("%d-%s", e.clock.Now().UnixMilli(), uuid.NewString()[:8])
}

// Reposition moves an object in memory only; CommitPositions persists it.
func (e *Engine) Reposition(id string, pos profile.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveLocked(id, func(profile.Position) profile.Position { return pos })
}

// Nudge shifts an object by the given percentage deltas.
func (e *Engine) Nudge(id string, dTop, dLeft float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveLocked(id, func(p profile.Position) profile.Position {
		return profile.Position{Top: p.Top + dTop, Left: p.Left + dLeft}
	})
}

func (e *Engine) moveLocked(id string, fn func(profile.Position) profile.Position) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	idx := e.objectIndexLocked(id)
	if idx < 0 {
		return ErrObjectNotFound
	}
	objects := append([]profile.DecorativeObject(nil), e.p.Objects...)
	objects[idx].Position = profile.ClampPosition(fn(objects[idx].Position))
	e.p.Objects = objects
	e.publishLocked("")
	return nil
}

// CommitPositions saves the current object layout, as at the end of a drag.
func (e *Engine) CommitPositions() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return
	}
	objects := append([]profile.DecorativeObject(nil), e.p.Objects...)
	e.save(profile.Fields{Objects: &objects})
	e.publishLocked("")
}

// Remove deletes an object from the canvas. Its cost is not refunded.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	idx := e.objectIndexLocked(id)
	if idx < 0 {
		return ErrObjectNotFound
	}
	objects := make([]profile.DecorativeObject, 0, len(e.p.Objects)-1)
	objects = append(objects, e.p.Objects[:idx]...)
	objects = append(objects, e.p.Objects[idx+1:]...)
	e.save(profile.Fields{Objects: &objects})
	e.publishLocked("")
	return nil
}

func (e *Engine) objectIndexLocked(id string) int {
	for i, o := range e.p.Objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// SetTheme stores a palette name or custom hex color.
func (e *Engine) SetTheme(theme string) error {
	theme = strings.TrimSpace(theme)
	if t, ok := e.catalog.Theme(theme); ok {
		theme = t.Name
	} else if !profile.IsHexColor(theme) {
		return fmt.Errorf("%q: %w", theme, ErrInvalidTheme)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	e.save(profile.Fields{Theme: &theme})
	e.publishLocked("")
	return nil
}

// SetUsername claims a username after checking nobody else holds it.
// Reclaiming the profile's own name is allowed.
func (e *Engine) SetUsername(ctx context.Context, name string) error {
	normalized, err := profile.NormalizeUsername(name)
	if err != nil {
		return err
	}
	if !e.Loaded() {
		return ErrNotLoaded
	}

	owner, err := e.remote.UsernameOwner(ctx, normalized)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if owner != "" && owner != e.userID {
		return fmt.Errorf("%q: %w", normalized, ErrUsernameTaken)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.needsUsername = false
	e.save(profile.Fields{Username: &normalized})
	e.log.Info("username set", "username", normalized)
	e.publishLocked("")
	return nil
}
