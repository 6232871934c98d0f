package engine

import (
	"fmt"
	"time"

	"github.com/yotip/homestead/internal/lifecycle"
	"github.com/yotip/homestead/internal/profile"
)

// StartTask moves a pending task to active. It fails with
// lifecycle.ErrTaskActive while another task is in progress.
func (e *Engine) StartTask(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}

	tasks, err := lifecycle.Start(e.p.Tasks, id)
	if err != nil {
		return err
	}
	e.save(profile.Fields{Tasks: &tasks})
	e.publishLocked("")
	return nil
}

// SwitchTask makes id the active task, returning any current one to pending.
func (e *Engine) SwitchTask(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}

	tasks, err := lifecycle.Switch(e.p.Tasks, id)
	if err != nil {
		return err
	}
	e.save(profile.Fields{Tasks: &tasks})
	e.publishLocked("")
	return nil
}

// CompleteTask finishes the active task and awards its reward. It returns the
// coins actually credited, which is less than the reward near MaxCoins.
func (e *Engine) CompleteTask(id int64, proof string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return 0, ErrNotLoaded
	}

	tasks, reward, err := lifecycle.Complete(e.p.Tasks, id, proof, e.clock.Now())
	if err != nil {
		return 0, err
	}
	coins := profile.ClampCoins(e.p.Coins + reward)
	credited := coins - e.p.Coins
	e.save(profile.Fields{Coins: &coins, Tasks: &tasks})
	e.log.Info("task completed", "task_id", id, "reward", reward, "credited", credited)
	e.publishLocked("")
	return credited, nil
}

// ExpireOverdue archives open tasks whose deadline has passed and charges the
// active one's reward as a penalty. It reads the current task list on every
// call and is a no-op before load or when nothing is overdue.
func (e *Engine) ExpireOverdue() []profile.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil
	}

	tasks, expired, penalty := lifecycle.Expire(e.p.Tasks, e.clock.Now())
	if len(expired) == 0 {
		return nil
	}
	coins := profile.ClampCoins(e.p.Coins - penalty)
	e.save(profile.Fields{Coins: &coins, Tasks: &tasks})

	var notice string
	for _, t := range expired {
		if t.InProgress {
			notice = fmt.Sprintf("%q expired: -%d coins", t.Name, t.Reward)
		} else if notice == "" {
			notice = fmt.Sprintf("%q expired", t.Name)
		}
		e.log.Info("task expired", "task_id", t.ID, "was_active", t.InProgress, "penalty", penalty)
	}
	e.publishLocked(notice)
	return expired
}

// ArchiveAll archives every open task. Calling it again changes nothing.
func (e *Engine) ArchiveAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return
	}

	tasks := lifecycle.ArchiveAll(e.p.Tasks)
	e.save(profile.Fields{Tasks: &tasks})
	e.publishLocked("")
}

// RerollTask swaps a task's name and reward for another template.
func (e *Engine) RerollTask(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}

	tasks, err := lifecycle.Reroll(e.p.Tasks, id, e.catalog.Templates, e.rand)
	if err != nil {
		return err
	}
	e.save(profile.Fields{Tasks: &tasks})
	e.publishLocked("")
	return nil
}

// CreateTask appends a pending task. While a cooldown is recorded for the
// user it returns *CooldownError. A task created while TaskLimit or more
// tasks are already open is still added, and starts the cooldown.
func (e *Engine) CreateTask(name string, reward int, deadline *time.Time) (profile.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return profile.Task{}, ErrNotLoaded
	}

	now := e.clock.Now()
	if until, ok := e.cooldowns.CooldownUntil(e.userID); ok {
		if now.Before(until) {
			return profile.Task{}, &CooldownError{Remaining: until.Sub(now)}
		}
		if err := e.cooldowns.SetCooldown(e.userID, time.Time{}); err != nil {
			e.log.Warn("clear cooldown failed", "error", err)
		}
	}

	task, err := lifecycle.New(name, reward, deadline, e.p.Tasks, now)
	if err != nil {
		return profile.Task{}, err
	}
	open := lifecycle.OpenCount(e.p.Tasks)

	tasks := append(append([]profile.Task(nil), e.p.Tasks...), task)
	e.save(profile.Fields{Tasks: &tasks})

	if open >= TaskLimit {
		until := now.Add(e.taskCooldown)
		if err := e.cooldowns.SetCooldown(e.userID, until); err != nil {
			e.log.Warn("record cooldown failed", "error", err)
		}
		e.log.Info("task limit reached, cooldown started", "open", open+1, "until", until)
	}
	e.publishLocked("")
	return task, nil
}
