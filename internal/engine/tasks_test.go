package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/yotip/homestead/internal/lifecycle"
	"github.com/yotip/homestead/internal/profile"
)

func TestStartAndSwitch(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{
		Username: "ada",
		Tasks: []profile.Task{
			{ID: 1, Name: "read", Reward: 10},
			{ID: 2, Name: "run", Reward: 20},
		},
	})

	if err := e.StartTask(1); err != nil {
		t.Fatalf("StartTask(1) returned error: %v", err)
	}
	if err := e.StartTask(2); !errors.Is(err, lifecycle.ErrTaskActive) {
		t.Fatalf("StartTask(2) error = %v, want ErrTaskActive", err)
	}
	if got := e.Profile().Tasks[1]; got.InProgress {
		t.Fatalf("rejected start changed task 2: %#v", got)
	}

	if err := e.SwitchTask(2); err != nil {
		t.Fatalf("SwitchTask(2) returned error: %v", err)
	}
	tasks := e.Profile().Tasks
	if !tasks[0].IsPending() || !tasks[1].IsActive() {
		t.Fatalf("after switch tasks = %#v, want 1 pending and 2 active", tasks)
	}
	e.Wait()

	stored, _ := h.remote.stored("u1")
	if !stored.Tasks[1].InProgress || stored.Tasks[0].InProgress {
		t.Fatalf("remote tasks = %#v, want switch committed together", stored.Tasks)
	}
}

func TestCompleteTask_ClampsAtMaxCoins(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{
		Coins:    profile.MaxCoins - 5,
		Username: "ada",
		Tasks:    []profile.Task{{ID: 1, Name: "read", Reward: 50, InProgress: true}},
	})

	credited, err := e.CompleteTask(1, "data:image/jpeg;base64,AAAA")
	if err != nil {
		t.Fatalf("CompleteTask returned error: %v", err)
	}
	if credited != 5 {
		t.Fatalf("credited = %d, want 5", credited)
	}
	p := e.Profile()
	if p.Coins != profile.MaxCoins {
		t.Fatalf("Coins = %d, want %d", p.Coins, profile.MaxCoins)
	}
	task := p.Tasks[0]
	if !task.Completed || task.InProgress || task.ProofImage == "" || task.CompletedAt == nil {
		t.Fatalf("completed task = %#v", task)
	}
	if !task.CompletedAt.Equal(testStart) {
		t.Fatalf("CompletedAt = %v, want %v", task.CompletedAt, testStart)
	}

	if _, err := e.CompleteTask(1, ""); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("second CompleteTask error = %v, want ErrInvalidTransition", err)
	}
	e.Wait()
}

func TestExpireOverdue_PenaltyFloorsAtZero(t *testing.T) {
	h := newHarness()
	past := testStart.Add(-time.Minute)
	e := h.loaded(t, "u1", profile.Profile{
		Coins:    20,
		Username: "ada",
		Tasks: []profile.Task{
			{ID: 1, Name: "T1", Reward: 50, InProgress: true, Deadline: &past},
			{ID: 2, Name: "later", Reward: 5},
		},
	})

	expired := e.ExpireOverdue()
	if len(expired) != 1 || expired[0].ID != 1 {
		t.Fatalf("expired = %#v, want T1", expired)
	}
	p := e.Profile()
	if p.Coins != 0 {
		t.Fatalf("Coins = %d, want 0", p.Coins)
	}
	t1 := p.Tasks[0]
	if !t1.Archived || t1.InProgress {
		t.Fatalf("T1 = %#v, want archived with inProgress cleared", t1)
	}
	if p.Tasks[1].Archived {
		t.Fatalf("task without deadline was archived")
	}
	if snap := h.store.Snapshot(); !strings.Contains(snap.Notice, "T1") {
		t.Fatalf("Notice = %q, want it to name T1", snap.Notice)
	}

	if again := e.ExpireOverdue(); again != nil {
		t.Fatalf("second ExpireOverdue = %#v, want nil", again)
	}
	e.Wait()
}

func TestExpireOverdue_ReadsCurrentTasks(t *testing.T) {
	h := newHarness()
	soon := testStart.Add(time.Minute)
	e := h.loaded(t, "u1", profile.Profile{
		Coins:    100,
		Username: "ada",
		Tasks:    []profile.Task{{ID: 1, Name: "read", Reward: 30, InProgress: true, Deadline: &soon}},
	})

	if _, err := e.CompleteTask(1, ""); err != nil {
		t.Fatalf("CompleteTask returned error: %v", err)
	}
	h.clock.Advance(2 * time.Minute)

	if expired := e.ExpireOverdue(); expired != nil {
		t.Fatalf("ExpireOverdue = %#v, want completed task left alone", expired)
	}
	p := e.Profile()
	if p.Coins != 130 || p.Tasks[0].Archived {
		t.Fatalf("profile = coins %d task %#v, want completed task kept", p.Coins, p.Tasks[0])
	}
	e.Wait()
}

func TestArchiveAll_Idempotent(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{
		Username: "ada",
		Tasks: []profile.Task{
			{ID: 1, Name: "a", Reward: 1, InProgress: true},
			{ID: 2, Name: "b", Reward: 1, Completed: true},
			{ID: 3, Name: "c", Reward: 1},
		},
	})

	e.ArchiveAll()
	once := e.Profile().Tasks
	e.ArchiveAll()
	twice := e.Profile().Tasks

	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("task %d changed on second ArchiveAll: %#v -> %#v", i, once[i], twice[i])
		}
	}
	if !once[0].Archived || once[0].InProgress || once[1].Archived || !once[2].Archived {
		t.Fatalf("tasks after ArchiveAll = %#v", once)
	}
	e.Wait()
}

func TestRerollTask(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{
		Username: "ada",
		Tasks:    []profile.Task{{ID: 1, Name: "Read one article", Reward: 10, InProgress: true}},
	})

	if err := e.RerollTask(1); err != nil {
		t.Fatalf("RerollTask returned error: %v", err)
	}
	task := e.Profile().Tasks[0]
	if task.Name == "Read one article" {
		t.Fatalf("Name unchanged after reroll")
	}
	if !task.InProgress {
		t.Fatalf("reroll changed state flags: %#v", task)
	}
	if err := e.RerollTask(99); !errors.Is(err, lifecycle.ErrTaskNotFound) {
		t.Fatalf("RerollTask(99) error = %v, want ErrTaskNotFound", err)
	}
	e.Wait()
}

func TestCreateTask_Validation(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Username: "ada", Tasks: []profile.Task{{ID: 1, Name: "a", Reward: 1}}})

	var verr lifecycle.ValidationError
	if _, err := e.CreateTask("  ", 10, nil); !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("CreateTask blank name error = %v, want name ValidationError", err)
	}
	if _, err := e.CreateTask("walk", 0, nil); !errors.As(err, &verr) || verr.Field != "reward" {
		t.Fatalf("CreateTask zero reward error = %v, want reward ValidationError", err)
	}
	if got := len(e.Profile().Tasks); got != 1 {
		t.Fatalf("len(Tasks) = %d after rejected creates, want 1", got)
	}

	deadline := testStart.Add(time.Hour)
	task, err := e.CreateTask("walk", 15, &deadline)
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if !task.IsPending() || task.Deadline == nil {
		t.Fatalf("created task = %#v, want pending with deadline", task)
	}
	e.Wait()
}

func TestCreateTask_CooldownAfterThreshold(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Username: "ada"}) // three seeded tasks

	for i := 0; i < 3; i++ {
		if _, err := e.CreateTask("extra", 5, nil); err != nil {
			t.Fatalf("CreateTask #%d returned error: %v", i, err)
		}
	}
	if got := lifecycle.OpenCount(e.Profile().Tasks); got != 6 {
		t.Fatalf("OpenCount = %d, want 6", got)
	}
	until, ok := h.cool.CooldownUntil("u1")
	if !ok || !until.Equal(testStart.Add(DefaultTaskCooldown)) {
		t.Fatalf("cooldown = %v, %v; want started by the task created past the limit", until, ok)
	}

	h.clock.Advance(time.Minute)
	_, err := e.CreateTask("blocked", 5, nil)
	var cerr *CooldownError
	if !errors.As(err, &cerr) {
		t.Fatalf("CreateTask during cooldown error = %v, want *CooldownError", err)
	}
	if cerr.Remaining != 9*time.Minute {
		t.Fatalf("Remaining = %v, want 9m", cerr.Remaining)
	}
	if !strings.Contains(cerr.Error(), "9m0s") {
		t.Fatalf("message = %q, want remaining time", cerr.Error())
	}
	if got := len(e.Profile().Tasks); got != 6 {
		t.Fatalf("len(Tasks) = %d, blocked create must not append", got)
	}

	h.clock.Advance(9 * time.Minute)
	if _, err := e.CreateTask("after", 5, nil); err != nil {
		t.Fatalf("CreateTask after cooldown returned error: %v", err)
	}
	e.Wait()
}

func TestCreateTask_NoCooldownBelowThreshold(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Username: "ada"})

	for i := 0; i < 2; i++ {
		if _, err := e.CreateTask("extra", 5, nil); err != nil {
			t.Fatalf("CreateTask #%d returned error: %v", i, err)
		}
	}
	if _, ok := h.cool.CooldownUntil("u1"); ok {
		t.Fatalf("cooldown recorded at %d open tasks", lifecycle.OpenCount(e.Profile().Tasks))
	}
	e.Wait()
}

func TestEngine_SingleActiveTaskUnderRandomOperations(t *testing.T) {
	h := newHarness()
	late := testStart.Add(30 * time.Second)
	e := h.loaded(t, "u1", profile.Profile{
		Coins:    25,
		Username: "ada",
		Tasks: []profile.Task{
			{ID: 1, Name: "a", Reward: 10},
			{ID: 2, Name: "b", Reward: 20},
			{ID: 3, Name: "c", Reward: 30, Deadline: &late},
			{ID: 4, Name: "d", Reward: 40},
		},
	})

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 300; i++ {
		id := int64(rng.Intn(4) + 1)
		switch rng.Intn(4) {
		case 0:
			_ = e.StartTask(id)
		case 1:
			_ = e.SwitchTask(id)
		case 2:
			_, _ = e.CompleteTask(id, "")
		case 3:
			h.clock.Advance(time.Second)
			e.ExpireOverdue()
		}
		p := e.Profile()
		if n := activeCount(p.Tasks); n > 1 {
			t.Fatalf("step %d: %d active tasks", i, n)
		}
		if p.Coins < 0 || p.Coins > profile.MaxCoins {
			t.Fatalf("step %d: coins %d out of range", i, p.Coins)
		}
	}
	e.Wait()
}
