package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/yotip/homestead/internal/profile"
)

func TestBuy_InsufficientCoins(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Coins: 100, Username: "ada"})

	ok, err := e.Buy("dog")
	if err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if ok {
		t.Fatalf("Buy(dog) with 100 coins = true, want false")
	}
	p := e.Profile()
	if p.Coins != 100 || len(p.Objects) != 0 {
		t.Fatalf("profile = coins %d objects %d, want unchanged", p.Coins, len(p.Objects))
	}
	if _, upserts := h.remote.counts(); upserts != 0 {
		t.Fatalf("upserts = %d, want none for failed purchase", upserts)
	}
}

func TestBuy_DeductsAndPlacesObject(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Coins: 200, Username: "ada"})

	ok, err := e.Buy("dog")
	if err != nil || !ok {
		t.Fatalf("Buy(dog) = %v, %v; want true", ok, err)
	}
	e.Wait()

	p := e.Profile()
	if p.Coins != 50 {
		t.Fatalf("Coins = %d, want 50", p.Coins)
	}
	if len(p.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(p.Objects))
	}
	obj := p.Objects[0]
	if obj.Kind != "dog" || obj.Cost != 150 || obj.Position != DefaultObjectPosition || obj.ID == "" {
		t.Fatalf("object = %#v", obj)
	}

	h.remote.mu.Lock()
	last := h.remote.upserts[len(h.remote.upserts)-1]
	h.remote.mu.Unlock()
	if last.Coins == nil || *last.Coins != 50 || last.Objects == nil || len(*last.Objects) != 1 {
		t.Fatalf("upsert = %#v, want coins and objects saved together", last)
	}
}

func TestBuy_UnknownItem(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Coins: 1000, Username: "ada"})

	if _, err := e.Buy("dragon"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("Buy(dragon) error = %v, want ErrUnknownItem", err)
	}
}

func TestBuy_ObjectIDsAreUnique(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{Coins: 1000, Username: "ada"})

	for i := 0; i < 5; i++ {
		if ok, _ := e.Buy("cat"); !ok {
			t.Fatalf("Buy #%d failed", i)
		}
	}
	e.Wait()

	seen := map[string]bool{}
	for _, o := range e.Profile().Objects {
		if seen[o.ID] {
			t.Fatalf("duplicate object id %q", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestRepositionAndNudge_Clamp(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{
		Username: "ada",
		Objects:  []profile.DecorativeObject{{ID: "o1", Kind: "cat", Cost: 100, Position: profile.Position{Top: 50, Left: 50}}},
	})

	deltas := []struct{ top, left float64 }{
		{60, -70}, {-200, 300}, {0.5, 0.25}, {math.Inf(1), math.NaN()}, {-1e9, 1e9},
	}
	for _, d := range deltas {
		if err := e.Nudge("o1", d.top, d.left); err != nil {
			t.Fatalf("Nudge returned error: %v", err)
		}
		pos := e.Profile().Objects[0].Position
		if pos.Top < 0 || pos.Top > 100 || pos.Left < 0 || pos.Left > 100 {
			t.Fatalf("position %#v out of [0,100] after delta %#v", pos, d)
		}
	}

	if err := e.Reposition("o1", profile.Position{Top: 150, Left: -3}); err != nil {
		t.Fatalf("Reposition returned error: %v", err)
	}
	if got := e.Profile().Objects[0].Position; got != (profile.Position{Top: 100, Left: 0}) {
		t.Fatalf("Position = %#v, want {100 0}", got)
	}
	if _, upserts := h.remote.counts(); upserts != 0 {
		t.Fatalf("upserts = %d, want moves to stay in memory", upserts)
	}

	e.CommitPositions()
	e.Wait()
	stored, _ := h.remote.stored("u1")
	if stored.Objects[0].Position != (profile.Position{Top: 100, Left: 0}) {
		t.Fatalf("remote position = %#v, want committed", stored.Objects[0].Position)
	}

	if err := e.Nudge("missing", 1, 1); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("Nudge(missing) error = %v, want ErrObjectNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	h := newHarness()
	e := h.loaded(t, "u1", profile.Profile{
		Coins:    10,
		Username: "ada",
		Objects: []profile.DecorativeObject{
			{ID: "o1", Kind: "cat", Cost: 100},
			{ID: "o2", Kind: "dog", Cost: 150},
		},
	})

	if err := e.Remove("o1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	p := e.Profile()
	if len(p.Objects) != 1 || p.Objects[0].ID != "o2" || p.Coins != 10 {
		t.Fatalf("profile after Remove = %#v", p)
	}
	if err := e.Remove("o1"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("second Remove error = %v, want ErrObjectNotFound", err)
	}
	e.Wait()
}
