package energy

import (
	"testing"

	"github.com/deckforge/pocketbattle/internal/cards"
)

func TestLedger_AttachAndCount(t *testing.T) {
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyFire, 2)
	l.Attach("inst-1", cards.EnergyWater, 1)
	l.Attach("inst-1", cards.EnergyFire, -3) // ignored

	if got := l.AttachedCount("inst-1"); got != 3 {
		t.Errorf("Expected 3 attached, got %d", got)
	}
	pool := l.Attached("inst-1")
	if pool[cards.EnergyFire] != 2 || pool[cards.EnergyWater] != 1 {
		t.Errorf("Unexpected attached map: %v", pool)
	}

	// The returned map is a copy.
	pool[cards.EnergyFire] = 99
	if l.Attached("inst-1")[cards.EnergyFire] != 2 {
		t.Error("Attached must return a copy")
	}
}

func TestLedger_DiscardMovesToDiscardLedger(t *testing.T) {
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyFire, 2)

	if moved := l.Discard("alice", "inst-1", cards.EnergyFire, 5); moved != 2 {
		t.Errorf("Expected shortfall-tolerant discard of 2, got %d", moved)
	}
	if l.AttachedCount("inst-1") != 0 {
		t.Errorf("Expected nothing attached, got %d", l.AttachedCount("inst-1"))
	}
	if got := l.Discarded("alice")[cards.EnergyFire]; got != 2 {
		t.Errorf("Expected 2 fire in discard ledger, got %d", got)
	}
}

func TestLedger_DiscardAnyWalksTypesInOrder(t *testing.T) {
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyFire, 1)
	l.Attach("inst-1", cards.EnergyWater, 2)

	moved := l.DiscardAny("alice", "inst-1", []cards.EnergyType{cards.EnergyFire, cards.EnergyWater}, 2)
	if moved[cards.EnergyFire] != 1 || moved[cards.EnergyWater] != 1 {
		t.Errorf("Expected fire drained before water, got %v", moved)
	}
	if l.AttachedCount("inst-1") != 1 {
		t.Errorf("Expected 1 unit left, got %d", l.AttachedCount("inst-1"))
	}
}

func TestLedger_RetreatCostConservation(t *testing.T) {
	// A creature with two fire paying a retreat cost of one: total energy in
	// the game is conserved between attached and discarded.
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyFire, 2)

	l.DiscardAny("alice", "inst-1", cards.EnergyTypeOrder, 1)

	attached := l.AttachedCount("inst-1")
	discarded := 0
	for _, n := range l.Discarded("alice") {
		discarded += n
	}
	if attached != 1 || discarded != 1 {
		t.Errorf("Expected 1 attached + 1 discarded, got %d + %d", attached, discarded)
	}
}

func TestLedger_DiscardAll(t *testing.T) {
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyFire, 2)
	l.Attach("inst-1", cards.EnergyLightning, 1)

	moved := l.DiscardAll("alice", "inst-1")
	if moved[cards.EnergyFire] != 2 || moved[cards.EnergyLightning] != 1 {
		t.Errorf("Unexpected discard-all result: %v", moved)
	}
	if l.AttachedCount("inst-1") != 0 {
		t.Error("Expected instance pool emptied")
	}
	if l.Discarded("alice")[cards.EnergyFire] != 2 {
		t.Error("Expected discarded ledger to accumulate all units")
	}
}

func TestLedger_RecoverFromDiscard(t *testing.T) {
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyFire, 1)
	l.DiscardAll("alice", "inst-1")

	if moved := l.RecoverFromDiscard("alice", "inst-2", cards.EnergyFire, 3); moved != 1 {
		t.Errorf("Expected 1 recovered, got %d", moved)
	}
	if l.Attached("inst-2")[cards.EnergyFire] != 1 {
		t.Error("Expected recovered energy attached to new instance")
	}
	if len(l.Discarded("alice")) != 0 {
		t.Errorf("Expected empty discard ledger, got %v", l.Discarded("alice"))
	}
}

func TestLedger_RemoveFromDiscardDefaultsToCanonicalOrder(t *testing.T) {
	l := NewLedger()
	l.Attach("inst-1", cards.EnergyGrass, 1)
	l.Attach("inst-1", cards.EnergyFire, 1)
	l.DiscardAll("alice", "inst-1")

	// EnergyTypeOrder puts grass before fire.
	removed := l.RemoveFromDiscard("alice", nil, 1)
	if removed[cards.EnergyGrass] != 1 {
		t.Errorf("Expected grass removed first, got %v", removed)
	}
}

func TestLedger_AvailableTypes(t *testing.T) {
	l := NewLedger()
	l.SetAvailableTypes("alice", []cards.EnergyType{cards.EnergyFire, cards.EnergyWater})

	types := l.AvailableTypes("alice")
	if len(types) != 2 || types[0] != cards.EnergyFire || types[1] != cards.EnergyWater {
		t.Errorf("Unexpected available types: %v", types)
	}
}
