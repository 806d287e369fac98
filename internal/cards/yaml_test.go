package cards

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleSet = `
name: test-set
creatures:
  - id: sparkit
    name: Sparkit
    hp: 60
    type: LIGHTNING
    stage: 0
    weakness: FIGHTING
    retreatCost: 1
    attacks:
      - name: Jolt
        cost:
          LIGHTNING: 1
        damage: 20
  - id: voltadon
    name: Voltadon
    hp: 120
    type: LIGHTNING
    stage: 1
    evolvesFrom: Sparkit
    retreatCost: 2
    attributes: [ex]
    attacks:
      - name: Thunder Crash
        cost:
          LIGHTNING: 2
        damage: 80
        dynamic:
          kind: coin-flip
          heads: 120
          tails: 80
items:
  - id: potion
    name: Potion
    effects:
      - type: hp
        operation: heal
        amount:
          kind: constant
          amount: 20
        target:
          type: single-choice
          criteria:
            player: self
tools:
  - id: cape
    name: Giant Cape
    effects:
      - type: hp-boost
        amount:
          kind: constant
          amount: 20
        duration: while-in-play
`

func writeSet(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write set file: %v", err)
	}
	return path
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	path := writeSet(t, dir, "test.yaml", sampleSet)

	set, err := LoadSet(path)
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if set.Name != "test-set" {
		t.Errorf("Expected set name test-set, got %q", set.Name)
	}
	if len(set.Creatures) != 2 {
		t.Fatalf("Expected 2 creatures, got %d", len(set.Creatures))
	}

	volt := set.Creatures[1]
	if volt.EvolvesFrom != "Sparkit" {
		t.Errorf("Expected evolvesFrom Sparkit, got %q", volt.EvolvesFrom)
	}
	if !volt.HasAttribute(AttributeEX) {
		t.Error("Expected voltadon to carry the ex attribute")
	}
	attack := volt.Attacks[0]
	if attack.Cost[EnergyLightning] != 2 {
		t.Errorf("Expected lightning cost 2, got %d", attack.Cost[EnergyLightning])
	}
	if attack.Dynamic == nil || attack.Dynamic.Kind != DynamicCoinFlip || attack.Dynamic.Heads != 120 {
		t.Errorf("Dynamic damage not parsed: %+v", attack.Dynamic)
	}

	if len(set.Items) != 1 || set.Items[0].Effects[0].Type != EffectHP {
		t.Errorf("Item effects not parsed: %+v", set.Items)
	}
	if set.Tools[0].Effects[0].Duration != DurationWhileInPlay {
		t.Errorf("Tool duration not parsed: %+v", set.Tools[0].Effects[0])
	}
}

func TestLoadSet_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"missing-name", "creatures:\n  - id: x\n    hp: 10\n"},
		{"zero-hp", "creatures:\n  - id: x\n    name: X\n    hp: 0\n"},
		{"evolution-without-base", "creatures:\n  - id: x\n    name: X\n    hp: 10\n    stage: 1\n"},
		{"item-without-id", "items:\n  - name: Nameless\n"},
		{"unknown-effect-type", "supporters:\n  - id: glitch\n    name: Glitch\n    effects:\n      - type: bogus\n"},
		{"unknown-attack-effect-type", "creatures:\n  - id: x\n    name: X\n    hp: 10\n    attacks:\n      - name: Zap\n        effects:\n          - type: hael\n"},
	}
	for _, tc := range cases {
		path := writeSet(t, dir, tc.name+".yaml", tc.content)
		if _, err := LoadSet(path); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "a.yaml", sampleSet)
	writeSet(t, dir, "b.yml", "name: extra\nsupporters:\n  - id: cheer\n    name: Cheerleader\n")
	writeSet(t, dir, "notes.txt", "not a card set")

	repo, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if _, err := repo.Creature("sparkit"); err != nil {
		t.Errorf("Expected sparkit from a.yaml: %v", err)
	}
	if _, err := repo.Supporter("cheer"); err != nil {
		t.Errorf("Expected cheer from b.yml: %v", err)
	}
}

func TestMemoryRepository_Lookups(t *testing.T) {
	repo := NewMemoryRepository(&Set{
		Name:      "s",
		Creatures: []*Creature{{ID: "sparkit", Name: "Sparkit", HP: 60}},
		Items:     []*Item{{ID: "potion", Name: "Potion"}},
	})

	if _, err := repo.Creature("sparkit"); err != nil {
		t.Errorf("Creature lookup failed: %v", err)
	}
	if _, err := repo.CreatureByName("Sparkit"); err != nil {
		t.Errorf("CreatureByName lookup failed: %v", err)
	}
	if _, err := repo.Creature("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Item("potion"); err != nil {
		t.Errorf("Item lookup failed: %v", err)
	}
	if _, err := repo.Supporter("potion"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Item must not be served as a supporter, got %v", err)
	}

	ids := repo.AllCreatureIDs()
	if len(ids) != 1 || ids[0] != "sparkit" {
		t.Errorf("AllCreatureIDs = %v", ids)
	}
}

func TestMemoryRepository_LaterSetWins(t *testing.T) {
	repo := NewMemoryRepository(
		&Set{Creatures: []*Creature{{ID: "sparkit", Name: "Sparkit", HP: 60}}},
		&Set{Creatures: []*Creature{{ID: "sparkit", Name: "Sparkit", HP: 70}}},
	)
	c, err := repo.Creature("sparkit")
	if err != nil {
		t.Fatalf("Creature: %v", err)
	}
	if c.HP != 70 {
		t.Errorf("Expected the later set's template, got HP %d", c.HP)
	}
}
