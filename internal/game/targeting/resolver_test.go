package targeting

import (
	"testing"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// fakeView is a minimal in-memory GameView for resolver tests.
type fakeView struct {
	players   []string
	fields    map[string][]*field.Card
	attached  map[string]map[cards.EnergyType]int
	hands     map[string][]string
	decks     map[string][]string
	discards  map[string][]string
	discarded map[string]map[cards.EnergyType]int
}

func newFakeView() *fakeView {
	return &fakeView{
		players:   []string{"alice", "bob"},
		fields:    map[string][]*field.Card{"alice": make([]*field.Card, 4), "bob": make([]*field.Card, 4)},
		attached:  make(map[string]map[cards.EnergyType]int),
		hands:     make(map[string][]string),
		decks:     make(map[string][]string),
		discards:  make(map[string][]string),
		discarded: make(map[string]map[cards.EnergyType]int),
	}
}

func (v *fakeView) PlayerIDs() []string { return v.players }
func (v *fakeView) Opponent(playerID string) string {
	if playerID == "alice" {
		return "bob"
	}
	return "alice"
}
func (v *fakeView) FieldCards(playerID string) []*field.Card { return v.fields[playerID] }
func (v *fakeView) Attached(instanceID string) map[cards.EnergyType]int {
	return v.attached[instanceID]
}
func (v *fakeView) Hand(playerID string) []string        { return v.hands[playerID] }
func (v *fakeView) Deck(playerID string) []string        { return v.decks[playerID] }
func (v *fakeView) DiscardPile(playerID string) []string { return v.discards[playerID] }
func (v *fakeView) DiscardedEnergy(playerID string) map[cards.EnergyType]int {
	return v.discarded[playerID]
}

func (v *fakeView) place(playerID string, index int, templateID string) *field.Card {
	card := field.NewCard(templateID, 1)
	v.fields[playerID][index] = card
	return card
}

func testRepo() *cards.MemoryRepository {
	return cards.NewMemoryRepository(&cards.Set{
		Name: "test",
		Creatures: []*cards.Creature{
			{ID: "sparkit", Name: "Sparkit", HP: 60, Type: cards.EnergyLightning, Stage: 0},
			{ID: "flamikin", Name: "Flamikin", HP: 70, Type: cards.EnergyFire, Stage: 0},
			{ID: "voltadon", Name: "Voltadon", HP: 120, Type: cards.EnergyLightning, Stage: 1, EvolvesFrom: "Sparkit"},
		},
	})
}

func TestResolveField_NilAndResolvedPassthrough(t *testing.T) {
	view := newFakeView()

	if got := ResolveField(nil, view, testRepo(), "alice"); got.Kind != KindNoValidTargets {
		t.Errorf("Nil target: expected no-valid-targets, got %v", got.Kind)
	}

	refs := []cards.TargetRef{{PlayerID: "bob", FieldIndex: 0}}
	got := ResolveField(cards.Resolved(refs), view, testRepo(), "alice")
	if got.Kind != KindResolved || len(got.Refs) != 1 || got.Refs[0] != refs[0] {
		t.Errorf("Resolved target must pass through unchanged, got %+v", got)
	}
}

func TestResolveField_FixedActive(t *testing.T) {
	view := newFakeView()
	view.place("bob", 0, "sparkit")

	target := &cards.Target{
		Type:  cards.TargetFixed,
		Fixed: &cards.FixedTarget{Player: cards.ScopeOpponent, Position: cards.PositionActive},
	}
	got := ResolveField(target, view, testRepo(), "alice")
	if got.Kind != KindResolved {
		t.Fatalf("Expected resolved, got %v", got.Kind)
	}
	if got.Refs[0].PlayerID != "bob" || got.Refs[0].FieldIndex != 0 {
		t.Errorf("Expected bob's active, got %+v", got.Refs)
	}

	// Empty active slot is a soft miss.
	view.fields["bob"][0] = nil
	if got := ResolveField(target, view, testRepo(), "alice"); got.Kind != KindNoValidTargets {
		t.Errorf("Expected no-valid-targets for empty slot, got %v", got.Kind)
	}
}

func TestResolveField_ChoiceAutoResolvesWhenForced(t *testing.T) {
	view := newFakeView()
	view.place("alice", 1, "sparkit")

	target := &cards.Target{
		Type:     cards.TargetSingleChoice,
		Criteria: &cards.TargetCriteria{Player: cards.ScopeSelf, Position: cards.PositionBench},
		Chooser:  cards.ScopeSelf,
	}
	got := ResolveField(target, view, testRepo(), "alice")
	if got.Kind != KindResolved {
		t.Fatalf("Single candidate must auto-resolve, got %v", got.Kind)
	}
	if got.Refs[0].FieldIndex != 1 {
		t.Errorf("Expected bench slot 1, got %+v", got.Refs)
	}
}

func TestResolveField_ChoiceSuspendsWithMultipleCandidates(t *testing.T) {
	view := newFakeView()
	view.place("alice", 1, "sparkit")
	view.place("alice", 2, "flamikin")

	target := &cards.Target{
		Type:     cards.TargetSingleChoice,
		Criteria: &cards.TargetCriteria{Player: cards.ScopeSelf, Position: cards.PositionBench},
		Chooser:  cards.ScopeSelf,
	}
	got := ResolveField(target, view, testRepo(), "alice")
	if got.Kind != KindRequiresSelection {
		t.Fatalf("Expected requires-selection, got %v", got.Kind)
	}
	if got.ChooserID != "alice" {
		t.Errorf("Expected chooser alice, got %s", got.ChooserID)
	}
	if got.Count != 1 || len(got.Candidates) != 2 {
		t.Errorf("Expected 1 pick from 2 candidates, got %d from %d", got.Count, len(got.Candidates))
	}
}

func TestResolveField_OpponentChooser(t *testing.T) {
	view := newFakeView()
	view.place("bob", 1, "sparkit")
	view.place("bob", 2, "flamikin")

	target := &cards.Target{
		Type:     cards.TargetSingleChoice,
		Criteria: &cards.TargetCriteria{Player: cards.ScopeOpponent, Position: cards.PositionBench},
		Chooser:  cards.ScopeOpponent,
	}
	got := ResolveField(target, view, testRepo(), "alice")
	if got.Kind != KindRequiresSelection {
		t.Fatalf("Expected requires-selection, got %v", got.Kind)
	}
	if got.ChooserID != "bob" {
		t.Errorf("The opponent owns this choice, got chooser %s", got.ChooserID)
	}
}

func TestResolveField_ChoiceWithNoCandidates(t *testing.T) {
	view := newFakeView()
	target := &cards.Target{
		Type:     cards.TargetSingleChoice,
		Criteria: &cards.TargetCriteria{Player: cards.ScopeSelf, Position: cards.PositionBench},
	}
	if got := ResolveField(target, view, testRepo(), "alice"); got.Kind != KindNoValidTargets {
		t.Errorf("Expected no-valid-targets with empty bench, got %v", got.Kind)
	}
}

func TestResolveField_AllMatchingWithCondition(t *testing.T) {
	view := newFakeView()
	view.place("alice", 0, "sparkit")
	view.place("alice", 1, "flamikin")
	view.place("bob", 0, "sparkit")

	target := &cards.Target{
		Type: cards.TargetAllMatching,
		Criteria: &cards.TargetCriteria{
			Condition: &cards.Condition{IsType: cards.EnergyLightning},
		},
	}
	got := ResolveField(target, view, testRepo(), "alice")
	if got.Kind != KindResolved {
		t.Fatalf("Expected resolved, got %v", got.Kind)
	}
	if len(got.Refs) != 2 {
		t.Errorf("Expected both lightning creatures across players, got %+v", got.Refs)
	}
}

func TestResolveField_MultiChoiceCount(t *testing.T) {
	view := newFakeView()
	view.place("alice", 1, "sparkit")
	view.place("alice", 2, "flamikin")
	view.place("alice", 3, "sparkit")

	target := &cards.Target{
		Type:     cards.TargetMultiChoice,
		Criteria: &cards.TargetCriteria{Player: cards.ScopeSelf, Position: cards.PositionBench},
		Chooser:  cards.ScopeSelf,
		Count:    2,
	}
	got := ResolveField(target, view, testRepo(), "alice")
	if got.Kind != KindRequiresSelection || got.Count != 2 {
		t.Errorf("Expected selection of 2, got kind=%v count=%d", got.Kind, got.Count)
	}
}

func TestResolveCards_DeckSearchTakesFirstMatches(t *testing.T) {
	view := newFakeView()
	view.decks["alice"] = []string{"flamikin", "voltadon", "sparkit", "voltadon"}

	criteria := &cards.TargetCriteria{
		Player:    cards.ScopeSelf,
		Location:  cards.LocationDeck,
		Condition: &cards.Condition{PreviousStageName: "Sparkit"},
	}
	got := ResolveCards(criteria, view, testRepo(), "alice", 1)
	if got.Kind != KindResolved {
		t.Fatalf("Expected resolved, got %v", got.Kind)
	}
	if len(got.Indices) != 1 || got.Indices[0] != 1 {
		t.Errorf("Expected first matching index 1, got %v", got.Indices)
	}
}

func TestResolveCards_NonCreatureEntriesSkippedByCondition(t *testing.T) {
	view := newFakeView()
	view.decks["alice"] = []string{"potion", "sparkit"}

	criteria := &cards.TargetCriteria{
		Player:    cards.ScopeSelf,
		Location:  cards.LocationDeck,
		Condition: &cards.Condition{IsType: cards.EnergyLightning},
	}
	got := ResolveCards(criteria, view, testRepo(), "alice", 0)
	if got.Kind != KindResolved || len(got.Indices) != 1 || got.Indices[0] != 1 {
		t.Errorf("Expected only the creature to match, got %+v", got)
	}
}

func TestResolveEnergy_AttachedAndDiscardPools(t *testing.T) {
	view := newFakeView()
	view.attached["inst-1"] = map[cards.EnergyType]int{cards.EnergyFire: 2}
	view.discarded["alice"] = map[cards.EnergyType]int{cards.EnergyWater: 1}

	got := ResolveEnergy(cards.EnergySourceField, "inst-1", "alice", nil, view)
	if got.Kind != KindResolved || got.Amounts[cards.EnergyFire] != 2 {
		t.Errorf("Expected 2 fire from attached pool, got %+v", got)
	}

	got = ResolveEnergy(cards.EnergySourceDiscardPool, "inst-1", "alice", nil, view)
	if got.Kind != KindResolved || got.Amounts[cards.EnergyWater] != 1 {
		t.Errorf("Expected 1 water from discard pool, got %+v", got)
	}

	got = ResolveEnergy(cards.EnergySourceField, "inst-1", "alice", []cards.EnergyType{cards.EnergyWater}, view)
	if got.Kind != KindNoValidTargets {
		t.Errorf("Expected no-valid-targets after type filter, got %v", got.Kind)
	}
}

func TestValidateSelection(t *testing.T) {
	candidateSet := []cards.TargetRef{
		{PlayerID: "alice", FieldIndex: 1},
		{PlayerID: "alice", FieldIndex: 2},
	}

	ok := []cards.TargetRef{{PlayerID: "alice", FieldIndex: 2}}
	if err := ValidateSelection(ok, candidateSet, 1); err != nil {
		t.Errorf("Valid selection rejected: %v", err)
	}

	if err := ValidateSelection(nil, candidateSet, 1); err == nil {
		t.Error("Expected count mismatch to be rejected")
	}

	dup := []cards.TargetRef{{PlayerID: "alice", FieldIndex: 1}, {PlayerID: "alice", FieldIndex: 1}}
	if err := ValidateSelection(dup, candidateSet, 2); err == nil {
		t.Error("Expected duplicate picks to be rejected")
	}

	outside := []cards.TargetRef{{PlayerID: "bob", FieldIndex: 0}}
	if err := ValidateSelection(outside, candidateSet, 1); err == nil {
		t.Error("Expected non-candidate pick to be rejected")
	}
}
