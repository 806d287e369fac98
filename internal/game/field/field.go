package field

import (
	"fmt"
)

// Ref addresses one occupied field position. Index 0 is the active slot.
type Ref struct {
	PlayerID string
	Index    int
}

// Field owns both players' position-indexed creature arrays. Positions shift
// on retreat, promotion and knockout, so the instanceID index is rebuilt on
// every structural mutation and callers should prefer instance IDs over raw
// indices across mutations.
type Field struct {
	benchSize int
	players   map[string][]*Card
	index     map[string]Ref
}

// New creates an empty field for the given players.
func New(playerIDs []string, benchSize int) *Field {
	f := &Field{
		benchSize: benchSize,
		players:   make(map[string][]*Card, len(playerIDs)),
		index:     make(map[string]Ref),
	}
	for _, id := range playerIDs {
		f.players[id] = make([]*Card, 1+benchSize)
	}
	return f
}

// BenchSize returns the number of bench slots per player.
func (f *Field) BenchSize() int { return f.benchSize }

func (f *Field) slots(playerID string) []*Card {
	slots, ok := f.players[playerID]
	if !ok {
		panic(fmt.Sprintf("field: unknown player %q", playerID))
	}
	return slots
}

func (f *Field) rebuildIndex() {
	f.index = make(map[string]Ref)
	for playerID, slots := range f.players {
		for i, card := range slots {
			if card != nil {
				f.index[card.InstanceID] = Ref{PlayerID: playerID, Index: i}
			}
		}
	}
}

// Card returns the creature at the given position, or nil if the slot is
// empty. An out-of-range index is a programmer error.
func (f *Field) Card(ref Ref) *Card {
	slots := f.slots(ref.PlayerID)
	if ref.Index < 0 || ref.Index >= len(slots) {
		panic(fmt.Sprintf("field: index %d out of range for player %q", ref.Index, ref.PlayerID))
	}
	return slots[ref.Index]
}

// Active returns the player's active creature, or nil.
func (f *Field) Active(playerID string) *Card {
	return f.slots(playerID)[0]
}

// Cards returns the player's full slot array, empty slots included.
func (f *Field) Cards(playerID string) []*Card {
	return f.slots(playerID)
}

// Bench returns the player's occupied bench creatures in position order.
func (f *Field) Bench(playerID string) []*Card {
	slots := f.slots(playerID)
	var bench []*Card
	for _, card := range slots[1:] {
		if card != nil {
			bench = append(bench, card)
		}
	}
	return bench
}

// Locate returns the current position of an instance.
func (f *Field) Locate(instanceID string) (Ref, bool) {
	ref, ok := f.index[instanceID]
	return ref, ok
}

// PlaceActive puts a creature into an empty active slot.
func (f *Field) PlaceActive(playerID string, card *Card) error {
	slots := f.slots(playerID)
	if slots[0] != nil {
		return fmt.Errorf("active slot occupied")
	}
	slots[0] = card
	f.rebuildIndex()
	return nil
}

// PlaceBench puts a creature into the first free bench slot and returns its
// index.
func (f *Field) PlaceBench(playerID string, card *Card) (int, error) {
	slots := f.slots(playerID)
	for i := 1; i < len(slots); i++ {
		if slots[i] == nil {
			slots[i] = card
			f.rebuildIndex()
			return i, nil
		}
	}
	return 0, fmt.Errorf("bench full")
}

// ApplyDamage damages the creature at ref, clamped to maxHP, returning the
// amount actually applied. Damaging an empty slot applies nothing.
func (f *Field) ApplyDamage(ref Ref, amount, maxHP int) int {
	card := f.Card(ref)
	if card == nil {
		return 0
	}
	return card.ApplyDamage(amount, maxHP)
}

// HealDamage heals the creature at ref, returning the amount actually healed.
func (f *Field) HealDamage(ref Ref, amount int) int {
	card := f.Card(ref)
	if card == nil {
		return 0
	}
	return card.Heal(amount)
}

// HealBenchedCard heals a bench position; healing the active slot through
// this entry point is a programmer error.
func (f *Field) HealBenchedCard(ref Ref, amount int) int {
	if ref.Index == 0 {
		panic("field: HealBenchedCard called with active index")
	}
	return f.HealDamage(ref, amount)
}

// Retreat swaps the active creature with the bench creature at benchIndex.
// Both instances keep their accumulated state; only positions change.
func (f *Field) Retreat(playerID string, benchIndex int) error {
	slots := f.slots(playerID)
	if benchIndex < 1 || benchIndex >= len(slots) {
		panic(fmt.Sprintf("field: bench index %d out of range", benchIndex))
	}
	if slots[0] == nil {
		return fmt.Errorf("no active creature")
	}
	if slots[benchIndex] == nil {
		return fmt.Errorf("bench slot %d empty", benchIndex)
	}
	slots[0], slots[benchIndex] = slots[benchIndex], slots[0]
	f.rebuildIndex()
	return nil
}

// PromoteToBattle moves a bench creature into an empty active slot (after a
// knockout).
func (f *Field) PromoteToBattle(playerID string, benchIndex int) error {
	slots := f.slots(playerID)
	if benchIndex < 1 || benchIndex >= len(slots) {
		panic(fmt.Sprintf("field: bench index %d out of range", benchIndex))
	}
	if slots[0] != nil {
		return fmt.Errorf("active slot occupied")
	}
	if slots[benchIndex] == nil {
		return fmt.Errorf("bench slot %d empty", benchIndex)
	}
	slots[0] = slots[benchIndex]
	slots[benchIndex] = nil
	f.compactBench(playerID)
	f.rebuildIndex()
	return nil
}

// EvolveActiveCard evolves the player's active creature in place.
func (f *Field) EvolveActiveCard(playerID, templateID string, turn int) error {
	card := f.Active(playerID)
	if card == nil {
		return fmt.Errorf("no active creature")
	}
	card.Evolve(templateID, turn)
	return nil
}

// Remove takes a creature off the field (knockout), compacting the bench so
// remaining bench positions stay contiguous and order-preserving.
func (f *Field) Remove(ref Ref) *Card {
	slots := f.slots(ref.PlayerID)
	if ref.Index < 0 || ref.Index >= len(slots) {
		panic(fmt.Sprintf("field: index %d out of range for player %q", ref.Index, ref.PlayerID))
	}
	card := slots[ref.Index]
	slots[ref.Index] = nil
	if ref.Index > 0 {
		f.compactBench(ref.PlayerID)
	}
	f.rebuildIndex()
	return card
}

func (f *Field) compactBench(playerID string) {
	slots := f.slots(playerID)
	write := 1
	for read := 1; read < len(slots); read++ {
		if slots[read] != nil {
			slots[write] = slots[read]
			if write != read {
				slots[read] = nil
			}
			write++
		}
	}
}
