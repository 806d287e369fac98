package cards

// TargetType discriminates the target tagged union. "resolved" is the
// terminal variant: once a target carries it, it is never re-resolved within
// the same invocation.
type TargetType string

const (
	TargetFixed        TargetType = "fixed"
	TargetSingleChoice TargetType = "single-choice"
	TargetMultiChoice  TargetType = "multi-choice"
	TargetAllMatching  TargetType = "all-matching"
	TargetResolved     TargetType = "resolved"
)

// PlayerScope scopes criteria or choices to one side of the table.
type PlayerScope string

const (
	ScopeSelf     PlayerScope = "self"
	ScopeOpponent PlayerScope = "opponent"
	ScopeAny      PlayerScope = ""
)

// Position scopes field criteria to the active slot or the bench.
type Position string

const (
	PositionActive Position = "active"
	PositionBench  Position = "bench"
	PositionAny    Position = ""
)

// Location scopes card criteria to a card collection.
type Location string

const (
	LocationField   Location = "field"
	LocationHand    Location = "hand"
	LocationDeck    Location = "deck"
	LocationDiscard Location = "discard"
)

// TargetCriteria filters candidate creatures or cards.
type TargetCriteria struct {
	Player    PlayerScope `yaml:"player,omitempty" json:"player,omitempty"`
	Position  Position    `yaml:"position,omitempty" json:"position,omitempty"`
	Location  Location    `yaml:"location,omitempty" json:"location,omitempty"`
	Condition *Condition  `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// FixedTarget names a structurally implied field position.
type FixedTarget struct {
	Player   PlayerScope `yaml:"player" json:"player"`
	Position Position    `yaml:"position" json:"position"`
}

// TargetRef is one concrete resolved field position. Index 0 is the active
// slot; 1 and up are bench slots in order.
type TargetRef struct {
	PlayerID   string `yaml:"playerId" json:"playerId"`
	FieldIndex int    `yaml:"fieldIndex" json:"fieldIndex"`
}

// Target describes what an effect acts on. Exactly one shape is meaningful
// per Type: Fixed for fixed targets, Criteria (+Chooser/Count) for choice and
// all-matching targets, Refs for the resolved terminal form.
type Target struct {
	Type     TargetType      `yaml:"type" json:"type"`
	Fixed    *FixedTarget    `yaml:"fixed,omitempty" json:"fixed,omitempty"`
	Criteria *TargetCriteria `yaml:"criteria,omitempty" json:"criteria,omitempty"`
	Chooser  PlayerScope     `yaml:"chooser,omitempty" json:"chooser,omitempty"`
	Count    int             `yaml:"count,omitempty" json:"count,omitempty"`
	Refs     []TargetRef     `yaml:"refs,omitempty" json:"refs,omitempty"`
}

// Resolved builds the terminal resolved variant.
func Resolved(refs []TargetRef) *Target {
	return &Target{Type: TargetResolved, Refs: refs}
}

// IsResolved reports whether the target carries its terminal form.
func (t *Target) IsResolved() bool {
	return t != nil && t.Type == TargetResolved
}

// RequiredCount returns how many picks a choice target needs (1 when unset).
func (t *Target) RequiredCount() int {
	if t == nil {
		return 0
	}
	switch t.Type {
	case TargetSingleChoice:
		return 1
	case TargetMultiChoice:
		if t.Count > 0 {
			return t.Count
		}
		return 1
	}
	return 0
}
