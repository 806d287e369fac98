package cards

// EffectType discriminates the effect tagged union. Every card, attack and
// ability effect is one of these kinds; the effects package keeps one handler
// per kind.
type EffectType string

const (
	EffectHP                   EffectType = "hp"
	EffectEnergy               EffectType = "energy"
	EffectSwitch               EffectType = "switch"
	EffectSearch               EffectType = "search"
	EffectShuffle              EffectType = "shuffle"
	EffectSwapCards            EffectType = "swap-cards"
	EffectHandDiscard          EffectType = "hand-discard"
	EffectPullEvolution        EffectType = "pull-evolution"
	EffectDisableWeakness      EffectType = "disable-weakness"
	EffectPreventAttack        EffectType = "prevent-attack"
	EffectPreventPlaying       EffectType = "prevent-playing"
	EffectPreventDamage        EffectType = "prevent-damage"
	EffectRetreatPrevention    EffectType = "retreat-prevention"
	EffectRetreatCostMod       EffectType = "retreat-cost-modification"
	EffectStatus               EffectType = "status"
	EffectStatusPrevention     EffectType = "status-prevention"
	EffectDamageBoost          EffectType = "damage-boost"
	EffectDamageReduction      EffectType = "damage-reduction"
	EffectHPBoost              EffectType = "hp-boost"
	EffectCoinFlipManipulation EffectType = "coin-flip-manipulation"
	EffectEndTurn              EffectType = "end-turn"
)

var knownEffectTypes = map[EffectType]bool{
	EffectHP:                   true,
	EffectEnergy:               true,
	EffectSwitch:               true,
	EffectSearch:               true,
	EffectShuffle:              true,
	EffectSwapCards:            true,
	EffectHandDiscard:          true,
	EffectPullEvolution:        true,
	EffectDisableWeakness:      true,
	EffectPreventAttack:        true,
	EffectPreventPlaying:       true,
	EffectPreventDamage:        true,
	EffectRetreatPrevention:    true,
	EffectRetreatCostMod:       true,
	EffectStatus:               true,
	EffectStatusPrevention:     true,
	EffectDamageBoost:          true,
	EffectDamageReduction:      true,
	EffectHPBoost:              true,
	EffectCoinFlipManipulation: true,
	EffectEndTurn:              true,
}

// KnownEffectType reports whether t is one of the effect kinds the engine
// interprets. Set validation rejects anything else at load time.
func KnownEffectType(t EffectType) bool {
	return knownEffectTypes[t]
}

// Operation selects the sub-action for effect kinds that support more than one
// (hp heal vs. damage, energy attach vs. discard).
type Operation string

const (
	OperationHeal    Operation = "heal"
	OperationDamage  Operation = "damage"
	OperationAttach  Operation = "attach"
	OperationDiscard Operation = "discard"
)

// EnergySourceKind selects where a discard-energy effect takes energy from.
type EnergySourceKind string

const (
	EnergySourceField       EnergySourceKind = "field"
	EnergySourceDiscardPool EnergySourceKind = "discard-pool"
)

// Duration controls how long a registered passive effect stays active.
// The next-turn variants differ in whose turn boundary expires them and are
// kept distinct on purpose.
type Duration string

const (
	DurationNone               Duration = ""
	DurationWhileInPlay        Duration = "while-in-play"
	DurationUntilEndOfTurn     Duration = "until-end-of-turn"
	DurationUntilEndOfNextTurn Duration = "until-end-of-next-turn"
	DurationTurn               Duration = "turn"
	DurationOpponentNextTurn   Duration = "opponent-next-turn"
	DurationSelfNextTurn       Duration = "self-next-turn"
)

// SourceFilter scopes a prevent-damage passive to attackers with a specific
// attribute. It is evaluated at attack time, not at registration time.
type SourceFilter struct {
	Attribute Attribute `yaml:"attribute,omitempty" json:"attribute,omitempty"`
}

// Effect is the declarative description of one game action. Fields beyond
// Type are interpreted per effect kind; unused fields stay zero. Effects are
// immutable card data except that Target/SwitchWith are rewritten to their
// resolved form on a per-invocation copy during one resolution pass.
type Effect struct {
	Type       EffectType   `yaml:"type" json:"type"`
	Amount     *EffectValue `yaml:"amount,omitempty" json:"amount,omitempty"`
	Target     *Target      `yaml:"target,omitempty" json:"target,omitempty"`
	SwitchWith *Target      `yaml:"switchWith,omitempty" json:"switchWith,omitempty"`
	Duration   Duration     `yaml:"duration,omitempty" json:"duration,omitempty"`
	Operation  Operation    `yaml:"operation,omitempty" json:"operation,omitempty"`

	// Status effects: "asleep", "paralyzed" or "poisoned".
	Status string `yaml:"status,omitempty" json:"status,omitempty"`

	// Energy effects.
	EnergyType   EnergyType       `yaml:"energyType,omitempty" json:"energyType,omitempty"`
	EnergyTypes  []EnergyType     `yaml:"energyTypes,omitempty" json:"energyTypes,omitempty"`
	EnergySource EnergySourceKind `yaml:"energySource,omitempty" json:"energySource,omitempty"`

	// Deck/hand effects.
	Count    int             `yaml:"count,omitempty" json:"count,omitempty"`
	Criteria *TargetCriteria `yaml:"criteria,omitempty" json:"criteria,omitempty"`

	// Damage-boost matcher: names the defender-matching strategy consulted by
	// the damage resolver ("any" when empty). AppliesToName narrows a boost to
	// one named creature.
	AppliesTo     string `yaml:"appliesTo,omitempty" json:"appliesTo,omitempty"`
	AppliesToName string `yaml:"appliesToName,omitempty" json:"appliesToName,omitempty"`

	// Prevent-damage attacker scope.
	Source *SourceFilter `yaml:"source,omitempty" json:"source,omitempty"`

	// Optional guard on the whole effect.
	Condition *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// ValueKind discriminates EffectValue.
type ValueKind string

const (
	ValueConstant ValueKind = "constant"
	ValueContext  ValueKind = "context"
)

// ValueSource names a game-state quantity read at the moment an effect
// applies, never earlier.
type ValueSource string

const (
	SourceOpponentHandSize   ValueSource = "opponent-hand-size"
	SourceSelfHandSize       ValueSource = "self-hand-size"
	SourceSelfBenchCount     ValueSource = "self-bench-count"
	SourceOpponentBenchCount ValueSource = "opponent-bench-count"
	SourceAttachedEnergy     ValueSource = "attached-energy"
	SourceDamageTaken        ValueSource = "damage-taken"
)

// EffectValue is a lazily evaluated amount: either a constant or a quantity
// read from the game at application time.
type EffectValue struct {
	Kind   ValueKind   `yaml:"kind" json:"kind"`
	Amount int         `yaml:"amount,omitempty" json:"amount,omitempty"`
	Source ValueSource `yaml:"source,omitempty" json:"source,omitempty"`
}

// Constant is shorthand for a constant EffectValue.
func Constant(n int) *EffectValue {
	return &EffectValue{Kind: ValueConstant, Amount: n}
}

// DynamicKind discriminates the dynamic damage formula union.
type DynamicKind string

const (
	DynamicMultiplication DynamicKind = "multiplication"
	DynamicCoinFlip       DynamicKind = "coin-flip"
	DynamicAddition       DynamicKind = "addition"
	DynamicConditional    DynamicKind = "conditional"
)

// DynamicDamage describes an attack's non-constant base damage formula.
type DynamicDamage struct {
	Kind DynamicKind `yaml:"kind" json:"kind"`

	// multiplication: Base x evaluated Multiplier.
	Base       int          `yaml:"base,omitempty" json:"base,omitempty"`
	Multiplier *EffectValue `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`

	// coin-flip: Heads on heads, Tails on tails.
	Heads int `yaml:"heads,omitempty" json:"heads,omitempty"`
	Tails int `yaml:"tails,omitempty" json:"tails,omitempty"`

	// addition: sum of sub-formulas.
	Parts []DynamicDamage `yaml:"parts,omitempty" json:"parts,omitempty"`

	// conditional: TrueValue if Condition holds for the attacker, else 0.
	Condition *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
	TrueValue int        `yaml:"trueValue,omitempty" json:"trueValue,omitempty"`
}

// Condition is a composable predicate over a creature instance. All fields
// present are ANDed; a nil Condition always holds.
type Condition struct {
	HasEnergy         map[EnergyType]int `yaml:"hasEnergy,omitempty" json:"hasEnergy,omitempty"`
	HasDamage         *bool              `yaml:"hasDamage,omitempty" json:"hasDamage,omitempty"`
	Stage             *Stage             `yaml:"stage,omitempty" json:"stage,omitempty"`
	Attributes        []Attribute        `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	PreviousStageName string             `yaml:"previousStageName,omitempty" json:"previousStageName,omitempty"`
	IsType            EnergyType         `yaml:"isType,omitempty" json:"isType,omitempty"`
}
