package cards

// EnergyType represents one of the energy colors a creature or attack can use.
type EnergyType string

const (
	EnergyGrass     EnergyType = "GRASS"
	EnergyFire      EnergyType = "FIRE"
	EnergyWater     EnergyType = "WATER"
	EnergyLightning EnergyType = "LIGHTNING"
	EnergyPsychic   EnergyType = "PSYCHIC"
	EnergyFighting  EnergyType = "FIGHTING"
	EnergyDarkness  EnergyType = "DARKNESS"
	EnergyMetal     EnergyType = "METAL"
	EnergyColorless EnergyType = "COLORLESS"
)

// EnergyTypeOrder is the canonical iteration order for per-type walks, so
// "discard any energy" operations stay deterministic.
var EnergyTypeOrder = []EnergyType{
	EnergyGrass,
	EnergyFire,
	EnergyWater,
	EnergyLightning,
	EnergyPsychic,
	EnergyFighting,
	EnergyDarkness,
	EnergyMetal,
	EnergyColorless,
}

// Stage represents evolution depth: 0 = basic, 1 = stage one, 2 = stage two.
type Stage int

// Attribute marks special creature classifications that rules text can key on.
type Attribute string

const (
	AttributeEX         Attribute = "ex"
	AttributeMega       Attribute = "mega"
	AttributeUltraBeast Attribute = "ultra-beast"
)

// Creature is an immutable creature card template.
type Creature struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	HP          int         `yaml:"hp" json:"hp"`
	Type        EnergyType  `yaml:"type" json:"type"`
	Stage       Stage       `yaml:"stage" json:"stage"`
	EvolvesFrom string      `yaml:"evolvesFrom,omitempty" json:"evolvesFrom,omitempty"`
	Weakness    EnergyType  `yaml:"weakness,omitempty" json:"weakness,omitempty"`
	RetreatCost int         `yaml:"retreatCost" json:"retreatCost"`
	Attributes  []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Attacks     []Attack    `yaml:"attacks,omitempty" json:"attacks,omitempty"`
	Ability     *Ability    `yaml:"ability,omitempty" json:"ability,omitempty"`
}

// HasAttribute reports whether the template carries the given attribute.
func (c *Creature) HasAttribute(a Attribute) bool {
	for _, attr := range c.Attributes {
		if attr == a {
			return true
		}
	}
	return false
}

// Attack describes one attack printed on a creature template.
type Attack struct {
	Name    string             `yaml:"name" json:"name"`
	Cost    map[EnergyType]int `yaml:"cost,omitempty" json:"cost,omitempty"`
	Damage  int                `yaml:"damage" json:"damage"`
	Dynamic *DynamicDamage     `yaml:"dynamic,omitempty" json:"dynamic,omitempty"`
	Boosts  []AttackBoost      `yaml:"boosts,omitempty" json:"boosts,omitempty"`
	Effects []Effect           `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// AttackBoost is extra damage printed on the attack itself, granted only while
// its condition holds for the attacking creature.
type AttackBoost struct {
	Amount    int        `yaml:"amount" json:"amount"`
	Condition *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Ability describes a creature's ability: a named effect list that is either
// activated once per turn or applied passively while the creature is in play.
type Ability struct {
	Name    string   `yaml:"name" json:"name"`
	Passive bool     `yaml:"passive,omitempty" json:"passive,omitempty"`
	Effects []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// Supporter is a trainer card template limited to one play per turn.
type Supporter struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Effects []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// Item is a trainer card template with no per-turn play limit.
type Item struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Effects []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// Tool is a trainer card template that attaches to a creature and grants its
// effects while attached.
type Tool struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Effects []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}
