package field

import "github.com/google/uuid"

// Status is a special condition on a creature. Poison is tracked separately
// because it stacks with sleep and paralysis.
type Status string

const (
	StatusNone      Status = ""
	StatusAsleep    Status = "asleep"
	StatusParalyzed Status = "paralyzed"
)

// Card is one creature instance in play. DamageTaken is kept inside
// [0, maxHP] by clamping at every damage/heal site; maxHP is supplied by the
// caller because passive hp boosts can raise it above the printed value.
type Card struct {
	InstanceID  string
	TemplateID  string
	DamageTaken int

	// EvolutionStack holds the replaced pre-evolution instances, oldest
	// first. Preserved across evolution for conservation accounting.
	EvolutionStack []*Card

	TurnPlayed     int
	TurnLastPlayed int

	ToolID   string
	Status   Status
	Poisoned bool
}

// NewCard creates an instance of the given template placed on the given turn.
func NewCard(templateID string, turn int) *Card {
	return &Card{
		InstanceID:     uuid.NewString(),
		TemplateID:     templateID,
		TurnPlayed:     turn,
		TurnLastPlayed: turn,
	}
}

// ApplyDamage adds damage clamped to maxHP and returns the amount actually
// applied.
func (c *Card) ApplyDamage(amount, maxHP int) int {
	if amount <= 0 {
		return 0
	}
	applied := amount
	if c.DamageTaken+applied > maxHP {
		applied = maxHP - c.DamageTaken
	}
	if applied < 0 {
		applied = 0
	}
	c.DamageTaken += applied
	return applied
}

// Heal removes damage clamped at zero and returns the amount actually healed.
func (c *Card) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := amount
	if healed > c.DamageTaken {
		healed = c.DamageTaken
	}
	c.DamageTaken -= healed
	return healed
}

// KnockedOut reports whether accumulated damage has reached maxHP.
func (c *Card) KnockedOut(maxHP int) bool {
	return c.DamageTaken >= maxHP
}

// Evolve replaces the card's template in place, pushing the previous form
// onto the evolution stack. Damage and instance identity are preserved so
// attached energy (keyed by instance ID) survives evolution.
func (c *Card) Evolve(templateID string, turn int) {
	previous := *c
	previous.EvolutionStack = nil
	c.EvolutionStack = append(c.EvolutionStack, &previous)
	c.TemplateID = templateID
	c.TurnLastPlayed = turn
	c.Status = StatusNone
	c.Poisoned = false
}
