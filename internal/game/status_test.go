package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

func TestAttack_InflictsSleep(t *testing.T) {
	aliceDeck := []string{"drowzy", "sparkit", "potion", "cheer", "medic"}
	bobDeck := []string{"bulwark", "sparkit", "drowzy", "potion", "cheer"}
	g := startGame(t, aliceDeck, bobDeck)
	skipToTurn(t, g, 3)

	g.Energy().Attach(g.Field().Active("alice").InstanceID, cards.EnergyPsychic, 1)
	// Tails at the end-of-turn checkup keeps the defender asleep.
	g.Flip().Mock(false)

	_, err := g.Attack("alice", 0)
	require.NoError(t, err)

	defender := g.Field().Active("bob")
	assert.Equal(t, 10, defender.DamageTaken)
	assert.Equal(t, field.StatusAsleep, defender.Status)

	// A sleeping creature cannot attack.
	_, err = g.Attack("bob", 0)
	require.ErrorContains(t, err, "asleep")

	// Heads at bob's own checkup wakes it up.
	g.Flip().Mock(true)
	require.NoError(t, g.EndTurn("bob"))
	assert.Equal(t, field.StatusNone, defender.Status)
}

func TestAttack_InflictsPoisonAndCheckupTicks(t *testing.T) {
	aliceDeck := []string{"flamikin", "sparkit", "potion", "cheer", "medic"}
	bobDeck := []string{"bulwark", "sparkit", "drowzy", "potion", "cheer"}
	g := startGame(t, aliceDeck, bobDeck)
	skipToTurn(t, g, 3)

	g.Energy().Attach(g.Field().Active("alice").InstanceID, cards.EnergyFire, 1)

	// Smog: 10 damage plus poison. The checkup closing alice's turn already
	// ticks the poison once.
	_, err := g.Attack("alice", 1)
	require.NoError(t, err)

	defender := g.Field().Active("bob")
	assert.True(t, defender.Poisoned)
	assert.Equal(t, 20, defender.DamageTaken)

	// Every further turn boundary ticks another 10.
	require.NoError(t, g.EndTurn("bob"))
	assert.Equal(t, 30, defender.DamageTaken)
}

func TestCheckup_ParalysisClearsOnOwnTurnEnd(t *testing.T) {
	aliceDeck := []string{"flamikin", "sparkit", "potion", "cheer", "medic"}
	bobDeck := []string{"bulwark", "sparkit", "drowzy", "potion", "cheer"}
	g := startGame(t, aliceDeck, bobDeck)

	defender := g.Field().Active("bob")
	require.True(t, g.InflictStatus(targetRef("bob", 0), "paralyzed"))

	// Alice ending her turn does not free bob's creature.
	require.NoError(t, g.EndTurn("alice"))
	assert.Equal(t, field.StatusParalyzed, defender.Status)

	g.Energy().Attach(defender.InstanceID, cards.EnergyFighting, 2)
	_, err := g.Attack("bob", 0)
	require.ErrorContains(t, err, "paralyzed")
	require.ErrorContains(t, g.Retreat("bob", 1), "paralyzed")

	// Bob's own turn end clears it.
	require.NoError(t, g.EndTurn("bob"))
	assert.Equal(t, field.StatusNone, defender.Status)
}

func TestInflictStatus_RespectsPrevention(t *testing.T) {
	deck := []string{"flamikin", "sparkit", "potion", "cheer", "medic"}
	g := startGame(t, deck, deck)

	protected := g.Field().Active("bob")
	g.PassiveEffects().Register("bob", protected.InstanceID, "Comfy Blanket",
		cards.Effect{Type: cards.EffectStatusPrevention},
		cards.DurationWhileInPlay, g.Turn())

	assert.False(t, g.InflictStatus(targetRef("bob", 0), "asleep"))
	assert.Equal(t, field.StatusNone, protected.Status)

	assert.False(t, g.InflictStatus(targetRef("bob", 0), "poisoned"))
	assert.False(t, protected.Poisoned)
}

func TestInflictStatus_UnknownStatusRejected(t *testing.T) {
	deck := []string{"flamikin", "sparkit", "potion", "cheer", "medic"}
	g := startGame(t, deck, deck)

	assert.False(t, g.InflictStatus(targetRef("bob", 0), "confused"))
	assert.False(t, g.InflictStatus(targetRef("bob", 3), "asleep"), "empty slot is a soft miss")
}

func TestEvolve_ClearsStatusConditions(t *testing.T) {
	deck := []string{"flamikin", "sparkit", "voltadon", "potion", "cheer"}
	g := startGame(t, deck, deck)
	require.NoError(t, g.PlaceBench("alice", "sparkit"))
	skipToTurn(t, g, 3)

	benched := g.Field().Card(fieldRef("alice", 1))
	require.True(t, g.InflictStatus(targetRef("alice", 1), "poisoned"))
	require.True(t, g.InflictStatus(targetRef("alice", 1), "paralyzed"))

	require.NoError(t, g.Evolve("alice", "voltadon", 1))
	assert.Equal(t, field.StatusNone, benched.Status)
	assert.False(t, benched.Poisoned)
}
