package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// testRepo builds the template fixtures the game tests run on. Decks of
// exactly five cards put the whole deck into the opening hand, so tests stay
// deterministic regardless of the shuffle.
func testRepo() *cards.MemoryRepository {
	return cards.NewMemoryRepository(&cards.Set{
		Name: "test-set",
		Creatures: []*cards.Creature{
			{
				ID: "sparkit", Name: "Sparkit", HP: 60, Type: cards.EnergyLightning,
				Stage: 0, Weakness: cards.EnergyFighting, RetreatCost: 1,
				Attacks: []cards.Attack{
					{Name: "Jolt", Cost: map[cards.EnergyType]int{cards.EnergyLightning: 1}, Damage: 20},
				},
			},
			{
				ID: "voltadon", Name: "Voltadon", HP: 120, Type: cards.EnergyLightning,
				Stage: 1, EvolvesFrom: "Sparkit", Weakness: cards.EnergyFighting, RetreatCost: 2,
				Attributes: []cards.Attribute{cards.AttributeEX},
				Attacks: []cards.Attack{
					{Name: "Thunder Crash", Cost: map[cards.EnergyType]int{cards.EnergyLightning: 2}, Damage: 80},
				},
			},
			{
				ID: "flamikin", Name: "Flamikin", HP: 70, Type: cards.EnergyFire,
				Stage: 0, Weakness: cards.EnergyWater, RetreatCost: 2,
				Attacks: []cards.Attack{
					{Name: "Ember", Cost: map[cards.EnergyType]int{cards.EnergyFire: 1}, Damage: 30},
					{Name: "Smog", Cost: map[cards.EnergyType]int{cards.EnergyFire: 1}, Damage: 10,
						Effects: []cards.Effect{{
							Type:   cards.EffectStatus,
							Status: "poisoned",
							Target: &cards.Target{Type: cards.TargetFixed, Fixed: &cards.FixedTarget{
								Player: cards.ScopeOpponent, Position: cards.PositionActive,
							}},
						}},
					},
				},
			},
			{
				ID: "drowzy", Name: "Drowzy", HP: 60, Type: cards.EnergyPsychic,
				Stage: 0, RetreatCost: 1,
				Attacks: []cards.Attack{
					{Name: "Hypnotic Ray", Cost: map[cards.EnergyType]int{cards.EnergyPsychic: 1}, Damage: 10,
						Effects: []cards.Effect{{
							Type:   cards.EffectStatus,
							Status: "asleep",
							Target: &cards.Target{Type: cards.TargetFixed, Fixed: &cards.FixedTarget{
								Player: cards.ScopeOpponent, Position: cards.PositionActive,
							}},
						}},
					},
				},
			},
			{
				ID: "bulwark", Name: "Bulwark", HP: 100, Type: cards.EnergyFighting,
				Stage: 0, RetreatCost: 2,
				Ability: &cards.Ability{
					Name: "Stone Wall", Passive: true,
					Effects: []cards.Effect{{
						Type:     cards.EffectHPBoost,
						Amount:   cards.Constant(20),
						Duration: cards.DurationWhileInPlay,
					}},
				},
			},
			{
				ID: "medic", Name: "Medic", HP: 70, Type: cards.EnergyPsychic,
				Stage: 0, RetreatCost: 1,
				Ability: &cards.Ability{
					Name: "Healing Pulse",
					Effects: []cards.Effect{{
						Type:      cards.EffectHP,
						Operation: cards.OperationHeal,
						Amount:    cards.Constant(20),
						Target: &cards.Target{Type: cards.TargetFixed, Fixed: &cards.FixedTarget{
							Player: cards.ScopeSelf, Position: cards.PositionActive,
						}},
					}},
				},
			},
		},
		Supporters: []*cards.Supporter{
			{
				ID: "cheer", Name: "Cheerleader",
				Effects: []cards.Effect{{
					Type:      cards.EffectHP,
					Operation: cards.OperationHeal,
					Amount:    cards.Constant(10),
					Target: &cards.Target{Type: cards.TargetFixed, Fixed: &cards.FixedTarget{
						Player: cards.ScopeSelf, Position: cards.PositionActive,
					}},
				}},
			},
		},
		Items: []*cards.Item{
			{
				ID: "potion", Name: "Potion",
				Effects: []cards.Effect{{
					Type:      cards.EffectHP,
					Operation: cards.OperationHeal,
					Amount:    cards.Constant(20),
					Target: &cards.Target{
						Type:     cards.TargetSingleChoice,
						Criteria: &cards.TargetCriteria{Player: cards.ScopeSelf},
					},
				}},
			},
			{
				ID: "xspeed", Name: "X Speed",
				Effects: []cards.Effect{{
					Type:     cards.EffectRetreatCostMod,
					Amount:   cards.Constant(-1),
					Duration: cards.DurationUntilEndOfTurn,
				}},
			},
		},
		Tools: []*cards.Tool{
			{
				ID: "cape", Name: "Giant Cape",
				Effects: []cards.Effect{{
					Type:     cards.EffectHPBoost,
					Amount:   cards.Constant(20),
					Duration: cards.DurationWhileInPlay,
				}},
			},
		},
	})
}

func newTestGame(t *testing.T, aliceDeck, bobDeck []string, opts ...func(*Options)) *Game {
	t.Helper()
	o := Options{
		ID:      "test-game",
		Players: [2]string{"alice", "bob"},
		Decks:   map[string][]string{"alice": aliceDeck, "bob": bobDeck},
		Repo:    testRepo(),
		Logger:  zaptest.NewLogger(t),
		Seed:    1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	g, err := New(o)
	require.NoError(t, err)
	return g
}

// startGame deals both players and places the first deck card as each
// player's active creature.
func startGame(t *testing.T, aliceDeck, bobDeck []string, opts ...func(*Options)) *Game {
	t.Helper()
	g := newTestGame(t, aliceDeck, bobDeck, opts...)
	require.NoError(t, g.PlaceActive("alice", aliceDeck[0]))
	require.NoError(t, g.PlaceActive("bob", bobDeck[0]))
	return g
}

// skipToTurn ends empty turns until the given turn number, so first-turn
// restrictions no longer apply.
func skipToTurn(t *testing.T, g *Game, turn int) {
	t.Helper()
	for g.Turn() < turn {
		require.NoError(t, g.EndTurn(g.CurrentPlayer()))
	}
}

func targetRef(playerID string, index int) cards.TargetRef {
	return cards.TargetRef{PlayerID: playerID, FieldIndex: index}
}

func fieldRef(playerID string, index int) field.Ref {
	return field.Ref{PlayerID: playerID, Index: index}
}
