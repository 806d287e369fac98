package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/coin"
	"github.com/deckforge/pocketbattle/internal/game/effects"
	"github.com/deckforge/pocketbattle/internal/game/energy"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

const (
	defaultBenchSize   = 3
	defaultPointsToWin = 3
	startingHandSize   = 5
)

// Options configures a new game session.
type Options struct {
	ID          string
	Players     [2]string
	Decks       map[string][]string
	Repo        cards.Repository
	Logger      *zap.Logger
	Messenger   Messenger
	Seed        int64
	BenchSize   int
	PointsToWin int
}

// player is one side's non-field state.
type player struct {
	id              string
	deck            []string
	hand            []string
	discard         []string
	points          int
	supporterPlayed bool
	energyAttached  bool
}

// Game is the aggregate owning all state of one session: field, energy
// ledger, passive-effect registry, effect applier, coin flipper and turn
// counter. It is single-threaded: the action loop processes one player
// decision at a time, so suspension is a persisted pending-selection record,
// not a concurrency primitive.
type Game struct {
	ID     string
	logger *zap.Logger
	repo   cards.Repository
	rng    *rand.Rand

	order     []string
	players   map[string]*player
	field     *field.Field
	energy    *energy.Ledger
	registry  *effects.Registry
	flipper   *coin.Flipper
	turns     *TurnCounter
	applier   *effects.Applier
	messenger Messenger

	pointsToWin      int
	usedAbilities    map[string]bool
	endTurnRequested bool
	over             bool
	winner           string
}

// New creates and deals a game: each player draws an opening hand and must
// place an active creature via PlaceActive before the action loop starts.
func New(opts Options) (*Game, error) {
	if opts.Repo == nil {
		return nil, fmt.Errorf("game: repository required")
	}
	if opts.Players[0] == "" || opts.Players[1] == "" {
		return nil, fmt.Errorf("game: two players required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	messenger := opts.Messenger
	if messenger == nil {
		messenger = NewLogMessenger(logger)
	}
	benchSize := opts.BenchSize
	if benchSize <= 0 {
		benchSize = defaultBenchSize
	}
	pointsToWin := opts.PointsToWin
	if pointsToWin <= 0 {
		pointsToWin = defaultPointsToWin
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	order := []string{opts.Players[0], opts.Players[1]}
	g := &Game{
		ID:            id,
		logger:        logger.With(zap.String("game_id", id)),
		repo:          opts.Repo,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		order:         order,
		players:       make(map[string]*player, 2),
		field:         field.New(order, benchSize),
		energy:        energy.NewLedger(),
		registry:      effects.NewRegistry(logger),
		turns:         NewTurnCounter(order),
		messenger:     messenger,
		pointsToWin:   pointsToWin,
		usedAbilities: make(map[string]bool),
	}
	g.flipper = coin.NewFlipper(logger, g.rng)
	g.applier = effects.NewApplier(g, logger)

	for _, pid := range order {
		deck := append([]string(nil), opts.Decks[pid]...)
		p := &player{id: pid, deck: deck}
		g.players[pid] = p
		g.energy.SetAvailableTypes(pid, deckEnergyTypes(g.repo, deck))
		g.shuffleDeck(pid)
		g.drawCards(pid, startingHandSize)
	}
	return g, nil
}

func (g *Game) player(playerID string) *player {
	p, ok := g.players[playerID]
	if !ok {
		panic(fmt.Sprintf("game: unknown player %q", playerID))
	}
	return p
}

// Over reports whether the game has finished; Winner is valid once it has.
func (g *Game) Over() bool     { return g.over }
func (g *Game) Winner() string { return g.winner }

// Points returns a player's current score.
func (g *Game) Points(playerID string) int { return g.player(playerID).points }

// CurrentPlayer returns the player to act.
func (g *Game) CurrentPlayer() string { return g.turns.CurrentPlayer() }

// Field exposes the field collection for read access.
func (g *Game) Field() *field.Field { return g.field }

// Energy exposes the energy ledger for read access.
func (g *Game) Energy() *energy.Ledger { return g.energy }

// PassiveEffects exposes the registry for read access (eligibility checks).
func (g *Game) PassiveEffects() *effects.Registry { return g.registry }

// Flip exposes the coin flipper (test setup, bot layer).
func (g *Game) Flip() *coin.Flipper { return g.flipper }

// PendingSelection returns the applier's suspension record, if any.
func (g *Game) PendingSelection() *effects.PendingSelection { return g.applier.Pending() }

// --- targeting.GameView / effects.GameView ---

func (g *Game) PlayerIDs() []string { return append([]string(nil), g.order...) }

func (g *Game) Opponent(playerID string) string {
	if playerID == g.order[0] {
		return g.order[1]
	}
	return g.order[0]
}

func (g *Game) FieldCards(playerID string) []*field.Card { return g.field.Cards(playerID) }

func (g *Game) Attached(instanceID string) map[cards.EnergyType]int {
	return g.energy.Attached(instanceID)
}

func (g *Game) Hand(playerID string) []string {
	return append([]string(nil), g.player(playerID).hand...)
}

func (g *Game) Deck(playerID string) []string {
	return append([]string(nil), g.player(playerID).deck...)
}

func (g *Game) DiscardPile(playerID string) []string {
	return append([]string(nil), g.player(playerID).discard...)
}

func (g *Game) DiscardedEnergy(playerID string) map[cards.EnergyType]int {
	return g.energy.Discarded(playerID)
}

func (g *Game) Repo() cards.Repository { return g.repo }

func (g *Game) Turn() int { return g.turns.Number() }

// --- Messenger ---

func (g *Game) Broadcast(text string)          { g.messenger.Broadcast(text) }
func (g *Game) ToPlayer(playerID, text string) { g.messenger.ToPlayer(playerID, text) }

// --- effects.Controllers ---

// effectiveMaxHP is the printed HP plus any hp-boost passives hosted by the
// instance. Damage clamping and knockout checks both use it.
func (g *Game) effectiveMaxHP(card *field.Card) int {
	tmpl, err := g.repo.Creature(card.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", card.TemplateID))
	}
	max := tmpl.HP
	for _, entry := range g.registry.ByType(cards.EffectHPBoost) {
		if entry.HostInstance != card.InstanceID {
			continue
		}
		max += effects.EvaluateValue(entry.Effect.Amount, g, &effects.Context{SourcePlayer: entry.SourcePlayer})
	}
	return max
}

func (g *Game) ApplyDamage(ref cards.TargetRef, amount int) int {
	card := g.field.Card(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex})
	if card == nil {
		return 0
	}
	return card.ApplyDamage(amount, g.effectiveMaxHP(card))
}

func (g *Game) HealDamage(ref cards.TargetRef, amount int) int {
	return g.field.HealDamage(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex}, amount)
}

// InflictStatus puts a special condition on the creature at ref. It reports
// false when a status-prevention passive protects the creature.
func (g *Game) InflictStatus(ref cards.TargetRef, status string) bool {
	card := g.field.Card(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex})
	if card == nil {
		return false
	}
	if g.StatusPrevented(ref.PlayerID, card) {
		return false
	}
	switch status {
	case "poisoned":
		card.Poisoned = true
	case "asleep":
		card.Status = field.StatusAsleep
	case "paralyzed":
		card.Status = field.StatusParalyzed
	default:
		return false
	}
	return true
}

func (g *Game) SwitchActive(playerID string, benchIndex int) error {
	return g.field.Retreat(playerID, benchIndex)
}

func (g *Game) EvolveInto(ref cards.TargetRef, templateID string) error {
	card := g.field.Card(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex})
	if card == nil {
		return fmt.Errorf("no creature at %v", ref)
	}
	// While-in-play effects do not survive the pre-evolution leaving play.
	g.registry.ClearForInstance(card.InstanceID)
	card.Evolve(templateID, g.turns.Number())
	return nil
}

func (g *Game) AttachEnergy(ref cards.TargetRef, t cards.EnergyType, amount int) {
	card := g.field.Card(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex})
	if card == nil {
		return
	}
	g.energy.Attach(card.InstanceID, t, amount)
}

func (g *Game) DiscardEnergy(ref cards.TargetRef, types []cards.EnergyType, count int) map[cards.EnergyType]int {
	card := g.field.Card(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex})
	if card == nil {
		return nil
	}
	if len(types) == 0 {
		types = cards.EnergyTypeOrder
	}
	return g.energy.DiscardAny(ref.PlayerID, card.InstanceID, types, count)
}

func (g *Game) RemoveFromDiscardPool(playerID string, types []cards.EnergyType, count int) map[cards.EnergyType]int {
	return g.energy.RemoveFromDiscard(playerID, types, count)
}

func (g *Game) RecoverEnergy(ref cards.TargetRef, t cards.EnergyType, amount int) int {
	card := g.field.Card(field.Ref{PlayerID: ref.PlayerID, Index: ref.FieldIndex})
	if card == nil {
		return 0
	}
	return g.energy.RecoverFromDiscard(ref.PlayerID, card.InstanceID, t, amount)
}

func (g *Game) MoveDeckToHand(playerID string, indices []int) []string {
	p := g.player(playerID)
	moved := removeIndices(&p.deck, indices)
	p.hand = append(p.hand, moved...)
	return moved
}

func (g *Game) RemoveDeckCards(playerID string, indices []int) []string {
	p := g.player(playerID)
	return removeIndices(&p.deck, indices)
}

func (g *Game) ShuffleDeck(playerID string) {
	g.shuffleDeck(playerID)
}

func (g *Game) DrawCards(playerID string, count int) []string {
	return g.drawCards(playerID, count)
}

func (g *Game) DiscardFromHand(playerID string, count int) []string {
	p := g.player(playerID)
	if count > len(p.hand) {
		count = len(p.hand)
	}
	discarded := append([]string(nil), p.hand[:count]...)
	p.hand = p.hand[count:]
	p.discard = append(p.discard, discarded...)
	return discarded
}

func (g *Game) ReturnHandToDeck(playerID string) int {
	p := g.player(playerID)
	n := len(p.hand)
	p.deck = append(p.deck, p.hand...)
	p.hand = nil
	return n
}

func (g *Game) Registry() *effects.Registry { return g.registry }

func (g *Game) Flipper() *coin.Flipper { return g.flipper }

func (g *Game) RequestEndTurn() { g.endTurnRequested = true }

// --- internals ---

func (g *Game) shuffleDeck(playerID string) {
	deck := g.player(playerID).deck
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

func (g *Game) drawCards(playerID string, count int) []string {
	p := g.player(playerID)
	if count > len(p.deck) {
		count = len(p.deck)
	}
	drawn := append([]string(nil), p.deck[:count]...)
	p.deck = p.deck[count:]
	p.hand = append(p.hand, drawn...)
	return drawn
}

// removeIndices removes the given positions from a list, preserving the
// order of survivors, and returns the removed values in index order.
func removeIndices(list *[]string, indices []int) []string {
	remove := make(map[int]bool, len(indices))
	for _, i := range indices {
		remove[i] = true
	}
	var removed, kept []string
	for i, v := range *list {
		if remove[i] {
			removed = append(removed, v)
		} else {
			kept = append(kept, v)
		}
	}
	*list = kept
	return removed
}

func deckEnergyTypes(repo cards.Repository, deck []string) []cards.EnergyType {
	seen := make(map[cards.EnergyType]bool)
	for _, templateID := range deck {
		tmpl, err := repo.Creature(templateID)
		if err != nil {
			continue
		}
		if tmpl.Type != cards.EnergyColorless {
			seen[tmpl.Type] = true
		}
	}
	var types []cards.EnergyType
	for _, t := range cards.EnergyTypeOrder {
		if seen[t] {
			types = append(types, t)
		}
	}
	return types
}
