package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/combat"
	"github.com/deckforge/pocketbattle/internal/game/effects"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// ErrNotYourTurn is returned for actions taken out of turn.
var ErrNotYourTurn = errors.New("not your turn")

// ErrSelectionPending is returned for actions attempted while an effect is
// suspended awaiting a selection.
var ErrSelectionPending = errors.New("selection pending")

func (g *Game) checkActionable(playerID string) error {
	if g.over {
		return fmt.Errorf("game is over")
	}
	if playerID != g.turns.CurrentPlayer() {
		return ErrNotYourTurn
	}
	if g.applier.Pending() != nil {
		return ErrSelectionPending
	}
	return nil
}

// PlaceActive plays a basic creature from hand into the empty active slot
// (setup, or forced promotion).
func (g *Game) PlaceActive(playerID, templateID string) error {
	if g.over {
		return fmt.Errorf("game is over")
	}
	tmpl, err := g.takeCreatureFromHand(playerID, templateID)
	if err != nil {
		return err
	}
	if tmpl.Stage != 0 {
		g.returnToHand(playerID, templateID)
		return fmt.Errorf("%s is not a basic creature", tmpl.Name)
	}
	card := field.NewCard(templateID, g.turns.Number())
	if err := g.field.PlaceActive(playerID, card); err != nil {
		g.returnToHand(playerID, templateID)
		return err
	}
	g.messenger.Broadcast(fmt.Sprintf("%s is now active", tmpl.Name))
	g.registerPassiveAbility(playerID, card, tmpl)
	return nil
}

// PlaceBench plays a basic creature from hand onto the bench.
func (g *Game) PlaceBench(playerID, templateID string) error {
	if err := g.checkActionable(playerID); err != nil {
		return err
	}
	tmpl, err := g.takeCreatureFromHand(playerID, templateID)
	if err != nil {
		return err
	}
	if tmpl.Stage != 0 {
		g.returnToHand(playerID, templateID)
		return fmt.Errorf("%s is not a basic creature", tmpl.Name)
	}
	card := field.NewCard(templateID, g.turns.Number())
	if _, err := g.field.PlaceBench(playerID, card); err != nil {
		g.returnToHand(playerID, templateID)
		return err
	}
	g.messenger.Broadcast(fmt.Sprintf("%s was benched", tmpl.Name))
	g.registerPassiveAbility(playerID, card, tmpl)
	return nil
}

// Evolve plays an evolution from hand onto a creature already in play. A
// creature cannot evolve the turn it was played or on the game's first turn.
func (g *Game) Evolve(playerID, templateID string, fieldIndex int) error {
	if err := g.checkActionable(playerID); err != nil {
		return err
	}
	if g.turns.FirstTurn() {
		return fmt.Errorf("cannot evolve on the first turn")
	}
	card := g.field.Card(field.Ref{PlayerID: playerID, Index: fieldIndex})
	if card == nil {
		return fmt.Errorf("no creature at position %d", fieldIndex)
	}
	if card.TurnLastPlayed >= g.turns.Number() {
		return fmt.Errorf("creature cannot evolve the turn it was played")
	}
	evo, err := g.takeCreatureFromHand(playerID, templateID)
	if err != nil {
		return err
	}
	base, err := g.repo.Creature(card.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", card.TemplateID))
	}
	if evo.EvolvesFrom != base.Name {
		g.returnToHand(playerID, templateID)
		return fmt.Errorf("%s does not evolve from %s", evo.Name, base.Name)
	}
	if err := g.EvolveInto(cards.TargetRef{PlayerID: playerID, FieldIndex: fieldIndex}, templateID); err != nil {
		g.returnToHand(playerID, templateID)
		return err
	}
	g.messenger.Broadcast(fmt.Sprintf("%s evolved into %s", base.Name, evo.Name))
	g.registerPassiveAbility(playerID, card, evo)
	return nil
}

// AttachTurnEnergy performs the once-per-turn energy attachment from the
// player's generated energy, which must be one of the deck-derived types.
func (g *Game) AttachTurnEnergy(playerID string, t cards.EnergyType, fieldIndex int) error {
	if err := g.checkActionable(playerID); err != nil {
		return err
	}
	p := g.player(playerID)
	if p.energyAttached {
		return fmt.Errorf("energy already attached this turn")
	}
	available := false
	for _, at := range g.energy.AvailableTypes(playerID) {
		if at == t {
			available = true
			break
		}
	}
	if !available {
		return fmt.Errorf("energy type %s not available", t)
	}
	card := g.field.Card(field.Ref{PlayerID: playerID, Index: fieldIndex})
	if card == nil {
		return fmt.Errorf("no creature at position %d", fieldIndex)
	}
	g.energy.Attach(card.InstanceID, t, 1)
	p.energyAttached = true
	g.messenger.Broadcast(fmt.Sprintf("%s attached a %s energy", playerID, t))
	return nil
}

// PlayTrainer plays a supporter or item card from hand, running its effects
// through the applier. It returns a pending selection when an effect
// suspended for a choice.
func (g *Game) PlayTrainer(playerID, templateID string) (*effects.PendingSelection, error) {
	if err := g.checkActionable(playerID); err != nil {
		return nil, err
	}
	p := g.player(playerID)
	if !containsCard(p.hand, templateID) {
		return nil, fmt.Errorf("card %s not in hand", templateID)
	}

	var (
		name       string
		effectList []cards.Effect
		supporter  bool
	)
	if s, err := g.repo.Supporter(templateID); err == nil {
		name, effectList, supporter = s.Name, s.Effects, true
	} else if i, err := g.repo.Item(templateID); err == nil {
		name, effectList = i.Name, i.Effects
	} else {
		return nil, fmt.Errorf("card %s is not a playable trainer", templateID)
	}

	kind := "item"
	if supporter {
		kind = "supporter"
		if p.supporterPlayed {
			return nil, fmt.Errorf("a supporter was already played this turn")
		}
	}
	if blocked, by := g.playingBlocked(playerID, kind); blocked {
		g.messenger.ToPlayer(playerID, fmt.Sprintf("%s prevents playing %s cards", by, kind))
		return nil, fmt.Errorf("playing %s cards is prevented", kind)
	}

	ctx := effects.NewCardContext(playerID, name)
	if !g.anyApplicable(effectList, ctx) {
		return nil, fmt.Errorf("%s cannot be played now", name)
	}

	removeCard(&p.hand, templateID)
	p.discard = append(p.discard, templateID)
	if supporter {
		p.supporterPlayed = true
	}
	g.messenger.Broadcast(fmt.Sprintf("%s played %s", playerID, name))

	pending, err := g.applier.ApplyEffects(effectList, ctx)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		g.afterAction()
	}
	return pending, nil
}

// PlayTool attaches a tool card from hand to one of the player's creatures.
// The tool's while-in-play effects register hosted by that creature.
func (g *Game) PlayTool(playerID, templateID string, fieldIndex int) error {
	if err := g.checkActionable(playerID); err != nil {
		return err
	}
	p := g.player(playerID)
	if !containsCard(p.hand, templateID) {
		return fmt.Errorf("card %s not in hand", templateID)
	}
	tool, err := g.repo.Tool(templateID)
	if err != nil {
		return fmt.Errorf("card %s is not a tool", templateID)
	}
	if blocked, by := g.playingBlocked(playerID, "tool"); blocked {
		g.messenger.ToPlayer(playerID, fmt.Sprintf("%s prevents playing tool cards", by))
		return fmt.Errorf("playing tool cards is prevented")
	}
	card := g.field.Card(field.Ref{PlayerID: playerID, Index: fieldIndex})
	if card == nil {
		return fmt.Errorf("no creature at position %d", fieldIndex)
	}
	if card.ToolID != "" {
		return fmt.Errorf("creature already holds a tool")
	}

	removeCard(&p.hand, templateID)
	card.ToolID = templateID
	for _, eff := range tool.Effects {
		g.registry.Register(playerID, card.InstanceID, tool.Name, eff, eff.Duration, g.turns.Number())
	}
	g.messenger.Broadcast(fmt.Sprintf("%s attached %s", playerID, tool.Name))
	return nil
}

// UseAbility activates a creature's non-passive ability, once per turn per
// creature.
func (g *Game) UseAbility(playerID string, fieldIndex int) (*effects.PendingSelection, error) {
	if err := g.checkActionable(playerID); err != nil {
		return nil, err
	}
	card := g.field.Card(field.Ref{PlayerID: playerID, Index: fieldIndex})
	if card == nil {
		return nil, fmt.Errorf("no creature at position %d", fieldIndex)
	}
	tmpl, err := g.repo.Creature(card.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", card.TemplateID))
	}
	if tmpl.Ability == nil || tmpl.Ability.Passive {
		return nil, fmt.Errorf("%s has no activatable ability", tmpl.Name)
	}
	if g.usedAbilities[card.InstanceID] {
		return nil, fmt.Errorf("%s already used this turn", tmpl.Ability.Name)
	}

	ctx := effects.NewAbilityContext(playerID, tmpl.Ability.Name, card, fieldIndex)
	if !g.anyApplicable(tmpl.Ability.Effects, ctx) {
		return nil, fmt.Errorf("%s cannot be used now", tmpl.Ability.Name)
	}
	g.usedAbilities[card.InstanceID] = true
	g.messenger.Broadcast(fmt.Sprintf("%s used %s", tmpl.Name, tmpl.Ability.Name))

	pending, err := g.applier.ApplyEffects(tmpl.Ability.Effects, ctx)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		g.afterAction()
	}
	return pending, nil
}

// Attack performs the active creature's attack at the given index. Attacking
// ends the turn once the attack (and any suspended effect selections)
// completes.
func (g *Game) Attack(playerID string, attackIndex int) (*effects.PendingSelection, error) {
	if err := g.checkActionable(playerID); err != nil {
		return nil, err
	}
	if g.turns.FirstTurn() {
		return nil, fmt.Errorf("no attacks on the first turn")
	}
	attacker := g.field.Active(playerID)
	if attacker == nil {
		return nil, fmt.Errorf("no active creature")
	}
	if attacker.Status == field.StatusAsleep || attacker.Status == field.StatusParalyzed {
		g.messenger.ToPlayer(playerID, fmt.Sprintf("active creature is %s and cannot attack", attacker.Status))
		return nil, fmt.Errorf("creature cannot attack while %s", attacker.Status)
	}
	if blocked, by := g.attackBlocked(playerID, attacker); blocked {
		g.messenger.ToPlayer(playerID, fmt.Sprintf("%s prevents attacking", by))
		return nil, fmt.Errorf("attacking is prevented")
	}

	attackerTmpl, err := g.repo.Creature(attacker.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", attacker.TemplateID))
	}
	if attackIndex < 0 || attackIndex >= len(attackerTmpl.Attacks) {
		return nil, fmt.Errorf("no attack at index %d", attackIndex)
	}
	attack := &attackerTmpl.Attacks[attackIndex]
	if !hasEnergyFor(g.energy.Attached(attacker.InstanceID), attack.Cost) {
		return nil, fmt.Errorf("not enough energy for %s", attack.Name)
	}

	opponent := g.Opponent(playerID)
	defender := g.field.Active(opponent)
	if defender == nil {
		return nil, fmt.Errorf("opponent has no active creature")
	}
	defenderTmpl, err := g.repo.Creature(defender.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", defender.TemplateID))
	}

	damage := combat.ResolveAttackDamage(g, g.registry, g.flipper, combat.Input{
		AttackerPlayer:   playerID,
		Attacker:         attacker,
		AttackerIndex:    0,
		AttackerTemplate: attackerTmpl,
		DefenderPlayer:   opponent,
		Defender:         defender,
		DefenderTemplate: defenderTmpl,
		Attack:           attack,
	}, g.logger)

	applied := g.ApplyDamage(cards.TargetRef{PlayerID: opponent, FieldIndex: 0}, damage)
	g.messenger.Broadcast(fmt.Sprintf("%s used %s for %d damage on %s", attackerTmpl.Name, attack.Name, applied, defenderTmpl.Name))

	g.endTurnRequested = true
	if len(attack.Effects) > 0 {
		ctx := effects.NewAttackContext(playerID, attack.Name, attacker, 0)
		pending, err := g.applier.ApplyEffects(attack.Effects, ctx)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			return pending, nil
		}
	}
	g.afterAction()
	return nil, nil
}

// Retreat swaps the active creature with a bench creature, paying the
// modified retreat cost in attached energy.
func (g *Game) Retreat(playerID string, benchIndex int) error {
	if err := g.checkActionable(playerID); err != nil {
		return err
	}
	active := g.field.Active(playerID)
	if active == nil {
		return fmt.Errorf("no active creature")
	}
	if active.Status == field.StatusAsleep || active.Status == field.StatusParalyzed {
		return fmt.Errorf("creature cannot retreat while %s", active.Status)
	}
	if blocked, by := g.retreatBlocked(playerID, active); blocked {
		g.messenger.ToPlayer(playerID, fmt.Sprintf("%s prevents retreating", by))
		return fmt.Errorf("retreating is prevented")
	}
	cost := g.RetreatCost(playerID, active)
	if g.energy.AttachedCount(active.InstanceID) < cost {
		return fmt.Errorf("not enough energy to retreat")
	}
	if cost > 0 {
		g.energy.DiscardAny(playerID, active.InstanceID, cards.EnergyTypeOrder, cost)
	}
	if err := g.field.Retreat(playerID, benchIndex); err != nil {
		return err
	}
	g.messenger.Broadcast(fmt.Sprintf("%s retreated the active creature", playerID))
	return nil
}

// SubmitSelection resumes a suspended effect with the chooser's picks. A
// rejected selection leaves the same selection pending.
func (g *Game) SubmitSelection(playerID string, picks []cards.TargetRef) (*effects.PendingSelection, error) {
	if g.over {
		return nil, fmt.Errorf("game is over")
	}
	pending, err := g.applier.SubmitSelection(playerID, picks)
	if err != nil {
		return pending, err
	}
	if pending == nil {
		g.afterAction()
	}
	return pending, nil
}

// EndTurn finishes the current player's turn: checkup (statuses), knockout
// processing, passive-effect expiry sweep, then the next player's draw.
func (g *Game) EndTurn(playerID string) error {
	if err := g.checkActionable(playerID); err != nil {
		return err
	}
	g.endTurn()
	return nil
}

func (g *Game) endTurn() {
	g.endTurnRequested = false
	current := g.turns.CurrentPlayer()

	g.runCheckup()
	g.processKnockouts()
	if g.over {
		return
	}

	g.registry.ClearExpired(g.turns.Number(), current)

	p := g.player(current)
	p.supporterPlayed = false
	p.energyAttached = false
	g.usedAbilities = make(map[string]bool)

	g.turns.Advance()
	next := g.turns.CurrentPlayer()
	g.drawCards(next, 1)
	g.messenger.Broadcast(fmt.Sprintf("turn %d: %s to act", g.turns.Number(), next))
}

// runCheckup processes status conditions between turns. A missing active
// card is logged and skipped, never a crash.
func (g *Game) runCheckup() {
	for _, pid := range g.order {
		active := g.field.Active(pid)
		if active == nil {
			g.logger.Warn("checkup: no active creature", zap.String("player", pid))
			continue
		}
		if active.Poisoned {
			applied := active.ApplyDamage(10, g.effectiveMaxHP(active))
			g.messenger.Broadcast(fmt.Sprintf("%s's active creature took %d poison damage", pid, applied))
		}
		switch active.Status {
		case field.StatusAsleep:
			if g.flipper.Flip() {
				active.Status = field.StatusNone
				g.messenger.Broadcast(fmt.Sprintf("%s's active creature woke up", pid))
			}
		case field.StatusParalyzed:
			if pid == g.turns.CurrentPlayer() {
				active.Status = field.StatusNone
			}
		}
	}
}

// afterAction runs the fixed-point knockout processing after every
// state-mutating action, then honors a requested turn end.
func (g *Game) afterAction() {
	g.processKnockouts()
	if g.over {
		return
	}
	if g.endTurnRequested && g.applier.Pending() == nil {
		g.endTurn()
	}
}

// --- eligibility checks consulting the registry ---

func (g *Game) attackBlocked(playerID string, attacker *field.Card) (bool, string) {
	for _, entry := range g.registry.ByType(cards.EffectPreventAttack) {
		if entry.SourcePlayer == playerID {
			continue
		}
		if entry.HostInstance != "" && entry.HostInstance != attacker.InstanceID {
			continue
		}
		return true, entry.Name
	}
	return false, ""
}

func (g *Game) retreatBlocked(playerID string, active *field.Card) (bool, string) {
	for _, entry := range g.registry.ByType(cards.EffectRetreatPrevention) {
		if entry.SourcePlayer == playerID {
			continue
		}
		if entry.HostInstance != "" && entry.HostInstance != active.InstanceID {
			continue
		}
		return true, entry.Name
	}
	return false, ""
}

func (g *Game) playingBlocked(playerID, kind string) (bool, string) {
	for _, entry := range g.registry.ByType(cards.EffectPreventPlaying) {
		if entry.SourcePlayer == playerID {
			continue
		}
		if entry.Effect.AppliesTo != "" && entry.Effect.AppliesTo != kind {
			continue
		}
		return true, entry.Name
	}
	return false, ""
}

// RetreatCost is the printed cost plus registered modifications affecting
// this player, clamped at zero.
func (g *Game) RetreatCost(playerID string, active *field.Card) int {
	tmpl, err := g.repo.Creature(active.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", active.TemplateID))
	}
	cost := tmpl.RetreatCost
	for _, entry := range g.registry.ByType(cards.EffectRetreatCostMod) {
		affected := entry.SourcePlayer
		if entry.Effect.Criteria != nil && entry.Effect.Criteria.Player == cards.ScopeOpponent {
			affected = g.Opponent(entry.SourcePlayer)
		}
		if affected != playerID {
			continue
		}
		cost += effects.EvaluateValue(entry.Effect.Amount, g, &effects.Context{SourcePlayer: entry.SourcePlayer})
	}
	if cost < 0 {
		cost = 0
	}
	return cost
}

// StatusPrevented reports whether a status-prevention passive protects the
// given creature's owner.
func (g *Game) StatusPrevented(playerID string, card *field.Card) bool {
	for _, entry := range g.registry.ByType(cards.EffectStatusPrevention) {
		if entry.SourcePlayer != playerID {
			continue
		}
		if entry.HostInstance != "" && entry.HostInstance != card.InstanceID {
			continue
		}
		return true
	}
	return false
}

// --- helpers ---

func (g *Game) anyApplicable(effs []cards.Effect, ctx *effects.Context) bool {
	for i := range effs {
		handler, ok := effects.HandlerFor(effs[i].Type)
		if !ok {
			continue
		}
		if handler.CanApply(g, &effs[i], ctx) {
			return true
		}
	}
	return false
}

func (g *Game) registerPassiveAbility(playerID string, card *field.Card, tmpl *cards.Creature) {
	if tmpl.Ability == nil || !tmpl.Ability.Passive {
		return
	}
	for _, eff := range tmpl.Ability.Effects {
		duration := eff.Duration
		if duration == cards.DurationNone {
			duration = cards.DurationWhileInPlay
		}
		g.registry.Register(playerID, card.InstanceID, tmpl.Ability.Name, eff, duration, g.turns.Number())
	}
}

func (g *Game) takeCreatureFromHand(playerID, templateID string) (*cards.Creature, error) {
	p := g.player(playerID)
	if !containsCard(p.hand, templateID) {
		return nil, fmt.Errorf("card %s not in hand", templateID)
	}
	tmpl, err := g.repo.Creature(templateID)
	if err != nil {
		return nil, fmt.Errorf("card %s is not a creature", templateID)
	}
	removeCard(&p.hand, templateID)
	return tmpl, nil
}

func (g *Game) returnToHand(playerID, templateID string) {
	p := g.player(playerID)
	p.hand = append(p.hand, templateID)
}

// hasEnergyFor checks an attack cost against attached energy. Colorless
// slots accept any leftover energy.
func hasEnergyFor(attached map[cards.EnergyType]int, cost map[cards.EnergyType]int) bool {
	remaining := 0
	for _, n := range attached {
		remaining += n
	}
	for t, need := range cost {
		if t == cards.EnergyColorless {
			continue
		}
		if attached[t] < need {
			return false
		}
		remaining -= need
	}
	return remaining >= cost[cards.EnergyColorless]
}

func containsCard(list []string, templateID string) bool {
	for _, v := range list {
		if v == templateID {
			return true
		}
	}
	return false
}

func removeCard(list *[]string, templateID string) {
	for i, v := range *list {
		if v == templateID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}
