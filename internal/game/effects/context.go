package effects

import "github.com/deckforge/pocketbattle/internal/game/field"

// SourceKind identifies what kind of play an effect originates from.
type SourceKind string

const (
	SourceCard    SourceKind = "card"
	SourceAttack  SourceKind = "attack"
	SourceAbility SourceKind = "ability"
)

// Context identifies why an effect is executing. Created fresh per
// invocation and never persisted past it.
type Context struct {
	SourcePlayer string
	Name         string
	Kind         SourceKind

	// Source is the originating creature instance, when the effect comes
	// from an attack or ability. SourceIndex is its field position at
	// invocation time, -1 when not applicable.
	Source      *field.Card
	SourceIndex int
}

// NewCardContext builds a context for a trainer-card play.
func NewCardContext(sourcePlayer, name string) *Context {
	return &Context{SourcePlayer: sourcePlayer, Name: name, Kind: SourceCard, SourceIndex: -1}
}

// NewAttackContext builds a context for an attack's effects.
func NewAttackContext(sourcePlayer, name string, source *field.Card, sourceIndex int) *Context {
	return &Context{SourcePlayer: sourcePlayer, Name: name, Kind: SourceAttack, Source: source, SourceIndex: sourceIndex}
}

// NewAbilityContext builds a context for an ability activation.
func NewAbilityContext(sourcePlayer, name string, source *field.Card, sourceIndex int) *Context {
	return &Context{SourcePlayer: sourcePlayer, Name: name, Kind: SourceAbility, Source: source, SourceIndex: sourceIndex}
}
