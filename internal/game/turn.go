package game

// TurnCounter tracks whose turn it is, the absolute turn number and the
// first-turn restriction flag.
type TurnCounter struct {
	order   []string
	current int
	number  int
}

// NewTurnCounter starts on the first player's turn 1.
func NewTurnCounter(order []string) *TurnCounter {
	return &TurnCounter{order: order, number: 1}
}

// CurrentPlayer returns the player whose turn it is.
func (t *TurnCounter) CurrentPlayer() string {
	return t.order[t.current]
}

// Number returns the absolute turn number, starting at 1.
func (t *TurnCounter) Number() int {
	return t.number
}

// FirstTurn reports whether the game-opening restrictions still apply.
func (t *TurnCounter) FirstTurn() bool {
	return t.number == 1
}

// Advance moves to the next player's turn.
func (t *TurnCounter) Advance() {
	t.current = (t.current + 1) % len(t.order)
	t.number++
}
