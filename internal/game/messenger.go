package game

import "go.uber.org/zap"

// Messenger is the fire-and-forget status sink. Sends are never awaited and
// never affect control flow.
type Messenger interface {
	Broadcast(text string)
	ToPlayer(playerID, text string)
}

// LogMessenger writes messages to the structured log. It is the default sink
// and the one tests run with; the server wraps it with a websocket fan-out.
type LogMessenger struct {
	logger *zap.Logger
}

// NewLogMessenger creates a log-backed messenger.
func NewLogMessenger(logger *zap.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

func (m *LogMessenger) Broadcast(text string) {
	m.logger.Info("game message", zap.String("text", text))
}

func (m *LogMessenger) ToPlayer(playerID, text string) {
	m.logger.Info("game message", zap.String("player", playerID), zap.String("text", text))
}
