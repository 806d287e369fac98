package server

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game"
)

// Match wraps one game session with its players' credentials. All game
// access goes through the match mutex: the rules engine is single-threaded
// per session.
type Match struct {
	ID       string
	JoinCode string

	mu        sync.Mutex
	game      *game.Game
	players   map[string]*matchPlayer // playerID -> credentials
	hostID    string
	hostDeck  []string
	createdAt time.Time
}

type matchPlayer struct {
	id        string
	name      string
	tokenHash []byte
}

// Lock takes the match mutex for a sequence of game calls.
func (m *Match) Lock()   { m.mu.Lock() }
func (m *Match) Unlock() { m.mu.Unlock() }

// Game returns the running game, or nil while waiting for a second player.
// Callers must hold the match lock.
func (m *Match) Game() *game.Game { return m.game }

// PlayerName resolves a player ID to the display name given at join time.
func (m *Match) PlayerName(playerID string) string {
	if p, ok := m.players[playerID]; ok {
		return p.name
	}
	return playerID
}

// Authenticate checks a player's bearer token against the stored hash.
func (m *Match) Authenticate(playerID, token string) bool {
	m.mu.Lock()
	p, ok := m.players[playerID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(p.tokenHash, []byte(token)) == nil
}

// Manager owns all matches on this server.
type Manager struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	repo    cards.Repository
	matches map[string]*Match // by match ID
	byCode  map[string]*Match // by join code

	benchSize    int
	pointsToWin  int
	newMessenger func(matchID string) game.Messenger
}

// NewManager creates a match manager. newMessenger builds the message sink
// for each match (the hub's fan-out in production, a log messenger in tests).
func NewManager(repo cards.Repository, logger *zap.Logger, benchSize, pointsToWin int, newMessenger func(matchID string) game.Messenger) *Manager {
	return &Manager{
		logger:       logger,
		repo:         repo,
		matches:      make(map[string]*Match),
		byCode:       make(map[string]*Match),
		benchSize:    benchSize,
		pointsToWin:  pointsToWin,
		newMessenger: newMessenger,
	}
}

// Credentials identify one player in one match.
type Credentials struct {
	MatchID  string `json:"match_id"`
	JoinCode string `json:"join_code,omitempty"`
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}

// CreateMatch opens a new match for the host. The game starts when a second
// player joins.
func (mgr *Manager) CreateMatch(hostName string, deck []string) (*Credentials, error) {
	if err := mgr.validateDeck(deck); err != nil {
		return nil, err
	}

	playerID := uuid.NewString()
	token, hash, err := newToken()
	if err != nil {
		return nil, err
	}

	m := &Match{
		ID:        uuid.NewString(),
		JoinCode:  newJoinCode(),
		players:   map[string]*matchPlayer{playerID: {id: playerID, name: hostName, tokenHash: hash}},
		hostID:    playerID,
		hostDeck:  append([]string(nil), deck...),
		createdAt: time.Now(),
	}

	mgr.mu.Lock()
	mgr.matches[m.ID] = m
	mgr.byCode[m.JoinCode] = m
	mgr.mu.Unlock()

	mgr.logger.Info("match created",
		zap.String("match_id", m.ID),
		zap.String("host", hostName))

	return &Credentials{MatchID: m.ID, JoinCode: m.JoinCode, PlayerID: playerID, Token: token}, nil
}

// JoinMatch adds the second player and starts the game.
func (mgr *Manager) JoinMatch(joinCode, name string, deck []string) (*Credentials, error) {
	if err := mgr.validateDeck(deck); err != nil {
		return nil, err
	}

	mgr.mu.Lock()
	m, ok := mgr.byCode[joinCode]
	mgr.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no match with join code %s", joinCode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game != nil {
		return nil, fmt.Errorf("match already started")
	}

	playerID := uuid.NewString()
	token, hash, err := newToken()
	if err != nil {
		return nil, err
	}
	m.players[playerID] = &matchPlayer{id: playerID, name: name, tokenHash: hash}

	g, err := game.New(game.Options{
		ID:      m.ID,
		Players: [2]string{m.hostID, playerID},
		Decks: map[string][]string{
			m.hostID: m.hostDeck,
			playerID: deck,
		},
		Repo:        mgr.repo,
		Logger:      mgr.logger,
		Messenger:   mgr.newMessenger(m.ID),
		Seed:        time.Now().UnixNano(),
		BenchSize:   mgr.benchSize,
		PointsToWin: mgr.pointsToWin,
	})
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	m.game = g

	mgr.logger.Info("match started",
		zap.String("match_id", m.ID),
		zap.String("joiner", name))

	return &Credentials{MatchID: m.ID, PlayerID: playerID, Token: token}, nil
}

// Match looks up a match by ID.
func (mgr *Manager) Match(id string) (*Match, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	m, ok := mgr.matches[id]
	return m, ok
}

func (mgr *Manager) validateDeck(deck []string) error {
	if len(deck) == 0 {
		return fmt.Errorf("deck is empty")
	}
	basics := 0
	for _, id := range deck {
		c, err := mgr.repo.Creature(id)
		if err == nil {
			if c.Stage == 0 {
				basics++
			}
			continue
		}
		if _, err := mgr.repo.Supporter(id); err == nil {
			continue
		}
		if _, err := mgr.repo.Item(id); err == nil {
			continue
		}
		if _, err := mgr.repo.Tool(id); err == nil {
			continue
		}
		return fmt.Errorf("unknown card %s", id)
	}
	if basics == 0 {
		return fmt.Errorf("deck needs at least one basic creature")
	}
	return nil
}

func newToken() (string, []byte, error) {
	token := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash token: %w", err)
	}
	return token, hash, nil
}

const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func newJoinCode() string {
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))]
	}
	return string(buf)
}
