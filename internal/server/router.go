package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game"
)

// Router wires the HTTP lobby API and the websocket game protocol.
type Router struct {
	engine  *gin.Engine
	logger  *zap.Logger
	manager *Manager
	hub     *Hub
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(manager *Manager, hub *Hub, logger *zap.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	r := &Router{
		engine:  gin.New(),
		logger:  logger,
		manager: manager,
		hub:     hub,
	}
	hub.router = r

	r.engine.Use(gin.Recovery())

	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	api.POST("/matches", r.createMatch)
	api.POST("/matches/join", r.joinMatch)
	api.GET("/matches/:id/ws", r.serveWS)

	return r
}

// Handler returns the root http handler for the server to mount.
func (r *Router) Handler() http.Handler { return r.engine }

type createMatchPayload struct {
	PlayerName string   `json:"player_name" binding:"required"`
	Deck       []string `json:"deck" binding:"required"`
}

func (r *Router) createMatch(c *gin.Context) {
	var req createMatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	creds, err := r.manager.CreateMatch(req.PlayerName, req.Deck)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, creds)
}

type joinMatchPayload struct {
	JoinCode   string   `json:"join_code" binding:"required"`
	PlayerName string   `json:"player_name" binding:"required"`
	Deck       []string `json:"deck" binding:"required"`
}

func (r *Router) joinMatch(c *gin.Context) {
	var req joinMatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	creds, err := r.manager.JoinMatch(req.JoinCode, req.PlayerName, req.Deck)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, creds)
}

func (r *Router) serveWS(c *gin.Context) {
	matchID := c.Param("id")
	playerID := c.Query("player_id")
	token := c.Query("token")

	match, ok := r.manager.Match(matchID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}
	if !match.Authenticate(playerID, token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	r.hub.ServeWS(c.Writer, c.Request, matchID, playerID)
}

// actionPayload is the client-to-server action frame. Action selects which
// fields are meaningful.
type actionPayload struct {
	Action      string            `json:"action"`
	TemplateID  string            `json:"template_id,omitempty"`
	FieldIndex  int               `json:"field_index,omitempty"`
	BenchIndex  int               `json:"bench_index,omitempty"`
	AttackIndex int               `json:"attack_index,omitempty"`
	EnergyType  cards.EnergyType  `json:"energy_type,omitempty"`
	Picks       []cards.TargetRef `json:"picks,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// handleAction dispatches a websocket action frame into the rules engine,
// then pushes each player their redacted state snapshot.
func (r *Router) handleAction(client *Client, env Envelope) {
	match, ok := r.manager.Match(client.matchID)
	if !ok {
		client.reply("error", errorPayload{Error: "match not found"})
		return
	}

	var act actionPayload
	if env.Type != "action" || json.Unmarshal(env.Data, &act) != nil {
		client.reply("error", errorPayload{Error: "invalid action frame"})
		return
	}

	match.Lock()
	defer match.Unlock()

	g := match.Game()
	if g == nil {
		client.reply("error", errorPayload{Error: "waiting for opponent"})
		return
	}

	var err error
	switch act.Action {
	case "place_active":
		err = g.PlaceActive(client.playerID, act.TemplateID)
	case "place_bench":
		err = g.PlaceBench(client.playerID, act.TemplateID)
	case "evolve":
		err = g.Evolve(client.playerID, act.TemplateID, act.FieldIndex)
	case "attach_energy":
		err = g.AttachTurnEnergy(client.playerID, act.EnergyType, act.FieldIndex)
	case "play_trainer":
		_, err = g.PlayTrainer(client.playerID, act.TemplateID)
	case "play_tool":
		err = g.PlayTool(client.playerID, act.TemplateID, act.FieldIndex)
	case "use_ability":
		_, err = g.UseAbility(client.playerID, act.FieldIndex)
	case "attack":
		_, err = g.Attack(client.playerID, act.AttackIndex)
	case "retreat":
		err = g.Retreat(client.playerID, act.BenchIndex)
	case "submit_selection":
		_, err = g.SubmitSelection(client.playerID, act.Picks)
	case "end_turn":
		err = g.EndTurn(client.playerID)
	default:
		err = errUnknownAction(act.Action)
	}
	if err != nil {
		r.logger.Debug("action rejected",
			zap.String("match_id", client.matchID),
			zap.String("player_id", client.playerID),
			zap.String("action", act.Action),
			zap.Error(err))
		client.reply("error", errorPayload{Error: err.Error()})
	}

	r.pushState(match, g)
}

func (r *Router) pushState(match *Match, g *game.Game) {
	for _, pid := range g.PlayerIDs() {
		state := buildState(g, pid)
		data, err := json.Marshal(state)
		if err != nil {
			continue
		}
		frame, err := json.Marshal(Envelope{Type: "state", MatchID: match.ID, Data: data})
		if err != nil {
			continue
		}
		r.hub.sendToMatch(match.ID, pid, frame)
	}
}

type unknownActionError string

func errUnknownAction(action string) error { return unknownActionError(action) }

func (e unknownActionError) Error() string { return "unknown action " + string(e) }
