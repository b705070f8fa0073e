package httpcontroller

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/foundbox/foundbox/internal/game"
)

// gameSession wraps one engine behind a mutex; the page's polling loop and
// its input events arrive on separate requests.
type gameSession struct {
	mu     sync.Mutex
	engine *game.Engine
}

// gameStateResponse is the JSON view of a game session.
type gameStateResponse struct {
	ID          string  `json:"id"`
	State       string  `json:"state"`
	Mode        string  `json:"mode"`
	Lives       int     `json:"lives"`
	Score       int     `json:"score"`
	Word        string  `json:"word"`
	RemainingMS int64   `json:"remaining_ms"`
	TimeLimitMS int64   `json:"time_limit_ms"`
	Progress    float64 `json:"progress"`
	Distance    int     `json:"distance"`
	MaxDistance int     `json:"max_distance"`
	InputEpoch  int     `json:"input_epoch"`
}

func stateName(s game.State) string {
	switch s {
	case game.StatePlaying:
		return "playing"
	case game.StateGameOver:
		return "gameover"
	default:
		return "idle"
	}
}

func modeName(m game.Mode) string {
	if m == game.ModePlanet {
		return "planet"
	}
	return "timer"
}

func toGameResponse(id string, snap game.Snapshot) gameStateResponse {
	resp := gameStateResponse{
		ID:          id,
		State:       stateName(snap.State),
		Mode:        modeName(snap.Mode),
		Lives:       snap.Lives,
		Score:       snap.Score,
		Word:        snap.Word,
		RemainingMS: snap.Remaining.Milliseconds(),
		TimeLimitMS: snap.TimeLimit.Milliseconds(),
		Distance:    snap.Distance,
		MaxDistance: snap.MaxDistance,
		InputEpoch:  snap.InputEpoch,
	}
	switch snap.Mode {
	case game.ModePlanet:
		if snap.MaxDistance > 0 {
			resp.Progress = 1 - float64(snap.Distance)/float64(snap.MaxDistance)
		}
	default:
		if snap.TimeLimit > 0 {
			resp.Progress = float64(snap.Remaining) / float64(snap.TimeLimit)
		}
	}
	return resp
}

// gamePage renders the minigame; the page polls its session roughly every
// 100 ms to keep the countdown live.
func (c *Controller) gamePage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "game.html", map[string]any{
		"Title": "Space Typing",
		"Nav":   "game",
		"Mode":  c.Settings.Game.Mode,
	})
}

// newEngine builds an engine from the configured settings.
func (c *Controller) newEngine() *game.Engine {
	cfg := game.Config{
		TimeLimit: time.Duration(c.Settings.Game.TimeLimit) * time.Second,
	}
	if c.Settings.Game.Mode == "planet" {
		cfg.Mode = game.ModePlanet
		cfg.MaxDistance = c.Settings.Game.MaxDistance
	}
	if c.Settings.Game.WordSource == "labels" {
		cfg.Words = c.Labels.Names()
	}
	return game.New(cfg)
}

// startGame creates a session, starts the engine and returns the first state.
func (c *Controller) startGame(ctx echo.Context) error {
	session := &gameSession{engine: c.newEngine()}
	session.engine.Start()

	id := uuid.NewString()
	c.gameSessions.SetDefault(id, session)

	return ctx.JSON(http.StatusOK, toGameResponse(id, session.engine.Snapshot()))
}

func (c *Controller) session(ctx echo.Context) (*gameSession, string, bool) {
	id := ctx.Param("id")
	v, ok := c.gameSessions.Get(id)
	if !ok {
		return nil, id, false
	}
	return v.(*gameSession), id, true
}

// gameState is the polling tick: advance the clock check and return the
// current view.
func (c *Controller) gameState(ctx echo.Context) error {
	session, id, ok := c.session(ctx)
	if !ok {
		return jsonError(ctx, http.StatusNotFound, "unknown game session")
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.engine.Tick()
	c.gameSessions.SetDefault(id, session) // refresh TTL while the page polls
	return ctx.JSON(http.StatusOK, toGameResponse(id, session.engine.Snapshot()))
}

// gameGuess submits the live input value. The match check runs before the
// expiry check, matching the engine's event priority.
func (c *Controller) gameGuess(ctx echo.Context) error {
	session, id, ok := c.session(ctx)
	if !ok {
		return jsonError(ctx, http.StatusNotFound, "unknown game session")
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.engine.Submit(ctx.FormValue("text"))
	session.engine.Tick()
	return ctx.JSON(http.StatusOK, toGameResponse(id, session.engine.Snapshot()))
}

// gameAdvance moves the planet one step (planet mode only).
func (c *Controller) gameAdvance(ctx echo.Context) error {
	session, id, ok := c.session(ctx)
	if !ok {
		return jsonError(ctx, http.StatusNotFound, "unknown game session")
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.engine.Advance()
	return ctx.JSON(http.StatusOK, toGameResponse(id, session.engine.Snapshot()))
}

// gameRestart replaces the session's engine with a fresh round: lives and
// score return to their defaults.
func (c *Controller) gameRestart(ctx echo.Context) error {
	session, id, ok := c.session(ctx)
	if !ok {
		return jsonError(ctx, http.StatusNotFound, "unknown game session")
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.engine = c.newEngine()
	session.engine.Start()
	return ctx.JSON(http.StatusOK, toGameResponse(id, session.engine.Snapshot()))
}
