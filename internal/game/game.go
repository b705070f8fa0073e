// Package game implements the typing minigame as an explicit state machine.
//
// The engine is UI-agnostic: the web handlers and the terminal UI both drive
// it through Start, Tick, Submit and Restart. Time and randomness are
// injected so the state machine is fully deterministic under test.
package game

import (
	"math/rand"
	"strings"
	"time"
)

// State is the minigame state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateGameOver
)

// Mode selects how a word expires.
type Mode int

const (
	// ModeTimer expires a word when its wall-clock deadline lapses.
	ModeTimer Mode = iota
	// ModePlanet replaces the clock with a distance counter advanced by an
	// explicit player action; reaching max distance equals expiry.
	ModePlanet
)

const (
	startLives = 3
	matchScore = 10
)

// Config configures a new engine. Zero values get sensible defaults.
type Config struct {
	Words       []string         // word vocabulary; defaults to the space list
	TimeLimit   time.Duration    // per-word limit in timer mode; default 7s
	Mode        Mode             // timer or planet
	MaxDistance int              // planet mode impact distance; default 10
	Now         func() time.Time // clock; defaults to time.Now
	Rand        *rand.Rand       // word picker; defaults to a time-seeded source
}

// Snapshot is a read-only view of the engine for rendering.
type Snapshot struct {
	State       State
	Mode        Mode
	Lives       int
	Score       int
	Word        string
	Remaining   time.Duration // timer mode: time left for the current word
	TimeLimit   time.Duration
	Distance    int // planet mode: current approach distance
	MaxDistance int
	InputEpoch  int // bumped whenever the input must be presented empty
}

// Engine is the minigame state machine. It is not safe for concurrent use;
// callers serialize access (one interactive session drives one engine).
type Engine struct {
	words       []string
	limit       time.Duration
	mode        Mode
	maxDistance int
	now         func() time.Time
	rng         *rand.Rand

	state      State
	lives      int
	score      int
	word       string
	deadline   time.Time
	distance   int
	inputEpoch int
}

// New creates an engine in the Idle state.
func New(cfg Config) *Engine {
	words := cfg.Words
	if len(words) == 0 {
		words = SpaceWords()
	}
	limit := cfg.TimeLimit
	if limit <= 0 {
		limit = 7 * time.Second
	}
	maxDistance := cfg.MaxDistance
	if maxDistance <= 0 {
		maxDistance = 10
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		words:       words,
		limit:       limit,
		mode:        cfg.Mode,
		maxDistance: maxDistance,
		now:         now,
		rng:         rng,
		state:       StateIdle,
	}
}

// Start begins a round: three lives, zero score, a fresh word and deadline.
// Start is a no-op unless the engine is Idle.
func (e *Engine) Start() {
	if e.state != StateIdle {
		return
	}
	e.lives = startLives
	e.score = 0
	e.distance = 0
	e.nextWord()
	e.state = StatePlaying
}

// Restart returns a finished game to Idle. It is a no-op unless the engine is
// in GameOver; restarting is the only valid action from that state.
func (e *Engine) Restart() {
	if e.state != StateGameOver {
		return
	}
	e.state = StateIdle
	e.lives = 0
	e.score = 0
	e.word = ""
	e.distance = 0
}

// Submit checks the player's input against the current word, trimmed and
// case-insensitive. A match scores, draws a new word (repeats allowed) and
// resets the deadline. Submit reports whether the input matched.
//
// Submit is checked before expiry by the driving loop, so a correct word
// typed on the same tick the clock lapses still counts.
func (e *Engine) Submit(text string) bool {
	if e.state != StatePlaying {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(text), e.word) {
		return false
	}
	e.score += matchScore
	e.nextWord()
	return true
}

// Tick advances the clock check. In timer mode an expired deadline costs a
// life; the game ends when lives run out. Planet mode ignores the clock.
func (e *Engine) Tick() {
	if e.state != StatePlaying || e.mode != ModeTimer {
		return
	}
	if e.now().Before(e.deadline) {
		return
	}
	e.expire()
}

// Advance moves the planet one step closer. Reaching max distance is
// equivalent to a timer expiry. No-op outside planet mode.
func (e *Engine) Advance() {
	if e.state != StatePlaying || e.mode != ModePlanet {
		return
	}
	e.distance++
	if e.distance >= e.maxDistance {
		e.expire()
	}
}

// expire handles a lapsed word: lose a life, end the game at zero lives,
// otherwise continue with a fresh word.
func (e *Engine) expire() {
	e.lives--
	if e.lives <= 0 {
		e.state = StateGameOver
		e.inputEpoch++
		return
	}
	e.distance = 0
	e.nextWord()
}

// nextWord draws a new word, resets the deadline and forces a fresh input
// widget identity so the visible input is empty on the next render.
func (e *Engine) nextWord() {
	e.word = e.words[e.rng.Intn(len(e.words))]
	e.deadline = e.now().Add(e.limit)
	e.inputEpoch++
}

// Snapshot returns the current view of the game.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:       e.state,
		Mode:        e.mode,
		Lives:       e.lives,
		Score:       e.score,
		Word:        e.word,
		TimeLimit:   e.limit,
		Distance:    e.distance,
		MaxDistance: e.maxDistance,
		InputEpoch:  e.inputEpoch,
	}
	if e.state == StatePlaying && e.mode == ModeTimer {
		remaining := e.deadline.Sub(e.now())
		if remaining < 0 {
			remaining = 0
		}
		snap.Remaining = remaining
	}
	return snap
}
