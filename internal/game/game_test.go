package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for deterministic engine tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine(clock *fakeClock, cfg Config) *Engine {
	cfg.Now = clock.Now
	cfg.Rand = rand.New(rand.NewSource(1))
	if cfg.TimeLimit == 0 {
		cfg.TimeLimit = 7 * time.Second
	}
	return New(cfg)
}

func TestStartInitializesRound(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{})

	assert.Equal(t, StateIdle, e.Snapshot().State)

	e.Start()
	snap := e.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 3, snap.Lives)
	assert.Equal(t, 0, snap.Score)
	assert.NotEmpty(t, snap.Word)
	assert.Equal(t, 7*time.Second, snap.Remaining)
}

func TestCorrectWordScores(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{})
	e.Start()

	word := e.Snapshot().Word
	epoch := e.Snapshot().InputEpoch
	clock.Advance(3 * time.Second)

	// Trimmed and case-insensitive input counts before the deadline.
	require.True(t, e.Submit("  "+word+"  "))

	snap := e.Snapshot()
	assert.Equal(t, 10, snap.Score)
	assert.Equal(t, 3, snap.Lives)
	assert.NotEmpty(t, snap.Word, "a new word is drawn, possibly equal to the old one")
	assert.Equal(t, 7*time.Second, snap.Remaining, "deadline resets on a match")
	assert.Greater(t, snap.InputEpoch, epoch, "the input must come back empty")
}

func TestCaseInsensitiveMatch(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{Words: []string{"Nebula"}})
	e.Start()

	require.True(t, e.Submit("nEbUlA"))
	assert.Equal(t, 10, e.Snapshot().Score)
}

func TestWrongWordDoesNothing(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{Words: []string{"Nebula"}})
	e.Start()

	require.False(t, e.Submit("Nebul"))
	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 3, snap.Lives)
}

func TestExpiryCostsALife(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{})
	e.Start()

	clock.Advance(7 * time.Second)
	e.Tick()

	snap := e.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 2, snap.Lives)
	assert.Equal(t, 7*time.Second, snap.Remaining, "deadline resets with the new word")
}

func TestThreeLapsesEndTheGame(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{})
	e.Start()

	for i := 0; i < 3; i++ {
		clock.Advance(8 * time.Second)
		e.Tick()
	}

	snap := e.Snapshot()
	assert.Equal(t, StateGameOver, snap.State)
	assert.Equal(t, 0, snap.Lives)

	// The only valid action from GameOver is restart.
	e.Start()
	assert.Equal(t, StateGameOver, e.Snapshot().State, "Start is ignored in GameOver")
	assert.False(t, e.Submit("anything"))

	e.Restart()
	assert.Equal(t, StateIdle, e.Snapshot().State)

	e.Start()
	snap = e.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 3, snap.Lives)
	assert.Equal(t, 0, snap.Score)
}

func TestTickBeforeDeadlineIsHarmless(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{})
	e.Start()

	for i := 0; i < 50; i++ {
		clock.Advance(100 * time.Millisecond)
		e.Tick()
	}

	snap := e.Snapshot()
	assert.Equal(t, 3, snap.Lives)
	assert.Equal(t, 2*time.Second, snap.Remaining)
}

func TestPlanetMode(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	e := newTestEngine(clock, Config{Mode: ModePlanet, MaxDistance: 3})
	e.Start()

	// The wall clock is irrelevant in planet mode.
	clock.Advance(time.Hour)
	e.Tick()
	require.Equal(t, 3, e.Snapshot().Lives)

	e.Advance()
	e.Advance()
	assert.Equal(t, 2, e.Snapshot().Distance)

	// Impact: equivalent to a timer expiry.
	e.Advance()
	snap := e.Snapshot()
	assert.Equal(t, 2, snap.Lives)
	assert.Equal(t, 0, snap.Distance, "distance resets with the new word")
}

func TestWordsComeFromConfiguredList(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
	words := []string{"Shoes", "Lunchbox", "Gloves", "Helmets"}
	e := newTestEngine(clock, Config{Words: words})
	e.Start()

	for i := 0; i < 20; i++ {
		assert.Contains(t, words, e.Snapshot().Word)
		require.True(t, e.Submit(e.Snapshot().Word))
	}
	assert.Equal(t, 200, e.Snapshot().Score)
}
