package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/banshee-data/pitchview/internal/scene"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

// Outcome describes one finished Analyze call. Exactly one of Snapshot and
// Err is set.
type Outcome struct {
	Generation uint64
	Pitcher    string
	Batter     string
	Snapshot   *Snapshot
	Err        error
	StartedAt  time.Time
	Duration   time.Duration
}

// Analyzer runs the full pipeline: fetch, reconstruct, compose, commit.
type Analyzer struct {
	fetcher Fetcher
	session *Session
	opts    trajectory.Options

	mu    sync.RWMutex
	hooks []func(Outcome)
}

// NewAnalyzer wires a fetcher to a session.
func NewAnalyzer(f Fetcher, s *Session, opts trajectory.Options) *Analyzer {
	return &Analyzer{fetcher: f, session: s, opts: opts}
}

// Session returns the session the analyzer commits to.
func (a *Analyzer) Session() *Session { return a.session }

// OnOutcome registers fn to run after every analysis, successful or not.
// Hooks run synchronously on the analyzing goroutine, so hooks of
// overlapping analyses may run out of order; listeners that keep the latest
// scene compare Outcome.Generation and drop older ones.
func (a *Analyzer) OnOutcome(fn func(Outcome)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Analyze fetches and commits the matchup. Invalid input is rejected
// without starting a new generation, so it never supersedes a running
// analysis; its message still becomes the session's last error.
func (a *Analyzer) Analyze(ctx context.Context, pitcher, batter string) (*Snapshot, error) {
	pitcher, batter, err := ValidateNames(pitcher, batter)
	if err != nil {
		a.session.Reject(err)
		return nil, err
	}

	clock := a.session.clock
	start := clock.Now()
	token := a.session.Begin()
	out := Outcome{Generation: token, Pitcher: pitcher, Batter: batter, StartedAt: start}

	snap, err := a.run(ctx, token, pitcher, batter)
	out.Snapshot, out.Err, out.Duration = snap, err, clock.Since(start)

	switch {
	case errors.Is(err, ErrStaleGeneration):
		logf("generation %d superseded (%s vs %s)", token, pitcher, batter)
	case err != nil:
		a.session.Fail(token, err)
	default:
		logf("generation %d committed: %d pitches in %v", token, len(snap.Result.Pitches), out.Duration)
	}
	a.notify(out)
	return snap, err
}

func (a *Analyzer) run(ctx context.Context, token uint64, pitcher, batter string) (*Snapshot, error) {
	res, err := a.fetcher.Fetch(ctx, pitcher, batter)
	if err != nil {
		return nil, err
	}
	if !a.session.IsCurrent(token) {
		return nil, ErrStaleGeneration
	}
	res.Generation = token
	recon := trajectory.Reconstruct(res.Pitches, a.opts)
	sc := scene.Compose(res.Pitches, recon, res.Pitcher, res.Batter)
	return a.session.Commit(token, res, sc)
}

func (a *Analyzer) notify(out Outcome) {
	a.mu.RLock()
	hooks := append([]func(Outcome){}, a.hooks...)
	a.mu.RUnlock()
	for _, fn := range hooks {
		fn(out)
	}
}
