package orchestrator

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/pitchview/internal/scene"
	"github.com/banshee-data/pitchview/internal/timeutil"
)

// Snapshot is one committed analysis and its scene.
type Snapshot struct {
	Generation  uint64
	Result      *AnalysisResult
	Scene       *scene.Scene
	CommittedAt time.Time
}

// Session holds the current analysis. Each analysis takes a generation
// token from Begin; only the holder of the latest token may commit, so a
// slow, older analysis can never replace a newer one.
type Session struct {
	mu         sync.Mutex
	generation atomic.Uint64
	current    atomic.Pointer[Snapshot]
	lastError  atomic.Pointer[string]
	clock      timeutil.Clock
}

// NewSession returns an empty session.
func NewSession() *Session {
	return NewSessionWithClock(timeutil.RealClock{})
}

// NewSessionWithClock returns an empty session that timestamps commits and
// analysis durations with c.
func NewSessionWithClock(c timeutil.Clock) *Session {
	return &Session{clock: c}
}

// Begin issues a new generation token, invalidating all earlier ones.
func (s *Session) Begin() uint64 {
	return s.generation.Add(1)
}

// Generation returns the latest issued token.
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// IsCurrent reports whether token is the latest issued.
func (s *Session) IsCurrent(token uint64) bool {
	return s.generation.Load() == token
}

// Commit publishes result and sc if token is still current. A stale token
// returns ErrStaleGeneration and leaves the session untouched.
func (s *Session) Commit(token uint64, result *AnalysisResult, sc *scene.Scene) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.IsCurrent(token) {
		return nil, ErrStaleGeneration
	}
	snap := &Snapshot{
		Generation:  token,
		Result:      result,
		Scene:       sc,
		CommittedAt: s.clock.Now(),
	}
	s.current.Store(snap)
	s.lastError.Store(nil)
	return snap, nil
}

// Fail records the banner message of a failed analysis. The committed
// snapshot is kept. Stale failures are ignored and report false.
func (s *Session) Fail(token uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.IsCurrent(token) {
		return false
	}
	msg := UserMessage(err)
	s.lastError.Store(&msg)
	return true
}

// Reject records the banner message of a request refused before it took a
// generation token. The generation and the committed snapshot are unchanged.
func (s *Session) Reject(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := UserMessage(err)
	s.lastError.Store(&msg)
}

// Current returns the committed snapshot, or nil before the first commit.
func (s *Session) Current() *Snapshot {
	return s.current.Load()
}

// LastError returns the message of the latest failed analysis, cleared by
// the next successful commit.
func (s *Session) LastError() string {
	if p := s.lastError.Load(); p != nil {
		return *p
	}
	return ""
}
