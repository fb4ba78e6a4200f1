package api

import (
	"errors"
	"log"

	"github.com/banshee-data/pitchview/internal/db"
	"github.com/banshee-data/pitchview/internal/orchestrator"
)

// RunFromOutcome converts a finished analysis into a run log row.
func RunFromOutcome(o orchestrator.Outcome) *db.AnalysisRun {
	run := &db.AnalysisRun{
		Generation:  o.Generation,
		Pitcher:     o.Pitcher,
		Batter:      o.Batter,
		DurationMs:  o.Duration.Milliseconds(),
		StartedAtNs: o.StartedAt.UnixNano(),
	}
	switch {
	case o.Err == nil && o.Snapshot != nil:
		run.Status = db.RunCommitted
		if o.Snapshot.Result != nil {
			run.PitchCount = len(o.Snapshot.Result.Pitches)
		}
		if o.Snapshot.Scene != nil {
			run.SceneID = o.Snapshot.Scene.ID
		}
	case errors.Is(o.Err, orchestrator.ErrStaleGeneration):
		run.Status = db.RunStale
	default:
		run.Status = db.RunFailed
		run.ErrorMessage = orchestrator.UserMessage(o.Err)
	}
	return run
}

func (s *Server) onOutcome(o orchestrator.Outcome) {
	if o.Err == nil && o.Snapshot != nil {
		s.hover.Reset(o.Generation, o.Snapshot.Scene)
	}
	if s.runs == nil {
		return
	}
	if err := s.runs.InsertRun(RunFromOutcome(o)); err != nil {
		log.Printf("failed to record analysis run: %v", err)
	}
}
