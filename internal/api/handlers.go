package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/pitchview/internal/config"
	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/interaction"
	"github.com/banshee-data/pitchview/internal/orchestrator"
	"github.com/banshee-data/pitchview/internal/scene"
	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
	"github.com/banshee-data/pitchview/internal/version"
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// AnalysisSummary is the response of a completed analysis.
type AnalysisSummary struct {
	Generation uint64                `json:"generation"`
	Pitcher    string                `json:"pitcher"`
	Batter     string                `json:"batter"`
	SceneID    string                `json:"scene_id"`
	PitchCount int                   `json:"pitch_count"`
	Zone       trajectory.StrikeZone `json:"zone"`
	FetchedAt  time.Time             `json:"fetched_at"`
}

func summarize(snap *orchestrator.Snapshot) AnalysisSummary {
	out := AnalysisSummary{
		Generation: snap.Generation,
		Pitcher:    snap.Result.Pitcher,
		Batter:     snap.Result.Batter,
		PitchCount: len(snap.Result.Pitches),
		FetchedAt:  snap.Result.FetchedAt,
	}
	if snap.Scene != nil {
		out.SceneID = snap.Scene.ID
		if snap.Scene.StrikeZone != nil {
			out.Zone = snap.Scene.StrikeZone.Zone
		}
	}
	return out
}

func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	snap, err := s.analyzer.Analyze(r.Context(), r.FormValue("pitcher"), r.FormValue("batter"))
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	httputil.WriteJSONOK(w, summarize(snap))
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	var ve *orchestrator.ValidationError
	var ne *orchestrator.NetworkError
	var pe *orchestrator.PayloadError
	switch {
	case errors.As(err, &ve):
		httputil.BadRequest(w, ve.Message)
	case errors.Is(err, orchestrator.ErrStaleGeneration):
		httputil.Conflict(w, "analysis superseded by a newer request")
	case errors.As(err, &ne):
		httputil.BadGateway(w, ne.Message)
	case errors.As(err, &pe):
		httputil.BadGateway(w, pe.Message)
	default:
		httputil.InternalServerError(w, orchestrator.UserMessage(err))
	}
}

func (s *Server) showCurrentAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	sess := s.analyzer.Session()
	snap := sess.Current()
	if snap == nil {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":      "no analysis available",
			"last_error": sess.LastError(),
		})
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"generation":   snap.Generation,
		"committed_at": snap.CommittedAt,
		"result":       snap.Result,
		"last_error":   sess.LastError(),
	})
}

// currentScene returns the committed scene, or the placeholder before the
// first analysis.
func (s *Server) currentScene() *scene.Scene {
	if snap := s.analyzer.Session().Current(); snap != nil && snap.Scene != nil {
		return snap.Scene
	}
	return s.placeholder
}

func (s *Server) showScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.currentScene())
}

// PointerEvent is the body of /api/scene/pointer.
type PointerEvent struct {
	ObjectID string `json:"object_id"`
	Event    string `json:"event"`
}

// PointerResponse reports the hover state after a pointer event.
type PointerResponse struct {
	ObjectID string               `json:"object_id"`
	State    interaction.State    `json:"state"`
	Changed  bool                 `json:"changed"`
	Tooltip  *interaction.Tooltip `json:"tooltip,omitempty"`
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var ev PointerEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&ev); err != nil {
		httputil.BadRequest(w, "invalid pointer event body")
		return
	}
	if ev.ObjectID == "" {
		httputil.BadRequest(w, "object_id is required")
		return
	}

	resp := PointerResponse{ObjectID: ev.ObjectID}
	var err error
	switch ev.Event {
	case "enter":
		var tip interaction.Tooltip
		tip, resp.Changed, err = s.hover.Enter(ev.ObjectID)
		if err == nil {
			resp.Tooltip = &tip
		}
	case "leave":
		resp.Changed, err = s.hover.Leave(ev.ObjectID)
	default:
		httputil.BadRequest(w, "event must be 'enter' or 'leave'")
		return
	}
	if errors.Is(err, interaction.ErrUnknownObject) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	resp.State = s.hover.State(ev.ObjectID)
	httputil.WriteJSONOK(w, resp)
}

func (s *Server) listTooltips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.hover.Tooltips())
}

func (s *Server) searchPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		httputil.WriteJSONOK(w, []statsapi.PlayerSearchResult{})
		return
	}
	results, err := s.feed.SearchPlayers(r.Context(), name)
	if err != nil {
		writeFeedError(w, err)
		return
	}
	if results == nil {
		results = []statsapi.PlayerSearchResult{}
	}
	httputil.WriteJSONOK(w, results)
}

func (s *Server) showPlayerInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		httputil.BadRequest(w, "name is required")
		return
	}
	info, err := s.feed.PlayerInfo(r.Context(), name)
	if err != nil {
		writeFeedError(w, err)
		return
	}
	httputil.WriteJSONOK(w, info)
}

func (s *Server) showLeaderboards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	boards, err := s.feed.Leaderboards(r.Context())
	if err != nil {
		writeFeedError(w, err)
		return
	}
	httputil.WriteJSONOK(w, boards)
}

// writeFeedError passes feed error envelopes through and hides transport
// details behind the generic network message.
func writeFeedError(w http.ResponseWriter, err error) {
	var fe *statsapi.FeedError
	if errors.As(err, &fe) {
		httputil.BadGateway(w, fe.Message)
		return
	}
	httputil.BadGateway(w, orchestrator.NetworkMessage)
}

func (s *Server) showLegend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"legend":        trajectory.Legend(),
		"default_color": trajectory.DefaultColor,
	})
}

// ConfigResponse is the body of /api/config.
type ConfigResponse struct {
	Version string         `json:"version"`
	Config  *config.Config `json:"config"`
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, ConfigResponse{
		Version: version.String(),
		Config:  s.cfg.Effective(),
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.runs == nil {
		httputil.NotFound(w, "run log is disabled")
		return
	}

	limit := defaultRunLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxRunLimit {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, "failed to list runs")
		return
	}
	stats, err := s.runs.RunStats()
	if err != nil {
		httputil.InternalServerError(w, "failed to compute run stats")
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"runs":  runs,
		"stats": stats,
	})
}
