package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/pitchview/internal/charts"
	"github.com/banshee-data/pitchview/internal/config"
	"github.com/banshee-data/pitchview/internal/db"
	"github.com/banshee-data/pitchview/internal/interaction"
	"github.com/banshee-data/pitchview/internal/orchestrator"
	"github.com/banshee-data/pitchview/internal/scene"
	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server serves the analysis HTTP API.
type Server struct {
	analyzer    *orchestrator.Analyzer
	feed        *statsapi.Client
	hover       *interaction.Controller
	cfg         *config.Config
	runs        *db.DB
	placeholder *scene.Scene
	charts      *charts.Handler
}

// NewServer wires the API to an analyzer and the feed client used for the
// pass-through routes. runs may be nil, which disables the run log and
// /api/runs. Every finished analysis resets hover state to the committed
// scene and, when enabled, is appended to the run log.
func NewServer(a *orchestrator.Analyzer, feed *statsapi.Client, cfg *config.Config, runs *db.DB) *Server {
	if cfg == nil {
		cfg = config.EmptyConfig()
	}
	placeholder := scene.Placeholder(trajectory.OptionsFromConfig(cfg))
	s := &Server{
		analyzer:    a,
		feed:        feed,
		hover:       interaction.NewController(placeholder, cfg.GetSpeedUnits()),
		cfg:         cfg,
		runs:        runs,
		placeholder: placeholder,
		charts:      charts.NewHandler(a.Session()),
	}
	a.OnOutcome(s.onOutcome)
	return s
}

// Hover returns the hover controller bound to the committed scene.
func (s *Server) Hover() *interaction.Controller { return s.hover }

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes. Debug chart pages are included; the
// tsweb and tailsql debug routes are attached by the caller.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis", s.runAnalysis)
	mux.HandleFunc("/api/analysis/current", s.showCurrentAnalysis)
	mux.HandleFunc("/api/scene", s.showScene)
	mux.HandleFunc("/api/scene/pointer", s.handlePointer)
	mux.HandleFunc("/api/scene/tooltips", s.listTooltips)
	mux.HandleFunc("/api/players/search", s.searchPlayers)
	mux.HandleFunc("/api/players/info", s.showPlayerInfo)
	mux.HandleFunc("/api/leaderboards", s.showLeaderboards)
	mux.HandleFunc("/api/legend", s.showLegend)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/debug/charts/plate", s.charts.ServePlate)
	mux.HandleFunc("/debug/charts/movement", s.charts.ServeMovement)
	return mux
}
