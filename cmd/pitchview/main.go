package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/banshee-data/pitchview/internal/api"
	"github.com/banshee-data/pitchview/internal/config"
	"github.com/banshee-data/pitchview/internal/db"
	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/orchestrator"
	"github.com/banshee-data/pitchview/internal/scene"
	"github.com/banshee-data/pitchview/internal/scenestream"
	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
	"github.com/banshee-data/pitchview/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Serve canned feed fixtures instead of calling the statistics API")
	listen      = flag.String("listen", ":8080", "HTTP listen address")
	grpcListen  = flag.String("grpc-listen", "localhost:50061", "Scene stream gRPC listen address (empty disables)")
	dbPath      = flag.String("db", "pitchview.db", "Path to the analysis run log database (empty disables)")
	configPath  = flag.String("config", config.DefaultConfigPath, "Path to the JSON configuration file")
	envFile     = flag.String("env-file", ".env", "Optional dotenv file read before configuration")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// envAPIURL overrides api_base_url from the config file.
const envAPIURL = "PITCHVIEW_API_URL"

// loadEnv reads path into the process environment if it exists. Variables
// already set are not overridden.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// resolveBaseURL prefers the environment over the config file.
func resolveBaseURL(cfg *config.Config) string {
	if v := strings.TrimSpace(os.Getenv(envAPIURL)); v != "" {
		return strings.TrimRight(v, "/")
	}
	return strings.TrimRight(cfg.GetAPIBaseURL(), "/")
}

// newFeedClient returns the HTTP client used for the statistics feed. In dev
// mode every matchup endpoint answers from fixtures.
func newFeedClient(dev bool, cfg *config.Config) httputil.HTTPClient {
	if dev {
		m := statsapi.NewFixtureClient()
		m.AddRoute(statsapi.PathPlayerSearch, http.StatusOK, `[{"id":660271,"name":"Shohei Ohtani"},{"id":592450,"name":"Aaron Judge"}]`)
		m.AddRoute(statsapi.PathPlayerInfo, http.StatusOK, `{"image_url":""}`)
		m.AddRoute(statsapi.PathLeaderboards, http.StatusOK, `{"message":"No games played in the last 7 days."}`)
		return m
	}
	return httputil.NewStandardClient(&http.Client{Timeout: cfg.GetRequestTimeout()})
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("pitchview", version.String())
		return
	}

	if flag.NArg() > 0 && flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(flag.Args()[1:], *dbPath, os.Stdout); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if err := loadEnv(*envFile); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	baseURL := resolveBaseURL(cfg)
	feedClient := newFeedClient(*devMode, cfg)
	log.Printf("pitchview %s: statistics feed %s (dev=%v)", version.String(), baseURL, *devMode)

	orch := orchestrator.New(feedClient, baseURL,
		orchestrator.WithConcurrencyLimit(cfg.GetMaxConcurrentRequests()),
		orchestrator.WithTimeout(cfg.GetRequestTimeout()),
	)
	opts := trajectory.OptionsFromConfig(cfg)
	analyzer := orchestrator.NewAnalyzer(orch, orchestrator.NewSession(), opts)

	var database *db.DB
	if *dbPath != "" {
		database, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
	}

	server := api.NewServer(analyzer, statsapi.NewClient(feedClient, baseURL), cfg, database)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *grpcListen != "" {
		publisher := scenestream.NewPublisher(scenestream.ConfigFrom(cfg, *grpcListen))
		if err := publisher.Start(); err != nil {
			log.Fatalf("Failed to start scene stream: %v", err)
		}
		publisher.Publish(0, scene.Placeholder(opts))
		analyzer.OnOutcome(func(o orchestrator.Outcome) {
			if o.Err == nil && o.Snapshot != nil {
				publisher.Publish(o.Generation, o.Snapshot.Scene)
			}
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			publisher.Stop()
			log.Printf("scene stream routine stopped")
		}()
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := server.ServeMux()
		if database != nil {
			if err := database.AttachAdminRoutes(mux); err != nil {
				log.Printf("failed to attach admin routes: %v", err)
			}
		}

		httpServer := &http.Server{
			Addr:              *listen,
			Handler:           api.LoggingMiddleware(mux),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Printf("HTTP server listening on %s", *listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := httpServer.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
