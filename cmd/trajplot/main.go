// Command trajplot renders side and top views of reconstructed pitch
// trajectories as PNG files. Input is either a saved /api/3d-trajectory
// payload or a live fetch from the statistics feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/banshee-data/pitchview/internal/config"
	"github.com/banshee-data/pitchview/internal/httputil"
	"github.com/banshee-data/pitchview/internal/security"
	"github.com/banshee-data/pitchview/internal/statsapi"
	"github.com/banshee-data/pitchview/internal/trajectory"
)

var (
	inFile     = flag.String("in", "", "JSON file holding an /api/3d-trajectory payload")
	pitcher    = flag.String("pitcher", "", "Pitcher name (fetches from the feed when -in is empty)")
	batter     = flag.String("batter", "", "Batter name (fetches from the feed when -in is empty)")
	outDir     = flag.String("out", ".", "Output directory for PNG files")
	segments   = flag.Int("segments", 40, "Samples per curve")
	configPath = flag.String("config", config.DefaultConfigPath, "Path to the JSON configuration file")
)

// loadRecords reads and validates a trajectory payload from path.
func loadRecords(path string) (statsapi.PitchRecords, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if msg, ok := statsapi.ErrorMessage(body); ok {
		return nil, fmt.Errorf("%s: feed error: %s", path, msg)
	}
	var records statsapi.PitchRecords
	if err := statsapi.Decode(body, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func fetchRecords(ctx context.Context, cfg *config.Config, pitcher, batter string) (statsapi.PitchRecords, error) {
	client := statsapi.NewClient(httputil.NewStandardClient(&http.Client{Timeout: cfg.GetRequestTimeout()}), cfg.GetAPIBaseURL())
	return client.Pitches(ctx, pitcher, batter)
}

func main() {
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var records statsapi.PitchRecords
	title := "Pitch trajectories"
	switch {
	case *inFile != "":
		records, err = loadRecords(*inFile)
	case *pitcher != "" && *batter != "":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetRequestTimeout()+5*time.Second)
		defer cancel()
		records, err = fetchRecords(ctx, cfg, *pitcher, *batter)
		title = fmt.Sprintf("%s vs %s", *pitcher, *batter)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Failed to load pitches: %v", err)
	}

	res := trajectory.Reconstruct(records, trajectory.OptionsFromConfig(cfg))
	if err := security.ValidateOutputPath(*outDir); err != nil {
		log.Fatalf("Invalid output directory: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	files, err := savePlots(res, *outDir, title, *segments)
	if err != nil {
		log.Fatalf("Failed to plot: %v", err)
	}
	for _, f := range files {
		log.Printf("wrote %s (%d pitches, zone %.2f-%.2f ft)", f, len(res.Curves), res.Zone.Bottom, res.Zone.Top)
	}
}
