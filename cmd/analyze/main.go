// Command analyze prints quick, human-readable heuristics about the
// configurations in a configs directory. For every config it runs seeded
// placement trials and summarizes capacity, sampling effort, fallback scans,
// exhaustion failures and the opening position of both players.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/skirmish/game/config"
	"github.com/wricardo/skirmish/game/engine"
)

// Report summarizes the placement trials of one configuration
type Report struct {
	ConfigID     string
	Name         string
	BoardSize    int
	Capacity     int
	Cells        int
	Trials       int
	Failures     int
	Samples      int
	Fallbacks    int
	Distance     int
	OpeningRange int
	BoxedIn      int
}

// AvgSamples is the mean number of random samples per successful layout
func (r Report) AvgSamples() float64 {
	return r.mean(r.Samples)
}

// AvgDistance is the mean opening Manhattan distance between the players
func (r Report) AvgDistance() float64 {
	return r.mean(r.Distance)
}

// AvgOpeningRange is the mean number of cells player 1 can reach on turn one
func (r Report) AvgOpeningRange() float64 {
	return r.mean(r.OpeningRange)
}

func (r Report) mean(total int) float64 {
	ok := r.Trials - r.Failures
	if ok == 0 {
		return 0
	}
	return float64(total) / float64(ok)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Run placement trials for every configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "trials",
				Value: 200,
				Usage: "Placement trials per configuration",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 1,
				Usage: "Seed of the first trial",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("config-dir"), int(cmd.Int("trials")), uint64(cmd.Int("seed")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(w io.Writer, configDir string, trials int, seed uint64) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no configurations found in %s", configDir)
	}

	for _, info := range infos {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "Error loading config: %v\n", err)
			continue
		}
		printReport(w, analyzeConfig(info.ConfigID, cfg, trials, seed))
	}
	return nil
}

// analyzeConfig populates the board trials times with consecutive seeds
func analyzeConfig(id string, cfg *engine.GameConfig, trials int, seed uint64) Report {
	report := Report{
		ConfigID:  id,
		Name:      cfg.Name,
		BoardSize: cfg.BoardSize,
		Capacity:  cfg.Capacity(),
		Cells:     cfg.BoardSize * cfg.BoardSize,
		Trials:    trials,
	}

	speed := cfg.StartingStats.Speed
	for i := 0; i < trials; i++ {
		layout, err := engine.Populate(cfg, engine.NewRand(seed+uint64(i)))
		if err != nil {
			if !errors.Is(err, engine.ErrPlacementExhausted) {
				fmt.Fprintf(os.Stderr, "trial %d: %v\n", i, err)
			}
			report.Failures++
			continue
		}

		report.Samples += layout.Stats.Samples
		report.Fallbacks += layout.Stats.Fallbacks
		report.Distance += engine.ManhattanDistance(layout.Players[0], layout.Players[1])

		reach := len(engine.Range(layout.Board, layout.Players[0], speed))
		report.OpeningRange += reach
		if reach == 0 {
			report.BoxedIn++
		}
	}

	return report
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Board: %d x %d (%d cells)\n", r.BoardSize, r.BoardSize, r.Cells)
	fmt.Fprintf(w, "Entities: %d (%.0f%% of the board)\n", r.Capacity, 100*float64(r.Capacity)/float64(r.Cells))
	fmt.Fprintf(w, "Trials: %d\n", r.Trials)

	if r.Failures > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d of %d trials exhausted placement\n", r.Failures, r.Trials)
	} else {
		fmt.Fprintf(w, "✅ Every trial placed all entities\n")
	}
	if r.Failures == r.Trials {
		return
	}

	fmt.Fprintf(w, "Avg samples per layout: %.1f\n", r.AvgSamples())
	fmt.Fprintf(w, "Fallback scans: %d\n", r.Fallbacks)
	fmt.Fprintf(w, "Avg opening distance: %.1f\n", r.AvgDistance())
	fmt.Fprintf(w, "Avg opening range (player 1): %.1f cells\n", r.AvgOpeningRange())
	if r.BoxedIn > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: player 1 starts boxed in on %d layouts\n", r.BoxedIn)
	}
}
