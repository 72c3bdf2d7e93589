// Command validate provides a small CLI that validates game configuration
// files (JSON or YAML) in a configs directory, ../configs by default. It checks:
//   - File structure and the engine's config rules
//   - Placement: seeded layouts can be populated without exhausting the board
//   - Connectivity: the two players can reach each other around the obstacles
//   - Openings: the first player has at least one legal move
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/skirmish/game/engine"
)

// layoutTrials is the number of seeded layouts checked per config
const layoutTrials = 25

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.fail("Failed to load: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	layouts := validateLayouts(config, layoutTrials)
	if !layouts.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, layouts.Errors...)

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.BoardSize, config.BoardSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Obstacles: %d", config.Obstacles))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Items: %d kinds x %d copies", len(config.Items), config.ItemCopies))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: %s vs %s", config.Players[0].Name, config.Players[1].Name))
	}

	return result
}

// validateLayouts populates trials seeded boards and checks each one
func validateLayouts(config *engine.GameConfig, trials int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	exhausted, walled, boxed := 0, 0, 0
	for seed := uint64(1); seed <= uint64(trials); seed++ {
		layout, err := engine.Populate(config, engine.NewRand(seed))
		if err != nil {
			if errors.Is(err, engine.ErrPlacementExhausted) {
				exhausted++
				continue
			}
			result.fail("Layout %d: %v", seed, err)
			continue
		}

		if !connected(layout.Board, layout.Players[0], layout.Players[1]) {
			walled++
		}
		if len(engine.Range(layout.Board, layout.Players[0], config.StartingStats.Speed)) == 0 {
			boxed++
		}
	}

	if exhausted > 0 {
		result.fail("Placement exhausted on %d/%d layouts", exhausted, trials)
	}
	if walled > 0 {
		result.fail("Connectivity failure: players walled off on %d/%d layouts", walled, trials)
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: players can reach each other on all %d layouts", trials))
	}
	if boxed > 0 {
		result.fail("Opening failure: first player has no legal move on %d/%d layouts", boxed, trials)
	}

	return result
}

// connected flood-fills non-obstacle cells from one position and reports
// whether the other position was reached.
func connected(board *engine.Board, from, to engine.Position) bool {
	visited := mapset.New[engine.Position]()
	queue := []engine.Position{from}
	visited.Put(from)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			return true
		}

		for _, next := range board.Neighbors(current) {
			if visited.Has(next) {
				continue
			}
			cell, err := board.Cell(next)
			if err != nil || cell.Obstacle {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}

	return false
}

// configFiles lists every JSON and YAML file in dir
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates every config in the directory given as the first argument,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := configFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
