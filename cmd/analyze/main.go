// Command analyze prints quick, human-readable reports about the board
// configurations in the project's configs directory.
//
//	analyze summary   plays each board with no input and reports how long it lasts
//	analyze validate  checks every file and exits non-zero if any is invalid
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/blockfall/game/config"
	"github.com/wricardo/blockfall/game/engine"
)

// playLimit caps unattended games so a misconfigured board cannot spin forever
const playLimit = 100000

// Analysis summarizes one board played with no key input
type Analysis struct {
	Name           string
	Width          int
	Height         int
	Shapes         int
	Policy         string
	TickIntervalMS int
	FirstFreeze    int // tick on which the first piece settled, 0 if none did
	GameOverTick   int
	Pieces         int
	SettledCells   int
	Ended          bool
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cli.Command {
	dirFlag := &cli.StringFlag{
		Name:    "dir",
		Value:   "configs",
		Usage:   "Directory containing game configurations",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}

	summary := func(ctx context.Context, cmd *cli.Command) error {
		files, err := configFiles(cmd.String("dir"))
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Fprintf(out, "\n=== Analyzing %s ===\n", filepath.Base(file))
			analysis, err := analyzeConfig(file)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			printAnalysis(out, analysis)
		}
		return nil
	}

	return &cli.Command{
		Name:   "analyze",
		Usage:  "Report on board configurations",
		Flags:  []cli.Flag{dirFlag},
		Action: summary,
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Play each board unattended and report ticks to first freeze and game over",
				Action: summary,
			},
			{
				Name:  "validate",
				Usage: "Validate every configuration file",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := configFiles(cmd.String("dir"))
					if err != nil {
						return err
					}
					if !reportValidation(out, files) {
						return fmt.Errorf("some configurations have errors")
					}
					return nil
				},
			},
		},
	}
}

// configFiles lists every json and yaml file in dir, sorted by name
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("error finding config files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// analyzeConfig loads path and plays it without input until the game ends
func analyzeConfig(path string) (*Analysis, error) {
	cfg, err := engine.LoadGameConfig(path)
	if err != nil {
		return nil, err
	}

	e, err := engine.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:           cfg.Name,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Shapes:         len(cfg.Shapes),
		Policy:         cfg.SpawnPolicy,
		TickIntervalMS: cfg.TickIntervalMS,
	}
	if a.Policy == "" {
		a.Policy = engine.PolicyFirst
	}

	for e.Ticks() < playLimit && !e.IsGameOver() {
		res := e.Advance()
		if res.Frozen && a.FirstFreeze == 0 {
			a.FirstFreeze = e.Ticks()
		}
	}

	snap := e.Snapshot()
	a.GameOverTick = snap.Ticks
	a.Pieces = snap.Pieces
	a.SettledCells = snap.Count(engine.Settled)
	a.Ended = snap.Ended
	return a, nil
}

func printAnalysis(out io.Writer, a *Analysis) {
	fmt.Fprintf(out, "Name: %s\n", a.Name)
	fmt.Fprintf(out, "Board: %d rows x %d columns\n", a.Height, a.Width)
	fmt.Fprintf(out, "Shapes: %d (%s)\n", a.Shapes, a.Policy)
	if a.TickIntervalMS == 0 {
		fmt.Fprintf(out, "Ticking: manual\n")
	} else {
		fmt.Fprintf(out, "Ticking: every %dms\n", a.TickIntervalMS)
	}
	fmt.Fprintf(out, "First freeze: tick %d\n", a.FirstFreeze)
	fmt.Fprintf(out, "Pieces settled: %d (%d cells)\n", a.Pieces, a.SettledCells)

	if !a.Ended {
		fmt.Fprintf(out, "⚠️  WARNING: game still running after %d ticks\n", a.GameOverTick)
		return
	}
	fmt.Fprintf(out, "✅ Game over after %d ticks", a.GameOverTick)
	if a.TickIntervalMS > 0 {
		fmt.Fprintf(out, " (~%.1fs unattended)", float64(a.GameOverTick*a.TickIntervalMS)/1000)
	}
	fmt.Fprintln(out)
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	cfg, err := engine.DecodeGameConfig(data, filepath.Ext(filePath))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid document: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	if id := config.ConfigID(result.File); id != cfg.Name {
		result.Errors = append(result.Errors, fmt.Sprintf("! Name %q differs from file name %q", cfg.Name, id))
	}

	interval := "manual"
	if cfg.TickIntervalMS > 0 {
		interval = fmt.Sprintf("%dms", cfg.TickIntervalMS)
	}
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Board: %dx%d", cfg.Height, cfg.Width),
		fmt.Sprintf("✓ Shapes: %d", len(cfg.Shapes)),
		fmt.Sprintf("✓ Tick: %s", interval),
	)
	return result
}

// reportValidation prints a report for files and returns whether all were valid
func reportValidation(out io.Writer, files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid
}
