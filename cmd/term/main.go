// Command term plays a board locally in the terminal.
//
// The game runs on the same runner the server uses for each session, so the
// timer, key handling and game over behave exactly as they do in the browser.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/runner"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "term",
		Usage: "Play a board in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a JSON or YAML board configuration (built-in classic board if empty)",
			},
			&cli.IntFlag{
				Name:  "tick-ms",
				Value: -1,
				Usage: "Override the tick interval in milliseconds, 0 for manual ticking",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "Write log output to this file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			closeLog, err := setupLogging(cmd.String("log"))
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			if ms := int(cmd.Int("tick-ms")); ms >= 0 {
				cfg.TickIntervalMS = ms
				if err := engine.ValidateGameConfig(cfg); err != nil {
					return err
				}
			}
			return play(ctx, cfg)
		},
	}
}

// setupLogging sends log output to path, or discards it so it cannot corrupt
// the screen
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}

func loadConfig(path string) (*engine.GameConfig, error) {
	if path == "" {
		return engine.DefaultConfig(), nil
	}
	return engine.LoadGameConfig(path)
}

func play(parent context.Context, cfg *engine.GameConfig) error {
	e, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	t := newTerminal(screen)
	t.runner = runner.New(e,
		runner.WithInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
		runner.WithPublisher(t.publish),
		runner.WithName("term"),
	)
	go t.runner.Run(ctx)

	return t.run(ctx)
}
