//go:build ebiten

// Command desktop shows a server session in a window and plays it with the
// arrow keys. It talks to the same /ws endpoint as the browser page.
package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/render"
)

const (
	cellSize     = 16
	headerHeight = 40
	margin       = 8
)

var categoryColors = map[render.Category]color.RGBA{
	render.CategoryEmpty:    {30, 30, 40, 255},
	render.CategoryInactive: {120, 120, 130, 255},
	render.CategoryActive:   {80, 200, 120, 255},
}

var keyCodes = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:  engine.KeyArrowLeft,
	ebiten.KeyArrowRight: engine.KeyArrowRight,
	ebiten.KeyArrowDown:  engine.KeyArrowDown,
}

// Game draws the latest board pushed by the server
type Game struct {
	client *client
	width  int
	height int
}

func (g *Game) Update() error {
	for key, code := range keyCodes {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.client.sendKey(code); err != nil {
				log.Printf("Failed to send key %s: %v", code, err)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		go func() {
			if err := g.client.reset(context.Background()); err != nil {
				log.Printf("Failed to reset: %v", err)
			}
		}()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 20, 255})

	board, event, errMsg := g.client.view()
	header := fmt.Sprintf("Session %s  arrows move  R reset  Esc quit", g.client.session())
	ebitenutil.DebugPrintAt(screen, header, margin, 4)

	if board == nil {
		ebitenutil.DebugPrintAt(screen, "Waiting for server...", margin, 20)
		return
	}

	status := event
	if board.Title.Class == render.TitleEnd {
		status = board.Title.Text
	}
	if errMsg != "" {
		status = errMsg
	}
	ebitenutil.DebugPrintAt(screen, status, margin, 20)

	for i, row := range board.Rows {
		for j, cell := range row {
			x := float32(margin + j*cellSize)
			y := float32(headerHeight + i*cellSize)
			vector.DrawFilledRect(screen, x, y, cellSize-1, cellSize-1, categoryColors[cell.Category], false)
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func main() {
	cmd := &cli.Command{
		Name:  "desktop",
		Usage: "Play a server session in a window",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080",
				Usage:   "Server base URL",
				Sources: cli.EnvVars("BLOCKFALL_SERVER"),
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Existing session ID (a new session is created if empty)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config ID for a new session",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	c := newClient(cmd.String("server"))

	if id := cmd.String("session"); id != "" {
		c.sessionID = id
	} else if _, err := c.createSession(ctx, cmd.String("config")); err != nil {
		return err
	}

	if err := c.connect(ctx); err != nil {
		return err
	}
	defer c.close()
	go c.listen()

	width, height := engine.DefaultWidth, engine.DefaultHeight
	if state, err := c.fetchState(ctx); err == nil {
		width, height = state.Width, state.Height
	}

	g := &Game{
		client: c,
		width:  2*margin + width*cellSize,
		height: headerHeight + margin + height*cellSize,
	}

	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(fmt.Sprintf("Blockfall - %s", c.session()))
	return ebiten.RunGame(g)
}
