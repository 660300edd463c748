package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/render"
	"github.com/wricardo/blockfall/game/runner"
)

const helpLine = "←/h →/l ↓/j move  space tick  r reset  q quit"

// Screen rows above the board
const boardTop = 2

type action int

const (
	actionNone action = iota
	actionKey
	actionTick
	actionReset
	actionQuit
)

var (
	styleEmpty    = tcell.StyleDefault
	styleInactive = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleEnd      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// terminal hosts one local game on a tcell screen
type terminal struct {
	screen  tcell.Screen
	runner  *runner.Runner
	updates chan *engine.Snapshot
	snap    *engine.Snapshot
}

func newTerminal(screen tcell.Screen) *terminal {
	return &terminal{
		screen:  screen,
		updates: make(chan *engine.Snapshot, 1),
	}
}

// publish keeps only the newest snapshot. It runs on the runner goroutine and
// never blocks.
func (t *terminal) publish(u runner.Update) {
	for {
		select {
		case t.updates <- u.Snapshot:
			return
		default:
		}
		select {
		case <-t.updates:
		default:
		}
	}
}

// translate maps a key event to an action and, for moves, the engine key code
func translate(ev *tcell.EventKey) (action, string) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return actionKey, engine.KeyArrowLeft
	case tcell.KeyRight:
		return actionKey, engine.KeyArrowRight
	case tcell.KeyDown:
		return actionKey, engine.KeyArrowDown
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit, ""
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'h':
			return actionKey, engine.KeyArrowLeft
		case 'l':
			return actionKey, engine.KeyArrowRight
		case 'j':
			return actionKey, engine.KeyArrowDown
		case ' ':
			return actionTick, ""
		case 'r':
			return actionReset, ""
		case 'q':
			return actionQuit, ""
		}
	}
	return actionNone, ""
}

// run draws every published snapshot and forwards input to the runner until
// the user quits, ctx ends or the runner stops.
func (t *terminal) run(ctx context.Context) error {
	snap, err := t.runner.Snapshot(ctx)
	if err != nil {
		return err
	}
	t.snap = snap
	t.draw()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-t.runner.Done():
			return runner.ErrRunnerStopped

		case snap := <-t.updates:
			t.snap = snap
			t.draw()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
				t.draw()

			case *tcell.EventKey:
				act, code := translate(ev)
				var err error
				switch act {
				case actionQuit:
					return nil
				case actionKey:
					_, err = t.runner.Key(ctx, code)
				case actionTick:
					_, err = t.runner.Tick(ctx, 1)
				case actionReset:
					_, err = t.runner.Reset(ctx)
				}
				if err != nil {
					return err
				}
			}
		}
	}
}

func (t *terminal) draw() {
	t.screen.Clear()
	drawBoard(t.screen, t.snap, t.runner.Interval() == 0)
	t.screen.Show()
}

// cellRune returns the character and style for one board cell
func cellRune(c render.Category) (rune, tcell.Style) {
	switch c {
	case render.CategoryEmpty:
		return ' ', styleEmpty
	case render.CategoryInactive:
		return '▒', styleInactive
	default:
		return '█', styleActive
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawBoard renders snap with the status line on row 0 and the framed board
// from row boardTop. Board cell (row, col) lands at screen (col+1, row+boardTop+1).
func drawBoard(s tcell.Screen, snap *engine.Snapshot, manual bool) {
	title := render.TitleFor(snap)
	if title.Class == render.TitleEnd {
		drawText(s, 0, 0, styleEnd, title.Text+"  (r to restart)")
	} else {
		mode := "timer"
		if manual {
			mode = "manual"
		}
		drawText(s, 0, 0, styleStatus, fmt.Sprintf("%s  ticks=%d pieces=%d  [%s]", snap.ConfigName, snap.Ticks, snap.Pieces, mode))
	}

	top, bottom := boardTop, boardTop+snap.Height+1
	right := snap.Width + 1
	for x := 0; x <= right; x++ {
		s.SetContent(x, top, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := top; y <= bottom; y++ {
		s.SetContent(0, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	s.SetContent(0, top, '┌', nil, styleBorder)
	s.SetContent(right, top, '┐', nil, styleBorder)
	s.SetContent(0, bottom, '└', nil, styleBorder)
	s.SetContent(right, bottom, '┘', nil, styleBorder)

	for i, row := range snap.Cells {
		for j, v := range row {
			r, style := cellRune(render.Classify(engine.Tag(v)))
			s.SetContent(j+1, top+1+i, r, nil, style)
		}
	}

	drawText(s, 0, bottom+1, tcell.StyleDefault, helpLine)
}
