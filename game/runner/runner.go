package runner

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// ErrRunnerStopped is returned by Send once Run has returned
var ErrRunnerStopped = errors.New("runner stopped")

// EventKind identifies a message on the runner queue
type EventKind string

const (
	EventTick  EventKind = "tick"
	EventKey   EventKind = "key"
	EventReset EventKind = "reset"
	EventQuery EventKind = "query"
)

// Event is a single message for the owner goroutine
type Event struct {
	Kind EventKind
	// Code is the key code for EventKey
	Code string
	// Count is the number of ticks for EventTick. Zero means one.
	Count int
}

// Result is the reply to an Event
type Result struct {
	Snapshot *engine.Snapshot
	// Tick is the result of the last Advance for EventTick
	Tick engine.TickResult
	// Ticked counts Advance calls that ran while the game was live
	Ticked int
	// Frozen counts pieces that settled while handling the event
	Frozen int
	// Direction is the shift applied for EventKey
	Direction engine.Direction
	// Handled is false for unknown key codes and for keys after game over
	Handled bool
}

// Update is pushed to the publisher after every event that changed the game
type Update struct {
	Kind     EventKind
	Key      string
	Tick     engine.TickResult
	Frozen   int
	Snapshot *engine.Snapshot
}

// PublishFunc receives updates on the runner goroutine and must not block
type PublishFunc func(Update)

// Option configures a Runner
type Option func(*Runner)

// WithInterval sets the timer cadence. Zero disables the timer so only
// EventTick drives the game.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithPublisher registers fn to receive updates
func WithPublisher(fn PublishFunc) Option {
	return func(r *Runner) {
		r.publish = fn
	}
}

// WithQueueSize sets the buffer of the event queue
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.events = make(chan request, n)
		}
	}
}

// WithName labels log lines, usually with the session ID
func WithName(name string) Option {
	return func(r *Runner) {
		r.name = name
	}
}

type request struct {
	event Event
	reply chan *Result
}

// Runner owns one engine and serializes every tick, key press and query
// through a single goroutine.
type Runner struct {
	engine   *engine.GameEngine
	interval time.Duration
	publish  PublishFunc
	name     string
	events   chan request
	done     chan struct{}
}

// New creates a runner for e. The engine must not be touched by anyone else
// once Run has started.
func New(e *engine.GameEngine, opts ...Option) *Runner {
	r := &Runner{
		engine: e,
		events: make(chan request, 64),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the timer cadence, zero for manual ticking
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// Done is closed when Run returns
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Run consumes events until ctx is cancelled. The timer stops once the game is
// over and restarts after a reset.
func (r *Runner) Run(ctx context.Context) error {
	var ticker *time.Ticker
	var tickC <-chan time.Time

	startTicker := func() {
		if r.interval <= 0 || ticker != nil {
			return
		}
		ticker = time.NewTicker(r.interval)
		tickC = ticker.C
	}
	stopTicker := func() {
		if ticker == nil {
			return
		}
		ticker.Stop()
		ticker = nil
		tickC = nil
	}

	if !r.engine.IsGameOver() {
		startTicker()
	}
	defer func() {
		stopTicker()
		close(r.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-tickC:
			r.handle(Event{Kind: EventTick})

		case req := <-r.events:
			res := r.handle(req.event)
			req.reply <- res
			if req.event.Kind == EventReset {
				startTicker()
			}
		}

		if r.engine.IsGameOver() {
			stopTicker()
		}
	}
}

func (r *Runner) handle(ev Event) *Result {
	res := &Result{}

	switch ev.Kind {
	case EventTick:
		count := ev.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			tick := r.engine.Advance()
			res.Tick = tick
			if tick.Skipped {
				break
			}
			res.Ticked++
			if tick.Frozen {
				res.Frozen++
			}
			if tick.GameOver {
				log.Printf("[TICK] %s game over after %d ticks", r.label(), r.engine.Ticks())
				break
			}
		}
		res.Handled = res.Ticked > 0
		res.Snapshot = r.engine.Snapshot()
		if res.Handled {
			r.emit(Update{Kind: EventTick, Tick: res.Tick, Frozen: res.Frozen, Snapshot: res.Snapshot})
		}

	case EventKey:
		dir, ok := r.engine.HandleKey(ev.Code)
		res.Direction = dir
		res.Handled = ok
		res.Snapshot = r.engine.Snapshot()
		if ok {
			r.emit(Update{Kind: EventKey, Key: ev.Code, Snapshot: res.Snapshot})
		}

	case EventReset:
		r.engine.Reset()
		res.Handled = true
		res.Snapshot = r.engine.Snapshot()
		r.emit(Update{Kind: EventReset, Snapshot: res.Snapshot})

	default:
		res.Handled = ev.Kind == EventQuery
		res.Snapshot = r.engine.Snapshot()
	}

	return res
}

func (r *Runner) emit(u Update) {
	if r.publish != nil {
		r.publish(u)
	}
}

func (r *Runner) label() string {
	if r.name == "" {
		return "game"
	}
	return "session " + r.name
}

// Send queues ev and waits for its result
func (r *Runner) Send(ctx context.Context, ev Event) (*Result, error) {
	req := request{event: ev, reply: make(chan *Result, 1)}

	select {
	case r.events <- req:
	case <-r.done:
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, nil
	case <-r.done:
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tick advances the game count times, stopping early at game over
func (r *Runner) Tick(ctx context.Context, count int) (*Result, error) {
	return r.Send(ctx, Event{Kind: EventTick, Count: count})
}

// Key delivers a key code
func (r *Runner) Key(ctx context.Context, code string) (*Result, error) {
	return r.Send(ctx, Event{Kind: EventKey, Code: code})
}

// Reset starts a fresh game
func (r *Runner) Reset(ctx context.Context) (*Result, error) {
	return r.Send(ctx, Event{Kind: EventReset})
}

// Snapshot returns the current state without changing it
func (r *Runner) Snapshot(ctx context.Context) (*engine.Snapshot, error) {
	res, err := r.Send(ctx, Event{Kind: EventQuery})
	if err != nil {
		return nil, err
	}
	return res.Snapshot, nil
}
