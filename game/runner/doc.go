// Package runner serializes access to a game engine.
//
// A Runner is the single owner of one engine. Timer ticks, key presses, resets
// and read-only queries all arrive on one queue and are applied in order by the
// goroutine executing Run, so the engine itself needs no locking:
//
//	r := runner.New(gameEngine,
//		runner.WithInterval(200*time.Millisecond),
//		runner.WithPublisher(func(u runner.Update) { hub.BroadcastToSession(id, u.Snapshot) }),
//	)
//	go r.Run(ctx)
//
//	res, err := r.Key(ctx, "ArrowLeft")
//
// With a zero interval the timer is disabled and the game only advances through
// explicit Tick calls. The timer stops once the game is over and restarts after
// Reset.
package runner
