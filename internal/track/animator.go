package track

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/skytrack/internal/models"
)

// DefaultFrameInterval is roughly one display frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Options tune how an Animator schedules its updates.
type Options struct {
	FrameInterval time.Duration // FrameInterval is the cadence of update callbacks.
	NoAnimation   bool          // NoAnimation snaps to the final sample instead of interpolating.
}

// Observer receives the lifecycle of animation runs. A nil Observer is allowed.
type Observer interface {
	RunStarted()
	FrameDelivered()
	RunFinished(completed bool)
}

// Animator plays Tracks one run at a time and delivers interpolated states through callbacks.
//
// Every run carries a generation number. Stop and Start bump the generation, and a scheduled
// callback is delivered only while its run is still the current generation, so a superseded run
// can never report after Stop has returned. Callbacks are invoked from the run's goroutine and
// must not call Start or Stop synchronously, except OnComplete which runs after its run retired.
type Animator struct {
	clock    Clock
	opts     Options
	log      *slog.Logger
	observer Observer

	mu         sync.Mutex // guards the fields below
	generation uint64
	cancel     context.CancelFunc
	state      models.AnimationState
	hasState   bool

	emitMu sync.Mutex // held while an update callback runs; Stop waits on it
}

// NewAnimator creates an idle Animator. A nil clock uses the system clock.
func NewAnimator(clock Clock, opts Options, log *slog.Logger, observer Observer) *Animator {
	if clock == nil {
		clock = SystemClock{}
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Animator{clock: clock, opts: opts, log: log, observer: observer}
}

// State returns the last delivered state and whether any state has been delivered yet.
func (a *Animator) State() (models.AnimationState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.hasState
}

// Start stops any running animation and begins moving through samples over total.
// It returns immediately; onUpdate receives every interpolated state and onComplete is called
// once after the last update. Either callback may be nil.
func (a *Animator) Start(
	samples []models.PositionSample,
	total time.Duration,
	onUpdate func(models.AnimationState),
	onComplete func(),
) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}

	a.Stop()

	a.mu.Lock()
	heading := a.state.HeadingDegrees
	if a.opts.NoAnimation {
		samples = samples[len(samples)-1:]
	}
	trk, err := NewTrack(samples, total, heading)
	if err != nil {
		a.mu.Unlock()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.generation++
	gen := a.generation
	a.cancel = cancel
	a.mu.Unlock()

	a.log.Debug("Animation run started",
		"generation", gen, "samples", len(samples), "duration", trk.Duration(), "no_animation", a.opts.NoAnimation)
	if a.observer != nil {
		a.observer.RunStarted()
	}

	go a.run(ctx, gen, trk, onUpdate, onComplete)

	return nil
}

// Stop cancels the current run. Once Stop returns no further update of that run is delivered
// and the run is never reported as complete. A run that had already completed is not affected:
// its onComplete may still be executing when Stop returns.
// It is idempotent and safe to call on an Animator that was never started.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	if cancel != nil {
		a.generation++
		cancel()
	}
	a.mu.Unlock()

	if cancel == nil {
		return
	}

	// Wait out an update that passed its generation check before the bump.
	a.emitMu.Lock()
	a.emitMu.Unlock() //nolint:staticcheck // barrier
	a.log.Debug("Animation run stopped")
	if a.observer != nil {
		a.observer.RunFinished(false)
	}
}

func (a *Animator) run(
	ctx context.Context,
	gen uint64,
	trk *Track,
	onUpdate func(models.AnimationState),
	onComplete func(),
) {
	start := a.clock.Now()

	state, done := trk.At(0)
	if !a.emit(gen, state, onUpdate) {
		return
	}
	if done {
		a.complete(gen, onComplete)
		return
	}

	ticker := a.clock.NewTicker(a.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			state, done = trk.At(now.Sub(start))
			if !a.emit(gen, state, onUpdate) {
				return
			}
			if done {
				a.complete(gen, onComplete)
				return
			}
		}
	}
}

// emit records and delivers state if gen is still current.
func (a *Animator) emit(gen uint64, state models.AnimationState, onUpdate func(models.AnimationState)) bool {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return false
	}
	a.state = state
	a.hasState = true
	a.mu.Unlock()

	if onUpdate != nil {
		onUpdate(state)
	}
	if a.observer != nil {
		a.observer.FrameDelivered()
	}
	return true
}

// complete retires run gen and reports completion if it was not superseded.
// onComplete runs outside emitMu so it may start the next run.
func (a *Animator) complete(gen uint64, onComplete func()) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.cancel()
	a.cancel = nil
	a.mu.Unlock()

	a.log.Debug("Animation run completed", "generation", gen)
	if a.observer != nil {
		a.observer.RunFinished(true)
	}
	if onComplete != nil {
		onComplete()
	}
}
