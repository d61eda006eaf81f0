package calculator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"calculator-widget/internal/tone"

	"go.uber.org/zap"
)

// DefaultClearDelay is how long the error marker stays up before the pad
// clears itself.
const DefaultClearDelay = 1500 * time.Millisecond

// Snapshot is the display state a shell renders after an input event.
type Snapshot struct {
	Display  string
	State    State
	Feedback tone.Tag

	// Value is the result of a successful evaluation.
	Value float64

	// Err is set when the event was an evaluation that failed.
	Err error

	// ClearIn is the time left before a pending auto-clear, or zero.
	ClearIn time.Duration
}

// PadOption configures a Pad.
type PadOption func(*Pad)

// WithClearDelay sets the error auto-clear delay.
func WithClearDelay(d time.Duration) PadOption {
	return func(p *Pad) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithEmitter plays cues for every event on e.
func WithEmitter(e *tone.Emitter) PadOption {
	return func(p *Pad) { p.emitter = e }
}

// WithLogger sets the pad's logger.
func WithLogger(l *zap.Logger) PadOption {
	return func(p *Pad) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithAutoClearHook registers fn to run after an auto-clear fires. It runs
// on the timer goroutine.
func WithAutoClearHook(fn func(Snapshot)) PadOption {
	return func(p *Pad) { p.onAutoClear = fn }
}

// Pad is a shell-side calculator: one engine plus the deferred clear that
// follows a failed evaluation. Pad methods are safe for concurrent use.
type Pad struct {
	mu      sync.Mutex
	engine  *Engine
	timer   *time.Timer
	clearAt time.Time
	closed  bool

	delay       time.Duration
	emitter     *tone.Emitter
	logger      *zap.Logger
	onAutoClear func(Snapshot)
	now         func() time.Time
}

// NewPad returns a pad displaying "0".
func NewPad(opts ...PadOption) *Pad {
	p := &Pad{
		engine: NewEngine(),
		delay:  DefaultClearDelay,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns the current display without changing anything.
func (p *Pad) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked("")
}

// Press dispatches a browser key name through MapKey.
func (p *Pad) Press(ctx context.Context, key string) (Snapshot, error) {
	action, token := MapKey(key)
	switch action {
	case ActionAppend:
		return p.Append(ctx, token)
	case ActionEvaluate:
		return p.Evaluate(ctx), nil
	case ActionClear:
		return p.Clear(ctx), nil
	case ActionDelete:
		return p.DeleteLast(ctx), nil
	default:
		return p.Snapshot(), fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
	}
}

// Append adds one token to the expression.
func (p *Pad) Append(ctx context.Context, token rune) (Snapshot, error) {
	p.mu.Lock()
	if err := p.engine.Append(token); err != nil {
		snap := p.snapshotLocked("")
		p.mu.Unlock()
		return snap, err
	}
	snap := p.snapshotLocked(TokenFeedback(token))
	p.mu.Unlock()

	p.emitter.Emit(ctx, snap.Feedback)
	return snap, nil
}

// Evaluate computes the expression. A failure shows the error marker and
// schedules an automatic clear.
func (p *Pad) Evaluate(ctx context.Context) Snapshot {
	p.mu.Lock()
	out := p.engine.Evaluate()
	if !out.OK() {
		p.scheduleClearLocked()
	}
	snap := p.snapshotLocked(out.Feedback)
	snap.Value, snap.Err = out.Value, out.Err
	p.mu.Unlock()

	if out.Err != nil {
		p.logger.Debug("evaluation failed",
			zap.Error(out.Err),
			zap.Duration("clear_in", snap.ClearIn),
		)
	}
	p.emitter.Emit(ctx, snap.Feedback)
	return snap
}

// Clear resets the display and cancels any pending auto-clear.
func (p *Pad) Clear(ctx context.Context) Snapshot {
	p.mu.Lock()
	p.stopTimerLocked()
	p.engine.Clear()
	snap := p.snapshotLocked(tone.Clear)
	p.mu.Unlock()

	p.emitter.Emit(ctx, snap.Feedback)
	return snap
}

// DeleteLast removes the final character.
func (p *Pad) DeleteLast(ctx context.Context) Snapshot {
	p.mu.Lock()
	p.engine.DeleteLast()
	snap := p.snapshotLocked(tone.Button)
	p.mu.Unlock()

	p.emitter.Emit(ctx, snap.Feedback)
	return snap
}

// LastResult returns the previous successful result, if any.
func (p *Pad) LastResult() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.LastResult()
}

// Close stops the pending auto-clear. A closed pad's timer never fires.
func (p *Pad) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.stopTimerLocked()
}

func (p *Pad) scheduleClearLocked() {
	if p.closed {
		return
	}
	p.stopTimerLocked()
	p.clearAt = p.now().Add(p.delay)
	p.timer = time.AfterFunc(p.delay, p.autoClear)
}

func (p *Pad) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.clearAt = time.Time{}
}

func (p *Pad) autoClear() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.clearAt = time.Time{}
	p.engine.Clear()
	snap := p.snapshotLocked(tone.Button)
	hook := p.onAutoClear
	p.mu.Unlock()

	p.logger.Debug("display cleared after error")
	p.emitter.Emit(context.Background(), snap.Feedback)
	if hook != nil {
		hook(snap)
	}
}

func (p *Pad) snapshotLocked(feedback tone.Tag) Snapshot {
	snap := Snapshot{
		Display:  p.engine.Display(),
		State:    p.engine.State(),
		Feedback: feedback,
	}
	if !p.clearAt.IsZero() {
		if d := p.clearAt.Sub(p.now()); d > 0 {
			snap.ClearIn = d
		}
	}
	return snap
}
