package tone

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// playbackSlack is added to a cue's duration to bound a single playback.
const playbackSlack = 2 * time.Second

// Player produces sound for a tone.
type Player interface {
	Play(ctx context.Context, t Tone) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, t Tone) error

func (f PlayerFunc) Play(ctx context.Context, t Tone) error { return f(ctx, t) }

// NopPlayer discards every tone.
type NopPlayer struct{}

func (NopPlayer) Play(context.Context, Tone) error { return nil }

// CommandPlayer pipes a rendered WAV into an external program such as
// "aplay -q" or "paplay".
type CommandPlayer struct {
	Name string
	Args []string
}

// NewCommandPlayer splits cmdline on whitespace. It returns nil for an empty
// command line.
func NewCommandPlayer(cmdline string) *CommandPlayer {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil
	}
	return &CommandPlayer{Name: fields[0], Args: fields[1:]}
}

func (p *CommandPlayer) Play(ctx context.Context, t Tone) error {
	var wav bytes.Buffer
	if err := Render(&wav, t); err != nil {
		return fmt.Errorf("render tone: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Name, p.Args...)
	cmd.Stdin = &wav
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", p.Name, err, bytes.TrimSpace(out))
	}
	return nil
}

// Emitter plays cues for tags in the background. Emit never blocks and
// playback failures only reach the debug log.
type Emitter struct {
	table  Table
	player Player
	logger *zap.Logger

	wg sync.WaitGroup
}

// NewEmitter returns an Emitter. A nil player or logger is replaced by a
// no-op.
func NewEmitter(table Table, player Player, logger *zap.Logger) *Emitter {
	if table == nil {
		table = DefaultTable()
	}
	if player == nil {
		player = NopPlayer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{table: table, player: player, logger: logger}
}

// Table returns the emitter's cue table.
func (e *Emitter) Table() Table {
	return e.table
}

// Emit starts playback of the cue for tag and returns immediately. A nil
// Emitter is valid and silent.
func (e *Emitter) Emit(ctx context.Context, tag Tag) {
	if e == nil {
		return
	}

	t, ok := e.table.Lookup(tag)
	if !ok {
		e.logger.Debug("no tone for tag", zap.String("tag", string(tag)))
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Debug("tone playback panicked",
					zap.String("tag", string(tag)),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.Duration+playbackSlack)
		defer cancel()

		if err := e.player.Play(ctx, t); err != nil {
			e.logger.Debug("tone playback failed",
				zap.String("tag", string(tag)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every started playback has finished.
func (e *Emitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}
