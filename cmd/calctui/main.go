package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"calculator-widget/internal/calculator"
	"calculator-widget/internal/config"
	"calculator-widget/internal/observability"
	"calculator-widget/internal/tone"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logging to stderr would draw over the UI, so it stays off unless a
	// file is configured.
	if cfg.LogFile != "" {
		if err := observability.InitLogger(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer observability.SyncLogger()
	}

	tones, err := tone.LoadTableFile(cfg.ToneTableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var player tone.Player = tone.NopPlayer{}
	if p := tone.NewCommandPlayer(cfg.TonePlayerCmd); p != nil {
		player = p
	}
	emitter := tone.NewEmitter(tones, player, observability.Logger.Named("tone"))

	var p *tea.Program
	pad := calculator.NewPad(
		calculator.WithClearDelay(cfg.ErrorClearDelay),
		calculator.WithEmitter(emitter),
		calculator.WithLogger(observability.Logger.Named("pad")),
		calculator.WithAutoClearHook(func(s calculator.Snapshot) {
			p.Send(autoClearedMsg(s))
		}),
	)
	defer pad.Close()

	p = tea.NewProgram(initialModel(pad))
	if _, err := p.Run(); err != nil {
		observability.Logger.Error("terminal shell failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	emitter.Wait()
}
