package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tOgg1/emitline/internal/editor"
	"github.com/tOgg1/emitline/internal/logging"
	"github.com/tOgg1/emitline/internal/timeline"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open [set]",
	Short: "Open a set in the timeline editor",
	Long:  "Open a set in the terminal timeline editor. Without an argument the current set is opened.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEditor(cmd, optionalArg(args))
	},
}

// PreflightError is returned when a command cannot start.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	if e.NextStep != "" {
		msg += "\n  try:  " + e.NextStep
	}
	return msg
}

func runEditor(cmd *cobra.Command, setRef string) error {
	if !hasTTY() {
		return &PreflightError{
			Message:  "the editor requires an interactive terminal",
			Hint:     "Use the set and emission subcommands, or render for a static view",
			NextStep: strings.TrimSpace("emitline render " + setRef),
		}
	}

	cfg := GetConfig()

	// The editor owns the terminal; logs go to a file.
	logFile, err := logging.OpenFile(cfg.LogFilePath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       "json",
		Output:       logFile,
		EnableCaller: cfg.Logging.EnableCaller,
	})

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	set, err := resolveSet(ctx, a.sets, setRef)
	if err != nil {
		return err
	}
	if err := rememberSet(set); err != nil {
		logging.Logger.Warn().Err(err).Msg("failed to save current set")
	}

	zoom := timeline.NewZoomContext(cfg.Timeline.InitialScale,
		timeline.WithMinScale(cfg.Timeline.MinScale),
		timeline.WithWheelFactor(cfg.Timeline.WheelFactor),
	)
	ctx = logging.WithContext(ctx, logging.WithSet(set.ID, set.Name))
	session := editor.NewSession(ctx, set, a.sets, a.publisher)

	if err := editor.Run(ctx, session, a.publisher, editor.Config{
		Theme:         cfg.TUI.Theme,
		CellWidthPx:   cfg.TUI.CellWidthPx,
		CellHeightPx:  cfg.TUI.CellHeightPx,
		FrameInterval: cfg.TUI.FrameInterval,
		Zoom:          zoom,
	}); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
