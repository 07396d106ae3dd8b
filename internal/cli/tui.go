package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"breathe/internal/core/model"
	"breathe/internal/storage"
	"breathe/internal/ui/terminal"
	"breathe/internal/ui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the breathing timer in the terminal",
		Long: `Run the breathing timer in the terminal.

Keys: space pauses or resumes, r restarts, tab switches to the next pattern,
s toggles the progress style and q quits. Logs go to the config directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

func runTUI(ctx context.Context, opts *options) error {
	logPath, err := storage.LogPath(appName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	env, err := loadEnvironment(opts, []string{logPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = env.logger.Sync()
	}()

	engine, err := env.newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	stopRecorder := env.startRecorder(ctx, engine)
	defer stopRecorder()

	tuiModel := terminal.New(engine, engine.Subscribe(16), terminal.Config{
		Patterns: env.book.All(),
		Style:    env.settings.ProgressStyle,
		Palette:  theme.Resolve(env.settings.Theme),
	})
	program := terminal.NewProgram(ctx, tuiModel)

	stopWatcher := env.startWatcher(ctx, func(patterns []model.Pattern) {
		program.Send(terminal.MsgPatternsReloaded{Patterns: patterns})
	})
	defer stopWatcher()

	engine.Start()
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
