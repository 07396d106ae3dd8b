// Package cli provides the command-line interface for Breathe.
package cli

import (
	"github.com/spf13/cobra"
)

const (
	appName = "Breathe"
	appID   = "com.breathe.app"
)

type options struct {
	patternName  string
	patternsFile string
	style        string
	debug        bool
	noAnalytics  bool
	watch        bool
}

// NewRootCommand creates the root command. Without a subcommand it opens the
// desktop window.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "breathe",
		Short: "Paced breathing timer",
		Long: `Breathe guides paced breathing: a short countdown, then the phases of the
selected pattern repeat until you stop. Progress is drawn around a square,
either per phase or for the whole cycle.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.patternName, "pattern", "", "breathing pattern name, overrides the saved preference")
	flags.StringVar(&opts.patternsFile, "patterns-file", "", "YAML or TOML file with custom patterns")
	flags.StringVar(&opts.style, "style", "", "progress style: per_phase or cumulative")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.noAnalytics, "no-analytics", false, "do not record session statistics")
	flags.BoolVar(&opts.watch, "watch", false, "reload --patterns-file when it changes")

	root.AddCommand(
		newTUICommand(opts),
		newPatternsCommand(opts),
		newStatsCommand(opts),
	)
	return root
}
