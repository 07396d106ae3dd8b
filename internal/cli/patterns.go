package cli

import (
	"fmt"
	"strconv"
	"strings"

	"breathe/internal/core/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newPatternsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List available breathing patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnvironment(opts, nil)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.logger.Sync()
			}()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderPatterns(env.book.All(), env.pattern().Name))
			return err
		},
	}
}

func renderPatterns(patterns []model.Pattern, active string) string {
	rows := make([][]string, 0, len(patterns))
	for _, pattern := range patterns {
		marker := ""
		if pattern.Name == active {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			pattern.Name,
			pattern.Title,
			phaseSummary(pattern),
			strconv.Itoa(pattern.CycleSeconds()) + "s",
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "NAME", "TITLE", "PHASES", "CYCLE").
		Rows(rows...).
		String()
}

func phaseSummary(pattern model.Pattern) string {
	parts := make([]string, 0, len(pattern.Phases))
	for _, phase := range pattern.Phases {
		parts = append(parts, fmt.Sprintf("%s %d", phase.Key, phase.Seconds))
	}
	return strings.Join(parts, ", ")
}
