package cli

import (
	"fmt"
	"strconv"
	"time"

	"breathe/internal/analytics"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newStatsCommand(_ *options) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recorded practice statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStatsStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			totals, err := store.Totals(cmd.Context())
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No finished sessions yet.")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTotals(totals))
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "statistics database path (defaults to the config directory)")
	return cmd
}

func renderTotals(totals []analytics.PatternTotals) string {
	rows := make([][]string, 0, len(totals))
	for _, entry := range totals {
		rows = append(rows, []string{
			entry.Pattern,
			strconv.Itoa(entry.Sessions),
			strconv.Itoa(entry.Cycles),
			strconv.Itoa(entry.Phases),
			entry.Duration.Round(time.Second).String(),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATTERN", "SESSIONS", "CYCLES", "PHASES", "TIME").
		Rows(rows...).
		String()
}
