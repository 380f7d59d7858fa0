package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"reelintake/internal/preflight"
	"reelintake/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service health and submission counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Environment", colorize))
			failed := 0
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Submissions", colorize))

			st, err := store.Open(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("collect stats: %w", err)
			}

			total := 0
			statuses := make([]string, 0, len(stats))
			for status, count := range stats {
				statuses = append(statuses, status)
				total += count
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Fprintln(out, renderStatusLine(statusLabel(status), statusInfo, fmt.Sprintf("%d", stats[status]), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Total", statusInfo, fmt.Sprintf("%d", total), colorize))

			if failed > 0 {
				return fmt.Errorf("%d preflight check(s) failing", failed)
			}
			return nil
		},
	}
}

func statusLabel(status string) string {
	return titleCaser.String(strings.ReplaceAll(status, "-", " "))
}
