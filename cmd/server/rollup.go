package main

import (
	"fmt"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/spf13/cobra"
)

func newRollupCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Maintain stored daily progress rollups",
	}
	cmd.AddCommand(newRollupRebuildCommand(opts), newRollupPruneCommand(opts))
	return cmd
}

func newRollupRebuildCommand(opts *rootOptions) *cobra.Command {
	var (
		users []string
		days  int
	)

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute stored rollups from tasks",
		Long: `Rebuild recomputes the daily_progress rows of the last --days days
for the given users, or for every user when --user is not set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Rebuild(cmd.Context(), users, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d days for %d users.\n", days, n)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&users, "user", "u", nil, "user IDs to rebuild (default all)")
	cmd.Flags().IntVarP(&days, "days", "d", progress.DefaultCalendarDays, "number of days ending today")
	return cmd
}

func newRollupPruneCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete stored rollups outside the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d rows.\n", n)
			return nil
		},
	}
}
