package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "List the top players by total progress (needs redis)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := a.Gateway.Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No ranked players.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%3d. %-24s %d\n", e.Rank, e.Name, e.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of players")
	return cmd
}
