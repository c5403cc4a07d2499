package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"herovault/internal/game"
)

func newShowCmd(g *globalFlags) *cobra.Command {
	var history int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show player state, title and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireEmail(g); err != nil {
				return err
			}
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.Gateway.Load(ctx, g.email)
			if err != nil {
				return err
			}
			v, err := game.View(p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderView(out, v)
			if rank, err := a.Gateway.Rank(ctx, g.email); err == nil && rank > 0 {
				fmt.Fprintf(out, "Leaderboard rank: #%d\n", rank)
			}
			renderHistory(out, p, history)
			return nil
		},
	}
	cmd.Flags().IntVar(&history, "history", 5, "number of history entries to print")
	return cmd
}
