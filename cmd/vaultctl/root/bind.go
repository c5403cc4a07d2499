package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"herovault/internal/game"
	"herovault/internal/model"
)

func newBindCmd(g *globalFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Start an adventure (create the player if absent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			if err := requireEmail(g); err != nil {
				return err
			}
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer cleanup()

			p, created, err := a.Gateway.CreateIfAbsent(ctx, model.Identity{Name: name, Email: g.email})
			if err != nil {
				return err
			}
			v, err := game.View(p)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "New adventurer created.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome back.")
			}
			renderView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}
