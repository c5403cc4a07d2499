package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete a player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireEmail(g); err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Gateway.Delete(ctx, g.email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", g.email)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
