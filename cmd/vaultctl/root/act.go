package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"herovault/internal/game"
	"herovault/internal/logging"
	"herovault/internal/service"
)

func newActCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "act <action-json>",
		Short: "Apply an action, e.g. '{\"type\":\"deposit\",\"vaultId\":\"v1\",\"amount\":500}'",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one action envelope is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireEmail(g); err != nil {
				return err
			}
			action, err := game.DecodeAction([]byte(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer cleanup()

			s := service.NewSession(a.Gateway, logging.Discard())
			if _, err := s.Resume(ctx, g.email); err != nil {
				return err
			}
			defer s.Close()

			p, err := s.Dispatch(ctx, service.WithGeneratedID(action))
			if err != nil {
				return fmt.Errorf("%s: %w", action.Kind(), err)
			}
			v, err := game.View(p)
			if err != nil {
				return err
			}
			v.SaveStatus = string(s.SaveStatus())
			renderView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	return cmd
}
