package root

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"herovault/internal/game"
	"herovault/internal/logging"
	"herovault/internal/model"
	"herovault/internal/service"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print every change saved for the player until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireEmail(g); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx, cmd, g)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			s := service.NewSession(a.Gateway, logging.Discard())
			s.OnChange(func(p *model.PlayerState) {
				title, _ := game.TitleForLevel(p.Level)
				fmt.Fprintf(out, "v%d level %d %s, %d total progress\n", p.Version, p.Level, title.Name, p.TotalProgressPoints)
			})
			if _, err := s.Resume(ctx, g.email); err != nil {
				return err
			}
			defer s.Close()

			<-ctx.Done()
			return nil
		},
	}
	return cmd
}
