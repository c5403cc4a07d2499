package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"herovault/internal/app"
	"herovault/internal/config"
	"herovault/internal/logging"
)

const Version = "0.1.0"

type globalFlags struct {
	store      string
	sqlitePath string
	redis      string
	email      string
	verbose    bool
}

// NewRootCmd builds the vaultctl command tree
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "vaultctl",
		Short:         "HeroVault operator CLI",
		Long:          "vaultctl binds, inspects and drives HeroVault players directly against the configured store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.store, "store", "", "store backend (mongo|sqlite), overrides STORE")
	pf.StringVar(&g.sqlitePath, "sqlite-path", "", "sqlite database path, overrides SQLITE_PATH")
	pf.StringVar(&g.redis, "redis", "", "redis address, overrides REDIS_URI (empty disables)")
	pf.StringVarP(&g.email, "email", "e", os.Getenv("HEROVAULT_EMAIL"), "player email")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(
		newBindCmd(g),
		newShowCmd(g),
		newActCmd(g),
		newWatchCmd(g),
		newLeaderboardCmd(g),
		newDeleteCmd(g),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func openApp(ctx context.Context, cmd *cobra.Command, g *globalFlags) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = g.store
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = g.sqlitePath
	}
	if flags.Changed("redis") {
		cfg.RedisAddr = g.redis
	}

	logger := logging.Discard()
	if g.verbose {
		logger = logging.New(cmd.ErrOrStderr(), cfg.Logging)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = a.Close(context.Background())
	}
	return a, cleanup, nil
}

func requireEmail(g *globalFlags) error {
	if g.email == "" {
		return fmt.Errorf("--email is required (or set HEROVAULT_EMAIL)")
	}
	return nil
}
