package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/pueuetop/internal/app"
	"github.com/five82/pueuetop/internal/pueue"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pueuetop: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:           "pueuetop",
		Short:         "Live dashboard for the pueue task queue",
		Long:          `pueuetop polls a running pueue daemon once per second and shows its tasks in a live, read-only table.`,
		Version:       pueue.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the pueue config file")
	cmd.Flags().StringVarP(&opts.Profile, "profile", "p", "", "config profile to apply")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "path to the pueuetop prefs file")
	return cmd
}
