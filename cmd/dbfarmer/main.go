package main

import (
	"context"
	"os"

	"github.com/ab180/dbfarmer"
	"github.com/ab180/dbfarmer/bgworker"
	"github.com/ab180/dbfarmer/internal/logutils"
	"github.com/ab180/dbfarmer/internal/util"
	"github.com/ab180/dbfarmer/reporter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	exitOK          = 0
	exitFatal       = 1
	exitConfigError = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.LookupEnv))
}

func run(args []string, lookup func(string) (string, bool)) int {
	cmd := newRootCommand(loadConfig(lookup))
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		// fatal outcomes are logged by the reporter itself
		if _, fatal := reporter.AsFatal(err); !fatal {
			log.Error().Err(err).Msg("dbfarmer exited with error")
		}
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, errConfig), errors.Is(err, dbfarmer.ErrInvalidOptions):
		return exitConfigError
	default:
		return exitFatal
	}
}

func newRootCommand(c *config) *cobra.Command {
	root := &cobra.Command{
		Use:           "dbfarmer",
		Short:         "Registers segments with the cluster coordinator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logutils.Setup(cmd.ErrOrStderr(), c.logFormat, c.logLevel); err != nil {
				return configError(err)
			}
			return configError(c.envErr)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return configError(err)
	})
	c.bindFlags(root)

	root.AddCommand(
		newReportCommand(c),
		newRunCommand(c),
		newAnnounceCommand(c),
	)
	return root
}

func newReportCommand(c *config) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Register this segment's address with the coordinator once, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.opt.Validate(); err != nil {
				return err
			}
			ctx, cancel := util.ContextWithSignal(cmd.Context(), util.TerminationSignals...)
			defer cancel()

			_, err := dbfarmer.Report(ctx, c.opt)
			return err
		},
	}
}

func newRunCommand(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Set up the background tasks of a host role and run them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := bgworker.ParseRole(c.role)
			if err != nil {
				return configError(err)
			}
			var tasks bgworker.List
			if err := dbfarmer.Setup(role, &tasks, c.opt); err != nil {
				return err
			}
			log.Info().
				Str("role", role.String()).
				Strs("tasks", tasks.Names()).
				Msg("starting background tasks")

			ctx, cancel := util.ContextWithSignal(cmd.Context(), util.TerminationSignals...)
			defer cancel()
			return bgworker.NewRunner(&tasks).Run(ctx, bgworker.ConsistentState)
		},
	}
	cmd.Flags().StringVar(&c.role, "role", c.role, "host role: dispatch, execute or utility")
	return cmd
}

func newAnnounceCommand(c *config) *cobra.Command {
	return &cobra.Command{
		Use:   "announce",
		Short: "Publish the coordinator endpoint to etcd for segments to discover",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.opt.UsesDiscovery() {
				return configError(errors.New("--etcd-endpoints is required"))
			}
			if err := c.opt.Coordinator.Validate(); err != nil {
				return configError(err)
			}
			return dbfarmer.Announce(cmd.Context(), c.opt)
		},
	}
}
