package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cbsinteractive/casjobs/client"
	"github.com/cbsinteractive/casjobs/config"
	"github.com/cbsinteractive/casjobs/exceptions"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root command ran.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	client   *client.Client
	reporter exceptions.Reporter
	out      io.Writer
}

func execute(args []string) int {
	a := &app{out: os.Stdout, reporter: &exceptions.NoopReporter{}}
	root := newRootCmd(a)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		a.reporter.ReportException(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var (
		mode string
		qctx string
	)

	root := &cobra.Command{
		Use:           "casjobs",
		Short:         "CasJobs batch query client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mode") {
				cfg.RequestMode = mode
			}
			if cmd.Flags().Changed("context") {
				cfg.Context = qctx
			}
			return a.setup(cfg)
		},
	}
	root.PersistentFlags().StringVar(&mode, "mode", "", "request mode, GET or POST (default from CASJOBS_REQUEST_MODE)")
	root.PersistentFlags().StringVar(&qctx, "context", "", "default query context (default from CASJOBS_CONTEXT)")

	root.AddCommand(
		newQuickCmd(a),
		newSubmitCmd(a),
		newStatusCmd(a),
		newCancelCmd(a),
		newMonitorCmd(a),
		newJobsCmd(a),
		newOutputCmd(a),
		newDropCmd(a),
		newCountCmd(a),
		newTablesCmd(a),
	)
	return root
}

func (a *app) setup(cfg *config.Config) error {
	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	reporter, err := exceptions.NewReporter(cfg)
	if err != nil {
		logger.WithError(err).Warn("exception reporting disabled")
	} else {
		a.reporter = reporter
	}

	c, err := client.New(cfg, logger)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.client = cfg, logger, c
	return nil
}
