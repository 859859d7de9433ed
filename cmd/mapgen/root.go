package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blytheSchen/SketchTiler-sub000/internal/config"
	"github.com/blytheSchen/SketchTiler-sub000/internal/database"
	"github.com/blytheSchen/SketchTiler-sub000/internal/logger"
	"github.com/blytheSchen/SketchTiler-sub000/internal/telemetry"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	configPath string
	trace      bool

	cfg      *config.Config
	shutdown func(context.Context) error
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "mapgen",
		Short:         "Learn tile patterns from example maps and generate new ones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "data/mapgen.yaml", "Path to config YAML file")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "Export traces and metrics to stderr")

	root.AddCommand(
		newLearnCmd(a),
		newGenerateCmd(a),
		newMapsCmd(a),
		newDBCmd(a),
	)
	return root, a
}

// execute runs the command tree and always tears down afterwards, so a
// failed solve still flushes its span and the log file.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown(context.WithoutCancel(ctx)))
}

func (a *app) setup(cmd *cobra.Command) error {
	logConfig, err := logger.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := logger.InitializeWithWriter(logConfig, cmd.ErrOrStderr()); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.trace || cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitStdout(cmd.Context(), cfg.Telemetry.ServiceName, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}

	logger.Debug("Configuration loaded", "path", a.configPath, "command", cmd.Name())
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	var errs []error
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
		a.shutdown = nil
	}
	errs = append(errs, logger.Close())
	return errors.Join(errs...)
}

// observer reports solves to the log and, when enabled, to OpenTelemetry.
func (a *app) observer() wfc.Observer {
	obs := []wfc.Observer{telemetry.NewLogging(nil)}
	if a.shutdown != nil {
		obs = append(obs, telemetry.NewTracing())
	}
	return wfc.Observers(obs...)
}

func (a *app) openDB() (*database.Database, error) {
	db, err := database.OpenWithConfig(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
