package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ff "github.com/Andrej220/go-utils/fastflow"
	"github.com/Andrej220/go-utils/fastflow/config"
	"github.com/Andrej220/go-utils/fastflow/metrics"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "fastflow",
		Short:         "Run workloads on an in-process worker pool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = c
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config-file", "", "YAML config file")
	if err := config.BindFlags(a.v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		newWordcountCmd(a),
		newPiCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// executor starts a pool from the loaded configuration. pm may be nil.
func (a *app) executor(ctx context.Context, pm *metrics.PoolMetrics) (*ff.Executor, error) {
	opts := a.cfg.Options()
	if pm != nil {
		opts.Metrics = pm
	}
	e, err := ff.NewExecutorWithOptions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("start pool: %w", err)
	}
	return e, nil
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := config.Dump(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
