package main

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Andrej220/go-utils/fastflow/montecarlo"
)

func newPiCmd(a *app) *cobra.Command {
	var samples, parts int
	cmd := &cobra.Command{
		Use:   "pi",
		Short: "Estimate pi with parallel Monte Carlo sampling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.executor(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.MustShutdown()

			r, err := montecarlo.EstimateParallel(cmd.Context(), e, samples, parts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
	cmd.Flags().IntVar(&samples, "samples", 2_000_000, "Total samples across all parts")
	cmd.Flags().IntVar(&parts, "parts", runtime.NumCPU(), "Number of tasks to split the samples into")
	return cmd
}
