package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/courier/app"
	"github.com/kilianp07/courier/infra/logger"
)

func newEstimateCmd(opts *rootOptions, mode, short string) *cobra.Command {
	var summary bool
	c := &cobra.Command{
		Use:   mode,
		Short: short,
		Long: short + `.

Input is read from stdin: a header line "base_delivery_cost no_of_packages",
one line "pkg_id weight_kg distance_km offer_code" per package` + fleetHelp(mode) + `.
Results are printed in input order on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(); err != nil {
					logger.New("cmd").Errorf("service close: %v", err)
				}
			}()

			res, err := svc.Run(cmd.Context(), app.Mode(mode), cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			for _, id := range res.Undeliverable {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: package %s could not be estimated: it exceeds the vehicle capacity\n", id)
			}
			if summary && res.Summary != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %s\n", res.RunID, res.Summary)
			}
			return nil
		},
	}
	if mode == string(app.ModeTime) {
		c.Flags().BoolVar(&summary, "summary", false, "print a run summary to stderr")
	}
	return c
}

func fleetHelp(mode string) string {
	if mode != string(app.ModeTime) {
		return ""
	}
	return `
and a final line "no_of_vehicles max_speed max_carriable_weight"`
}
