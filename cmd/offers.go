package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/courier/app"
)

func newOffersCmd(opts *rootOptions) *cobra.Command {
	offersCmd := &cobra.Command{
		Use:   "offers",
		Short: "Offer related commands",
	}
	offersCmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List loaded offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.MQTT.Enabled = false
			svc, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tDISCOUNT\tDISTANCE (km)\tWEIGHT (kg)")
			for _, o := range svc.Catalog().Offers() {
				fmt.Fprintf(tw, "%s\t%s%%\t%s\t%s\n", o.Code, strconv.FormatFloat(o.Discount, 'f', -1, 64), o.Distance, o.Weight)
			}
			return tw.Flush()
		},
	})
	return offersCmd
}
