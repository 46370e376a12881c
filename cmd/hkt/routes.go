package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TuanAnhhh123/M26-HKT/internal/console"
	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long:  `Print the console route table in match order, followed by every view and its href.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			opts, err := cfg.RouterOptions()
			if err != nil {
				return err
			}
			r, err := console.NewResolver(opts...)
			if err != nil {
				return errors.New("E200").Wrap(err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tNAME\tTARGET\tHREF")
			for _, e := range r.Table().Entries() {
				name, href := e.Name, ""
				if name == "" {
					name = "-"
				} else if h, err := r.Href(e.Name, nil); err == nil {
					href = h
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Pattern, name, e.Target, href)
			}

			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "VIEW\tHREF")
			for _, v := range console.Views() {
				href, err := r.Href(string(v), nil)
				if err != nil {
					href = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\n", v, href)
			}
			return tw.Flush()
		},
	}
}
