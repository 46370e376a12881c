package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TuanAnhhh123/M26-HKT/internal/console"
	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

func resolveCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Resolve paths against the route table",
		Long: `Resolve one or more paths offline and print the view each lands on.

Examples:
  hkt resolve /manager-user
  hkt resolve /foo /manager-user/extra --json`,
		Args: cobra.MinimumNArgs(1),
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

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, path := range args {
				res, ok := r.Resolve(path)
				if !ok {
					return errors.New("E204").WithDetailf("%q", path)
				}

				if asJSON {
					if err := enc.Encode(map[string]any{
						"requested":      path,
						"path":           res.FullPath(),
						"view":           res.View(),
						"name":           res.Name(),
						"redirectedFrom": res.RedirectedFrom,
						"href":           r.HrefOf(res),
					}); err != nil {
						return err
					}
					continue
				}

				if res.Redirected() {
					fmt.Fprintf(out, "%s -> %s (%s, redirected)\n", path, res.FullPath(), res.View())
				} else {
					fmt.Fprintf(out, "%s -> %s\n", path, res.View())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per path")

	return cmd
}
