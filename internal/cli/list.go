package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	jtdgen "github.com/reoring/jtdgen"
	"github.com/reoring/jtdgen/scan"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [packages...]",
		Short: "List the types marked " + scan.MarkerDerive,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, args)
			if err != nil {
				return err
			}
			u, diag, err := scan.Load(cmd.Context(), scan.Config{Dir: e.dir, Logger: e.logger}, e.cfg.Packages...)
			if err != nil {
				return err
			}
			for _, w := range diag.Warnings() {
				e.logger.Warn(w)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tPOSITION")
			for _, r := range u.Roots() {
				fmt.Fprintf(tw, "%s\t%s\t%s:%d\n", r.Names.Render(jtdgen.NamingShort), r.Names.Key(), r.Pos.Filename, r.Pos.Line)
			}
			return tw.Flush()
		},
	}
}
