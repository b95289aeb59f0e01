package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMovementsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "movements <household>",
		Short: "List stored movements for a household",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.Movements(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tAMOUNT\tTYPE\tCATEGORY\tLINKED\tDESCRIPTION")
			for _, m := range rows {
				linked := ""
				if m.LinkedMovementID != nil {
					linked = *m.LinkedMovementID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					m.Date, m.Amount.StringFixed(2), m.TransferType, m.CategoryID, linked, m.Description)
			}
			return tw.Flush()
		},
	}
}
