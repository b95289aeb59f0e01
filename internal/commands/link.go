package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikolastas/logistis-sub000/internal/logger"
)

func newLinkCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "link [household]",
		Short: "Pair stored own-account transfers",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithContext(cmd.Context(), a.log)

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			households := args
			if all {
				if households, err = s.Households(ctx); err != nil {
					return err
				}
			}

			l := a.linker(s)
			for _, h := range households {
				n, err := l.Link(ctx, h)
				if err != nil {
					return fmt.Errorf("linking %s: %w", h, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: linked %d movement(s)\n", h, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "link every household in the database")

	return cmd
}
