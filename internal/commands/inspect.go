package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikolastas/logistis-sub000/internal/logger"
	"github.com/nikolastas/logistis-sub000/internal/parser"
	"github.com/nikolastas/logistis-sub000/internal/source"
)

func newFormatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported statement formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := parser.DefaultRegistry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBANK\tKIND")
			for _, ad := range registry.All() {
				name := ad.Name()
				if ad == registry.Default() {
					name += " (default)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, ad.Bank(), ad.Kind())
			}
			return tw.Flush()
		},
	}
}

func newDetectCommand(a *app) *cobra.Command {
	var hint string

	cmd := &cobra.Command{
		Use:   "detect <file|gs://bucket/object>",
		Short: "Show which adapter would read a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := source.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ad := parser.DefaultRegistry().Detect(data, hint)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", ad.Name(), ad.Bank(), ad.Kind())
			return nil
		},
	}

	cmd.Flags().StringVar(&hint, "format", "", "adapter name or content type hint")

	return cmd
}

func newCategorizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <description>...",
		Short: "Show the category assigned to free-text descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithContext(cmd.Context(), a.log)
			c, err := a.categorizer(ctx)
			if err != nil {
				return err
			}
			for _, desc := range args {
				id, stage := c.Explain(ctx, desc)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", id, stage, desc)
			}
			return nil
		},
	}
}
