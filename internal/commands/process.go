package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikolastas/logistis-sub000/internal/logger"
	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/source"
	"github.com/nikolastas/logistis-sub000/internal/writer"
)

type processOptions struct {
	format    string
	household string
	members   string
	output    string
	header    bool
	save      bool
}

func newProcessCommand(a *app) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process <file|gs://bucket/object> [more...]",
		Short: "Parse, classify and categorize bank statements",
		Long: `Parses each statement, classifies transfers against the household
directory and assigns categories. Results are written as CSV next to the
input (or to --output, "-" for stdout). With --save the movements are
stored and an own-account linking pass runs for the household.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.save && opts.household == "" {
				return fmt.Errorf("--save requires --household")
			}
			if opts.output != "" && opts.output != "-" && len(args) > 1 {
				return fmt.Errorf("--output can only be used with a single input")
			}
			for _, uri := range args {
				if err := runProcess(cmd, a, uri, opts); err != nil {
					return fmt.Errorf("%s: %w", uri, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "adapter name or content type; detected when omitted")
	cmd.Flags().StringVar(&opts.household, "household", "", "household the statement belongs to")
	cmd.Flags().StringVar(&opts.members, "members", "", "household directory file (defaults to household_file from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output CSV path, - for stdout")
	cmd.Flags().BoolVar(&opts.header, "header", true, "include bank and format metadata rows in CSV")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store movements and link own-account transfers")

	return cmd
}

func runProcess(cmd *cobra.Command, a *app, uri string, opts processOptions) error {
	log := a.log.With().Str("source", uri).Logger()
	ctx := logger.WithContext(cmd.Context(), log)
	out := cmd.OutOrStdout()

	data, err := source.Fetch(ctx, uri)
	if err != nil {
		return err
	}

	dir, err := a.directory(opts.members)
	if err != nil {
		return err
	}
	var members []models.HouseholdMember
	if opts.household != "" {
		members = dir.Members(opts.household)
		if len(members) == 0 {
			log.Warn().Str("household", opts.household).Msg("household has no members in directory")
		}
	}

	p, _, err := a.pipeline(ctx)
	if err != nil {
		return err
	}
	result, err := p.Process(ctx, data, opts.format, members)
	if err != nil {
		return err
	}

	w := &writer.CSVWriter{IncludeHeader: opts.header}
	outPath := opts.output
	if outPath == "-" {
		if err := w.Write(out, result); err != nil {
			return err
		}
	} else {
		if outPath == "" {
			outPath = defaultOutput(uri)
		}
		if err := w.WriteToFile(outPath, result); err != nil {
			return err
		}
	}

	// Keep stdout clean when the CSV itself goes there.
	report := out
	if outPath == "-" {
		report = cmd.ErrOrStderr()
	}
	fmt.Fprintf(report, "%s: %d movement(s), bank %s, format %s\n", source.Name(uri), len(result.Movements), result.Bank, result.Adapter)
	for _, t := range []models.TransferType{models.TransferOwnAccount, models.TransferHouseholdMember, models.TransferThirdParty} {
		if n := result.Summary()[t]; n > 0 {
			fmt.Fprintf(report, "  %s: %d\n", t, n)
		}
	}
	if outPath != "-" {
		fmt.Fprintf(report, "  output: %s\n", outPath)
	}

	if !opts.save {
		return nil
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	inserted, err := s.Save(ctx, opts.household, result.Bank, result.Movements)
	if err != nil {
		return err
	}
	linked, err := a.linker(s).Link(ctx, opts.household)
	if err != nil {
		return err
	}
	fmt.Fprintf(report, "  stored: %d new, %d duplicate(s); linked: %d\n", inserted, len(result.Movements)-inserted, linked)
	return nil
}

// defaultOutput places the CSV next to a local input, or in the working
// directory for remote ones. CSV inputs get a suffix so they are not overwritten.
func defaultOutput(uri string) string {
	name := source.Name(uri)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	out := base + ".csv"
	if strings.EqualFold(out, name) {
		out = base + ".processed.csv"
	}
	if source.IsGCS(uri) {
		return out
	}
	return filepath.Join(filepath.Dir(uri), out)
}
