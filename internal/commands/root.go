package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nikolastas/logistis-sub000/internal/buildinfo"
	"github.com/nikolastas/logistis-sub000/internal/config"
	"github.com/nikolastas/logistis-sub000/internal/logger"
)

// app carries state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	log        zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "logistis",
		Short:   "Household bank statement ingestion and classification",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "path to logistis.yaml")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		newProcessCommand(a),
		newLinkCommand(a),
		newMovementsCommand(a),
		newServeCommand(a),
		newFormatsCommand(a),
		newDetectCommand(a),
		newCategorizeCommand(a),
	)

	return rootCmd
}

func (a *app) init() error {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	a.cfg = cfg
	a.log = logger.New(cfg.Log.Level, cfg.Log.Console)
	return nil
}
