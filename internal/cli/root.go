package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/config"
)

// Version is the application version.
const Version = "0.1.0"

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "leafdoc",
	Short:         "Plant leaf disease classification",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = cfg.NewLogger()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, predictCmd, convertCmd, speciesCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
