package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
	"github.com/Brownie44l1/plant-disease-api/internal/model"
)

var predictSpecies string

var predictCmd = &cobra.Command{
	Use:   "predict <image>",
	Short: "Classify a single leaf image and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		shutdownRuntime, err := startRuntime(cfg)
		if err != nil {
			return err
		}
		defer shutdownRuntime()

		a, err := newApp(cfg, logger, model.OpenONNX, false)
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.service.Run(cmd.Context(), predictSpecies, raw)
		if err != nil {
			return fmt.Errorf("%s: %w", failure.KindOf(err), err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	predictCmd.Flags().StringVarP(&predictSpecies, "species", "s", "tomato", "plant species (tomato, cotton, potato)")
}
