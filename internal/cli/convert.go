package cli

import (
	"github.com/spf13/cobra"

	"github.com/Brownie44l1/plant-disease-api/internal/convert"
	"github.com/Brownie44l1/plant-disease-api/internal/model"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

var (
	convertSpecies string
	convertModel   string
	convertOut     string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Package a trained model as a web-deployable directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := registry.Builtin(cfg.Models.Dir).Resolve(convertSpecies)
		if err != nil {
			return err
		}

		shutdownRuntime, err := startRuntime(cfg)
		if err != nil {
			return err
		}
		defer shutdownRuntime()

		_, err = convert.New(model.Inspect, logger).Convert(profile, convertModel, convertOut)
		return err
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertSpecies, "species", "s", "", "plant species the model classifies")
	convertCmd.Flags().StringVar(&convertModel, "model", "", "source model file (defaults to the species' model in the models dir)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output directory")
	convertCmd.MarkFlagRequired("species")
	convertCmd.MarkFlagRequired("out")
}
