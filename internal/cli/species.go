package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List supported species and their labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Builtin(cfg.Models.Dir)
		for _, id := range reg.Species() {
			p, err := reg.Resolve(string(id))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n  %s\n", p.ID, p.ModelPath, strings.Join(p.Labels(), "\n  "))
		}
		return nil
	},
}
