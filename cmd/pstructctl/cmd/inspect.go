package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// inspectCmd prints the engine's introspection observers as JSON.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print engine introspection observers",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engineFromContext(cmd)
		if err != nil {
			return err
		}
		cfg, err := configFromContext(cmd)
		if err != nil {
			return err
		}

		eng.Load()

		out := map[string]interface{}{
			"is_loaded":         eng.IsLoaded(),
			"location":          eng.Location(),
			"counter":           eng.Counter(),
			"pages":             eng.Pages(),
			"wear_levels":       eng.WearLevels(),
			"storage_unit_size": eng.StorageUnitSize(),
			"storage_unit_pages": eng.StorageUnitPages(cfg.Device.PageSize),
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
