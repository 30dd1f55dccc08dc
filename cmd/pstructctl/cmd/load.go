package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// loadCmd loads the newest valid record and prints it as JSON.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the newest valid record and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engineFromContext(cmd)
		if err != nil {
			return err
		}

		rec, ok := eng.Load()
		if !ok {
			return fmt.Errorf("load failed: no valid record found")
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record JSON: %w", err)
		}

		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
