package cmd

import "github.com/spf13/cobra"

// unloadCmd clears the engine's in-memory scratch frame. No I/O.
var unloadCmd = &cobra.Command{
	Use:   "unload",
	Short: "Clear the engine's in-memory state",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engineFromContext(cmd)
		if err != nil {
			return err
		}
		eng.Unload()
		cmd.Println("unloaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unloadCmd)
}
