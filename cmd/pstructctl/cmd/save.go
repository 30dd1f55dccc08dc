package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var saveForce bool

// saveCmd decodes a JSON-encoded Record and saves it to the engine.
var saveCmd = &cobra.Command{
	Use:   "save <json-record>",
	Short: "Decode a JSON record and save it to the engine",
	Long: `Save decodes the JSON argument into a Record and calls Save on
the engine. --force is required the first time a virgin device image is
saved to (the engine holds no prior generation to advance from).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rec Record
		if err := json.Unmarshal([]byte(args[0]), &rec); err != nil {
			return fmt.Errorf("decode record JSON: %w", err)
		}

		eng, err := engineFromContext(cmd)
		if err != nil {
			return err
		}

		// Sync in-memory state to whatever the device image already
		// holds before deciding whether --force is needed.
		eng.Load()

		if !eng.Save(rec, saveForce) {
			return fmt.Errorf("save failed (engine not loaded and --force not set, or every slot in the ring rejected the write)")
		}

		cmd.Printf("saved at slot %d, generation %d\n", eng.Location(), eng.Counter())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().BoolVar(&saveForce, "force", false, "allow writing to an engine with no loaded generation (first save to virgin media)")
}
