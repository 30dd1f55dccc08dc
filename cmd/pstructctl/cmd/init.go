package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/pstruct/pkg/config"
	"github.com/ssargent/pstruct/pkg/media"
	"github.com/ssargent/pstruct/pkg/persist"
)

var initDevicePath string

// initCmd bootstraps a config file and a virgin media image
// (SPEC_FULL.md's `pstructctl init`).
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a config file and a virgin device image",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.BootstrapConfig(cfgPath, initDevicePath)
		if err != nil {
			return fmt.Errorf("bootstrap config: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(cfg.Device.Path), 0750); err != nil {
			return fmt.Errorf("create device directory: %w", err)
		}

		sizeBytes := cfg.Device.SizeBytes
		if sizeBytes == 0 {
			sizeBytes, err = persist.RequiredBytes[Record](cfg.Device.PageSize, cfg.Device.WearLevels)
			if err != nil {
				return err
			}
		}

		m, err := media.NewFileMedia(cfg.Device.Path, sizeBytes, cfg.Device.PageSize)
		if err != nil {
			return fmt.Errorf("create device image: %w", err)
		}
		defer m.Close()

		cmd.Printf("config written to %s\n", cfgPath)
		cmd.Printf("device image ready at %s (%d bytes, %d wear levels)\n", cfg.Device.Path, sizeBytes, cfg.Device.WearLevels)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDevicePath, "device", "", "override the bootstrapped device image path")
}
