/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/pstruct/pkg/config"
	"github.com/ssargent/pstruct/pkg/di"
	"github.com/ssargent/pstruct/pkg/media"
	"github.com/ssargent/pstruct/pkg/persist"
)

type ctxKey string

const (
	ctxKeyConfig ctxKey = "config"
	ctxKeyEngine ctxKey = "engine"
)

var cfgPath string

var container *di.Container

// SetContainer wires the dependency-injection container main() built.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pstructctl",
	Short: "pstructctl drives a persist.Struct engine over a simulated NV-memory image",
	Long: `pstructctl is a CLI around the pstruct persistent-structure engine.
It opens a simulated NOR-flash image, constructs a wear-leveled
persist.Struct[Record], and exposes save/load/unload/inspect/bench/serve
subcommands against it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}

		cfg, err := loadOrDefaultConfig()
		if err != nil {
			return err
		}

		eng, err := openEngine(cfg)
		if err != nil {
			return err
		}

		ctx := context.WithValue(cmd.Context(), ctxKeyConfig, cfg)
		ctx = context.WithValue(ctx, ctxKeyEngine, eng)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.GetDefaultConfigPath(), "path to pstructctl config file")
}

func loadOrDefaultConfig() (*config.Config, error) {
	if config.ConfigExists(cfgPath) {
		return config.LoadConfig(cfgPath)
	}
	return config.DefaultConfig(), nil
}

func openEngine(cfg *config.Config) (*persist.Struct[Record], error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Device.Path), 0750); err != nil {
		return nil, fmt.Errorf("create device directory: %w", err)
	}

	sizeBytes := cfg.Device.SizeBytes
	if sizeBytes == 0 {
		required, err := persist.RequiredBytes[Record](cfg.Device.PageSize, cfg.Device.WearLevels)
		if err != nil {
			return nil, err
		}
		sizeBytes = required
	}

	m, err := media.NewFileMedia(cfg.Device.Path, sizeBytes, cfg.Device.PageSize)
	if err != nil {
		return nil, fmt.Errorf("open device image: %w", err)
	}

	eng, err := persist.New[Record](m, m.Start(), cfg.Device.WearLevels)
	if err != nil {
		return nil, fmt.Errorf("construct engine: %w", err)
	}
	return eng, nil
}

func engineFromContext(cmd *cobra.Command) (*persist.Struct[Record], error) {
	eng, ok := cmd.Context().Value(ctxKeyEngine).(*persist.Struct[Record])
	if !ok {
		return nil, fmt.Errorf("engine not found in command context")
	}
	return eng, nil
}

func configFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(ctxKeyConfig).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("config not found in command context")
	}
	return cfg, nil
}
