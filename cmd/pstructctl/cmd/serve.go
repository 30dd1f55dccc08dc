/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pstruct/pkg/api"
	"github.com/ssargent/pstruct/pkg/journal"
)

var servePort int

// serveCmd starts the diagnostics API server over the current engine and
// journal sidecar.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagnostics API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromContext(cmd)
		if err != nil {
			return err
		}
		eng, err := engineFromContext(cmd)
		if err != nil {
			return err
		}
		eng.Load()

		if container == nil {
			return fmt.Errorf("dependency injection container not wired")
		}

		if cfg.Journal.Enabled {
			j, err := journal.Open(cfg.Journal.DataDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()
			container.SetJournalStore(j)
		}

		port := servePort
		if port == 0 {
			port = cfg.API.Port
		}

		srv := container.NewServer(eng, api.NewMetrics())
		return srv.ListenAndServe(api.ServerConfig{Port: port, Bind: cfg.API.Bind})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured diagnostics API port")
}
