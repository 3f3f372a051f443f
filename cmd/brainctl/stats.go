package main

import (
	"github.com/spf13/cobra"

	"brain-service/internal/brain/bootstrap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := bootstrap.Open(cmd.Context(), cfg, logger, nil)
		if err != nil {
			return err
		}
		return renderStats(cmd, r.Stats())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
