package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/board-race/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadVersionFile()
		fmt.Fprintf(cmd.OutOrStdout(), "board-race %s\n", config.GetFullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = config.GetVersion()
	rootCmd.SetVersionTemplate("board-race {{.Version}}\n")
}
