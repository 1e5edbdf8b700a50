package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/drip"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drip",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("drip version %s\n", strings.TrimSpace(drip.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
