package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil // no backend wiring needed
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(internal.VersionVerbose())
	},
}
