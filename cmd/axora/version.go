package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"axora/internal/version"
)

var versionDetailed bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the Axora version, codename and build information.`,
	Run: func(_ *cobra.Command, _ []string) {
		if versionDetailed {
			fmt.Println(version.GetDetailedVersion())
			return
		}
		fmt.Println(version.GetFormattedVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version and build information")
}
