package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd returns the callers installed go-chip8 version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Retrieve the currently installed go-chip8 version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(currentReleaseVersion)
	},
}
