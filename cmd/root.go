package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// currentReleaseVersion is used to print the version the user currently has downloaded
const currentReleaseVersion = "v0.1.0"

// rootCmd is the base for all commands.
var rootCmd = &cobra.Command{
	Use:   "go-chip8 [command]",
	Short: "go-chip8 is a CHIP-8 interpreter",
	Long:  "go-chip8 interprets CHIP-8 roms and drives them in a window",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `go-chip8 help` for more information")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs go-chip8 according to the user's command/subcommand/flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
