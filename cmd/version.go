package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stowaway version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("stowaway", "small", "cyan", true)
		banner.Print()
		fmt.Println()
		fmt.Printf("stowaway %s\n", Version)
	},
}
