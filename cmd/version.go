package cmd

import (
	"fmt"

	"github.com/alexiusacademia/goslope/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of goslope",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.Info())
		fmt.Fprintln(out, "Slope Stability Analysis Tool")
		fmt.Fprintln(out, "Ordinary (Fellenius) and Simplified Bishop methods of slices")
	},
}
