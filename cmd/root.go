package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/goslope/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goslope",
	Short: "Slope Stability Analysis Tool",
	Long: `goslope - Go Slope Stability Analyzer

A CLI tool for the stability analysis of simple soil slopes with
circular slip surfaces using limit-equilibrium methods of slices.

This tool helps geotechnical engineers perform:
  - Factor of safety of a slip circle (Ordinary/Fellenius method)
  - Factor of safety by the Simplified Bishop method
  - Search for the critical slip circle
  - Slice tables and slope diagrams`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   goslope v%-47s║\n", version.Version)
		fmt.Fprintln(out, "  ║   Go Slope Stability Analyzer                             ║")
		fmt.Fprintln(out, "  ║   Alexius S. Academia ©  2025                             ║")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  A CLI tool for the stability analysis of simple soil slopes")
		fmt.Fprintln(out, "  with circular slip surfaces.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • Ordinary Method of Slices (Fellenius)")
		fmt.Fprintln(out, "    • Simplified Bishop Method")
		fmt.Fprintln(out, "    • Critical slip circle search (Nelder-Mead)")
		fmt.Fprintln(out, "    • ASCII and image diagrams of the slip mass")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'goslope --help' to see available commands.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(newFSCmd(), newSearchCmd(), versionCmd)
}
