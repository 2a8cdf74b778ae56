package commands

// Root command for Cobra CLI
// Renders the PIM speedup chart, exports it as PDF, shows it
// and optionally delivers the preview to Telegram
// Registers the bench subcommand

import (
	"pim-speedup/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pim-speedup",
	Short: "Render the PIM speedup chart",
	Long: `Renders a grouped bar chart of PIM speedups (Area Optimized vs Performance Optimized)
for C++ Map, C++ Unordered Map and Hopscotch Map, exports it as a PDF and opens it in the system viewer.`,
	Version:      "1.0.0",
	SilenceUsage: true,
	RunE:         runRender,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(benchCmd)
}
