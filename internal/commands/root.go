package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jyotish-back",
	Short: "Constellational natal chart backend",
	Long: `A natal chart backend referenced to true IAU constellation boundaries
rather than fixed-width zodiac signs.

Features:
• Ascendant/MC root-finding against the real horizon and meridian
• Porphyry house cusps with total in-house placement
• Eclipse-anchored lunar node interpolation (Rahu/Ketu)
• Vedic drishti aspects and north-Indian chart layout
• Redis-persisted constellation arc table
• NATS event publishing for computed charts`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
