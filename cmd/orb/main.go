package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orb",
	Short: "Opening range breakout scanner",
	Long: `Scans intraday minute bars for opening range breakouts with volume and
VWAP confirmation, and pushes at-most-once-per-bar alerts to an ntfy topic
or stdout. Run 'orb live' against delayed market data or 'orb replay'
against a historical minute-bar CSV.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(liveCmd, replayCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
