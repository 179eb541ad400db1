package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	dataDir   string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "venturepilot",
	Short: "Multi-agent startup intelligence",
	Long: `venturepilot analyzes an early-stage startup with six cooperating agents:
profiling, policy, investor matching, market, news and strategy. Each agent
grounds its answer in a local document corpus and, when an API key is
configured, in a generative model.

Run 'venturepilot serve' to start the HTTP API or 'venturepilot analyze'
for a one-off report in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion injects build information.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// GetVersion returns the application version string.
func GetVersion() string {
	return appVersion
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .venturepilot.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"document corpus directory (default: ./data)")
}
