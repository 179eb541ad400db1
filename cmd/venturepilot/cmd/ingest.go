package cmd

import (
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Load a document corpus and report what was indexed",
	Long: `Read the policies, investors, news and reports subdirectories of a corpus
directory and report accepted/total documents per category. Documents with
missing fields are rejected individually.

Defaults to the configured data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.Data.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	_, report, err := loadCorpus(cmd.Context(), dir, newLogger(cfg))
	if err != nil {
		return err
	}
	renderCorpusReport(cmd.OutOrStdout(), report)
	return nil
}
