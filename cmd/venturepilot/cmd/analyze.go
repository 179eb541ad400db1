package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/config"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/fsutil"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline for one startup",
	Long: `Run all six agents for a startup described by flags or a JSON file and
print a summary. Flags override fields read from --file.

Examples:
  venturepilot analyze --file startup.json
  venturepilot analyze --description "..." --domain fintech --stage seed \
    --geography India --customer-type B2B --output report.json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeFile         string
	analyzeOutput       string
	analyzeJSON         bool
	analyzeDescription  string
	analyzeDomain       string
	analyzeStage        string
	analyzeGeography    string
	analyzeCustomerType string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "JSON file holding the startup input")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the full result as JSON to this path")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON instead of a summary")
	analyzeCmd.Flags().StringVar(&analyzeDescription, "description", "", "free-text startup description")
	analyzeCmd.Flags().StringVar(&analyzeDomain, "domain", "", "business domain, e.g. fintech")
	analyzeCmd.Flags().StringVar(&analyzeStage, "stage", "", "company stage, e.g. seed")
	analyzeCmd.Flags().StringVar(&analyzeGeography, "geography", "", "operating geography")
	analyzeCmd.Flags().StringVar(&analyzeCustomerType, "customer-type", "", "customer type, e.g. B2B")
}

// readStartupInput builds the input from --file, then applies flag overrides.
func readStartupInput(cmd *cobra.Command) (core.StartupInput, error) {
	var in core.StartupInput
	if analyzeFile != "" {
		data, err := fsutil.ReadFileScoped(analyzeFile)
		if err != nil {
			return in, fmt.Errorf("reading input file: %w", err)
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parsing input file: %w", err)
		}
	}

	overrides := []struct {
		flag string
		dst  *string
		val  string
	}{
		{"description", &in.Description, analyzeDescription},
		{"domain", &in.Domain, analyzeDomain},
		{"stage", &in.Stage, analyzeStage},
		{"geography", &in.Geography, analyzeGeography},
		{"customer-type", &in.CustomerType, analyzeCustomerType},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.val
		}
	}
	return in, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	in, err := readStartupInput(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.orch.Run(ctx, in)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if analyzeOutput != "" || analyzeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		if analyzeOutput != "" {
			if err := config.AtomicWrite(analyzeOutput, append(data, '\n')); err != nil {
				return fmt.Errorf("writing %s: %w", analyzeOutput, err)
			}
			a.logger.Info("result written", "path", analyzeOutput, "run_id", result.RunID)
		}
		if analyzeJSON {
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}
	}

	renderSummary(out, result)
	return nil
}
