package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/adapters/state"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List stored analyses or print one as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of analyses to list (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := state.NewAnalysisStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening analysis store: %w", err)
	}
	if store == nil {
		return errors.New("analysis history is disabled (store.enabled=false)")
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		result, err := store.Load(ctx, args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	list, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	renderHistory(out, list)
	return nil
}
