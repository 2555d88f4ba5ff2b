package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const (
	reportSummary  = "summary"
	reportStates   = "states"
	reportSimulate = "simulate"
)

func newSummarizeCommand() *cobra.Command {
	var (
		dataset   string
		report    string
		threshold int
	)
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Run an analytics report over a dataset file",
		Long: `summarize loads a dataset file and prints one report as JSON:
summary (dashboard aggregates), states (per-state triage counts) or
simulate (eligibility under an income threshold).

Example:
  portal summarize --dataset demo.jsonl
  portal summarize --dataset demo.jsonl --report simulate --income-threshold 50000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataset == "" {
				return fmt.Errorf("--dataset is required")
			}
			records, err := store.LoadDataset(dataset)
			if err != nil {
				return err
			}

			var result any
			switch report {
			case reportSummary:
				result = analytics.Summarize(records)
			case reportStates:
				result = analytics.StateBreakdown(records)
			case reportSimulate:
				if !cmd.Flags().Changed("income-threshold") {
					return fmt.Errorf("--income-threshold is required for the simulate report")
				}
				c := analytics.Criteria{IncomeThreshold: &threshold}
				if err := c.Validate(); err != nil {
					return err
				}
				result = analytics.Simulate(records, c)
			default:
				return fmt.Errorf("unknown report %q (valid: summary, states, simulate)", report)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset file (.json, .jsonl, .yaml)")
	cmd.Flags().StringVar(&report, "report", reportSummary, "report to run: summary, states or simulate")
	cmd.Flags().IntVar(&threshold, "income-threshold", 0, "maximum income for the simulate report")
	return cmd
}
