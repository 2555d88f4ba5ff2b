package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabbikazmi/HackingDelhi/store"
)

func newSeedCommand() *cobra.Command {
	var (
		count int
		out   string
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a deterministic demo census dataset",
		Long: `seed generates synthetic census records grouped into households and
writes them to a dataset file. The format follows the file extension:
.json, .jsonl or .yaml.

Example:
  portal seed --count 500 --out demo.jsonl
  portal seed --count 50 --out demo.yaml --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			records := store.GenerateDemo(count, seed)
			if err := store.WriteDataset(out, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 50, "number of records to generate")
	cmd.Flags().StringVar(&out, "out", "", "output dataset file")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "generator seed")
	return cmd
}
