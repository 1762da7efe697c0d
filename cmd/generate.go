package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadscan/internal/generate"
)

var (
	generateCount  int
	generateSeed   int64
	generateSource string
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic demo feed",
	Long:  "Writes a deterministic synthetic CSV feed of gym and clinic listings, including near-duplicates, for exercising the pipeline without live feeds.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		listings := generate.New(generateSeed).Listings(generateCount, generateSource)
		if err := generate.WriteCSV(generateOut, listings); err != nil {
			return err
		}
		fmt.Printf("Wrote %d listings to %s\n", len(listings), generateOut)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateCount, "count", 200, "number of listings to generate")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 42, "random seed")
	generateCmd.Flags().StringVar(&generateSource, "source", "justdial", "source tag for the generated feed")
	generateCmd.Flags().StringVar(&generateOut, "out", "feed.csv", "output feed path")
	rootCmd.AddCommand(generateCmd)
}
