package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscan/internal/export"
	"github.com/sells-group/leadscan/internal/model"
	"github.com/sells-group/leadscan/internal/pipeline"
)

var (
	analyzeLeadsOut  string
	analyzeReportOut string
	analyzeTop       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <feed>...",
	Short: "Run the full scoring pipeline over one or more feed files",
	Long:  "Ingests CSV/JSON/XLSX feeds, deduplicates and scores every listing, writes the lead CSV and market report, and persists the run.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := pipeline.New(cfg, st)
		if err != nil {
			return err
		}

		result, err := p.Run(ctx, args)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if err := export.WriteLeadsCSVFile(analyzeLeadsOut, result.Leads); err != nil {
			return err
		}
		if err := export.WriteReportFile(analyzeReportOut, result.Report); err != nil {
			return err
		}

		fmt.Printf("Run %s complete: %d ingested, %d dropped, %d merged, %d scored (%d unknown area)\n",
			result.Run.ID, result.Summary.Ingested, result.Summary.Dropped,
			result.Summary.Merged, result.Summary.Scored, result.Summary.UnknownArea)
		fmt.Printf("Leads written to %s, report written to %s\n", analyzeLeadsOut, analyzeReportOut)

		if analyzeTop > 0 {
			top := result.Leads
			if len(top) > analyzeTop {
				top = top[:analyzeTop]
			}
			printLeads(top)
		}
		return nil
	},
}

func printLeads(leads []model.ScoredLead) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tAREA\tSCORE\tTIER")
	for _, l := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			l.Business.ID, l.Business.Name, l.Business.Category,
			l.Business.Area, l.Score.Composite, l.Score.Tier)
	}
	w.Flush() //nolint:errcheck
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLeadsOut, "leads-out", "scored_leads.csv", "path for the scored leads CSV")
	analyzeCmd.Flags().StringVar(&analyzeReportOut, "report-out", "market_report.json", "path for the market report JSON")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "print the top N leads after the run (0 to disable)")
	rootCmd.AddCommand(analyzeCmd)
}
