package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscan/internal/features"
	"github.com/sells-group/leadscan/internal/geo"
	"github.com/sells-group/leadscan/internal/ingest"
	"github.com/sells-group/leadscan/internal/model"
	"github.com/sells-group/leadscan/internal/normalize"
	"github.com/sells-group/leadscan/internal/scoring"
	"github.com/sells-group/leadscan/internal/taxonomy"
)

var trainOut string

var trainCmd = &cobra.Command{
	Use:   "train <labeled-feed.csv>",
	Short: "Fit the score adjustment model from labeled outcomes",
	Long:  "Reads a CSV feed that carries an extra outcome column (observed lead quality on the 1-10 scale) and fits the linear adjustment model applied on top of heuristic scoring.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		listings, err := ingest.Read(ctx, path, "")
		if err != nil {
			return eris.Wrap(err, "train: read feed")
		}
		outcomes, err := readOutcomes(path)
		if err != nil {
			return err
		}
		if len(outcomes) != len(listings) {
			return eris.Errorf("train: %d listings but %d outcomes", len(listings), len(outcomes))
		}

		normalizer := normalize.New()

		classifier := taxonomy.New()
		if cfg.Taxonomy.RulesPath != "" {
			if classifier, err = taxonomy.NewFromFile(cfg.Taxonomy.RulesPath); err != nil {
				return err
			}
		}
		resolver := geo.New()
		if cfg.Geo.GazetteerPath != "" {
			if resolver, err = geo.NewFromFile(cfg.Geo.GazetteerPath); err != nil {
				return err
			}
		}

		var records []model.BusinessRecord
		var recOutcomes []float64
		ordinals := make(map[string]int)
		for i, raw := range listings {
			ordinals[raw.Source]++
			rec, err := normalizer.Record(normalize.RecordID(raw.Source, ordinals[raw.Source]), raw)
			if err != nil {
				if errors.Is(err, normalize.ErrValidation) {
					zap.L().Debug("train: dropped listing", zap.Int("row", i+1), zap.Error(err))
					continue
				}
				return eris.Wrap(err, "train: normalize")
			}
			classifier.Classify(rec)
			rec.Area = resolver.Resolve(rec.Address)
			records = append(records, *rec)
			recOutcomes = append(recOutcomes, outcomes[i])
		}

		builder := features.NewBuilder(records, cfg.Market.NoveltyThreshold)
		samples := make([]scoring.TrainingSample, len(records))
		for i := range records {
			samples[i] = scoring.TrainingSample{
				Record:   records[i],
				Features: builder.Features(&records[i]),
				Outcome:  recOutcomes[i],
			}
		}

		scorer := scoring.New(cfg.Scoring, scoring.NoAdjustment{}, time.Now().Year())
		adjustment, err := scoring.Train(scorer, samples)
		if err != nil {
			return err
		}
		if err := adjustment.Save(trainOut); err != nil {
			return err
		}

		fmt.Printf("Trained on %d samples, model written to %s\n", adjustment.Samples, trainOut)
		return nil
	},
}

// readOutcomes pulls the outcome column out of the labeled CSV in row
// order, matching the listing order produced by ingest.
func readOutcomes(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "train: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "train: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("train: %s is empty", path)
	}

	col := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "outcome") {
			col = i
		}
	}
	if col < 0 {
		return nil, eris.Errorf("train: %s has no outcome column", path)
	}

	outcomes := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if col >= len(row) {
			return nil, eris.Errorf("train: row %d missing outcome", i+2)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, eris.Errorf("train: row %d has invalid outcome %q", i+2, row[col])
		}
		outcomes = append(outcomes, v)
	}
	return outcomes, nil
}

func init() {
	trainCmd.Flags().StringVar(&trainOut, "out", "model.json", "path to write the trained model")
	rootCmd.AddCommand(trainCmd)
}
