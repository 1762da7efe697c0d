// Package scoring implements composite lead scoring with weighted
// component signals and an optional learned adjustment model.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscan/internal/config"
)

// DefaultConfig returns a config.ScoringConfig with production defaults.
// Weights sum to 100.
func DefaultConfig() config.ScoringConfig {
	return config.ScoringConfig{
		// Weights (sum = 100).
		RatingQualityWeight:     25,
		ReviewVolumeWeight:      15,
		CompletenessWeight:      15,
		CategoryFitWeight:       20,
		MarketOpportunityWeight: 15,
		GrowthSignalWeight:      10,

		// Tier cutoffs on the 1-10 composite.
		TopCutoff:    8.0,
		HighCutoff:   6.0,
		MediumCutoff: 4.0,

		MaxAdjust: 1.0,
	}
}

// WeightSum returns the sum of all component weights.
func WeightSum(c config.ScoringConfig) float64 {
	return c.RatingQualityWeight + c.ReviewVolumeWeight + c.CompletenessWeight +
		c.CategoryFitWeight + c.MarketOpportunityWeight + c.GrowthSignalWeight
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
// Validation failures are fatal and must abort a run before any record
// is processed.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	weights := map[string]float64{
		"rating_quality_weight":     c.RatingQualityWeight,
		"review_volume_weight":      c.ReviewVolumeWeight,
		"completeness_weight":       c.CompletenessWeight,
		"category_fit_weight":       c.CategoryFitWeight,
		"market_opportunity_weight": c.MarketOpportunityWeight,
		"growth_signal_weight":      c.GrowthSignalWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	// Weights should be close to 100 (allow tolerance for floating-point).
	if math.Abs(sum-100) > 1 {
		errs = append(errs, fmt.Sprintf("weights should sum to 100, got %.1f", sum))
	}

	// Cutoffs must be inside the composite range and strictly descending.
	for name, v := range map[string]float64{
		"top_cutoff":    c.TopCutoff,
		"high_cutoff":   c.HighCutoff,
		"medium_cutoff": c.MediumCutoff,
	} {
		if v < 1 || v > 10 {
			errs = append(errs, fmt.Sprintf("%s must be between 1 and 10", name))
		}
	}
	if c.TopCutoff <= c.HighCutoff {
		errs = append(errs, "top_cutoff must be > high_cutoff")
	}
	if c.HighCutoff <= c.MediumCutoff {
		errs = append(errs, "high_cutoff must be > medium_cutoff")
	}

	if c.MaxAdjust < 0 {
		errs = append(errs, "max_adjust must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
