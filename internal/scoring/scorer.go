package scoring

import (
	"fmt"
	"math"

	"github.com/sells-group/leadscan/internal/config"
	"github.com/sells-group/leadscan/internal/model"
	"github.com/sells-group/leadscan/internal/taxonomy"
)

// reviewVolumeCap is the review count that earns a full review_volume
// component on the log scale.
const reviewVolumeCap = 200

// categoryFit rates how well each subcategory matches the product being
// sold. Values are 0-1.
var categoryFit = map[string]float64{
	"Traditional Gym":          1.0,
	"Functional Fitness":       0.9,
	"Women-Only Gym":           0.85,
	"Health Club/Wellness":     0.8,
	"Martial Arts/Boxing":      0.7,
	"Yoga/Pilates Studio":      0.6,
	"Physiotherapy Clinic":     0.9,
	"Wellness Center":          0.8,
	"Multi-Specialty Hospital": 0.5,
	"Specialty Clinic":         0.5,
	"Diagnostic Center":        0.3,
}

// categoryDefaultFit applies when a record has a known category but no
// recognized subcategory.
var categoryDefaultFit = map[string]float64{
	taxonomy.CategoryGym:    0.8,
	taxonomy.CategoryClinic: 0.5,
	taxonomy.CategoryOther:  0.2,
}

// Scorer computes composite lead scores.
type Scorer struct {
	cfg      config.ScoringConfig
	adjuster Adjuster
	refYear  int
}

// New returns a Scorer. A nil adjuster means pure heuristic scoring.
// refYear anchors business-age computation (typically the current year).
func New(cfg config.ScoringConfig, adjuster Adjuster, refYear int) *Scorer {
	if adjuster == nil {
		adjuster = NoAdjustment{}
	}
	return &Scorer{cfg: cfg, adjuster: adjuster, refYear: refYear}
}

// HeuristicOnly reports whether the scorer runs without a learned model.
func (s *Scorer) HeuristicOnly() bool {
	_, ok := s.adjuster.(NoAdjustment)
	return ok
}

// Score computes the LeadScore for one record.
func (s *Scorer) Score(rec *model.BusinessRecord, fs model.FeatureSet) model.LeadScore {
	var notes []string

	components := map[string]float64{
		"rating_quality":     s.scoreRatingQuality(rec, &notes),
		"review_volume":      s.scoreReviewVolume(rec, &notes),
		"completeness":       rec.Completeness,
		"category_fit":       scoreCategoryFit(rec),
		"market_opportunity": scoreMarketOpportunity(fs.CompetitorDensity),
		"growth_signal":      s.scoreGrowthSignal(rec, &notes),
	}

	weights := map[string]float64{
		"rating_quality":     s.cfg.RatingQualityWeight,
		"review_volume":      s.cfg.ReviewVolumeWeight,
		"completeness":       s.cfg.CompletenessWeight,
		"category_fit":       s.cfg.CategoryFitWeight,
		"market_opportunity": s.cfg.MarketOpportunityWeight,
		"growth_signal":      s.cfg.GrowthSignalWeight,
	}

	weightSum := WeightSum(s.cfg)
	var total float64
	for k, component := range components {
		total += component * weights[k]
	}
	if weightSum > 0 {
		total /= weightSum
	}

	// Map the 0-1 blend onto the 1-10 composite scale.
	composite := 1 + total*9

	// Component standouts lead the rationale; missing-data notes trail,
	// so consumers that keep only the first entries surface signal.
	rationale := describeStandouts(components)

	// Learned adjustment, bounded so the model can nudge but never
	// dominate the heuristic.
	delta := s.adjuster.Adjust(rec, fs)
	if delta != 0 {
		bounded := clamp(delta, -s.cfg.MaxAdjust, s.cfg.MaxAdjust)
		composite += bounded
		rationale = append(rationale, fmt.Sprintf("model adjustment %+.2f", bounded))
	}
	composite = clamp(composite, 1, 10)

	if s.HeuristicOnly() {
		rationale = append(rationale, "heuristic-only scoring")
	}

	rationale = append(rationale, notes...)

	return model.LeadScore{
		BusinessID:    rec.ID,
		Composite:     math.Round(composite*100) / 100,
		Components:    components,
		Tier:          s.Tier(composite),
		Rationale:     rationale,
		HeuristicOnly: s.HeuristicOnly(),
	}
}

// Tier buckets a composite score using the configured cutoffs.
func (s *Scorer) Tier(composite float64) model.PriorityTier {
	switch {
	case composite >= s.cfg.TopCutoff:
		return model.TierTop
	case composite >= s.cfg.HighCutoff:
		return model.TierHigh
	case composite >= s.cfg.MediumCutoff:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

func (s *Scorer) scoreRatingQuality(rec *model.BusinessRecord, notes *[]string) float64 {
	if rec.Rating == nil {
		*notes = append(*notes, "no rating, neutral applied")
		return 0.5
	}
	return clamp(*rec.Rating/5, 0, 1)
}

func (s *Scorer) scoreReviewVolume(rec *model.BusinessRecord, notes *[]string) float64 {
	if rec.ReviewCount == nil {
		*notes = append(*notes, "no review count, neutral applied")
		return 0.5
	}
	n := float64(*rec.ReviewCount)
	return clamp(math.Log1p(n)/math.Log1p(reviewVolumeCap), 0, 1)
}

func scoreCategoryFit(rec *model.BusinessRecord) float64 {
	if fit, ok := categoryFit[rec.Subcategory]; ok {
		return fit
	}
	if fit, ok := categoryDefaultFit[rec.Category]; ok {
		return fit
	}
	return categoryDefaultFit[taxonomy.CategoryOther]
}

// scoreMarketOpportunity rewards low local competition: a sole operator
// scores 1.0, decaying as same-area, same-category density grows.
func scoreMarketOpportunity(competitorDensity int) float64 {
	return 1 / (1 + float64(competitorDensity)/4)
}

// scoreGrowthSignal blends business age with rating momentum. Missing
// establishment year is neutral.
func (s *Scorer) scoreGrowthSignal(rec *model.BusinessRecord, notes *[]string) float64 {
	if rec.EstablishedYear == nil {
		*notes = append(*notes, "no established year, neutral growth applied")
		return 0.5
	}

	age := s.refYear - *rec.EstablishedYear
	score := 0.5
	switch {
	case age < 5:
		score += 0.2
	case age < 10:
		score += 0.1
	case age > 25:
		score -= 0.1
	}
	if rec.Rating != nil {
		switch {
		case *rec.Rating >= 4.5:
			score += 0.1
		case *rec.Rating < 3.0:
			score -= 0.2
		}
	}
	return clamp(score, 0, 1)
}

// describeStandouts emits rationale for the strongest and weakest
// components so a salesperson can see why a lead ranked where it did.
func describeStandouts(components map[string]float64) []string {
	var out []string
	for _, k := range []string{"rating_quality", "review_volume", "completeness", "category_fit", "market_opportunity", "growth_signal"} {
		v := components[k]
		switch {
		case v >= 0.9:
			out = append(out, "strong "+k)
		case v <= 0.2:
			out = append(out, "weak "+k)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
