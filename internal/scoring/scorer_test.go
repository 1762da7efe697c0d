package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscan/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestScorePerfectRecord(t *testing.T) {
	s := New(DefaultConfig(), nil, 2026)

	rec := model.BusinessRecord{
		ID:           "justdial-1",
		Subcategory:  "Traditional Gym",
		Category:     "Gym/Fitness",
		Rating:       ptr(5.0),
		ReviewCount:  ptr(500),
		Completeness: 1.0,
	}
	fs := model.FeatureSet{CompetitorDensity: 0}

	score := s.Score(&rec, fs)

	// All components full except growth (neutral 0.5 without a year):
	// (25+15+15+20+15+5)/100 = 0.95 -> 1 + 0.95*9 = 9.55.
	assert.InDelta(t, 9.55, score.Composite, 0.001)
	assert.Equal(t, model.TierTop, score.Tier)
	assert.True(t, score.HeuristicOnly)
	assert.Contains(t, score.Rationale, "heuristic-only scoring")
	assert.Contains(t, score.Rationale, "no established year, neutral growth applied")

	assert.InDelta(t, 1.0, score.Components["rating_quality"], 0.001)
	assert.InDelta(t, 1.0, score.Components["review_volume"], 0.001)
	assert.InDelta(t, 1.0, score.Components["market_opportunity"], 0.001)
	assert.InDelta(t, 0.5, score.Components["growth_signal"], 0.001)
}

func TestScoreMissingSignalsNeutral(t *testing.T) {
	s := New(DefaultConfig(), nil, 2026)

	rec := model.BusinessRecord{ID: "x-1", Category: "Other"}
	score := s.Score(&rec, model.FeatureSet{})

	assert.InDelta(t, 0.5, score.Components["rating_quality"], 0.001)
	assert.InDelta(t, 0.5, score.Components["review_volume"], 0.001)
	assert.Contains(t, score.Rationale, "no rating, neutral applied")
	assert.Contains(t, score.Rationale, "no review count, neutral applied")
	assert.GreaterOrEqual(t, score.Composite, 1.0)
	assert.LessOrEqual(t, score.Composite, 10.0)
}

func TestScoreStandoutsLeadRationale(t *testing.T) {
	s := New(DefaultConfig(), nil, 2026)

	rec := model.BusinessRecord{
		ID:           "justdial-2",
		Subcategory:  "Traditional Gym",
		Rating:       ptr(5.0),
		ReviewCount:  ptr(500),
		Completeness: 1.0,
	}
	score := s.Score(&rec, model.FeatureSet{})

	// Component standouts come first so consumers that keep only the
	// leading reasons never surface missing-data notes ahead of them.
	require.NotEmpty(t, score.Rationale)
	assert.Equal(t, "strong rating_quality", score.Rationale[0])
	assert.Equal(t, "strong review_volume", score.Rationale[1])
	assert.Equal(t, "no established year, neutral growth applied",
		score.Rationale[len(score.Rationale)-1])
}

func TestScoreGrowthSignal(t *testing.T) {
	s := New(DefaultConfig(), nil, 2026)

	tests := []struct {
		name   string
		year   int
		rating *float64
		want   float64
	}{
		{"young business", 2024, nil, 0.7},
		{"young and loved", 2024, ptr(4.8), 0.8},
		{"mid age", 2019, nil, 0.6},
		{"old", 1995, nil, 0.4},
		{"old and poor", 1995, ptr(2.5), 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := model.BusinessRecord{EstablishedYear: ptr(tt.year), Rating: tt.rating}
			var rationale []string
			assert.InDelta(t, tt.want, s.scoreGrowthSignal(&rec, &rationale), 0.001)
		})
	}
}

func TestTierCutoffs(t *testing.T) {
	s := New(DefaultConfig(), nil, 2026)

	assert.Equal(t, model.TierTop, s.Tier(8.0))
	assert.Equal(t, model.TierHigh, s.Tier(7.99))
	assert.Equal(t, model.TierHigh, s.Tier(6.0))
	assert.Equal(t, model.TierMedium, s.Tier(4.0))
	assert.Equal(t, model.TierLow, s.Tier(3.99))
}

func TestMarketOpportunityDecay(t *testing.T) {
	assert.InDelta(t, 1.0, scoreMarketOpportunity(0), 0.001)
	assert.InDelta(t, 0.5, scoreMarketOpportunity(4), 0.001)
	assert.Greater(t, scoreMarketOpportunity(2), scoreMarketOpportunity(10))
}

func TestCategoryFit(t *testing.T) {
	assert.InDelta(t, 1.0, scoreCategoryFit(&model.BusinessRecord{Subcategory: "Traditional Gym"}), 0.001)
	assert.InDelta(t, 0.3, scoreCategoryFit(&model.BusinessRecord{Subcategory: "Diagnostic Center"}), 0.001)
	assert.InDelta(t, 0.8, scoreCategoryFit(&model.BusinessRecord{Category: "Gym/Fitness"}), 0.001)
	assert.InDelta(t, 0.2, scoreCategoryFit(&model.BusinessRecord{Category: "Other"}), 0.001)
}

func TestScoreWithAdjuster(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAdjust = 0.5

	// A fixed adjuster exceeding the bound gets clamped.
	s := New(cfg, fixedAdjuster(2.0), 2026)

	rec := model.BusinessRecord{ID: "x", Category: "Gym/Fitness", Completeness: 0.5}
	score := s.Score(&rec, model.FeatureSet{})

	base := New(cfg, nil, 2026).Score(&rec, model.FeatureSet{})
	assert.InDelta(t, base.Composite+0.5, score.Composite, 0.011)
	assert.False(t, score.HeuristicOnly)
	assert.Contains(t, score.Rationale, "model adjustment +0.50")
}

type fixedAdjuster float64

func (f fixedAdjuster) Adjust(*model.BusinessRecord, model.FeatureSet) float64 {
	return float64(f)
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(DefaultConfig()))

	bad := DefaultConfig()
	bad.RatingQualityWeight = -1
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.GrowthSignalWeight = 50
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.HighCutoff = 9
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.MaxAdjust = -0.1
	assert.Error(t, ValidateConfig(bad))
}
