package model

import "time"

// AreaTier classifies a locality by typical spending power.
type AreaTier string

const (
	AreaTierPremium AreaTier = "premium"
	AreaTierMid     AreaTier = "mid"
	AreaTierBudget  AreaTier = "budget"
)

// AreaStats summarizes the competitive picture in one locality.
type AreaStats struct {
	Area          string         `json:"area"`
	Tier          AreaTier       `json:"tier"`
	BusinessCount int            `json:"business_count"`
	MeanRating    float64        `json:"mean_rating"`
	RatingStdDev  float64        `json:"rating_std_dev"`
	CategoryMix   map[string]int `json:"category_mix"`
	Density       float64        `json:"density"`
	Opportunity   float64        `json:"opportunity"`
	Reason        string         `json:"reason,omitempty"`
}

// MarketReport is the structured JSON output of a pipeline run. TopAreas
// is the ranked shortlist of expansion targets; Areas carries the full
// per-locality breakdown including the Unknown bucket.
type MarketReport struct {
	RunID           string           `json:"run_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Summary         RunSummary       `json:"summary"`
	Areas           []AreaStats      `json:"areas"`
	TopAreas        []AreaStats      `json:"top_areas"`
	Recommendations []Recommendation `json:"recommendations"`
}
