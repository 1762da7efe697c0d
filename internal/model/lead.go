package model

// PriorityTier buckets a composite score for sales triage.
type PriorityTier string

const (
	TierTop    PriorityTier = "Top"
	TierHigh   PriorityTier = "High"
	TierMedium PriorityTier = "Medium"
	TierLow    PriorityTier = "Low"
)

// LeadScore is the scoring result for a single business.
type LeadScore struct {
	BusinessID    string             `json:"business_id"`
	Composite     float64            `json:"composite"`
	Components    map[string]float64 `json:"components"`
	Tier          PriorityTier       `json:"tier"`
	Rationale     []string           `json:"rationale"`
	HeuristicOnly bool               `json:"heuristic_only"`
}

// ScoredLead pairs a business with its score for export and persistence.
type ScoredLead struct {
	Business BusinessRecord `json:"business"`
	Score    LeadScore      `json:"score"`
}

// Recommendation is one entry in the sales action plan.
type Recommendation struct {
	BusinessID string       `json:"business_id"`
	Name       string       `json:"name"`
	Category   string       `json:"category"`
	Area       string       `json:"area"`
	Score      float64      `json:"score"`
	Tier       PriorityTier `json:"tier"`
	Approach   string       `json:"approach"`
	Reasons    []string     `json:"reasons,omitempty"`
}
