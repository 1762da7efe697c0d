// Package model defines the canonical data types shared across the
// lead scoring pipeline.
package model

import "time"

// BusinessRecord is a cleaned, canonical business listing. Raw feed rows
// are normalized into this shape before any downstream stage runs.
type BusinessRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	NormalizedName  string   `json:"normalized_name"`
	LegalSuffix     string   `json:"legal_suffix,omitempty"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory,omitempty"`
	Address         string   `json:"address"`
	Area            string   `json:"area"`
	Phone           string   `json:"phone,omitempty"`
	Website         string   `json:"website,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     *int     `json:"review_count,omitempty"`
	PriceTier       *int     `json:"price_tier,omitempty"`
	EstablishedYear *int     `json:"established_year,omitempty"`
	Sources         []string `json:"sources"`
	Completeness    float64  `json:"completeness"`
}

// RawListing is a single row as it arrives from a feed, before validation.
// All fields are strings; the Normalizer parses and validates them.
type RawListing struct {
	Name            string `json:"name" csv:"name"`
	Category        string `json:"category" csv:"category"`
	Subcategory     string `json:"subcategory" csv:"subcategory"`
	Address         string `json:"address" csv:"address"`
	Phone           string `json:"phone" csv:"phone"`
	Website         string `json:"website" csv:"website"`
	Rating          string `json:"rating" csv:"rating"`
	ReviewCount     string `json:"review_count" csv:"review_count"`
	PriceTier       string `json:"price_tier" csv:"price_tier"`
	EstablishedYear string `json:"established_year" csv:"established_year"`
	Source          string `json:"source" csv:"source"`
}

// DuplicateGroup records one merge decision: the canonical record that
// survived and the ids that were folded into it.
type DuplicateGroup struct {
	CanonicalID string   `json:"canonical_id"`
	MergedIDs   []string `json:"merged_ids"`
}

// FeatureSet holds the derived per-record features consumed by scoring.
type FeatureSet struct {
	RelativeRating       float64 `json:"relative_rating"`
	RelativeCompleteness float64 `json:"relative_completeness"`
	CompetitorDensity    int     `json:"competitor_density"`
	Novelty              bool    `json:"novelty"`
}

// RunStatus tracks pipeline run lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted pipeline execution.
type Run struct {
	ID          string      `json:"id"`
	Status      RunStatus   `json:"status"`
	Summary     *RunSummary `json:"summary,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// RunSummary counts what happened during a pipeline run.
type RunSummary struct {
	Ingested      int `json:"ingested"`
	Dropped       int `json:"dropped"`
	Merged        int `json:"merged"`
	Scored        int `json:"scored"`
	HeuristicOnly int `json:"heuristic_only"`
	UnknownArea   int `json:"unknown_area"`
}
