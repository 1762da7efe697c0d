// Package market aggregates the deduplicated snapshot into per-area
// statistics and ranks areas by sales opportunity.
package market

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/leadscan/internal/config"
	"github.com/sells-group/leadscan/internal/geo"
	"github.com/sells-group/leadscan/internal/model"
)

// Aggregator rebuilds AreaStats wholesale from a snapshot.
type Aggregator struct {
	cfg      config.MarketConfig
	resolver *geo.Resolver
}

// New returns an Aggregator.
func New(cfg config.MarketConfig, resolver *geo.Resolver) *Aggregator {
	return &Aggregator{cfg: cfg, resolver: resolver}
}

// Aggregate computes AreaStats for every area present in the snapshot,
// ordered by opportunity descending. The Unknown bucket is included for
// coverage reporting but always ranked last and given zero opportunity.
func (a *Aggregator) Aggregate(records []model.BusinessRecord) []model.AreaStats {
	byArea := make(map[string][]*model.BusinessRecord)
	for i := range records {
		rec := &records[i]
		byArea[rec.Area] = append(byArea[rec.Area], rec)
	}

	maxCount := 0
	for area, recs := range byArea {
		if area != geo.AreaUnknown && len(recs) > maxCount {
			maxCount = len(recs)
		}
	}

	var out []model.AreaStats
	for area, recs := range byArea {
		stats := a.areaStats(area, recs, maxCount)
		out = append(out, stats)
	}

	sort.Slice(out, func(i, j int) bool {
		if (out[i].Area == geo.AreaUnknown) != (out[j].Area == geo.AreaUnknown) {
			return out[j].Area == geo.AreaUnknown
		}
		if out[i].Opportunity != out[j].Opportunity {
			return out[i].Opportunity > out[j].Opportunity
		}
		return out[i].Area < out[j].Area
	})

	zap.L().Info("market: aggregation complete",
		zap.Int("areas", len(out)),
		zap.Int("records", len(records)),
	)
	return out
}

func (a *Aggregator) areaStats(area string, recs []*model.BusinessRecord, maxCount int) model.AreaStats {
	stats := model.AreaStats{
		Area:          area,
		Tier:          a.resolver.Tier(area),
		BusinessCount: len(recs),
		CategoryMix:   make(map[string]int),
	}

	var ratingSum float64
	var rated int
	for _, rec := range recs {
		stats.CategoryMix[rec.Category]++
		if rec.Rating != nil {
			ratingSum += *rec.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.MeanRating = ratingSum / float64(rated)
		var varSum float64
		for _, rec := range recs {
			if rec.Rating != nil {
				d := *rec.Rating - stats.MeanRating
				varSum += d * d
			}
		}
		stats.RatingStdDev = math.Sqrt(varSum / float64(rated))
	}
	if maxCount > 0 {
		stats.Density = float64(len(recs)) / float64(maxCount)
	}

	if area == geo.AreaUnknown {
		stats.Reason = "unresolved addresses, excluded from ranking"
		return stats
	}

	stats.Opportunity, stats.Reason = a.opportunity(stats, recs)
	return stats
}

// opportunity scores an area 0-10 from quality, scarcity, and novelty
// signals, less a saturation penalty.
func (a *Aggregator) opportunity(stats model.AreaStats, recs []*model.BusinessRecord) (float64, string) {
	if stats.BusinessCount < a.cfg.MinAreaSampleCount {
		return 0, "insufficient sample"
	}

	// Quality term: demand exists where incumbents rate well.
	quality := 0.0
	if stats.MeanRating > 0 {
		quality = stats.MeanRating / 5 * 4 // up to 4 points
	}

	// Scarcity term: fewer incumbents per category leaves room.
	scarcity := (1 - stats.Density) * 3 // up to 3 points

	// Novelty term: share of thinly-served categories.
	var novel int
	perCategory := stats.CategoryMix
	for _, n := range perCategory {
		if n < a.cfg.NoveltyThreshold {
			novel++
		}
	}
	noveltyShare := 0.0
	if len(perCategory) > 0 {
		noveltyShare = float64(novel) / float64(len(perCategory))
	}
	novelty := noveltyShare * 3 // up to 3 points

	score := quality + scarcity + novelty

	reason := "balanced market"
	switch {
	case scarcity >= quality && scarcity >= novelty:
		reason = "low competitor density"
	case quality >= scarcity && quality >= novelty:
		reason = "strong incumbent ratings signal demand"
	case novelty > 0:
		reason = "underserved categories"
	}

	// Saturation penalty for crowded areas.
	if stats.BusinessCount > a.cfg.SaturationCount {
		score -= a.cfg.SaturationPenalty
		reason = fmt.Sprintf("saturated (%d listings)", stats.BusinessCount)
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return math.Round(score*100) / 100, reason
}

// TopAreas returns the highest-opportunity areas, skipping Unknown.
func (a *Aggregator) TopAreas(stats []model.AreaStats) []model.AreaStats {
	n := a.cfg.TopAreas
	if n <= 0 {
		n = 5
	}
	var out []model.AreaStats
	for _, s := range stats {
		if s.Area == geo.AreaUnknown {
			continue
		}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}
