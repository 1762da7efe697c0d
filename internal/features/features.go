// Package features derives per-record signals from the deduplicated
// snapshot for use by scoring.
package features

import (
	"github.com/sells-group/leadscan/internal/model"
)

// areaKey groups records for density counting.
type areaKey struct {
	area     string
	category string
}

// Builder computes features against frozen snapshot statistics. Build it
// once per pipeline run so every record sees the same baseline.
type Builder struct {
	areaRatingMean       map[string]float64
	areaCompletenessMean map[string]float64
	density              map[areaKey]int
	noveltyThreshold     int
}

// NewBuilder indexes the snapshot. noveltyThreshold is the same-area,
// same-category count below which a record is flagged as novel.
func NewBuilder(records []model.BusinessRecord, noveltyThreshold int) *Builder {
	b := &Builder{
		areaRatingMean:       make(map[string]float64),
		areaCompletenessMean: make(map[string]float64),
		density:              make(map[areaKey]int),
		noveltyThreshold:     noveltyThreshold,
	}

	ratingSum := make(map[string]float64)
	ratingN := make(map[string]int)
	complSum := make(map[string]float64)
	complN := make(map[string]int)

	for i := range records {
		rec := &records[i]
		if rec.Rating != nil {
			ratingSum[rec.Area] += *rec.Rating
			ratingN[rec.Area]++
		}
		complSum[rec.Area] += rec.Completeness
		complN[rec.Area]++
		b.density[areaKey{rec.Area, rec.Category}]++
	}

	for area, n := range ratingN {
		b.areaRatingMean[area] = ratingSum[area] / float64(n)
	}
	for area, n := range complN {
		b.areaCompletenessMean[area] = complSum[area] / float64(n)
	}
	return b
}

// Features computes the feature set for one record.
func (b *Builder) Features(rec *model.BusinessRecord) model.FeatureSet {
	fs := model.FeatureSet{
		RelativeCompleteness: rec.Completeness - b.areaCompletenessMean[rec.Area],
	}
	if rec.Rating != nil {
		fs.RelativeRating = *rec.Rating - b.areaRatingMean[rec.Area]
	}

	count := b.density[areaKey{rec.Area, rec.Category}]
	// Competitors exclude the record itself.
	fs.CompetitorDensity = max(count-1, 0)
	fs.Novelty = count < b.noveltyThreshold
	return fs
}

// Density returns the number of records sharing an area and category.
func (b *Builder) Density(area, category string) int {
	return b.density[areaKey{area, category}]
}

// AreaRatingMean returns the mean rating among rated records in an area.
func (b *Builder) AreaRatingMean(area string) float64 {
	return b.areaRatingMean[area]
}
