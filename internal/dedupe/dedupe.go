// Package dedupe detects and merges duplicate business listings that
// arrived from different feeds.
package dedupe

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscan/internal/config"
	"github.com/sells-group/leadscan/internal/model"
	"github.com/sells-group/leadscan/internal/normalize"
)

// Config tunes pair matching.
type Config struct {
	// Threshold is the minimum combined similarity for a pair to merge.
	Threshold float64
	// NameGate is the minimum name similarity regardless of address overlap.
	NameGate float64
	// NameWeight and AddressWeight blend the two similarity measures.
	NameWeight    float64
	AddressWeight float64
	// Workers bounds concurrent area blocks.
	Workers int
}

// DefaultConfig returns the production matching thresholds.
func DefaultConfig() Config {
	return Config{
		Threshold:     0.62,
		NameGate:      0.45,
		NameWeight:    0.7,
		AddressWeight: 0.3,
		Workers:       8,
	}
}

// ValidateConfig checks that a config.DedupeConfig is safe to match with.
// Out-of-range thresholds silently merge unrelated businesses, so failures
// abort a run before any record is processed.
func ValidateConfig(c config.DedupeConfig) error {
	var errs []string

	if c.Threshold < 0 || c.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("threshold must be between 0 and 1, got %.2f", c.Threshold))
	}
	if c.NameGate < 0 || c.NameGate > 1 {
		errs = append(errs, fmt.Sprintf("name_gate must be between 0 and 1, got %.2f", c.NameGate))
	}

	for name, w := range map[string]float64{
		"name_weight":    c.NameWeight,
		"address_weight": c.AddressWeight,
	} {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	if sum := c.NameWeight + c.AddressWeight; math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("name_weight and address_weight must sum to 1, got %.2f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("dedupe: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Deduper groups and merges duplicate records.
type Deduper struct {
	cfg Config
}

// New returns a Deduper with the given config.
func New(cfg Config) *Deduper {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Deduper{cfg: cfg}
}

// PairScore returns the combined similarity of two records and whether
// the pair clears both the name gate and the combined threshold.
func (d *Deduper) PairScore(a, b *model.BusinessRecord) (float64, bool) {
	nameSim := TrigramSimilarity(a.NormalizedName, b.NormalizedName)
	if nameSim < d.cfg.NameGate {
		return nameSim * d.cfg.NameWeight, false
	}
	addrSim := TokenJaccard(a.Address, b.Address)
	combined := nameSim*d.cfg.NameWeight + addrSim*d.cfg.AddressWeight
	return combined, combined >= d.cfg.Threshold
}

// Run partitions records by area, finds duplicate pairs within each
// block, and merges each duplicate group into a single canonical record.
// Output order is deterministic: canonical records sorted by id.
func (d *Deduper) Run(ctx context.Context, records []model.BusinessRecord) ([]model.BusinessRecord, []model.DuplicateGroup, error) {
	// Block by area. Unknown areas are still compared against each other,
	// just never across blocks.
	blocks := make(map[string][]int)
	for i := range records {
		blocks[records[i].Area] = append(blocks[records[i].Area], i)
	}

	uf := newUnionFind(len(records))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for _, idxs := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := 0; i < len(idxs); i++ {
				for j := i + 1; j < len(idxs); j++ {
					a, b := &records[idxs[i]], &records[idxs[j]]
					if _, match := d.PairScore(a, b); match {
						mu.Lock()
						uf.union(idxs[i], idxs[j])
						mu.Unlock()
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var merged []model.BusinessRecord
	var groups []model.DuplicateGroup
	for _, members := range uf.groups() {
		if len(members) == 1 {
			merged = append(merged, records[members[0]])
			continue
		}
		canonical, group := mergeGroup(records, members)
		merged = append(merged, canonical)
		groups = append(groups, group)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	zap.L().Info("dedupe: merge complete",
		zap.Int("input", len(records)),
		zap.Int("output", len(merged)),
		zap.Int("groups", len(groups)),
	)
	return merged, groups, nil
}

// mergeGroup folds a duplicate group into its canonical record. The winner
// is the most complete member, ties broken by smallest id. Empty winner
// fields are filled from losers in id order; rating and review_count are
// combined across members.
func mergeGroup(records []model.BusinessRecord, members []int) (model.BusinessRecord, model.DuplicateGroup) {
	ordered := make([]int, len(members))
	copy(ordered, members)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := records[ordered[i]], records[ordered[j]]
		if a.Completeness != b.Completeness {
			return a.Completeness > b.Completeness
		}
		return a.ID < b.ID
	})

	winner := records[ordered[0]]
	group := model.DuplicateGroup{CanonicalID: winner.ID}

	// Combine ratings weighted by review count so the better-reviewed
	// listing dominates. Members without a review count contribute with
	// weight 1.
	var ratingSum, ratingWeight float64
	var reviewTotal int
	var haveRating, haveReviews bool

	losers := ordered[1:]
	sort.Slice(losers, func(i, j int) bool { return records[losers[i]].ID < records[losers[j]].ID })

	for _, idx := range ordered {
		rec := records[idx]
		if rec.Rating != nil {
			w := 1.0
			if rec.ReviewCount != nil {
				w = float64(max(*rec.ReviewCount, 1))
			}
			ratingSum += *rec.Rating * w
			ratingWeight += w
			haveRating = true
		}
		if rec.ReviewCount != nil {
			reviewTotal += *rec.ReviewCount
			haveReviews = true
		}
	}

	for _, idx := range losers {
		loser := records[idx]
		group.MergedIDs = append(group.MergedIDs, loser.ID)

		if winner.Phone == "" {
			winner.Phone = loser.Phone
		}
		if winner.Website == "" {
			winner.Website = loser.Website
		}
		if winner.Subcategory == "" {
			winner.Subcategory = loser.Subcategory
		}
		if winner.LegalSuffix == "" {
			winner.LegalSuffix = loser.LegalSuffix
		}
		if winner.PriceTier == nil {
			winner.PriceTier = loser.PriceTier
		}
		if winner.EstablishedYear == nil {
			winner.EstablishedYear = loser.EstablishedYear
		}
		winner.Sources = unionSources(winner.Sources, loser.Sources)
	}

	if haveRating && ratingWeight > 0 {
		avg := ratingSum / ratingWeight
		winner.Rating = &avg
	}
	if haveReviews {
		winner.ReviewCount = &reviewTotal
	}

	winner.Completeness = normalize.Completeness(&winner)
	return winner, group
}

func unionSources(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := a
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
