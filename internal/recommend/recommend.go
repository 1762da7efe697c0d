// Package recommend turns scored leads into a sales action plan.
package recommend

import (
	"sort"

	"github.com/sells-group/leadscan/internal/model"
)

// approachKey selects the outreach playbook for a lead.
type approachKey struct {
	category string
	tier     model.PriorityTier
}

// approaches maps (category, tier) to a suggested opening move.
var approaches = map[approachKey]string{
	{"Gym/Fitness", model.TierTop}:          "Book an on-site demo with the owner; lead with member retention numbers.",
	{"Gym/Fitness", model.TierHigh}:         "Call with a trial-period offer referencing nearby installs.",
	{"Gym/Fitness", model.TierMedium}:       "Email a case study and follow up within a week.",
	{"Healthcare/Clinic", model.TierTop}:    "Schedule a visit with the practice manager; emphasize patient throughput.",
	{"Healthcare/Clinic", model.TierHigh}:   "Call to offer a clinical evaluation unit.",
	{"Healthcare/Clinic", model.TierMedium}: "Send specialty-specific literature and request a callback.",
}

const defaultApproach = "Add to nurture list; revisit after next data refresh."

// maxReasons bounds how much rationale is copied onto each entry.
const maxReasons = 2

// Builder assembles recommendations from scored leads.
type Builder struct {
	leadsPerSegment int
}

// New returns a Builder. leadsPerSegment bounds entries per
// (category, tier) segment.
func New(leadsPerSegment int) *Builder {
	if leadsPerSegment <= 0 {
		leadsPerSegment = 5
	}
	return &Builder{leadsPerSegment: leadsPerSegment}
}

// Build returns recommendations for the top leads in each (category,
// tier) segment, ordered by tier then score descending. Low-tier leads
// are left out of the plan.
func (b *Builder) Build(leads []model.ScoredLead) []model.Recommendation {
	segments := make(map[approachKey][]model.ScoredLead)
	for _, lead := range leads {
		if lead.Score.Tier == model.TierLow {
			continue
		}
		key := approachKey{lead.Business.Category, lead.Score.Tier}
		segments[key] = append(segments[key], lead)
	}

	var out []model.Recommendation
	for key, segment := range segments {
		sort.Slice(segment, func(i, j int) bool {
			if segment[i].Score.Composite != segment[j].Score.Composite {
				return segment[i].Score.Composite > segment[j].Score.Composite
			}
			return segment[i].Business.ID < segment[j].Business.ID
		})
		if len(segment) > b.leadsPerSegment {
			segment = segment[:b.leadsPerSegment]
		}

		approach, ok := approaches[key]
		if !ok {
			approach = defaultApproach
		}

		for _, lead := range segment {
			reasons := lead.Score.Rationale
			if len(reasons) > maxReasons {
				reasons = reasons[:maxReasons]
			}
			out = append(out, model.Recommendation{
				BusinessID: lead.Business.ID,
				Name:       lead.Business.Name,
				Category:   lead.Business.Category,
				Area:       lead.Business.Area,
				Score:      lead.Score.Composite,
				Tier:       lead.Score.Tier,
				Approach:   approach,
				Reasons:    reasons,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if tierRank(out[i].Tier) != tierRank(out[j].Tier) {
			return tierRank(out[i].Tier) < tierRank(out[j].Tier)
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].BusinessID < out[j].BusinessID
	})
	return out
}

func tierRank(t model.PriorityTier) int {
	switch t {
	case model.TierTop:
		return 0
	case model.TierHigh:
		return 1
	case model.TierMedium:
		return 2
	default:
		return 3
	}
}
