// Package geo resolves free-text addresses to known localities using a
// gazetteer.
package geo

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscan/internal/model"
)

// AreaUnknown is assigned when no gazetteer entry matches an address.
const AreaUnknown = "Unknown"

// Entry is one gazetteer locality.
type Entry struct {
	Name string         `yaml:"name"`
	Tier model.AreaTier `yaml:"tier"`
}

// defaultEntries covers the Pune metro localities the feeds are drawn
// from. Tier reflects typical spending power of the locality.
var defaultEntries = []Entry{
	{Name: "Koregaon Park", Tier: model.AreaTierPremium},
	{Name: "Baner", Tier: model.AreaTierPremium},
	{Name: "Aundh", Tier: model.AreaTierPremium},
	{Name: "Kalyani Nagar", Tier: model.AreaTierPremium},
	{Name: "Viman Nagar", Tier: model.AreaTierPremium},
	{Name: "Magarpatta", Tier: model.AreaTierPremium},
	{Name: "Kothrud", Tier: model.AreaTierMid},
	{Name: "Shivaji Nagar", Tier: model.AreaTierMid},
	{Name: "Camp", Tier: model.AreaTierMid},
	{Name: "Deccan", Tier: model.AreaTierMid},
	{Name: "Wakad", Tier: model.AreaTierMid},
	{Name: "Hinjewadi", Tier: model.AreaTierMid},
	{Name: "Kharadi", Tier: model.AreaTierBudget},
	{Name: "Hadapsar", Tier: model.AreaTierBudget},
	{Name: "Pimple Saudagar", Tier: model.AreaTierBudget},
	{Name: "Pimple Nilakh", Tier: model.AreaTierBudget},
	{Name: "Pimpri", Tier: model.AreaTierBudget},
	{Name: "Chinchwad", Tier: model.AreaTierBudget},
	{Name: "Akurdi", Tier: model.AreaTierBudget},
	{Name: "Nigdi", Tier: model.AreaTierBudget},
	{Name: "Katraj", Tier: model.AreaTierBudget},
	{Name: "Kondhwa", Tier: model.AreaTierBudget},
	{Name: "Wanowrie", Tier: model.AreaTierBudget},
	{Name: "Bibwewadi", Tier: model.AreaTierBudget},
	{Name: "Sahakar Nagar", Tier: model.AreaTierBudget},
	{Name: "Dhankawadi", Tier: model.AreaTierBudget},
	{Name: "Warje", Tier: model.AreaTierBudget},
	{Name: "Karve Nagar", Tier: model.AreaTierBudget},
	{Name: "Bavdhan", Tier: model.AreaTierBudget},
	{Name: "Pashan", Tier: model.AreaTierBudget},
	{Name: "Sus", Tier: model.AreaTierBudget},
	{Name: "Balewadi", Tier: model.AreaTierBudget},
	{Name: "Yerawada", Tier: model.AreaTierBudget},
	{Name: "Dhanori", Tier: model.AreaTierBudget},
	{Name: "Vishrantwadi", Tier: model.AreaTierBudget},
	{Name: "Mundhwa", Tier: model.AreaTierBudget},
	{Name: "Undri", Tier: model.AreaTierBudget},
	{Name: "Ambegaon", Tier: model.AreaTierBudget},
	{Name: "Sinhagad Road", Tier: model.AreaTierBudget},
	{Name: "Erandwane", Tier: model.AreaTierBudget},
	{Name: "Model Colony", Tier: model.AreaTierBudget},
	{Name: "Swargate", Tier: model.AreaTierBudget},
	{Name: "Bund Garden", Tier: model.AreaTierBudget},
	{Name: "Fatima Nagar", Tier: model.AreaTierBudget},
}

var addrPunctRe = regexp.MustCompile(`[.,/#()-]`)

// Resolver matches addresses against gazetteer entries.
type Resolver struct {
	entries []Entry
	tiers   map[string]model.AreaTier
}

// New returns a Resolver over the built-in gazetteer.
func New() *Resolver {
	return newResolver(defaultEntries)
}

// NewFromFile returns a Resolver with entries loaded from a YAML file.
func NewFromFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read gazetteer %s", path)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrapf(err, "geo: parse gazetteer %s", path)
	}
	if len(entries) == 0 {
		return nil, eris.Errorf("geo: gazetteer %s is empty", path)
	}
	return newResolver(entries), nil
}

func newResolver(entries []Entry) *Resolver {
	tiers := make(map[string]model.AreaTier, len(entries))
	for _, e := range entries {
		tiers[e.Name] = e.Tier
	}
	return &Resolver{entries: entries, tiers: tiers}
}

// Resolve returns the locality mentioned in an address, preferring the
// longest matching entry. Matching is case-insensitive and word-boundary
// aware. No match returns AreaUnknown.
func (r *Resolver) Resolve(address string) string {
	cleaned := " " + strings.ToUpper(addrPunctRe.ReplaceAllString(address, " ")) + " "
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = " " + cleaned + " "

	best := ""
	for _, e := range r.entries {
		needle := " " + strings.ToUpper(e.Name) + " "
		if strings.Contains(cleaned, needle) && len(e.Name) > len(best) {
			best = e.Name
		}
	}
	if best == "" {
		return AreaUnknown
	}
	return best
}

// Tier returns the spending-power tier for a resolved area. Unknown and
// unlisted areas report the budget tier.
func (r *Resolver) Tier(area string) model.AreaTier {
	if t, ok := r.tiers[area]; ok {
		return t
	}
	return model.AreaTierBudget
}

// Areas lists all gazetteer localities.
func (r *Resolver) Areas() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}
