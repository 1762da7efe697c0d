// Package generate produces deterministic synthetic feed files so the
// pipeline can be exercised end to end without live feed access.
package generate

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscan/internal/geo"
	"github.com/sells-group/leadscan/internal/model"
)

var gymNames = []string{
	"Gold Gym", "Iron Paradise Fitness", "Flex Zone", "Power House Gym",
	"CrossFit Box", "Shakti Ladies Gym", "Anytime Fitness", "The Yoga Room",
	"Combat MMA Academy", "Pulse Health Club", "Titan Fitness Studio",
	"Core Strength Gym",
}

var clinicNames = []string{
	"City Care Clinic", "Sahyadri Multi-Specialty Hospital", "Smile Dental Studio",
	"Revive Physiotherapy", "Metropolis Diagnostic Lab", "Lotus Wellness Center",
	"Vision Eye Clinic", "LifePoint Hospital", "Arogya Ayurved Kendra",
	"Spine and Joint Clinic",
}

var suffixVariants = []string{"", "", "", " Pvt Ltd", " LLP"}

var streets = []string{
	"Main Road", "Station Road", "College Road", "Lane 5", "Phase 2",
	"Cross Street", "Market Yard", "IT Park Road",
}

// Generator emits reproducible synthetic listings.
type Generator struct {
	rng   *rand.Rand
	areas []string
}

// New returns a Generator with the given seed. Equal seeds produce
// byte-identical feeds.
func New(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		areas: geo.New().Areas(),
	}
}

// Listings produces n raw listings tagged with source. Roughly one in
// eight is a near-duplicate of the previous listing with a mangled name
// and address so dedup has something to find.
func (g *Generator) Listings(n int, source string) []model.RawListing {
	out := make([]model.RawListing, 0, n)
	for i := 0; i < n; i++ {
		if len(out) > 0 && g.rng.Intn(8) == 0 {
			out = append(out, g.mutate(out[len(out)-1], source))
			continue
		}
		out = append(out, g.fresh(source))
	}
	return out
}

func (g *Generator) fresh(source string) model.RawListing {
	var name, category string
	if g.rng.Intn(2) == 0 {
		name = gymNames[g.rng.Intn(len(gymNames))]
		category = "gym"
	} else {
		name = clinicNames[g.rng.Intn(len(clinicNames))]
		category = "clinic"
	}
	name += suffixVariants[g.rng.Intn(len(suffixVariants))]

	area := g.areas[g.rng.Intn(len(g.areas))]
	address := fmt.Sprintf("%d %s, %s, Pune", 1+g.rng.Intn(400), streets[g.rng.Intn(len(streets))], area)

	l := model.RawListing{
		Name:     name,
		Category: category,
		Address:  address,
		Source:   source,
	}

	// Optional fields appear probabilistically so completeness varies.
	if g.rng.Intn(4) > 0 {
		l.Rating = strconv.FormatFloat(2.5+g.rng.Float64()*2.5, 'f', 1, 64)
	}
	if g.rng.Intn(4) > 0 {
		l.ReviewCount = strconv.Itoa(g.rng.Intn(400))
	}
	if g.rng.Intn(2) == 0 {
		l.Phone = fmt.Sprintf("98%08d", g.rng.Intn(100000000))
	}
	if g.rng.Intn(3) == 0 {
		l.Website = fmt.Sprintf("www.biz%d.in", g.rng.Intn(10000))
	}
	if g.rng.Intn(3) == 0 {
		l.PriceTier = strconv.Itoa(1 + g.rng.Intn(4))
	}
	if g.rng.Intn(3) == 0 {
		l.EstablishedYear = strconv.Itoa(1990 + g.rng.Intn(35))
	}
	return l
}

// mutate produces a plausible cross-feed duplicate: same business, small
// formatting drift.
func (g *Generator) mutate(src model.RawListing, source string) model.RawListing {
	dup := src
	dup.Source = source
	switch g.rng.Intn(3) {
	case 0:
		dup.Name = src.Name + "s"
	case 1:
		dup.Name = "The " + src.Name
	}
	if g.rng.Intn(2) == 0 {
		dup.Phone = ""
	}
	if g.rng.Intn(2) == 0 {
		dup.ReviewCount = ""
	}
	return dup
}

// WriteCSV writes listings as a header-first CSV feed.
func WriteCSV(path string, listings []model.RawListing) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "generate: create %s", path)
	}

	cw := csv.NewWriter(f)
	header := []string{"name", "category", "subcategory", "address", "phone", "website", "rating", "review_count", "price_tier", "established_year", "source"}
	if err := cw.Write(header); err != nil {
		f.Close()
		return eris.Wrap(err, "generate: write header")
	}
	for _, l := range listings {
		row := []string{l.Name, l.Category, l.Subcategory, l.Address, l.Phone, l.Website, l.Rating, l.ReviewCount, l.PriceTier, l.EstablishedYear, l.Source}
		if err := cw.Write(row); err != nil {
			f.Close()
			return eris.Wrap(err, "generate: write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return eris.Wrap(err, "generate: flush")
	}
	return eris.Wrapf(f.Close(), "generate: close %s", path)
}
