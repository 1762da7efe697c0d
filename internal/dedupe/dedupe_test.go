package dedupe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscan/internal/config"
	"github.com/sells-group/leadscan/internal/model"
)

func TestValidateConfig(t *testing.T) {
	good := config.DedupeConfig{
		Threshold: 0.62, NameGate: 0.45, NameWeight: 0.7, AddressWeight: 0.3,
	}
	require.NoError(t, ValidateConfig(good))

	bad := good
	bad.Threshold = -5
	bad.NameGate = -5
	err := ValidateConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
	assert.Contains(t, err.Error(), "name_gate")

	bad = good
	bad.Threshold = 1.5
	assert.Error(t, ValidateConfig(bad))

	bad = good
	bad.NameWeight = -0.2
	assert.Error(t, ValidateConfig(bad))

	bad = good
	bad.NameWeight, bad.AddressWeight = 0.3, 0.3
	assert.Error(t, ValidateConfig(bad))
}

func TestTrigramSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "GOLD GYM", "GOLD GYM", 1.0},
		{"apostrophe variant", "GOLD GYM", "GOLDS GYM", 0.7},
		{"disjoint", "GOLD GYM", "CITY CLINIC", 0.0},
		{"empty", "", "GOLD GYM", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TrigramSimilarity(tt.a, tt.b), 0.001)
		})
	}
}

func TestTokenJaccard(t *testing.T) {
	assert.InDelta(t, 1.0, TokenJaccard("FC Road, Pune", "F.C. Road Pune"), 0.001)
	assert.InDelta(t, 0.5, TokenJaccard("Baner Road Pune", "Baner Street Pune"), 0.001)
	assert.InDelta(t, 0.0, TokenJaccard("", "Baner"), 0.001)
}

func TestPairScore(t *testing.T) {
	d := New(DefaultConfig())

	a := model.BusinessRecord{NormalizedName: "GOLD GYM", Address: "FC Road, Pune"}
	b := model.BusinessRecord{NormalizedName: "GOLDS GYM", Address: "F.C. Road Pune"}

	score, match := d.PairScore(&a, &b)
	assert.InDelta(t, 0.79, score, 0.001)
	assert.True(t, match)

	// Similar address but unrelated name must not merge.
	c := model.BusinessRecord{NormalizedName: "CITY CLINIC", Address: "FC Road, Pune"}
	_, match = d.PairScore(&a, &c)
	assert.False(t, match)
}

func TestRunMergesDuplicates(t *testing.T) {
	rating1, rating2 := 4.5, 4.1
	reviews1, reviews2 := 100, 50

	records := []model.BusinessRecord{
		{
			ID:             "justdial-1",
			Name:           "Gold Gym",
			NormalizedName: "GOLD GYM",
			Address:        "FC Road, Pune",
			Area:           "Unknown",
			Rating:         &rating1,
			ReviewCount:    &reviews1,
			Phone:          "9822012345",
			Sources:        []string{"justdial"},
			Completeness:   0.5,
		},
		{
			ID:             "gmaps-1",
			Name:           "Gold's Gym",
			NormalizedName: "GOLDS GYM",
			Address:        "F.C. Road Pune",
			Area:           "Unknown",
			Rating:         &rating2,
			ReviewCount:    &reviews2,
			Website:        "goldsgym.in",
			Sources:        []string{"gmaps"},
			Completeness:   0.5,
		},
		{
			ID:             "justdial-2",
			Name:           "City Clinic",
			NormalizedName: "CITY CLINIC",
			Address:        "Baner Road",
			Area:           "Baner",
			Sources:        []string{"justdial"},
		},
	}

	d := New(DefaultConfig())
	merged, groups, err := d.Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, merged, 2)
	require.Len(t, groups, 1)

	// Equal completeness: smallest id wins.
	assert.Equal(t, "gmaps-1", groups[0].CanonicalID)
	assert.Equal(t, []string{"justdial-1"}, groups[0].MergedIDs)

	var canonical *model.BusinessRecord
	for i := range merged {
		if merged[i].ID == "gmaps-1" {
			canonical = &merged[i]
		}
	}
	require.NotNil(t, canonical)

	// Winner keeps id, fills phone from loser, unions sources.
	assert.Equal(t, "9822012345", canonical.Phone)
	assert.Equal(t, "goldsgym.in", canonical.Website)
	assert.Equal(t, []string{"gmaps", "justdial"}, canonical.Sources)

	// Review-count-weighted rating: (4.5*100 + 4.1*50) / 150.
	require.NotNil(t, canonical.Rating)
	assert.InDelta(t, 4.3666, *canonical.Rating, 0.001)
	require.NotNil(t, canonical.ReviewCount)
	assert.Equal(t, 150, *canonical.ReviewCount)

	// Completeness recomputed over the merged field set (phone, website,
	// rating, review count = 4 of 6).
	assert.InDelta(t, 4.0/6.0, canonical.Completeness, 0.001)
}

func TestRunOrderIndependent(t *testing.T) {
	// A transitive chain: GOLD GYM matches GOLDS GYM, GOLDS GYM matches
	// GOLDS GYM CENTER, but the two ends fall below the name gate. The
	// final group and canonical record must not depend on input order.
	base := []model.BusinessRecord{
		{ID: "jd-1", NormalizedName: "GOLD GYM", Address: "12 North Main Road, Baner", Area: "Baner", Sources: []string{"justdial"}},
		{ID: "gm-1", NormalizedName: "GOLDS GYM", Address: "12 North Main Road, Baner", Area: "Baner", Sources: []string{"gmaps"}},
		{ID: "ot-1", NormalizedName: "GOLDS GYM CENTER", Address: "12 North Main Road, Baner", Area: "Baner", Sources: []string{"other"}},
		{ID: "jd-2", NormalizedName: "CITY CLINIC", Address: "5 Paud Road, Kothrud", Area: "Kothrud", Sources: []string{"justdial"}},
	}

	d := New(DefaultConfig())

	var wantMerged []model.BusinessRecord
	var wantGroups []model.DuplicateGroup
	for _, perm := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}} {
		in := make([]model.BusinessRecord, 0, len(base))
		for _, i := range perm {
			in = append(in, base[i])
		}

		merged, groups, err := d.Run(context.Background(), in)
		require.NoError(t, err)
		require.Len(t, merged, 2)
		require.Len(t, groups, 1)
		assert.Equal(t, "gm-1", groups[0].CanonicalID)
		assert.Equal(t, []string{"jd-1", "ot-1"}, groups[0].MergedIDs)

		if wantMerged == nil {
			wantMerged, wantGroups = merged, groups
			continue
		}
		assert.Equal(t, wantMerged, merged, "perm %v", perm)
		assert.Equal(t, wantGroups, groups, "perm %v", perm)
	}

	// Running over an already-merged snapshot is a no-op.
	again, againGroups, err := d.Run(context.Background(), wantMerged)
	require.NoError(t, err)
	assert.Empty(t, againGroups)
	assert.Equal(t, wantMerged, again)
}

func TestRunBlocksByArea(t *testing.T) {
	// Same name in different areas must never be compared.
	records := []model.BusinessRecord{
		{ID: "a-1", NormalizedName: "GOLD GYM", Address: "FC Road", Area: "Kothrud"},
		{ID: "a-2", NormalizedName: "GOLD GYM", Address: "FC Road", Area: "Baner"},
	}

	d := New(DefaultConfig())
	merged, groups, err := d.Run(context.Background(), records)
	require.NoError(t, err)
	assert.Len(t, merged, 2)
	assert.Empty(t, groups)
}

func TestUnionFindGroups(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(0, 3)
	uf.union(3, 4)
	uf.union(1, 2)

	groups := uf.groups()
	require.Len(t, groups, 2)
	assert.Equal(t, []int{0, 3, 4}, groups[0])
	assert.Equal(t, []int{1, 2}, groups[1])
}
