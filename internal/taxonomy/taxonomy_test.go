package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscan/internal/model"
)

func TestClassify(t *testing.T) {
	c := New()

	tests := []struct {
		name       string
		rec        model.BusinessRecord
		wantCat    string
		wantSubcat string
	}{
		{
			name:       "traditional gym",
			rec:        model.BusinessRecord{Name: "Gold Gym", Category: "gym"},
			wantCat:    CategoryGym,
			wantSubcat: "Traditional Gym",
		},
		{
			name:       "crossfit beats gym",
			rec:        model.BusinessRecord{Name: "CrossFit Kothrud Gym", Category: "gym"},
			wantCat:    CategoryGym,
			wantSubcat: "Functional Fitness",
		},
		{
			name:       "women only",
			rec:        model.BusinessRecord{Name: "Ladies Fitness Studio", Category: "gym"},
			wantCat:    CategoryGym,
			wantSubcat: "Women-Only Gym",
		},
		{
			name:       "yoga studio",
			rec:        model.BusinessRecord{Name: "Shanti Yoga Kendra", Category: "fitness"},
			wantCat:    CategoryGym,
			wantSubcat: "Yoga/Pilates Studio",
		},
		{
			name:       "hospital",
			rec:        model.BusinessRecord{Name: "Sahyadri Multi-Specialty Hospital", Category: "healthcare"},
			wantCat:    CategoryClinic,
			wantSubcat: "Multi-Specialty Hospital",
		},
		{
			name:       "diagnostic center",
			rec:        model.BusinessRecord{Name: "Metropolis Pathology Lab", Category: "clinic"},
			wantCat:    CategoryClinic,
			wantSubcat: "Diagnostic Center",
		},
		{
			name:       "physio",
			rec:        model.BusinessRecord{Name: "ReLive Physiotherapy", Category: "clinic"},
			wantCat:    CategoryClinic,
			wantSubcat: "Physiotherapy Clinic",
		},
		{
			name:       "specialty clinic fallback",
			rec:        model.BusinessRecord{Name: "Sharma Clinic", Category: "healthcare clinic"},
			wantCat:    CategoryClinic,
			wantSubcat: "Specialty Clinic",
		},
		{
			name:       "no match",
			rec:        model.BusinessRecord{Name: "Corner Bakery", Category: "food"},
			wantCat:    CategoryOther,
			wantSubcat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			c.Classify(&rec)
			assert.Equal(t, tt.wantCat, rec.Category)
			assert.Equal(t, tt.wantSubcat, rec.Subcategory)
		})
	}
}

func TestTieBrokenByTableOrder(t *testing.T) {
	c := New()

	// "yoga" and "boxing" are both specificity 3; "yoga" appears first.
	rec := model.BusinessRecord{Name: "Yoga and Boxing House", Category: "gym"}
	c.Classify(&rec)
	assert.Equal(t, "Yoga/Pilates Studio", rec.Subcategory)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	rules := `
- pattern: swim
  specificity: 2
  category: Gym/Fitness
  subcategory: Aquatics
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	c, err := NewFromFile(path)
	require.NoError(t, err)

	rec := model.BusinessRecord{Name: "Aqua Swim Club", Category: "sports"}
	c.Classify(&rec)
	assert.Equal(t, "Aquatics", rec.Subcategory)

	// Built-in rules are replaced, not merged.
	rec2 := model.BusinessRecord{Name: "Gold Gym", Category: "gym"}
	c.Classify(&rec2)
	assert.Equal(t, CategoryOther, rec2.Category)

	_, err = NewFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
