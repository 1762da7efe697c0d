package normalize

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscan/internal/model"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		wantSuffix string
	}{
		{"simple", "Gold Gym", "GOLD GYM", ""},
		{"apostrophe", "Gold's Gym", "GOLDS GYM", ""},
		{"pvt ltd suffix", "Apex Fitness Pvt Ltd", "APEX FITNESS", "PVT LTD"},
		{"private limited", "Apex Fitness Private Limited", "APEX FITNESS", "PRIVATE LIMITED"},
		{"llp suffix", "Sharma Clinic LLP", "SHARMA CLINIC", "LLP"},
		{"ampersand", "Bone & Joint Clinic", "BONE AND JOINT CLINIC", ""},
		{"dashes and dots", "F.C. Road Fitness - Deccan", "FC ROAD FITNESS DECCAN", ""},
		{"extra spaces", "  Iron   Paradise  ", "IRON PARADISE", ""},
		{"empty", "   ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, suffix := NormalizeName(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}

func TestRecordValidation(t *testing.T) {
	n := New()

	tests := []struct {
		name    string
		raw     model.RawListing
		wantErr bool
	}{
		{
			name: "valid minimal",
			raw:  model.RawListing{Name: "Gold Gym", Category: "gym", Address: "FC Road, Pune"},
		},
		{
			name:    "missing name",
			raw:     model.RawListing{Category: "gym", Address: "FC Road"},
			wantErr: true,
		},
		{
			name:    "missing address",
			raw:     model.RawListing{Name: "Gold Gym", Category: "gym"},
			wantErr: true,
		},
		{
			name: "missing category still accepted",
			raw:  model.RawListing{Name: "Gold Gym", Address: "FC Road"},
		},
		{
			name:    "name only whitespace",
			raw:     model.RawListing{Name: "   ", Category: "gym", Address: "FC Road"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := n.Record("test-1", tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test-1", rec.ID)
			assert.NotEmpty(t, rec.NormalizedName)
		})
	}
}

func TestRecordClearsMalformedOptionals(t *testing.T) {
	n := New()

	rec, err := n.Record("test-1", model.RawListing{
		Name: "Gold Gym", Category: "gym", Address: "FC Road",
		Rating:      "5.7",
		ReviewCount: "-3",
		PriceTier:   "9",
	})
	require.NoError(t, err)
	assert.Nil(t, rec.Rating)
	assert.Nil(t, rec.ReviewCount)
	assert.Nil(t, rec.PriceTier)
	assert.InDelta(t, 0, rec.Completeness, 0.001)
}

func TestRecordFields(t *testing.T) {
	n := New()

	rec, err := n.Record("justdial-12", model.RawListing{
		Name:            "Iron Paradise Fitness Pvt Ltd",
		Category:        "gym",
		Address:         "Baner Road, Baner, Pune",
		Phone:           "+91 98220 12345",
		Website:         "https://ironparadise.in/",
		Rating:          "4.4",
		ReviewCount:     "212",
		PriceTier:       "3",
		EstablishedYear: "2018",
		Source:          "justdial",
	})
	require.NoError(t, err)

	assert.Equal(t, "Iron Paradise Fitness", rec.Name)
	assert.Equal(t, "IRON PARADISE FITNESS", rec.NormalizedName)
	assert.Equal(t, "PVT LTD", rec.LegalSuffix)
	assert.Equal(t, "919822012345", rec.Phone)
	assert.Equal(t, "ironparadise.in", rec.Website)
	require.NotNil(t, rec.Rating)
	assert.InDelta(t, 4.4, *rec.Rating, 0.001)
	require.NotNil(t, rec.ReviewCount)
	assert.Equal(t, 212, *rec.ReviewCount)
	assert.Equal(t, []string{"justdial"}, rec.Sources)
	assert.InDelta(t, 1.0, rec.Completeness, 0.001)
}

func TestDisplayName(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "IRON PARADISE", "Iron Paradise"},
		{"acronym kept", "MMA ACADEMY", "MMA Academy"},
		{"crossfit casing", "CROSSFIT BANER", "CrossFit Baner"},
		// Name normalization strips periods before display, so dotted
		// acronyms arrive as their bare form.
		{"dotted acronym", "F.C. Road Fitness", "FC Road Fitness"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, _ := NormalizeName(tt.raw)
			assert.Equal(t, tt.want, n.displayName(normalized))
		})
	}
}

func TestCompleteness(t *testing.T) {
	rating := 4.0
	rec := &model.BusinessRecord{Phone: "9822012345", Rating: &rating}
	assert.InDelta(t, 2.0/6.0, Completeness(rec), 0.001)

	assert.InDelta(t, 0, Completeness(&model.BusinessRecord{}), 0.001)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9822012345", normalizePhone("98220 12345"))
	assert.Equal(t, "", normalizePhone("12345"))
	assert.Equal(t, "919822012345", normalizePhone("+91 98220 12345"))
	assert.Equal(t, "919822012345", normalizePhone("00 91 98220 12345"))
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "justdial-7", RecordID("justdial", 7))
	assert.Equal(t, "feed-0", RecordID("", 0))
}
