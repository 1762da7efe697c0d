package generate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscan/internal/ingest"
)

func TestListingsDeterministic(t *testing.T) {
	a := New(42).Listings(50, "justdial")
	b := New(42).Listings(50, "justdial")
	assert.Equal(t, a, b)

	c := New(7).Listings(50, "justdial")
	assert.NotEqual(t, a, c)
}

func TestListingsShape(t *testing.T) {
	listings := New(1).Listings(100, "gmaps")
	require.Len(t, listings, 100)

	for _, l := range listings {
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Address)
		assert.Contains(t, []string{"gym", "clinic"}, l.Category)
		assert.Equal(t, "gmaps", l.Source)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	listings := New(3).Listings(25, "justdial")

	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, WriteCSV(path, listings))

	got, err := ingest.Read(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 25)
	assert.Equal(t, listings[0].Name, got[0].Name)
	assert.Equal(t, "justdial", got[0].Source)
}
