package ingest

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscan/internal/model"
)

// ReadJSON loads listings from a JSON array feed.
func ReadJSON(ctx context.Context, path, source string) ([]model.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	return DecodeJSONArray(ctx, f, source)
}

// DecodeJSONArray decodes a JSON array of listings with a streaming
// decoder so large feeds never load wholesale. Expects input in the
// form [{...},{...}].
func DecodeJSONArray(ctx context.Context, r io.Reader, source string) ([]model.RawListing, error) {
	decoder := json.NewDecoder(r)

	// Expect opening bracket
	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "ingest: read opening token")
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return nil, eris.Errorf("ingest: expected '[', got %v", tok)
	}

	decoder.UseNumber()

	var listings []model.RawListing
	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "ingest: context cancelled")
		}

		// Feeds are inconsistent about numeric vs string fields, so each
		// element is decoded generically and stringified.
		var obj map[string]any
		if err := decoder.Decode(&obj); err != nil {
			return nil, eris.Wrap(err, "ingest: decode element")
		}

		var item model.RawListing
		for key, val := range obj {
			key = strings.ReplaceAll(strings.ToLower(key), " ", "_")
			if set, ok := columnSetters[key]; ok {
				set(&item, anyToString(val))
			}
		}
		if source != "" {
			item.Source = source
		}
		listings = append(listings, item)
	}

	// Consume closing bracket
	if _, err := decoder.Token(); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "ingest: read closing token")
	}
	return listings, nil
}

func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return ""
	}
}
