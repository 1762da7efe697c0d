package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscan/internal/model"
)

// ReadCSV loads listings from a header-first CSV feed.
func ReadCSV(ctx context.Context, path, source string) ([]model.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	return DecodeCSV(ctx, f, source)
}

// DecodeCSV reads listings from CSV content. The first row must be a
// header; unknown columns are ignored and rows may have fewer fields
// than the header.
func DecodeCSV(ctx context.Context, r io.Reader, source string) ([]model.RawListing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	var listings []model.RawListing
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "ingest: context cancelled")
		}

		row, err := reader.Read()
		if err == io.EOF {
			return listings, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		listings = append(listings, rowToListing(header, row, source))
	}
}
