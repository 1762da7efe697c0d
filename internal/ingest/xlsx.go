package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscan/internal/model"
)

// ReadXLSX loads listings from the first sheet of an XLSX feed. The
// first row must be a header.
func ReadXLSX(ctx context.Context, path, source string) ([]model.RawListing, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}
	sheet := f.Sheets[0]

	var header []string
	var listings []model.RawListing
	for i, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "ingest: context cancelled")
		}

		cells := rowToStrings(row)
		if i == 0 {
			header = cells
			continue
		}
		if isEmptyRow(cells) {
			continue
		}
		listings = append(listings, rowToListing(header, cells, source))
	}
	return listings, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
