// Package ingest reads raw business listings from CSV, JSON, and XLSX
// feed files.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscan/internal/model"
)

// Read loads every listing from a feed file, dispatching on extension.
// source tags each listing with the feed it came from; when empty, the
// file's own source column (if any) is used.
func Read(ctx context.Context, path, source string) ([]model.RawListing, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(ctx, path, source)
	case ".json":
		return ReadJSON(ctx, path, source)
	case ".xlsx":
		return ReadXLSX(ctx, path, source)
	default:
		return nil, eris.Errorf("ingest: unsupported feed format %s", filepath.Ext(path))
	}
}

// columnSetters maps normalized header names to RawListing fields.
// Common aliases from the upstream feed exports are accepted.
var columnSetters = map[string]func(*model.RawListing, string){
	"name":             func(l *model.RawListing, v string) { l.Name = v },
	"business_name":    func(l *model.RawListing, v string) { l.Name = v },
	"category":         func(l *model.RawListing, v string) { l.Category = v },
	"type":             func(l *model.RawListing, v string) { l.Category = v },
	"subcategory":      func(l *model.RawListing, v string) { l.Subcategory = v },
	"address":          func(l *model.RawListing, v string) { l.Address = v },
	"location":         func(l *model.RawListing, v string) { l.Address = v },
	"phone":            func(l *model.RawListing, v string) { l.Phone = v },
	"contact":          func(l *model.RawListing, v string) { l.Phone = v },
	"website":          func(l *model.RawListing, v string) { l.Website = v },
	"rating":           func(l *model.RawListing, v string) { l.Rating = v },
	"review_count":     func(l *model.RawListing, v string) { l.ReviewCount = v },
	"reviews":          func(l *model.RawListing, v string) { l.ReviewCount = v },
	"price_tier":       func(l *model.RawListing, v string) { l.PriceTier = v },
	"price_level":      func(l *model.RawListing, v string) { l.PriceTier = v },
	"established_year": func(l *model.RawListing, v string) { l.EstablishedYear = v },
	"established":      func(l *model.RawListing, v string) { l.EstablishedYear = v },
	"source":           func(l *model.RawListing, v string) { l.Source = v },
}

// rowToListing maps one tabular row onto a RawListing using the header.
func rowToListing(header, row []string, source string) model.RawListing {
	var l model.RawListing
	for i, col := range header {
		if i >= len(row) {
			break
		}
		key := strings.ToLower(strings.TrimSpace(col))
		key = strings.ReplaceAll(key, " ", "_")
		if set, ok := columnSetters[key]; ok {
			set(&l, strings.TrimSpace(row[i]))
		}
	}
	if source != "" {
		l.Source = source
	}
	return l
}
