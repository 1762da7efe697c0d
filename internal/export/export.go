// Package export writes scored leads and market reports to disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscan/internal/model"
)

// leadColumns is the stable CSV column order.
var leadColumns = []string{
	"id", "name", "category", "subcategory", "area",
	"rating", "review_count", "completeness", "composite_score", "priority_tier",
}

// WriteLeadsCSV writes one row per scored lead in stable column order.
func WriteLeadsCSV(w io.Writer, leads []model.ScoredLead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leadColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, lead := range leads {
		rating := ""
		if lead.Business.Rating != nil {
			rating = fmt.Sprintf("%.1f", *lead.Business.Rating)
		}
		reviews := ""
		if lead.Business.ReviewCount != nil {
			reviews = fmt.Sprintf("%d", *lead.Business.ReviewCount)
		}

		row := []string{
			lead.Business.ID,
			lead.Business.Name,
			lead.Business.Category,
			lead.Business.Subcategory,
			lead.Business.Area,
			rating,
			reviews,
			fmt.Sprintf("%.2f", lead.Business.Completeness),
			fmt.Sprintf("%.2f", lead.Score.Composite),
			string(lead.Score.Tier),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", lead.Business.ID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteLeadsCSVFile writes the lead CSV to a path.
func WriteLeadsCSVFile(path string, leads []model.ScoredLead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := WriteLeadsCSV(f, leads); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}

// WriteReport writes the market report as indented JSON.
func WriteReport(w io.Writer, report *model.MarketReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(report), "export: encode report")
}

// WriteReportFile writes the market report to a path.
func WriteReportFile(path string, report *model.MarketReport) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := WriteReport(f, report); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
