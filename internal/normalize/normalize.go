// Package normalize converts raw feed listings into canonical business
// records, rejecting rows that fail validation.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadscan/internal/model"
)

// ErrValidation marks a listing rejected for a missing or malformed
// mandatory field. Callers drop the row and count it.
var ErrValidation = eris.New("normalize: validation failed")

// legalSuffixes lists legal entity suffixes to strip during name
// normalization. Uppercase, longest variants first within each family.
var legalSuffixes = []string{
	" PRIVATE LIMITED", " PVT LTD", " PVT. LTD.", " PVT. LTD", " PVT LTD.",
	" LLC", " L.L.C.", " L.L.C",
	" INC", " INC.", " INCORPORATED",
	" CORP", " CORP.", " CORPORATION",
	" LTD", " LTD.", " LIMITED",
	" LLP", " L.L.P.", " L.L.P",
	" LP", " L.P.", " L.P",
	" AND CO", " & CO", " & CO.",
	" CO", " CO.",
	" PLC", " P.L.C.",
}

// acronyms are preserved as-is during display-name title casing.
var acronyms = map[string]string{
	"MMA":      "MMA",
	"CROSSFIT": "CrossFit",
	"ENT":      "ENT",
	"KIMS":     "KIMS",
	"FC":       "FC",
	"LA":       "LA",
}

var (
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	nonDigitRe   = regexp.MustCompile(`\D`)
)

// optionalFields is the number of optional fields counted toward
// completeness: phone, website, rating, review_count, price_tier,
// established_year.
const optionalFields = 6

// Normalizer validates and canonicalizes raw listings.
type Normalizer struct {
	titler cases.Caser
}

// New returns a Normalizer.
func New() *Normalizer {
	return &Normalizer{titler: cases.Title(language.English)}
}

// Record converts one raw listing into a BusinessRecord. The id should be
// deterministic per input position so repeated runs produce identical
// output. Only name and address are mandatory; violations return an error
// wrapping ErrValidation. Malformed optional fields are cleared, not
// rejected.
func (n *Normalizer) Record(id string, raw model.RawListing) (*model.BusinessRecord, error) {
	name := collapseSpaces(raw.Name)
	if name == "" {
		return nil, eris.Wrap(ErrValidation, "missing name")
	}
	address := collapseSpaces(raw.Address)
	if address == "" {
		return nil, eris.Wrapf(ErrValidation, "missing address for %q", name)
	}

	normalized, suffix := NormalizeName(name)
	if normalized == "" {
		return nil, eris.Wrapf(ErrValidation, "name %q empty after normalization", name)
	}

	rec := &model.BusinessRecord{
		ID:             id,
		Name:           n.displayName(normalized),
		NormalizedName: normalized,
		LegalSuffix:    suffix,
		Category:       collapseSpaces(raw.Category),
		Subcategory:    collapseSpaces(raw.Subcategory),
		Address:        address,
		Phone:          normalizePhone(raw.Phone),
		Website:        normalizeWebsite(raw.Website),
	}

	if raw.Source != "" {
		rec.Sources = []string{raw.Source}
	}

	// Malformed numeric fields clear rather than reject: a missing value
	// is a completeness penalty, not a hard failure.
	if v := strings.TrimSpace(raw.Rating); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 && r <= 5 {
			rec.Rating = &r
		}
	}
	if v := strings.TrimSpace(raw.ReviewCount); v != "" {
		if c, err := strconv.Atoi(v); err == nil && c >= 0 {
			rec.ReviewCount = &c
		}
	}
	if v := strings.TrimSpace(raw.PriceTier); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 1 && p <= 4 {
			rec.PriceTier = &p
		}
	}
	if v := strings.TrimSpace(raw.EstablishedYear); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 1800 && y <= 2100 {
			rec.EstablishedYear = &y
		}
	}

	rec.Completeness = Completeness(rec)
	return rec, nil
}

// NormalizeName standardizes a business name for matching by trimming,
// uppercasing, stripping one legal suffix, removing punctuation, and
// collapsing spaces. Returns the normalized name and the stripped suffix
// (trimmed, in its original uppercase form).
func NormalizeName(name string) (normalized, suffix string) {
	name = strings.TrimSpace(strings.ToUpper(name))
	if name == "" {
		return "", ""
	}

	for _, s := range legalSuffixes {
		if strings.HasSuffix(name, s) {
			name = strings.TrimSuffix(name, s)
			suffix = strings.TrimSpace(s)
			break
		}
	}

	name = strings.NewReplacer(
		",", "",
		".", "",
		"'", "",
		"\"", "",
		"&", "AND",
		"-", " ",
		"(", " ",
		")", " ",
		"/", " ",
	).Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name), suffix
}

// Completeness returns the fraction of optional fields present on a record.
func Completeness(rec *model.BusinessRecord) float64 {
	var present int
	if rec.Phone != "" {
		present++
	}
	if rec.Website != "" {
		present++
	}
	if rec.Rating != nil {
		present++
	}
	if rec.ReviewCount != nil {
		present++
	}
	if rec.PriceTier != nil {
		present++
	}
	if rec.EstablishedYear != nil {
		present++
	}
	return float64(present) / optionalFields
}

// displayName title-cases a normalized name for presentation, keeping
// known acronyms intact.
func (n *Normalizer) displayName(normalized string) string {
	words := strings.Fields(normalized)
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
			continue
		}
		words[i] = n.titler.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// normalizePhone keeps digits only. Anything under 10 digits is treated as
// absent; long international strings keep the trailing 12 digits.
func normalizePhone(phone string) string {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	if len(digits) < 10 {
		return ""
	}
	if len(digits) > 12 {
		digits = digits[len(digits)-12:]
	}
	return digits
}

func normalizeWebsite(site string) string {
	site = strings.TrimSpace(strings.ToLower(site))
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	site = strings.TrimSuffix(site, "/")
	if site == "" || !strings.Contains(site, ".") {
		return ""
	}
	return site
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// RecordID builds the deterministic record id for a feed row.
func RecordID(source string, ordinal int) string {
	if source == "" {
		source = "feed"
	}
	return fmt.Sprintf("%s-%d", source, ordinal)
}
