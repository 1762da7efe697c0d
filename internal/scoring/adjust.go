package scoring

import (
	"encoding/json"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscan/internal/model"
)

// ErrModelUnavailable signals that the learned adjustment model could
// not be loaded. Callers fall back to heuristic-only scoring.
var ErrModelUnavailable = eris.New("scoring: model unavailable")

// Adjuster produces a composite-score delta from a learned model.
// Implementations must be safe for concurrent use.
type Adjuster interface {
	Adjust(rec *model.BusinessRecord, fs model.FeatureSet) float64
}

// NoAdjustment is the heuristic-only adjuster.
type NoAdjustment struct{}

// Adjust returns zero.
func (NoAdjustment) Adjust(*model.BusinessRecord, model.FeatureSet) float64 { return 0 }

// featureNames orders the regression feature vector. The first entry is
// the intercept term.
var featureNames = []string{
	"intercept",
	"rating",
	"review_volume_log",
	"completeness",
	"relative_rating",
	"relative_completeness",
	"competitor_density",
	"novelty",
}

// featureVector extracts the regression inputs for one record. Missing
// rating contributes the scale midpoint so sparse records stay near the
// training distribution.
func featureVector(rec *model.BusinessRecord, fs model.FeatureSet) []float64 {
	rating := 2.5
	if rec.Rating != nil {
		rating = *rec.Rating
	}
	var reviewLog float64
	if rec.ReviewCount != nil {
		reviewLog = math.Log1p(float64(*rec.ReviewCount))
	}
	var novelty float64
	if fs.Novelty {
		novelty = 1
	}
	return []float64{
		1,
		rating,
		reviewLog,
		rec.Completeness,
		fs.RelativeRating,
		fs.RelativeCompleteness,
		float64(fs.CompetitorDensity),
		novelty,
	}
}

// RegressionAdjustment is a linear model over the feature vector trained
// on historical conversion outcomes. It predicts the residual between
// observed outcomes and the heuristic composite.
type RegressionAdjustment struct {
	Coefficients []float64 `json:"coefficients"`
	Features     []string  `json:"features"`
	Samples      int       `json:"samples"`
}

// Adjust returns the model's predicted delta for one record.
func (m *RegressionAdjustment) Adjust(rec *model.BusinessRecord, fs model.FeatureSet) float64 {
	x := featureVector(rec, fs)
	if len(m.Coefficients) != len(x) {
		return 0
	}
	var delta float64
	for i, c := range m.Coefficients {
		delta += c * x[i]
	}
	return delta
}

// LoadModel reads a persisted RegressionAdjustment from disk. Any failure
// wraps ErrModelUnavailable so callers can detect the recoverable case.
func LoadModel(path string) (*RegressionAdjustment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrModelUnavailable, "read %s: %v", path, err)
	}
	var m RegressionAdjustment
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(ErrModelUnavailable, "parse %s: %v", path, err)
	}
	if len(m.Coefficients) != len(featureNames) {
		return nil, eris.Wrapf(ErrModelUnavailable, "model %s has %d coefficients, want %d",
			path, len(m.Coefficients), len(featureNames))
	}
	return &m, nil
}

// Save persists the model as JSON.
func (m *RegressionAdjustment) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return eris.Wrap(err, "scoring: marshal model")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "scoring: write model %s", path)
	}
	return nil
}

// TrainingSample pairs a scored record with its observed outcome on the
// 1-10 scale (e.g., realized conversion quality).
type TrainingSample struct {
	Record   model.BusinessRecord
	Features model.FeatureSet
	Outcome  float64
}

// Train fits a RegressionAdjustment by ordinary least squares on the
// residual between observed outcomes and the heuristic composite.
// Requires more samples than features.
func Train(scorer *Scorer, samples []TrainingSample) (*RegressionAdjustment, error) {
	k := len(featureNames)
	if len(samples) <= k {
		return nil, eris.Errorf("scoring: need more than %d samples to train, got %d", k, len(samples))
	}

	// Normal equations: (X'X) beta = X'y with a small ridge term for
	// numerical stability on collinear features.
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)

	for _, s := range samples {
		x := featureVector(&s.Record, s.Features)
		heuristic := scorer.Score(&s.Record, s.Features)
		residual := s.Outcome - heuristic.Composite

		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				xtx[i][j] += x[i] * x[j]
			}
			xty[i] += x[i] * residual
		}
	}
	for i := 0; i < k; i++ {
		xtx[i][i] += 1e-6
	}

	beta, err := solve(xtx, xty)
	if err != nil {
		return nil, err
	}

	m := &RegressionAdjustment{
		Coefficients: beta,
		Features:     featureNames,
		Samples:      len(samples),
	}
	zap.L().Info("scoring: trained adjustment model",
		zap.Int("samples", len(samples)),
		zap.Int("features", k),
	)
	return m, nil
}

// solve performs Gaussian elimination with partial pivoting on a dense
// symmetric system.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	// Work on copies.
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64(nil), a[i]...)
		m[i] = append(m[i], b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, eris.New("scoring: singular system in regression fit")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}
