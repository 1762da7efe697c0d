// Package pipeline orchestrates a full analysis run: ingest, normalize,
// classify, resolve, dedupe, score, aggregate, recommend, persist.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscan/internal/config"
	"github.com/sells-group/leadscan/internal/dedupe"
	"github.com/sells-group/leadscan/internal/features"
	"github.com/sells-group/leadscan/internal/geo"
	"github.com/sells-group/leadscan/internal/ingest"
	"github.com/sells-group/leadscan/internal/market"
	"github.com/sells-group/leadscan/internal/model"
	"github.com/sells-group/leadscan/internal/normalize"
	"github.com/sells-group/leadscan/internal/recommend"
	"github.com/sells-group/leadscan/internal/scoring"
	"github.com/sells-group/leadscan/internal/store"
	"github.com/sells-group/leadscan/internal/taxonomy"
)

// Result is everything one run produces.
type Result struct {
	Run     *model.Run
	Leads   []model.ScoredLead
	Report  *model.MarketReport
	Summary model.RunSummary
}

// Pipeline wires the stages together. Stages are constructed once and
// reused across runs.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	normalizer *normalize.Normalizer
	classifier *taxonomy.Classifier
	resolver   *geo.Resolver
}

// New builds a Pipeline from config, loading the gazetteer and taxonomy
// rule overrides when paths are configured.
func New(cfg *config.Config, st store.Store) (*Pipeline, error) {
	if err := scoring.ValidateConfig(cfg.Scoring); err != nil {
		return nil, err
	}
	if err := dedupe.ValidateConfig(cfg.Dedupe); err != nil {
		return nil, err
	}

	classifier := taxonomy.New()
	if cfg.Taxonomy.RulesPath != "" {
		var err error
		classifier, err = taxonomy.NewFromFile(cfg.Taxonomy.RulesPath)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: load taxonomy rules")
		}
	}

	resolver := geo.New()
	if cfg.Geo.GazetteerPath != "" {
		var err error
		resolver, err = geo.NewFromFile(cfg.Geo.GazetteerPath)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: load gazetteer")
		}
	}

	return &Pipeline{
		cfg:        cfg,
		store:      st,
		normalizer: normalize.New(),
		classifier: classifier,
		resolver:   resolver,
	}, nil
}

// Run executes the full pipeline over the given feed files and persists
// the outcome. The run record is marked failed if any stage errors.
func (p *Pipeline) Run(ctx context.Context, feedPaths []string) (*Result, error) {
	log := zap.L().With(zap.Int("feeds", len(feedPaths)))
	log.Info("pipeline: starting run")

	run, err := p.store.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	result, err := p.execute(ctx, run, feedPaths)
	if err != nil {
		if failErr := p.store.FailRun(ctx, run.ID); failErr != nil {
			log.Warn("pipeline: failed to mark run failed", zap.Error(failErr))
		}
		return nil, err
	}

	if err := p.store.CompleteRun(ctx, run.ID, &result.Summary); err != nil {
		return nil, eris.Wrap(err, "pipeline: complete run")
	}
	log.Info("pipeline: run complete",
		zap.String("run_id", run.ID),
		zap.Int("ingested", result.Summary.Ingested),
		zap.Int("scored", result.Summary.Scored),
		zap.Int("merged", result.Summary.Merged),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, run *model.Run, feedPaths []string) (*Result, error) {
	log := zap.L().With(zap.String("run_id", run.ID))
	var summary model.RunSummary

	// Ingest + normalize.
	records, err := p.loadRecords(ctx, feedPaths, &summary)
	if err != nil {
		return nil, err
	}
	log.Info("pipeline: normalized",
		zap.Int("ingested", summary.Ingested),
		zap.Int("dropped", summary.Dropped),
	)

	// Classify and resolve before dedupe so area blocking works.
	for i := range records {
		p.classifier.Classify(&records[i])
		records[i].Area = p.resolver.Resolve(records[i].Address)
	}

	deduper := dedupe.New(dedupe.Config{
		Threshold:     p.cfg.Dedupe.Threshold,
		NameGate:      p.cfg.Dedupe.NameGate,
		NameWeight:    p.cfg.Dedupe.NameWeight,
		AddressWeight: p.cfg.Dedupe.AddressWeight,
		Workers:       p.cfg.Pipeline.Workers,
	})
	merged, groups, err := deduper.Run(ctx, records)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: dedupe")
	}
	summary.Merged = len(records) - len(merged)
	for _, rec := range merged {
		if rec.Area == geo.AreaUnknown {
			summary.UnknownArea++
		}
	}
	log.Info("pipeline: deduplicated",
		zap.Int("records", len(merged)),
		zap.Int("merged", summary.Merged),
		zap.Int("groups", len(groups)),
	)

	// Score.
	leads, err := p.score(ctx, merged, &summary)
	if err != nil {
		return nil, err
	}

	// Aggregate and recommend.
	aggregator := market.New(p.cfg.Market, p.resolver)
	areas := aggregator.Aggregate(merged)
	recommendations := recommend.New(p.cfg.Recommend.LeadsPerSegment).Build(leads)

	report := &model.MarketReport{
		RunID:           run.ID,
		GeneratedAt:     time.Now().UTC(),
		Summary:         summary,
		Areas:           areas,
		TopAreas:        aggregator.TopAreas(areas),
		Recommendations: recommendations,
	}

	if err := p.store.SaveLeads(ctx, run.ID, leads); err != nil {
		return nil, eris.Wrap(err, "pipeline: save leads")
	}

	return &Result{Run: run, Leads: leads, Report: report, Summary: summary}, nil
}

// loadRecords ingests every feed and normalizes rows into canonical
// records, counting validation drops instead of failing on them.
func (p *Pipeline) loadRecords(ctx context.Context, feedPaths []string, summary *model.RunSummary) ([]model.BusinessRecord, error) {
	var records []model.BusinessRecord
	ordinals := make(map[string]int)

	for _, path := range feedPaths {
		listings, err := ingest.Read(ctx, path, "")
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: ingest %s", path)
		}
		summary.Ingested += len(listings)

		for _, raw := range listings {
			ordinals[raw.Source]++
			id := normalize.RecordID(raw.Source, ordinals[raw.Source])

			rec, err := p.normalizer.Record(id, raw)
			if err != nil {
				if errors.Is(err, normalize.ErrValidation) {
					summary.Dropped++
					zap.L().Debug("pipeline: dropped listing", zap.String("id", id), zap.Error(err))
					continue
				}
				return nil, eris.Wrapf(err, "pipeline: normalize %s", id)
			}
			records = append(records, *rec)
		}
	}
	return records, nil
}

// score fans records out across workers and returns leads sorted by
// composite descending.
func (p *Pipeline) score(ctx context.Context, records []model.BusinessRecord, summary *model.RunSummary) ([]model.ScoredLead, error) {
	adjuster := p.loadAdjuster()
	scorer := scoring.New(p.cfg.Scoring, adjuster, time.Now().Year())

	builder := features.NewBuilder(records, p.cfg.Market.NoveltyThreshold)

	workers := p.cfg.Pipeline.Workers
	if workers <= 0 {
		workers = 8
	}

	leads := make([]model.ScoredLead, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := records[i]
			fs := builder.Features(&rec)
			leads[i] = model.ScoredLead{Business: rec, Score: scorer.Score(&rec, fs)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: score")
	}

	summary.Scored = len(leads)
	if scorer.HeuristicOnly() {
		summary.HeuristicOnly = len(leads)
	}

	sort.Slice(leads, func(i, j int) bool {
		if leads[i].Score.Composite != leads[j].Score.Composite {
			return leads[i].Score.Composite > leads[j].Score.Composite
		}
		return leads[i].Business.ID < leads[j].Business.ID
	})
	return leads, nil
}

// loadAdjuster loads the learned adjustment model, falling back to pure
// heuristics when the model file is missing or unreadable.
func (p *Pipeline) loadAdjuster() scoring.Adjuster {
	if p.cfg.Scoring.ModelPath == "" {
		return scoring.NoAdjustment{}
	}
	adj, err := scoring.LoadModel(p.cfg.Scoring.ModelPath)
	if err != nil {
		zap.L().Warn("pipeline: adjustment model unavailable, using heuristics only",
			zap.String("path", p.cfg.Scoring.ModelPath), zap.Error(err))
		return scoring.NoAdjustment{}
	}
	return adj
}
