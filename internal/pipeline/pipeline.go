// Package pipeline orchestrates the batch stages: fetch, normalize,
// consensus, risk, leaderboard, impact. Each stage is independently
// runnable and a stage failure never aborts the ones after it.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hill02252024/hk-7day-typhoon/internal/artifact"
	"github.com/hill02252024/hk-7day-typhoon/internal/consensus"
	"github.com/hill02252024/hk-7day-typhoon/internal/fetch"
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

// Pipeline wires the collaborators for one site's forecast products.
type Pipeline struct {
	fetcher    *fetch.Fetcher
	normalizer *forecast.Normalizer
	artifacts  *artifact.Store
	providers  []string
	opts       consensus.Options
	now        func() time.Time
}

// New creates a Pipeline. now feeds the timestamp-stamped artifacts;
// the consensus anchor clock lives in opts.
func New(
	fetcher *fetch.Fetcher,
	normalizer *forecast.Normalizer,
	artifacts *artifact.Store,
	providers []string,
	opts consensus.Options,
	now func() time.Time,
) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		fetcher:    fetcher,
		normalizer: normalizer,
		artifacts:  artifacts,
		providers:  providers,
		opts:       opts,
		now:        now,
	}
}

// Fetch downloads every provider feed into the raw snapshot store.
func (p *Pipeline) Fetch(ctx context.Context) error {
	p.fetcher.FetchAll(ctx, p.providers)
	return nil
}

// Normalize maps raw snapshots to the normalized set and writes the
// per-provider and flattened artifacts.
func (p *Pipeline) Normalize() error {
	set, flat := p.normalizer.Run()
	if flat == nil {
		flat = []forecast.DailyRecord{}
	}
	if err := p.artifacts.Write(artifact.NormalizedFile, set); err != nil {
		return err
	}
	return p.artifacts.Write(artifact.FlatFile, flat)
}

// Consensus builds the 0-5 day consensus from the normalized artifact.
// A missing artifact degrades to an empty report, never an error.
func (p *Pipeline) Consensus() error {
	set := p.loadNormalized()
	report := consensus.Build(set, p.opts)
	return p.artifacts.Write(artifact.ConsensusFile, report)
}

// Risk builds the extended-range (day 6-7) confidence report.
func (p *Pipeline) Risk() error {
	set := p.loadNormalized()
	return p.artifacts.Write(artifact.RiskFile, consensus.BuildRisk(set))
}

// Leaderboard writes the naive provider ranking.
func (p *Pipeline) Leaderboard() error {
	set := p.loadNormalized()
	return p.artifacts.Write(artifact.LeaderboardFile, consensus.BuildLeaderboard(set, p.now()))
}

// Impact writes the static impact note.
func (p *Pipeline) Impact() error {
	return p.artifacts.Write(artifact.ImpactFile, consensus.BuildImpact(p.now()))
}

func (p *Pipeline) loadNormalized() forecast.NormalizedSet {
	var set forecast.NormalizedSet
	if err := p.artifacts.ReadInto(artifact.NormalizedFile, &set); err != nil {
		log.Printf("pipeline: normalized artifact unavailable: %v", err)
		return forecast.NormalizedSet{}
	}
	return set
}

// RunAll runs every stage in order under one run identifier. Stage
// failures are logged; later stages still run with whatever artifacts
// exist.
func (p *Pipeline) RunAll(ctx context.Context) {
	runID := uuid.NewString()
	log.Printf("pipeline: run %s started", runID)

	stages := []struct {
		name string
		fn   func() error
	}{
		{"fetch", func() error { return p.Fetch(ctx) }},
		{"normalize", p.Normalize},
		{"consensus", p.Consensus},
		{"risk", p.Risk},
		{"leaderboard", p.Leaderboard},
		{"impact", p.Impact},
	}
	for _, stage := range stages {
		if err := stage.fn(); err != nil {
			log.Printf("pipeline: run %s stage %s failed: %v", runID, stage.name, err)
		}
	}
	log.Printf("pipeline: run %s finished", runID)
}
