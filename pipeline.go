package nmg

import (
	"fmt"
	"io"
	"log/slog"
)

// Pipeline runs the whole estimate, stage by stage, over one in-memory
// panel. Stages are strictly sequential: the deciles and the baseline are
// scalars of the complete panel, so nothing downstream can start before
// its predecessor finishes. A run never re-reads its inputs; re-running on
// the same inputs gives identical outputs.
type Pipeline struct {
	params Params
	loader Loader
	lg     *slog.Logger
}

// Result is everything a run produces.
type Result struct {
	Panel    *Panel
	Yearly   *Yearly
	Deciles  *DecileStats
	Scaling  *Scaling
	Waves    []WaveReport
	Manifest Manifest
	Baseline float64
}

func NewPipeline(params Params, ld Loader, lg *slog.Logger) *Pipeline {
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Pipeline{params: params, loader: ld, lg: lg}
}

// Run executes reconcile -> income -> regimes -> deciles -> savings ->
// baseline/excess -> yearly -> national scaling. Missing data flows
// through as nulls; the only fatal cases are zero loadable waves and an
// empty panel.
func (pl *Pipeline) Run() (*Result, error) {
	rates, e := pl.params.RateTable()
	if e != nil {
		return nil, fmt.Errorf("pipeline: %w", e)
	}

	p, man, reports, e := Reconcile(pl.params.Waves, pl.loader, pl.params.IDColumn, pl.params.IncomeMatch, pl.lg)
	if e != nil {
		return nil, fmt.Errorf("reconcile: %w", e)
	}

	if p.RowCount() == 0 {
		return nil, fmt.Errorf("reconcile: waves loaded but the panel is empty")
	}

	pl.lg.Info("panel reconciled", "rows", p.RowCount(), "with_income", p.GrossIncome.ValidCount())

	Classify(p)
	AssignDeciles(p, pl.params.MinDecileObs)

	if e = EstimateSavings(p, rates); e != nil {
		return nil, fmt.Errorf("estimate savings: %w", e)
	}

	base := Baseline(p, pl.params.BaselineFrom, pl.params.BaselineTo, pl.params.BaselineDefault, pl.lg)
	ApplyExcess(p, base)

	y := AggregateYearly(p)
	ds := DecileBreakdown(p, pl.params.BreakdownFrom, pl.params.MinBreakdownObs)
	if ds == nil {
		pl.lg.Warn("too few observations for the decile breakdown", "from_year", pl.params.BreakdownFrom)
	}

	sc := ScaleNational(p, pl.params.Households, pl.params.Benchmark)
	pl.logSummary(p, sc)

	return &Result{
		Panel:    p,
		Yearly:   y,
		Deciles:  ds,
		Scaling:  sc,
		Waves:    reports,
		Manifest: man,
		Baseline: base,
	}, nil
}

func (pl *Pipeline) logSummary(p *Panel, sc *Scaling) {
	for _, rs := range SummarizeRegimes(p) {
		if !rs.HasData {
			pl.lg.Warn("regime has no usable savings data", "regime", rs.Regime.String(), "n", rs.N)
			continue
		}

		pl.lg.Info("regime summary", "regime", rs.Regime.String(), "n", rs.N,
			"mean_income", rs.MeanIncome, "mean_savings", rs.MeanSavings, "mean_excess", rs.MeanExcess)
	}

	if sc.Insufficient {
		pl.lg.Warn("not enough post-2020 data to estimate the national total")
		return
	}

	pl.lg.Info("national scaling", "sample_mean", sc.SampleMean.String(),
		"national_total", sc.NationalTotal.String(), "benchmark", sc.Benchmark.String(),
		"factor", sc.Factor.String())
}
