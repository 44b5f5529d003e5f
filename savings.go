package nmg

import (
	"fmt"
	"io"
	"log/slog"
)

// The survey measures income, not savings flows. Savings are proxied as a
// regime-dependent share of gross income, and "excess" is the part of that
// proxy above the pre-pandemic baseline.

// EstimateSavings fills p.Savings with gross income times the regime's
// savings rate. Null income gives null savings, nothing else does.
// Classify must have run first.
func EstimateSavings(p *Panel, rates RateTable) error {
	if p.Regime == nil {
		return fmt.Errorf("estimate savings: panel has no regimes, run Classify first")
	}

	if e := rates.Validate(); e != nil {
		return e
	}

	n := p.RowCount()
	p.Savings = NewNullVec(n)
	for ind := 0; ind < n; ind++ {
		if inc, ok := p.GrossIncome.Element(ind); ok {
			p.Savings.Set(ind, inc*rates[p.Regime[ind]])
		}
	}

	return nil
}

// Baseline is the run-scoped reference savings level: the mean estimated
// savings over the loYear-hiYear window (2016-2019 by default, skipping
// the sparse earliest survey years). An empty window widens to all
// pre-pandemic observations, and failing that falls back to the configured
// constant. The chain never errors; it is computed once per run and shared
// by every observation.
func Baseline(p *Panel, loYear, hiYear int, fallback float64, lg *slog.Logger) float64 {
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if m, ok := p.Savings.Where(p.YearMask(loYear, hiYear)).Mean(); ok {
		lg.Info("baseline computed", "window", fmt.Sprintf("%d-%d", loYear, hiYear), "baseline", m)
		return m
	}

	pre := make([]bool, p.RowCount())
	for ind := 0; ind < p.RowCount(); ind++ {
		pre[ind] = p.Regime[ind] == RegimePre
	}

	if m, ok := p.Savings.Where(pre).Mean(); ok {
		lg.Warn("baseline window empty, widened to all pre-pandemic years", "baseline", m)
		return m
	}

	lg.Warn("no usable pre-pandemic savings, using configured default", "baseline", fallback)

	return fallback
}

// ApplyExcess fills p.Excess = max(0, savings - baseline). Excess is never
// negative; it is null exactly where savings are null.
func ApplyExcess(p *Panel, baseline float64) {
	n := p.RowCount()
	p.Excess = NewNullVec(n)
	for ind := 0; ind < n; ind++ {
		if s, ok := p.Savings.Element(ind); ok {
			p.Excess.Set(ind, max(0, s-baseline))
		}
	}
}
