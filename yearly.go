package nmg

import (
	"gonum.org/v1/gonum/stat"
)

// Yearly is the one-row-per-survey-year aggregate table the dashboard
// plots. Computed once per run from the full panel, immutable after.
type Yearly struct {
	Year        []int
	MeanIncome  *NullVec
	MeanSavings *NullVec
	MeanExcess  *NullVec

	// Counterfactual is the pre-pandemic savings trend extended over every
	// year: what the proxy says savings would have been with no pandemic.
	// All null when fewer than two pre-pandemic years have data.
	Counterfactual *NullVec

	// CumExcess is the running sum of mean excess by year. Years with no
	// excess data add zero; the running total itself stays non-null once
	// the first year with data is reached.
	CumExcess *NullVec

	NHouseholds []int
	NWithIncome []int
}

func (y *Yearly) RowCount() int {
	return len(y.Year)
}

// AggregateYearly collapses the panel to yearly means and counts, fits the
// counterfactual trend, and accumulates excess. Years are strictly
// ascending.
func AggregateYearly(p *Panel) *Yearly {
	years := p.Years()
	n := len(years)

	y := &Yearly{
		Year:        years,
		MeanIncome:  NewNullVec(n),
		MeanSavings: NewNullVec(n),
		MeanExcess:  NewNullVec(n),
		NHouseholds: make([]int, n),
		NWithIncome: make([]int, n),
	}

	for ind, yr := range years {
		mask := p.YearMask(yr, yr)

		inc := p.GrossIncome.Where(mask)
		y.NHouseholds[ind] = inc.Len()
		y.NWithIncome[ind] = inc.ValidCount()

		if m, ok := inc.Mean(); ok {
			y.MeanIncome.Set(ind, m)
		}

		if m, ok := p.Savings.Where(mask).Mean(); ok {
			y.MeanSavings.Set(ind, m)
		}

		if m, ok := p.Excess.Where(mask).Mean(); ok {
			y.MeanExcess.Set(ind, m)
		}
	}

	y.Counterfactual = counterfactual(y)
	y.CumExcess = cumulate(y.MeanExcess)

	return y
}

// counterfactual fits savings-vs-year by ordinary least squares on the
// pre-pandemic years with non-null mean savings and evaluates the line at
// every year. Under two usable years there is no trend to fit and the
// whole column is null.
func counterfactual(y *Yearly) *NullVec {
	var xs, ys []float64
	for ind, yr := range y.Year {
		if yr >= 2020 {
			continue
		}

		if m, ok := y.MeanSavings.Element(ind); ok {
			xs = append(xs, float64(yr))
			ys = append(ys, m)
		}
	}

	cf := NewNullVec(y.RowCount())
	if len(xs) < 2 {
		return cf
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	for ind, yr := range y.Year {
		cf.Set(ind, alpha+beta*float64(yr))
	}

	return cf
}

// cumulate runs a sum over mean excess in year order. Null years
// contribute zero but do not null the total; years before the first
// observed excess stay null.
func cumulate(meanExcess *NullVec) *NullVec {
	cum := NewNullVec(meanExcess.Len())

	total, started := 0.0, false
	for ind := 0; ind < meanExcess.Len(); ind++ {
		if m, ok := meanExcess.Element(ind); ok {
			total += m
			started = true
		}

		if started {
			cum.Set(ind, total)
		}
	}

	return cum
}

// DecileStats is the savings-by-income-decile aggregate over the pandemic
// and later years, one row per populated decile.
type DecileStats struct {
	Decile      []int
	MeanIncome  []float64
	MeanSavings []float64
	MeanExcess  []float64
	N           []int
}

// DecileBreakdown aggregates rows with year >= fromYear, observed income
// and an assigned decile. Below minObs such rows the breakdown is not
// meaningful and the result is nil.
func DecileBreakdown(p *Panel, fromYear, minObs int) *DecileStats {
	keep := make([]bool, p.RowCount())
	kept := 0
	for ind := 0; ind < p.RowCount(); ind++ {
		keep[ind] = p.Year[ind] >= fromYear && p.GrossIncome.IsValid(ind) && p.Decile[ind] > 0
		if keep[ind] {
			kept++
		}
	}

	if kept < minObs {
		return nil
	}

	ds := &DecileStats{}
	for d := 1; d <= 10; d++ {
		mask := make([]bool, p.RowCount())
		n := 0
		for ind := 0; ind < p.RowCount(); ind++ {
			mask[ind] = keep[ind] && p.Decile[ind] == d
			if mask[ind] {
				n++
			}
		}

		if n == 0 {
			continue
		}

		mInc, _ := p.GrossIncome.Where(mask).Mean()
		mSav, _ := p.Savings.Where(mask).Mean()
		mExc, _ := p.Excess.Where(mask).Mean()

		ds.Decile = append(ds.Decile, d)
		ds.MeanIncome = append(ds.MeanIncome, mInc)
		ds.MeanSavings = append(ds.MeanSavings, mSav)
		ds.MeanExcess = append(ds.MeanExcess, mExc)
		ds.N = append(ds.N, n)
	}

	return ds
}
