package nmg

// Data-quality reporting: what loaded, which columns fed income, and how
// much of each year's sample actually has income data. Early survey years
// are sparse and the coverage numbers make that visible instead of letting
// nulls masquerade as measurements.

// WaveReport describes how one wave loaded.
type WaveReport struct {
	Label      string
	Year       int
	Rows       int
	Cols       int
	IncomeCols []string
	WithIncome int

	Skipped bool
	Err     string
}

// CoverageRow is income-data coverage for one survey year.
type CoverageRow struct {
	Year        int
	NHouseholds int
	NWithIncome int
	PctCoverage float64
}

// Coverage derives the per-year coverage table from the yearly aggregates.
func Coverage(y *Yearly) []CoverageRow {
	rows := make([]CoverageRow, y.RowCount())
	for ind := 0; ind < y.RowCount(); ind++ {
		r := CoverageRow{
			Year:        y.Year[ind],
			NHouseholds: y.NHouseholds[ind],
			NWithIncome: y.NWithIncome[ind],
		}

		if r.NHouseholds > 0 {
			r.PctCoverage = 100 * float64(r.NWithIncome) / float64(r.NHouseholds)
		}

		rows[ind] = r
	}

	return rows
}

// RegimeStats summarizes one regime across the panel. HasData is false
// when no observation in the regime has usable savings.
type RegimeStats struct {
	Regime      Regime
	N           int
	MeanIncome  float64
	MeanSavings float64
	MeanExcess  float64
	HasData     bool
}

// SummarizeRegimes gives the three-row per-regime summary used in the run
// log: sample size and mean income, savings and excess.
func SummarizeRegimes(p *Panel) []RegimeStats {
	var out []RegimeStats
	for _, r := range []Regime{RegimePre, RegimePandemic, RegimePost} {
		mask := make([]bool, p.RowCount())
		n := 0
		for ind := 0; ind < p.RowCount(); ind++ {
			mask[ind] = p.Regime[ind] == r
			if mask[ind] {
				n++
			}
		}

		rs := RegimeStats{Regime: r, N: n}
		if m, ok := p.Savings.Where(mask).Mean(); ok {
			rs.MeanSavings, rs.HasData = m, true
			rs.MeanIncome, _ = p.GrossIncome.Where(mask).Mean()
			rs.MeanExcess, _ = p.Excess.Where(mask).Mean()
		}

		out = append(out, rs)
	}

	return out
}
