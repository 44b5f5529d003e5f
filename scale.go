package nmg

import (
	"github.com/shopspring/decimal"
)

// Scaling extrapolates the per-household excess to a national figure and
// sizes it against the external benchmark (the Bank of England's published
// excess-savings estimate). Monetary fields are pounds, rounded to pence.
type Scaling struct {
	// Insufficient is set when no household from 2020 on has observed
	// excess savings; every other field is zero in that case.
	Insufficient bool

	N             int
	SampleMean    decimal.Decimal
	NationalTotal decimal.Decimal
	Benchmark     decimal.Decimal
	Factor        decimal.Decimal
}

// ScaleNational averages excess savings over the year >= 2020 observations
// and multiplies by the national household count. Factor is how many times
// larger the benchmark is than this estimate; with a zero estimate it is
// reported as 1.
func ScaleNational(p *Panel, households int64, benchmark float64) *Scaling {
	post := make([]bool, p.RowCount())
	for ind := 0; ind < p.RowCount(); ind++ {
		post[ind] = p.Year[ind] >= 2020
	}

	excess := p.Excess.Where(post)
	mean, ok := excess.Mean()
	if !ok {
		return &Scaling{Insufficient: true}
	}

	total := mean * float64(households)

	factor := decimal.NewFromInt(1)
	if total > 0 {
		factor = decimal.NewFromFloat(benchmark / total).Round(2)
	}

	return &Scaling{
		N:             excess.ValidCount(),
		SampleMean:    decimal.NewFromFloat(mean).Round(2),
		NationalTotal: decimal.NewFromFloat(total).Round(2),
		Benchmark:     decimal.NewFromFloat(benchmark).Round(2),
		Factor:        factor,
	}
}
