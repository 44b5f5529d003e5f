package nmg

import "fmt"

// Regime is the pandemic era a survey year falls in. Every year has a
// regime -- there is no unknown.
type Regime uint8

const (
	RegimePre Regime = iota
	RegimePandemic
	RegimePost
)

func (r Regime) String() string {
	switch r {
	case RegimePre:
		return "pre_pandemic"
	case RegimePandemic:
		return "pandemic"
	case RegimePost:
		return "post_pandemic"
	default:
		return "unknown"
	}
}

// RegimeOf maps a survey year to its regime: years before 2020 are
// pre-pandemic, 2020-2021 pandemic, 2022 on post-pandemic.
func RegimeOf(year int) Regime {
	switch {
	case year < 2020:
		return RegimePre
	case year <= 2021:
		return RegimePandemic
	default:
		return RegimePost
	}
}

// Pandemic is true for the 2020-2021 survey years.
func (r Regime) Pandemic() bool {
	return r == RegimePandemic
}

// Post2020 is true for 2020 and every later survey year.
func (r Regime) Post2020() bool {
	return r != RegimePre
}

// RateTable maps each regime to its savings rate. The rates are the
// single most consequential assumption in the whole estimate, so they are
// configuration, not literals: see Params.Rates.
type RateTable map[Regime]float64

// DefaultRates are the literature-based proxies: 8% pre-pandemic, 18%
// during lockdowns, 10% in the gradual normalization after.
func DefaultRates() RateTable {
	return RateTable{
		RegimePre:      0.08,
		RegimePandemic: 0.18,
		RegimePost:     0.10,
	}
}

// Validate checks the table covers every regime with a rate in [0, 1].
func (rt RateTable) Validate() error {
	for _, r := range []Regime{RegimePre, RegimePandemic, RegimePost} {
		rate, ok := rt[r]
		if !ok {
			return fmt.Errorf("rate table missing regime %s", r)
		}

		if rate < 0 || rate > 1 {
			return fmt.Errorf("rate %0.2f for regime %s outside [0,1]", rate, r)
		}
	}

	return nil
}

// Classify fills the regime and period-indicator columns of p from its
// survey years.
func Classify(p *Panel) {
	n := p.RowCount()
	p.Regime = make([]Regime, n)
	p.Pandemic = make([]bool, n)
	p.Post2020 = make([]bool, n)

	for ind := 0; ind < n; ind++ {
		r := RegimeOf(p.Year[ind])
		p.Regime[ind] = r
		p.Pandemic[ind] = r.Pandemic()
		p.Post2020[ind] = r.Post2020()
	}
}
