package nmg

import (
	"fmt"
	"sort"
)

// Panel is the canonical household-period table every pipeline stage
// operates on. Rows are household-by-wave observations; the raw wave
// extracts are never mutated -- reconciliation builds a fresh Panel and
// later stages fill in the derived columns.
//
// GrossIncome, Savings and Excess are nullable: a null means the value was
// not observed, which downstream code must never conflate with zero.
// Decile uses 0 for "unassigned" (income null or too few observations).
type Panel struct {
	HouseholdID []string
	Year        []int
	Wave        []string
	GrossIncome *NullVec

	Regime   []Regime
	Pandemic []bool
	Post2020 []bool
	Decile   []int
	Savings  *NullVec
	Excess   *NullVec
}

func NewPanel() *Panel {
	return &Panel{GrossIncome: &NullVec{}}
}

func (p *Panel) RowCount() int {
	return len(p.Year)
}

// append adds one wave's rows to the panel.
func (p *Panel) append(ids []string, year int, wave string, income *NullVec) error {
	if len(ids) != income.Len() {
		return fmt.Errorf("wave %s: %d ids but %d income rows", wave, len(ids), income.Len())
	}

	for ind := 0; ind < len(ids); ind++ {
		p.HouseholdID = append(p.HouseholdID, ids[ind])
		p.Year = append(p.Year, year)
		p.Wave = append(p.Wave, wave)
	}

	p.GrossIncome.AppendVector(income)

	return nil
}

// YearMask returns a row mask true where the survey year is in [lo, hi].
func (p *Panel) YearMask(lo, hi int) []bool {
	mask := make([]bool, p.RowCount())
	for ind := 0; ind < p.RowCount(); ind++ {
		mask[ind] = p.Year[ind] >= lo && p.Year[ind] <= hi
	}

	return mask
}

// Years returns the distinct survey years in ascending order.
func (p *Panel) Years() []int {
	seen := make(map[int]bool)

	var years []int
	for ind := 0; ind < p.RowCount(); ind++ {
		if !seen[p.Year[ind]] {
			seen[p.Year[ind]] = true
			years = append(years, p.Year[ind])
		}
	}

	sort.Ints(years)

	return years
}

// Copy deep-copies the panel, derived columns included.
func (p *Panel) Copy() *Panel {
	pc := &Panel{
		HouseholdID: append([]string(nil), p.HouseholdID...),
		Year:        append([]int(nil), p.Year...),
		Wave:        append([]string(nil), p.Wave...),
		GrossIncome: p.GrossIncome.Copy(),
	}

	if p.Regime != nil {
		pc.Regime = append([]Regime(nil), p.Regime...)
		pc.Pandemic = append([]bool(nil), p.Pandemic...)
		pc.Post2020 = append([]bool(nil), p.Post2020...)
	}

	if p.Decile != nil {
		pc.Decile = append([]int(nil), p.Decile...)
	}

	if p.Savings != nil {
		pc.Savings = p.Savings.Copy()
	}

	if p.Excess != nil {
		pc.Excess = p.Excess.Copy()
	}

	return pc
}
