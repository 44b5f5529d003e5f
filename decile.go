package nmg

// Income deciles span the full panel -- all waves pooled -- so a
// household's decile means the same thing in 2016 as in 2024. They are not
// recomputed per year. Decile 0 means unassigned: income null, or too few
// observations to cut ten groups.

// DecileBreaks returns the nine quantile cut points (p = 0.1 .. 0.9) of
// the valid incomes. nil if there are fewer than minObs valid rows.
func DecileBreaks(income *NullVec, minObs int) []float64 {
	if income.ValidCount() < minObs {
		return nil
	}

	breaks := make([]float64, 9)
	for ind := 0; ind < 9; ind++ {
		q, _ := income.Quantile(float64(ind+1) / 10)
		breaks[ind] = q
	}

	return breaks
}

// AssignDeciles fills p.Decile: 1 (lowest income) through 10 (highest),
// quantile-based so the groups have near-equal population. Duplicate cut
// points are allowed -- heavily tied incomes give degenerate bins rather
// than an error.
func AssignDeciles(p *Panel, minObs int) {
	n := p.RowCount()
	p.Decile = make([]int, n)

	breaks := DecileBreaks(p.GrossIncome, minObs)
	if breaks == nil {
		return
	}

	for ind := 0; ind < n; ind++ {
		x, ok := p.GrossIncome.Element(ind)
		if !ok {
			continue
		}

		d := 1
		for _, b := range breaks {
			if x > b {
				d++
			}
		}

		p.Decile[ind] = d
	}
}
