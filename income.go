package nmg

import "strings"

// IncomeColumns finds the income-source columns of a wave: every column
// whose name contains match, case-insensitive. The set varies by wave and
// is discovered here once, then recorded in the Manifest.
func IncomeColumns(t *RawTable, match string) []string {
	match = strings.ToLower(match)

	var cols []string
	for _, nm := range t.ColumnNames() {
		if strings.Contains(strings.ToLower(nm), match) {
			cols = append(cols, nm)
		}
	}

	return cols
}

// AggregateIncome sums the source columns row-wise into gross household
// income. A missing source counts as zero -- unless every source is
// missing for the row, in which case income is null. That distinction,
// "summed to zero" vs "nothing reported", must survive every later stage.
// A wave with no source columns at all yields an all-null vector.
func AggregateIncome(t *RawTable, sources []string) *NullVec {
	income := NewNullVec(t.RowCount())

	if len(sources) == 0 {
		return income
	}

	cols := make([][]string, len(sources))
	for ind, nm := range sources {
		col, e := t.Column(nm)
		if e != nil {
			panic(e)
		}

		cols[ind] = col
	}

	for row := 0; row < t.RowCount(); row++ {
		total, seen := 0.0, false
		for ind := 0; ind < len(cols); ind++ {
			if v, ok := parseCell(cols[ind][row]); ok {
				total += v
				seen = true
			}
		}

		if seen {
			income.Set(row, total)
		}
	}

	return income
}
