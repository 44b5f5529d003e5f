package nmg

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// All code interacting with wave extract and output files is here

const (
	FloatFormat = "%.2f"
)

// CSVLoader reads wave extracts from dir, one file per wave named after
// its label ("2016.csv", "March 2025.csv", ...). First row is the header;
// empty cells are missing values.
type CSVLoader struct {
	Dir string
}

func (l *CSVLoader) Load(w Wave) (*RawTable, error) {
	fileName := filepath.Join(l.Dir, w.Label+".csv")

	fl, e := os.Open(fileName)
	if e != nil {
		return nil, e
	}
	defer func() { _ = fl.Close() }()

	rdr := csv.NewReader(fl)
	rdr.FieldsPerRecord = -1

	recs, e := rdr.ReadAll()
	if e != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, e)
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: no header row", fileName)
	}

	names := recs[0]
	cols := make([][]string, len(names))
	for ind := 0; ind < len(cols); ind++ {
		cols[ind] = make([]string, len(recs)-1)
	}

	for row := 1; row < len(recs); row++ {
		for ind := 0; ind < len(names); ind++ {
			// ragged rows: short rows leave trailing cells missing
			if ind < len(recs[row]) {
				cols[ind][row-1] = recs[row][ind]
			}
		}
	}

	return NewRawTable(names, cols)
}

// Files writes the output tables as CSV, nulls as empty cells.
type Files struct {
	FloatFormat string

	file *csv.Writer
	fl   *os.File
}

func NewFiles() *Files {
	return &Files{FloatFormat: FloatFormat}
}

func (f *Files) Create(fileName string) error {
	var e error
	if f.fl, e = os.Create(fileName); e != nil {
		return e
	}

	f.file = csv.NewWriter(f.fl)

	return nil
}

func (f *Files) Close() error {
	if f.fl == nil {
		return fmt.Errorf("no open files")
	}

	f.file.Flush()

	return f.fl.Close()
}

// WriteLine formats one row. nil values become empty cells.
func (f *Files) WriteLine(v []any) error {
	line := make([]string, len(v))
	for ind := 0; ind < len(v); ind++ {
		switch d := v[ind].(type) {
		case nil:
			line[ind] = ""
		case float64:
			line[ind] = fmt.Sprintf(f.FloatFormat, d)
		case int:
			line[ind] = strconv.Itoa(d)
		case bool:
			line[ind] = "0"
			if d {
				line[ind] = "1"
			}
		case string:
			line[ind] = d
		default:
			line[ind] = fmt.Sprintf("%v", d)
		}
	}

	return f.file.Write(line)
}

// nullable turns a NullVec element into a WriteLine/Exec value.
func nullable(v *NullVec, indx int) any {
	if x, ok := v.Element(indx); ok {
		return x
	}

	return nil
}

// WritePanelCSV saves the canonical observation table.
func WritePanelCSV(fileName string, p *Panel) error {
	f := NewFiles()
	if e := f.Create(fileName); e != nil {
		return e
	}
	defer func() { _ = f.Close() }()

	hdr := []any{"household_id", "survey_year", "survey_wave", "gross_income",
		"regime", "pandemic_period", "post_2020", "income_decile",
		"estimated_savings", "excess_savings"}
	if e := f.WriteLine(hdr); e != nil {
		return e
	}

	for ind := 0; ind < p.RowCount(); ind++ {
		var dec any
		if p.Decile[ind] > 0 {
			dec = p.Decile[ind]
		}

		line := []any{p.HouseholdID[ind], p.Year[ind], p.Wave[ind],
			nullable(p.GrossIncome, ind), p.Regime[ind].String(),
			p.Pandemic[ind], p.Post2020[ind], dec,
			nullable(p.Savings, ind), nullable(p.Excess, ind)}
		if e := f.WriteLine(line); e != nil {
			return e
		}
	}

	return nil
}

// WriteYearlyCSV saves the yearly aggregate table.
func WriteYearlyCSV(fileName string, y *Yearly) error {
	f := NewFiles()
	if e := f.Create(fileName); e != nil {
		return e
	}
	defer func() { _ = f.Close() }()

	hdr := []any{"survey_year", "avg_income", "avg_savings", "avg_excess_savings",
		"counterfactual_savings", "cumulative_excess", "n_households", "n_with_income"}
	if e := f.WriteLine(hdr); e != nil {
		return e
	}

	for ind := 0; ind < y.RowCount(); ind++ {
		line := []any{y.Year[ind], nullable(y.MeanIncome, ind), nullable(y.MeanSavings, ind),
			nullable(y.MeanExcess, ind), nullable(y.Counterfactual, ind),
			nullable(y.CumExcess, ind), y.NHouseholds[ind], y.NWithIncome[ind]}
		if e := f.WriteLine(line); e != nil {
			return e
		}
	}

	return nil
}
