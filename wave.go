package nmg

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

// Wave names one survey extract. Label is the original wave identifier
// (kept on every row for traceability); Year is the calendar year the wave
// belongs to. Several waves may share a year -- the two 2025 half-year
// waves both map to 2025.
type Wave struct {
	Label string `koanf:"label"`
	Year  int    `koanf:"year"`
	Query string `koanf:"query"`
}

// Loader resolves a wave to its raw table. Implementations load from CSV
// extracts (CSVLoader) or a database (DBLoader).
type Loader interface {
	Load(w Wave) (*RawTable, error)
}

// RawTable is one wave's extract exactly as loaded: an arbitrary set of
// named columns of string cells. An empty cell is a missing value. There
// is no schema guarantee across waves.
type RawTable struct {
	names []string
	cells [][]string
}

func NewRawTable(names []string, cols [][]string) (*RawTable, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d names but %d columns", len(names), len(cols))
	}

	for ind := 1; ind < len(cols); ind++ {
		if len(cols[ind]) != len(cols[0]) {
			return nil, fmt.Errorf("column %s: length %d, want %d", names[ind], len(cols[ind]), len(cols[0]))
		}
	}

	for ind, nm := range names {
		if has(nm, names[ind+1:]) {
			return nil, fmt.Errorf("duplicate column %s", nm)
		}
	}

	return &RawTable{names: names, cells: cols}, nil
}

func (t *RawTable) ColumnNames() []string {
	return t.names
}

func (t *RawTable) ColumnCount() int {
	return len(t.names)
}

func (t *RawTable) RowCount() int {
	if len(t.cells) == 0 {
		return 0
	}

	return len(t.cells[0])
}

func (t *RawTable) Column(colName string) ([]string, error) {
	if pos := position(colName, t.names); pos >= 0 {
		return t.cells[pos], nil
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

// Manifest records, per wave label, which columns were summed into gross
// income. It is built once at load time so the "which fields make up
// income" decision is auditable, not buried in per-row string matching.
type Manifest map[string][]string

// Reconcile loads each wave and unions them into one canonical panel:
// household id, survey year, wave label, gross income. A wave that fails
// to load is skipped with a warning; only zero loadable waves is an error.
func Reconcile(waves []Wave, ld Loader, idCol, incomeMatch string, lg *slog.Logger) (*Panel, Manifest, []WaveReport, error) {
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := NewPanel()
	man := make(Manifest)

	var reports []WaveReport
	loaded := 0
	for _, w := range waves {
		var (
			t *RawTable
			e error
		)

		if t, e = ld.Load(w); e != nil {
			lg.Warn("wave skipped", "wave", w.Label, "error", e.Error())
			reports = append(reports, WaveReport{Label: w.Label, Year: w.Year, Skipped: true, Err: e.Error()})
			continue
		}

		sources := IncomeColumns(t, incomeMatch)
		income := AggregateIncome(t, sources)

		if e = p.append(waveIDs(t, idCol), w.Year, w.Label, income); e != nil {
			return nil, nil, nil, e
		}

		man[w.Label] = sources
		loaded++

		r := WaveReport{
			Label:      w.Label,
			Year:       w.Year,
			Rows:       t.RowCount(),
			Cols:       t.ColumnCount(),
			IncomeCols: sources,
			WithIncome: income.ValidCount(),
		}
		reports = append(reports, r)

		lg.Info("wave loaded", "wave", w.Label, "rows", r.Rows, "with_income", r.WithIncome)
	}

	if loaded == 0 {
		return nil, nil, nil, fmt.Errorf("no waves loaded from %d requested", len(waves))
	}

	return p, man, reports, nil
}

// waveIDs pulls the household identifier column; a wave without one gets
// row numbers, which are opaque ids like any other.
func waveIDs(t *RawTable, idCol string) []string {
	if col, e := t.Column(idCol); e == nil {
		return col
	}

	ids := make([]string, t.RowCount())
	for ind := 0; ind < len(ids); ind++ {
		ids[ind] = strconv.Itoa(ind + 1)
	}

	return ids
}
