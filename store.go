package nmg

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the sqlite artifact file a run leaves behind for the dashboard:
// the canonical panel, the yearly series, the decile breakdown, the
// scaling report, and the per-wave load report with its income-column
// manifest. Nulls in the pipeline are NULLs in the file.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS panel (
    household_id        TEXT NOT NULL,
    survey_year         INTEGER NOT NULL,
    survey_wave         TEXT NOT NULL,
    gross_income        REAL,
    regime              TEXT NOT NULL,
    pandemic_period     INTEGER NOT NULL,
    post_2020           INTEGER NOT NULL,
    income_decile       INTEGER,
    estimated_savings   REAL,
    excess_savings      REAL
);

CREATE TABLE IF NOT EXISTS yearly (
    survey_year             INTEGER PRIMARY KEY,
    avg_income              REAL,
    avg_savings             REAL,
    avg_excess_savings      REAL,
    counterfactual_savings  REAL,
    cumulative_excess       REAL,
    n_households            INTEGER NOT NULL,
    n_with_income           INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS decile_stats (
    income_decile  INTEGER PRIMARY KEY,
    avg_income     REAL NOT NULL,
    avg_savings    REAL NOT NULL,
    avg_excess     REAL NOT NULL,
    n_households   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scaling (
    id                 INTEGER PRIMARY KEY CHECK (id = 1),
    insufficient       INTEGER NOT NULL,
    n                  INTEGER,
    sample_mean_excess TEXT,
    national_total     TEXT,
    benchmark_total    TEXT,
    scaling_factor     TEXT
);

CREATE TABLE IF NOT EXISTS waves (
    wave         TEXT PRIMARY KEY,
    survey_year  INTEGER NOT NULL,
    n_rows       INTEGER NOT NULL,
    n_cols       INTEGER NOT NULL,
    with_income  INTEGER NOT NULL,
    skipped      INTEGER NOT NULL,
    err          TEXT
);

CREATE TABLE IF NOT EXISTS manifest (
    wave           TEXT NOT NULL,
    income_column  TEXT NOT NULL,
    PRIMARY KEY (wave, income_column)
);

CREATE INDEX IF NOT EXISTS idx_panel_year ON panel(survey_year);
`

// OpenStore opens or creates the artifact database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if e := os.MkdirAll(dir, 0o750); e != nil {
			return nil, fmt.Errorf("creating store dir: %w", e)
		}
	}

	db, e := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if e != nil {
		return nil, fmt.Errorf("opening store: %w", e)
	}

	if _, e = db.Exec(schemaSQL); e != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", e)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult replaces the stored artifacts with res. One transaction, so
// the dashboard never sees half a run.
func (s *Store) SaveResult(res *Result) error {
	tx, e := s.db.Begin()
	if e != nil {
		return e
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"panel", "yearly", "decile_stats", "scaling", "waves", "manifest"} {
		if _, e = tx.Exec("DELETE FROM " + table); e != nil {
			return e
		}
	}

	if e = savePanel(tx, res.Panel); e != nil {
		return e
	}

	if e = saveYearly(tx, res.Yearly); e != nil {
		return e
	}

	if e = saveDeciles(tx, res.Deciles); e != nil {
		return e
	}

	if e = saveScaling(tx, res.Scaling); e != nil {
		return e
	}

	if e = saveWaves(tx, res.Waves, res.Manifest); e != nil {
		return e
	}

	return tx.Commit()
}

func savePanel(tx *sql.Tx, p *Panel) error {
	stmt, e := tx.Prepare(`INSERT INTO panel
		(household_id, survey_year, survey_wave, gross_income, regime,
		 pandemic_period, post_2020, income_decile, estimated_savings, excess_savings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if e != nil {
		return e
	}
	defer func() { _ = stmt.Close() }()

	for ind := 0; ind < p.RowCount(); ind++ {
		var dec any
		if p.Decile[ind] > 0 {
			dec = p.Decile[ind]
		}

		_, e = stmt.Exec(p.HouseholdID[ind], p.Year[ind], p.Wave[ind],
			nullable(p.GrossIncome, ind), p.Regime[ind].String(),
			boolInt(p.Pandemic[ind]), boolInt(p.Post2020[ind]), dec,
			nullable(p.Savings, ind), nullable(p.Excess, ind))
		if e != nil {
			return e
		}
	}

	return nil
}

func saveYearly(tx *sql.Tx, y *Yearly) error {
	for ind := 0; ind < y.RowCount(); ind++ {
		_, e := tx.Exec(`INSERT INTO yearly
			(survey_year, avg_income, avg_savings, avg_excess_savings,
			 counterfactual_savings, cumulative_excess, n_households, n_with_income)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			y.Year[ind], nullable(y.MeanIncome, ind), nullable(y.MeanSavings, ind),
			nullable(y.MeanExcess, ind), nullable(y.Counterfactual, ind),
			nullable(y.CumExcess, ind), y.NHouseholds[ind], y.NWithIncome[ind])
		if e != nil {
			return e
		}
	}

	return nil
}

func saveDeciles(tx *sql.Tx, ds *DecileStats) error {
	if ds == nil {
		return nil
	}

	for ind := 0; ind < len(ds.Decile); ind++ {
		_, e := tx.Exec(`INSERT INTO decile_stats
			(income_decile, avg_income, avg_savings, avg_excess, n_households)
			VALUES (?, ?, ?, ?, ?)`,
			ds.Decile[ind], ds.MeanIncome[ind], ds.MeanSavings[ind], ds.MeanExcess[ind], ds.N[ind])
		if e != nil {
			return e
		}
	}

	return nil
}

func saveScaling(tx *sql.Tx, sc *Scaling) error {
	if sc.Insufficient {
		_, e := tx.Exec(`INSERT INTO scaling (id, insufficient) VALUES (1, 1)`)
		return e
	}

	_, e := tx.Exec(`INSERT INTO scaling
		(id, insufficient, n, sample_mean_excess, national_total, benchmark_total, scaling_factor)
		VALUES (1, 0, ?, ?, ?, ?, ?)`,
		sc.N, sc.SampleMean.String(), sc.NationalTotal.String(),
		sc.Benchmark.String(), sc.Factor.String())

	return e
}

func saveWaves(tx *sql.Tx, reports []WaveReport, man Manifest) error {
	for _, r := range reports {
		_, e := tx.Exec(`INSERT INTO waves
			(wave, survey_year, n_rows, n_cols, with_income, skipped, err)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Label, r.Year, r.Rows, r.Cols, r.WithIncome, boolInt(r.Skipped), r.Err)
		if e != nil {
			return e
		}
	}

	for wave, cols := range man {
		for _, nm := range cols {
			if _, e := tx.Exec(`INSERT INTO manifest (wave, income_column) VALUES (?, ?)`, wave, nm); e != nil {
				return e
			}
		}
	}

	return nil
}
