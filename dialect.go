package nmg

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib" // register pgx driver
)

// All code interacting with a database is here. Waves can be read from a
// ClickHouse or Postgres table and the output tables written back; the
// sqlite artifact store lives in store.go.

const (
	ch = "clickhouse"
	pg = "postgres"
)

type Dialect struct {
	db      *sql.DB
	dialect string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)
	if dialect != ch && dialect != pg {
		return nil, fmt.Errorf("unsupported dialect %s", dialect)
	}

	return &Dialect{db: db, dialect: dialect}, nil
}

// NewConnect opens a database/sql handle for driver ch or pg.
// ClickHouse assumes port 9000 on host.
func NewConnect(driver, host, user, password, database string) (*sql.DB, error) {
	switch strings.ToLower(driver) {
	case ch:
		db := clickhouse.OpenDB(
			&clickhouse.Options{
				Addr: []string{host + ":9000"},
				Auth: clickhouse.Auth{
					Database: database,
					Username: user,
					Password: password,
				},
				DialTimeout: 300 * time.Second,
				Compression: &clickhouse.Compression{
					Method: clickhouse.CompressionLZ4,
				},
			})

		return db, db.Ping()
	case pg:
		db, e := sql.Open("pgx", fmt.Sprintf("postgres://%s:%s@%s/%s", user, password, host, database))
		if e != nil {
			return nil, e
		}

		return db, db.Ping()
	default:
		return nil, fmt.Errorf("unsupported driver %s", driver)
	}
}

// placeholders builds the values clause for n columns, row rows0 on:
// ClickHouse takes ?, Postgres $1...
func (d *Dialect) placeholders(n int) string {
	ph := make([]string, n)
	for ind := 0; ind < n; ind++ {
		ph[ind] = "?"
		if d.dialect == pg {
			ph[ind] = fmt.Sprintf("$%d", ind+1)
		}
	}

	return strings.Join(ph, ",")
}

// Query reads an arbitrary-width result into a RawTable. Every value is
// stringified; NULLs become missing cells.
func (d *Dialect) Query(qry string) (*RawTable, error) {
	rows, e := d.db.Query(qry)
	if e != nil {
		return nil, e
	}
	defer func() { _ = rows.Close() }()

	names, e := rows.Columns()
	if e != nil {
		return nil, e
	}

	cols := make([][]string, len(names))
	vals := make([]any, len(names))
	ptrs := make([]any, len(names))
	for ind := 0; ind < len(names); ind++ {
		ptrs[ind] = &vals[ind]
	}

	for rows.Next() {
		if e = rows.Scan(ptrs...); e != nil {
			return nil, e
		}

		for ind := 0; ind < len(names); ind++ {
			cols[ind] = append(cols[ind], cellString(vals[ind]))
		}
	}

	if e = rows.Err(); e != nil {
		return nil, e
	}

	return NewRawTable(names, cols)
}

func cellString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	case *float64:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", *v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DBLoader resolves waves through their configured queries.
type DBLoader struct {
	Dialect *Dialect
}

func (l *DBLoader) Load(w Wave) (*RawTable, error) {
	if w.Query == "" {
		return nil, fmt.Errorf("wave %s has no query", w.Label)
	}

	return l.Dialect.Query(w.Query)
}

// column type names per dialect
func (d *Dialect) typeNames() (str, num, nullNum, intx, nullInt string) {
	if d.dialect == ch {
		return "String", "Float64", "Nullable(Float64)", "Int32", "Nullable(Int32)"
	}

	return "TEXT", "DOUBLE PRECISION", "DOUBLE PRECISION", "INTEGER", "INTEGER"
}

func (d *Dialect) createTable(table, fields string) error {
	if _, e := d.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); e != nil {
		return e
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, fields)
	if d.dialect == ch {
		create += " ENGINE = MergeTree ORDER BY tuple()"
	}

	_, e := d.db.Exec(create)

	return e
}

// SavePanel writes the canonical observation table, replacing any prior
// version.
func (d *Dialect) SavePanel(table string, p *Panel) error {
	str, _, nullNum, intx, nullInt := d.typeNames()
	fields := fmt.Sprintf(`household_id %s, survey_year %s, survey_wave %s, gross_income %s,
regime %s, pandemic_period %s, post_2020 %s, income_decile %s, estimated_savings %s, excess_savings %s`,
		str, intx, str, nullNum, str, intx, intx, nullInt, nullNum, nullNum)

	if e := d.createTable(table, fields); e != nil {
		return e
	}

	qry := fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, d.placeholders(10))
	for ind := 0; ind < p.RowCount(); ind++ {
		var dec any
		if p.Decile[ind] > 0 {
			dec = p.Decile[ind]
		}

		_, e := d.db.Exec(qry, p.HouseholdID[ind], p.Year[ind], p.Wave[ind],
			nullable(p.GrossIncome, ind), p.Regime[ind].String(),
			boolInt(p.Pandemic[ind]), boolInt(p.Post2020[ind]), dec,
			nullable(p.Savings, ind), nullable(p.Excess, ind))
		if e != nil {
			return fmt.Errorf("insert into %s: %w", table, e)
		}
	}

	return nil
}

// SaveYearly writes the yearly aggregate table, replacing any prior
// version.
func (d *Dialect) SaveYearly(table string, y *Yearly) error {
	_, _, nullNum, intx, _ := d.typeNames()
	fields := fmt.Sprintf(`survey_year %s, avg_income %s, avg_savings %s, avg_excess_savings %s,
counterfactual_savings %s, cumulative_excess %s, n_households %s, n_with_income %s`,
		intx, nullNum, nullNum, nullNum, nullNum, nullNum, intx, intx)

	if e := d.createTable(table, fields); e != nil {
		return e
	}

	qry := fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, d.placeholders(8))
	for ind := 0; ind < y.RowCount(); ind++ {
		_, e := d.db.Exec(qry, y.Year[ind], nullable(y.MeanIncome, ind),
			nullable(y.MeanSavings, ind), nullable(y.MeanExcess, ind),
			nullable(y.Counterfactual, ind), nullable(y.CumExcess, ind),
			y.NHouseholds[ind], y.NWithIncome[ind])
		if e != nil {
			return fmt.Errorf("insert into %s: %w", table, e)
		}
	}

	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
