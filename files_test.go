package nmg

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSVLoader(t *testing.T) {
	dir := t.TempDir()
	raw := "subsid,qincomefreev2_n_a,qincomefreev2_n_b\nh1,100,200\nh2,300\nh3,,50\n"
	assert.Nil(t, os.WriteFile(filepath.Join(dir, "2019.csv"), []byte(raw), 0o600))

	ld := &CSVLoader{Dir: dir}
	tbl, e := ld.Load(Wave{Label: "2019", Year: 2019})
	assert.Nil(t, e)

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())

	// h2's row is short: the trailing cell is missing, not an error
	col, e := tbl.Column("qincomefreev2_n_b")
	assert.Nil(t, e)
	assert.Equal(t, []string{"200", "", "50"}, col)
}

func TestCSVLoaderMissingFile(t *testing.T) {
	ld := &CSVLoader{Dir: t.TempDir()}
	_, e := ld.Load(Wave{Label: "2040", Year: 2040})
	assert.NotNil(t, e)
}

func TestWritePanelCSV(t *testing.T) {
	params, ld := pipelineScenario(t)
	res, e := NewPipeline(params, ld, nil).Run()
	assert.Nil(t, e)

	fileName := filepath.Join(t.TempDir(), "panel.csv")
	assert.Nil(t, WritePanelCSV(fileName, res.Panel))

	fl, e := os.Open(fileName)
	assert.Nil(t, e)
	defer func() { _ = fl.Close() }()

	recs, e := csv.NewReader(fl).ReadAll()
	assert.Nil(t, e)
	assert.Equal(t, 5, len(recs))
	assert.Equal(t, "household_id", recs[0][0])

	// h1 in 2020: income, regime, decile, savings, excess
	assert.Equal(t, []string{"h1", "2020", "2020", "20000.00", "pandemic", "1", "1", "1", "3600.00", "2000.00"}, recs[3])

	// h2's nulls stay empty cells, its decile unassigned
	assert.Equal(t, "h2", recs[2][0])
	assert.Equal(t, "", recs[2][3])
	assert.Equal(t, "", recs[2][7])
	assert.Equal(t, "", recs[2][8])
}

func TestWriteYearlyCSV(t *testing.T) {
	params, ld := pipelineScenario(t)
	res, e := NewPipeline(params, ld, nil).Run()
	assert.Nil(t, e)

	fileName := filepath.Join(t.TempDir(), "yearly.csv")
	assert.Nil(t, WriteYearlyCSV(fileName, res.Yearly))

	fl, e := os.Open(fileName)
	assert.Nil(t, e)
	defer func() { _ = fl.Close() }()

	recs, e := csv.NewReader(fl).ReadAll()
	assert.Nil(t, e)
	assert.Equal(t, 4, len(recs))

	// 2022: cumulative excess 2400, counterfactual null
	assert.Equal(t, "2022", recs[3][0])
	assert.Equal(t, "2400.00", recs[3][5])
	assert.Equal(t, "", recs[3][4])
}
