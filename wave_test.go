package nmg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// memLoader serves canned tables keyed by wave label.
type memLoader struct {
	tables map[string]*RawTable
}

func (l *memLoader) Load(w Wave) (*RawTable, error) {
	tbl, ok := l.tables[w.Label]
	if !ok {
		return nil, fmt.Errorf("wave %s not found", w.Label)
	}

	return tbl, nil
}

func testWaves(t *testing.T) ([]Wave, *memLoader) {
	w2016 := rawTable(t,
		[]string{"subsid", "qincomefreev2_n_a"},
		[][]string{{"h1", "h2"}, {"20000", ""}})

	// different schema, extra income source
	w2020 := rawTable(t,
		[]string{"subsid", "qincomefreev2_n_a", "qincomefreev2_n_b", "extra"},
		[][]string{{"h1", "h3"}, {"15000", "0"}, {"5000", ""}, {"x", "y"}})

	waves := []Wave{
		{Label: "2016", Year: 2016},
		{Label: "2020", Year: 2020},
	}

	return waves, &memLoader{tables: map[string]*RawTable{"2016": w2016, "2020": w2020}}
}

func TestNewRawTable(t *testing.T) {
	_, e := NewRawTable([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	assert.NotNil(t, e)

	_, e = NewRawTable([]string{"a", "a"}, [][]string{{"1"}, {"2"}})
	assert.NotNil(t, e)

	_, e = NewRawTable([]string{"a"}, [][]string{{"1"}, {"2"}})
	assert.NotNil(t, e)
}

func TestReconcile(t *testing.T) {
	waves, ld := testWaves(t)

	p, man, reports, e := Reconcile(waves, ld, "subsid", "qincomefreev2_n_", nil)
	assert.Nil(t, e)
	assert.Equal(t, 4, p.RowCount())
	assert.Equal(t, []string{"h1", "h2", "h1", "h3"}, p.HouseholdID)
	assert.Equal(t, []int{2016, 2016, 2020, 2020}, p.Year)

	// per-wave income columns recorded once, at load
	assert.Equal(t, []string{"qincomefreev2_n_a"}, man["2016"])
	assert.Equal(t, []string{"qincomefreev2_n_a", "qincomefreev2_n_b"}, man["2020"])

	x, ok := p.GrossIncome.Element(0)
	assert.True(t, ok)
	assert.Equal(t, 20000.0, x)

	// h2 reported nothing: null, never zero
	_, ok = p.GrossIncome.Element(1)
	assert.False(t, ok)

	x, _ = p.GrossIncome.Element(2)
	assert.Equal(t, 20000.0, x)

	// h3 reported a zero source: observed zero
	x, ok = p.GrossIncome.Element(3)
	assert.True(t, ok)
	assert.Equal(t, 0.0, x)

	assert.Equal(t, 2, len(reports))
	assert.Equal(t, 2, reports[0].Rows)
	assert.Equal(t, 1, reports[0].WithIncome)
}

func TestReconcileSkipsFailedWave(t *testing.T) {
	waves, ld := testWaves(t)
	waves = append(waves, Wave{Label: "2021", Year: 2021})

	p, _, reports, e := Reconcile(waves, ld, "subsid", "qincomefreev2_n_", nil)
	assert.Nil(t, e)
	assert.Equal(t, 4, p.RowCount())

	assert.Equal(t, 3, len(reports))
	assert.True(t, reports[2].Skipped)
	assert.NotEqual(t, "", reports[2].Err)
}

func TestReconcileNoWavesLoaded(t *testing.T) {
	ld := &memLoader{tables: map[string]*RawTable{}}

	_, _, _, e := Reconcile([]Wave{{Label: "2016", Year: 2016}}, ld, "subsid", "inc", nil)
	assert.NotNil(t, e)
}

func TestReconcileNoIncomeColumns(t *testing.T) {
	tbl := rawTable(t, []string{"subsid", "age"}, [][]string{{"h1"}, {"40"}})
	ld := &memLoader{tables: map[string]*RawTable{"2017": tbl}}

	p, man, _, e := Reconcile([]Wave{{Label: "2017", Year: 2017}}, ld, "subsid", "qincomefreev2_n_", nil)
	assert.Nil(t, e)
	assert.Equal(t, 0, p.GrossIncome.ValidCount())
	assert.Equal(t, 0, len(man["2017"]))
}

func TestReconcileMissingIDColumn(t *testing.T) {
	tbl := rawTable(t, []string{"inc"}, [][]string{{"10", "20"}})
	ld := &memLoader{tables: map[string]*RawTable{"2018": tbl}}

	p, _, _, e := Reconcile([]Wave{{Label: "2018", Year: 2018}}, ld, "subsid", "inc", nil)
	assert.Nil(t, e)
	assert.Equal(t, []string{"1", "2"}, p.HouseholdID)
}
