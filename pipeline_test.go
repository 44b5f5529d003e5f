package nmg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// pipelineScenario is the worked example used across the pipeline, files
// and store tests: one household earning £20,000 in 2016, 2020 and 2022,
// a second household with no reported income in 2016, and a wave the
// loader cannot serve.
func pipelineScenario(t *testing.T) (Params, Loader) {
	w2016 := rawTable(t,
		[]string{"subsid", "qincomefreev2_n_a"},
		[][]string{{"h1", "h2"}, {"20000", ""}})
	w2020 := rawTable(t,
		[]string{"subsid", "qincomefreev2_n_a"},
		[][]string{{"h1"}, {"20000"}})
	w2022 := rawTable(t,
		[]string{"subsid", "qincomefreev2_n_a"},
		[][]string{{"h1"}, {"20000"}})

	params := DefaultParams()
	params.Waves = []Wave{
		{Label: "2016", Year: 2016},
		{Label: "2020", Year: 2020},
		{Label: "2021", Year: 2021},
		{Label: "2022", Year: 2022},
	}
	params.MinDecileObs = 1
	params.MinBreakdownObs = 1
	params.Households = 1000
	params.Benchmark = 2.4e6

	ld := &memLoader{tables: map[string]*RawTable{
		"2016": w2016, "2020": w2020, "2022": w2022,
	}}

	return params, ld
}

func TestPipelineRun(t *testing.T) {
	params, ld := pipelineScenario(t)

	res, e := NewPipeline(params, ld, nil).Run()
	assert.Nil(t, e)

	// baseline: the 2016 window mean of 20000 * 8%
	assert.InDelta(t, 1600, res.Baseline, 1e-9)

	p := res.Panel
	assert.Equal(t, 4, p.RowCount())

	// h1's excess: 0 in 2016, 3600-1600 in 2020, 2000-1600 in 2022
	expect := []float64{0, 2000, 400}
	rows := []int{0, 2, 3}
	for ind := 0; ind < 3; ind++ {
		x, ok := p.Excess.Element(rows[ind])
		assert.True(t, ok)
		assert.InDelta(t, expect[ind], x, 1e-9)
	}

	// h2 reported nothing: null all the way through
	_, ok := p.GrossIncome.Element(1)
	assert.False(t, ok)
	_, ok = p.Savings.Element(1)
	assert.False(t, ok)
	_, ok = p.Excess.Element(1)
	assert.False(t, ok)
	assert.Equal(t, 0, p.Decile[1])

	y := res.Yearly
	assert.Equal(t, []int{2016, 2020, 2022}, y.Year)
	assert.Equal(t, []int{2, 1, 1}, y.NHouseholds)
	assert.Equal(t, []int{1, 1, 1}, y.NWithIncome)

	cum, _ := y.CumExcess.Element(2)
	assert.InDelta(t, 2400, cum, 1e-9)

	// a single pre-pandemic year cannot support a trend
	assert.Equal(t, 0, y.Counterfactual.ValidCount())

	// mean excess 1200 over 1000 households against a £2.4m benchmark
	assert.False(t, res.Scaling.Insufficient)
	assert.Equal(t, "1200", res.Scaling.SampleMean.String())
	assert.Equal(t, "1200000", res.Scaling.NationalTotal.String())
	assert.Equal(t, "2", res.Scaling.Factor.String())

	assert.NotNil(t, res.Deciles)
	assert.Equal(t, []int{1}, res.Deciles.Decile)
	assert.Equal(t, []int{2}, res.Deciles.N)

	assert.Equal(t, 4, len(res.Waves))
	assert.True(t, res.Waves[2].Skipped)
	assert.Equal(t, []string{"qincomefreev2_n_a"}, res.Manifest["2016"])
}

func TestPipelineRerunIdentical(t *testing.T) {
	params, ld := pipelineScenario(t)

	r1, e := NewPipeline(params, ld, nil).Run()
	assert.Nil(t, e)

	r2, e := NewPipeline(params, ld, nil).Run()
	assert.Nil(t, e)

	assert.Equal(t, r1.Baseline, r2.Baseline)
	assert.Equal(t, r1.Panel, r2.Panel)
	assert.Equal(t, r1.Yearly, r2.Yearly)
	assert.Equal(t, r1.Scaling, r2.Scaling)
}

func TestPipelineNoWaves(t *testing.T) {
	params, _ := pipelineScenario(t)
	ld := &memLoader{tables: map[string]*RawTable{}}

	_, e := NewPipeline(params, ld, nil).Run()
	assert.NotNil(t, e)
}

func TestPipelineBadRates(t *testing.T) {
	params, ld := pipelineScenario(t)
	params.Rates = map[string]float64{"lockdown": 0.5}

	_, e := NewPipeline(params, ld, nil).Run()
	assert.NotNil(t, e)
}
