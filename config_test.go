package nmg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	// 2011-2024 yearly plus the two half-year 2025 waves
	assert.Equal(t, 16, len(p.Waves))
	assert.Equal(t, "2011", p.Waves[0].Label)
	assert.Equal(t, 2025, p.Waves[15].Year)

	assert.Equal(t, "subsid", p.IDColumn)
	assert.Equal(t, 0.18, p.Rates["pandemic"])
	assert.Equal(t, int64(28_000_000), p.Households)
}

func TestParamsRateTable(t *testing.T) {
	p := DefaultParams()

	rt, e := p.RateTable()
	assert.Nil(t, e)
	assert.Equal(t, 0.08, rt[RegimePre])
	assert.Equal(t, 0.10, rt[RegimePost])

	p.Rates = map[string]float64{"lockdown": 0.5}
	_, e = p.RateTable()
	assert.NotNil(t, e)
}

func TestLoadParamsFile(t *testing.T) {
	cfg := `
baseline_default: 1500
households: 100
db:
  driver: postgres
  host: dbhost
waves:
  - label: "2016"
    year: 2016
`
	fileName := filepath.Join(t.TempDir(), "nmg.yaml")
	assert.Nil(t, os.WriteFile(fileName, []byte(cfg), 0o600))

	p, e := LoadParams(fileName, nil)
	assert.Nil(t, e)

	assert.Equal(t, 1500.0, p.BaselineDefault)
	assert.Equal(t, int64(100), p.Households)
	assert.Equal(t, "postgres", p.DB.Driver)
	assert.Equal(t, []Wave{{Label: "2016", Year: 2016}}, p.Waves)

	// untouched keys keep their defaults
	assert.Equal(t, "qincomefreev2_n_", p.IncomeMatch)
}

func TestLoadParamsEnv(t *testing.T) {
	t.Setenv("NMG_ID_COLUMN", "hhid")

	p, e := LoadParams("", nil)
	assert.Nil(t, e)
	assert.Equal(t, "hhid", p.IDColumn)
}

func TestLoadParamsFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data-dir", "data", "")
	fs.Float64("benchmark", 200e9, "")
	assert.Nil(t, fs.Set("data-dir", "/srv/waves"))

	p, e := LoadParams("", fs)
	assert.Nil(t, e)

	// only flags the user actually set override
	assert.Equal(t, "/srv/waves", p.DataDir)
	assert.Equal(t, 200e9, p.Benchmark)
}

func TestLoadParamsPrecedence(t *testing.T) {
	cfg := "baseline_default: 1500\n"
	fileName := filepath.Join(t.TempDir(), "nmg.yaml")
	assert.Nil(t, os.WriteFile(fileName, []byte(cfg), 0o600))

	t.Setenv("NMG_BASELINE_DEFAULT", "1800")

	p, e := LoadParams(fileName, nil)
	assert.Nil(t, e)
	assert.Equal(t, 1800.0, p.BaselineDefault)
}

func TestLoadParamsMissingFile(t *testing.T) {
	_, e := LoadParams("/no/such/file.yaml", nil)
	assert.NotNil(t, e)
}
