package nmg

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Params is every policy choice and constant the pipeline depends on.
// Nothing here is baked into the computation code: the savings-rate table,
// the baseline window and its fallback, the national household count and
// the benchmark total are all substitutable, by tests and by config.
type Params struct {
	// where the raw wave extracts live (CSV loader)
	DataDir string `koanf:"data_dir"`
	// sqlite artifact store the dashboard reads; empty disables it
	Store string `koanf:"store"`

	IDColumn    string `koanf:"id_column"`
	IncomeMatch string `koanf:"income_match"`
	Waves       []Wave `koanf:"waves"`

	Rates map[string]float64 `koanf:"rates"`

	BaselineFrom    int     `koanf:"baseline_from"`
	BaselineTo      int     `koanf:"baseline_to"`
	BaselineDefault float64 `koanf:"baseline_default"`

	MinDecileObs    int `koanf:"min_decile_obs"`
	BreakdownFrom   int `koanf:"breakdown_from"`
	MinBreakdownObs int `koanf:"min_breakdown_obs"`

	Households int64   `koanf:"households"`
	Benchmark  float64 `koanf:"benchmark"`

	DB DBParams `koanf:"db"`
}

// DBParams selects a database wave source instead of CSV extracts.
type DBParams struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
}

// DefaultParams mirrors the published survey: yearly waves 2011-2024 plus
// the two half-year 2025 waves, the qincomefreev2_n_ income sources, the
// 2016-2019 baseline window, 28m UK households and the Bank of England's
// £200bn benchmark.
func DefaultParams() Params {
	var waves []Wave
	for yr := 2011; yr <= 2024; yr++ {
		waves = append(waves, Wave{Label: fmt.Sprintf("%d", yr), Year: yr})
	}
	waves = append(waves,
		Wave{Label: "March 2025", Year: 2025},
		Wave{Label: "September 2025", Year: 2025})

	return Params{
		DataDir:     "data",
		Store:       "nmg.db",
		IDColumn:    "subsid",
		IncomeMatch: "qincomefreev2_n_",
		Waves:       waves,
		Rates: map[string]float64{
			RegimePre.String():      0.08,
			RegimePandemic.String(): 0.18,
			RegimePost.String():     0.10,
		},
		BaselineFrom:    2016,
		BaselineTo:      2019,
		BaselineDefault: 2000,
		MinDecileObs:    10,
		BreakdownFrom:   2020,
		MinBreakdownObs: 100,
		Households:      28_000_000,
		Benchmark:       200e9,
	}
}

// RateTable converts the configured regime-name keyed rates.
func (p Params) RateTable() (RateTable, error) {
	rt := make(RateTable)
	for nm, rate := range p.Rates {
		var r Regime
		switch nm {
		case RegimePre.String():
			r = RegimePre
		case RegimePandemic.String():
			r = RegimePandemic
		case RegimePost.String():
			r = RegimePost
		default:
			return nil, fmt.Errorf("unknown regime %q in rates", nm)
		}

		rt[r] = rate
	}

	return rt, rt.Validate()
}

// defaultsMap flattens DefaultParams for the base configuration layer. A
// waves list in the config file replaces the default list wholesale.
func defaultsMap() map[string]interface{} {
	def := DefaultParams()

	waves := make([]map[string]interface{}, len(def.Waves))
	for ind, w := range def.Waves {
		waves[ind] = map[string]interface{}{"label": w.Label, "year": w.Year}
	}

	return map[string]interface{}{
		"data_dir":          def.DataDir,
		"store":             def.Store,
		"id_column":         def.IDColumn,
		"income_match":      def.IncomeMatch,
		"waves":             waves,
		"rates":             def.Rates,
		"baseline_from":     def.BaselineFrom,
		"baseline_to":       def.BaselineTo,
		"baseline_default":  def.BaselineDefault,
		"min_decile_obs":    def.MinDecileObs,
		"breakdown_from":    def.BreakdownFrom,
		"min_breakdown_obs": def.MinBreakdownObs,
		"households":        def.Households,
		"benchmark":         def.Benchmark,
	}
}

// LoadParams layers configuration, lowest to highest precedence: built-in
// defaults, the YAML config file (if any), NMG_-prefixed environment
// variables, then explicitly set command-line flags.
func LoadParams(cfgFile string, flags *pflag.FlagSet) (Params, error) {
	var cfg Params

	k := koanf.New(".")

	if e := k.Load(confmap.Provider(defaultsMap(), "."), nil); e != nil {
		return cfg, fmt.Errorf("loading defaults: %w", e)
	}

	if cfgFile != "" {
		if e := k.Load(file.Provider(cfgFile), yaml.Parser()); e != nil {
			return cfg, fmt.Errorf("reading config %s: %w", cfgFile, e)
		}
	}

	if e := k.Load(env.Provider("NMG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "NMG_"))
	}), nil); e != nil {
		return cfg, fmt.Errorf("loading env: %w", e)
	}

	if flags != nil {
		e := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}

			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil)
		if e != nil {
			return cfg, fmt.Errorf("loading flags: %w", e)
		}
	}

	if e := k.Unmarshal("", &cfg); e != nil {
		return cfg, fmt.Errorf("decoding config: %w", e)
	}

	return cfg, nil
}
