package main

import (
	"fmt"

	"github.com/invertedv/nmg"
	"github.com/spf13/cobra"
)

var (
	flagOutPanel  string
	flagOutYearly string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and persist the outputs",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagOutPanel, "out-panel", "", "also write the panel as CSV")
	runCmd.Flags().StringVar(&flagOutYearly, "out-yearly", "", "also write the yearly table as CSV")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}

	lg := logger()

	ld, closeLd, err := loader(p)
	if err != nil {
		return err
	}
	defer closeLd()

	res, err := nmg.NewPipeline(p, ld, lg).Run()
	if err != nil {
		return err
	}

	if p.Store != "" {
		st, err := nmg.OpenStore(p.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err = st.SaveResult(res); err != nil {
			return err
		}

		lg.Info("artifacts saved", "store", p.Store)
	}

	if flagOutPanel != "" {
		if err = nmg.WritePanelCSV(flagOutPanel, res.Panel); err != nil {
			return err
		}
	}

	if flagOutYearly != "" {
		if err = nmg.WriteYearlyCSV(flagOutYearly, res.Yearly); err != nil {
			return err
		}
	}

	printScaling(res)

	return nil
}

func printScaling(res *nmg.Result) {
	fmt.Printf("baseline: £%.0f per household per year\n", res.Baseline)

	sc := res.Scaling
	if sc.Insufficient {
		fmt.Println("national total: not enough post-2020 data to estimate")
		return
	}

	fmt.Printf("sample mean excess (2020+): £%s per household (n=%d)\n", sc.SampleMean, sc.N)
	fmt.Printf("estimated national excess:  £%s\n", sc.NationalTotal)
	fmt.Printf("benchmark:                  £%s (factor %sx)\n", sc.Benchmark, sc.Factor)
}
