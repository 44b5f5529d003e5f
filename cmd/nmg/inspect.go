package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/invertedv/nmg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the waves and report schema and income coverage",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}

	ld, closeLd, err := loader(p)
	if err != nil {
		return err
	}
	defer closeLd()

	res, err := nmg.NewPipeline(p, ld, logger()).Run()
	if err != nil {
		return err
	}

	printWaves(res.Waves)
	printCoverage(nmg.Coverage(res.Yearly))

	return nil
}

func printWaves(waves []nmg.WaveReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Wave", "Year", "Rows", "Cols", "Income Cols", "With Income", "Status"})

	for _, w := range waves {
		status := "ok"
		if w.Skipped {
			status = "skipped: " + w.Err
		}

		t.AppendRow(table.Row{w.Label, w.Year, w.Rows, w.Cols,
			strings.Join(w.IncomeCols, ", "), w.WithIncome, status})
	}

	t.Render()
}

func printCoverage(rows []nmg.CoverageRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Year", "Households", "With Income", "Coverage"})

	for _, r := range rows {
		t.AppendRow(table.Row{r.Year, r.NHouseholds, r.NWithIncome,
			fmt.Sprintf("%.1f%%", r.PctCoverage)})
	}

	t.Render()
}
