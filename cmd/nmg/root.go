package main

import (
	"log/slog"
	"os"

	"github.com/invertedv/nmg"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nmg",
	Short: "UK pandemic excess-savings estimate from the NMG household survey",
	Long: `nmg reconciles the Bank of England NMG household survey extracts into one
longitudinal panel, estimates household savings with regime-dependent rate
proxies, and sizes the pandemic excess against the national benchmark.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.PersistentFlags().String("data-dir", "data", "directory with the wave CSV extracts")
	rootCmd.PersistentFlags().String("store", "nmg.db", "sqlite artifact file ('' to disable)")
	rootCmd.PersistentFlags().Int64("households", 28_000_000, "national household count")
	rootCmd.PersistentFlags().Float64("benchmark", 200e9, "external benchmark total, pounds")
}

func logger() *slog.Logger {
	lvl := slog.LevelInfo
	if flagVerbose {
		lvl = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func params(cmd *cobra.Command) (nmg.Params, error) {
	cfgFile := flagConfig
	if cfgFile == "" {
		if _, err := os.Stat("nmg.yaml"); err == nil {
			cfgFile = "nmg.yaml"
		}
	}

	return nmg.LoadParams(cfgFile, cmd.Flags())
}

// loader picks the wave source: a database when one is configured, the
// CSV extracts otherwise.
func loader(p nmg.Params) (nmg.Loader, func(), error) {
	if p.DB.Driver == "" {
		return &nmg.CSVLoader{Dir: p.DataDir}, func() {}, nil
	}

	db, err := nmg.NewConnect(p.DB.Driver, p.DB.Host, p.DB.User, p.DB.Password, p.DB.Database)
	if err != nil {
		return nil, nil, err
	}

	d, err := nmg.NewDialect(p.DB.Driver, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return &nmg.DBLoader{Dialect: d}, func() { _ = db.Close() }, nil
}
