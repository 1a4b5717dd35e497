package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/powerstats"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		columns  powerstats.Columns
	)

	cmd := &cobra.Command{
		Use:          "powerstats",
		Short:        "Summarise and plot power meter logs",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().IntVar(&columns.Voltage, "voltage-col", powerstats.DefaultColumns.Voltage, "zero-based voltage column")
	cmd.PersistentFlags().IntVar(&columns.Current, "current-col", powerstats.DefaultColumns.Current, "zero-based current column")

	newLogger := func(c *cobra.Command) *infra.Logger {
		return infra.NewLeveledLogger(c.ErrOrStderr(), "powerstats", logLevel)
	}

	cmd.AddCommand(summaryCmd(newLogger, &columns), compareCmd(newLogger, &columns))
	return cmd
}

func summaryCmd(newLogger func(*cobra.Command) *infra.Logger, columns *powerstats.Columns) *cobra.Command {
	var (
		outDir string
		noPlot bool
	)

	c := &cobra.Command{
		Use:   "summary FILE",
		Short: "Write <name>_summary.txt and <name>_plot.png next to a measurement log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)
			defer logger.Sync()

			path := args[0]
			samples, err := powerstats.ReadFile(path, *columns)
			if err != nil {
				return err
			}
			summary, err := powerstats.Summarize(samples)
			if err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = filepath.Dir(path)
			}
			name := baseName(path)

			summaryPath := filepath.Join(dir, name+"_summary.txt")
			if err := writeSummaryFile(summaryPath, summary); err != nil {
				return err
			}
			logger.Printf(cmd.Context(), "wrote %s", summaryPath)
			fmt.Fprintln(cmd.OutOrStdout(), summaryPath)

			if noPlot {
				return nil
			}
			plotPath := filepath.Join(dir, name+"_plot.png")
			err = powerstats.PlotPower(plotPath,
				powerstats.PlotOptions{Title: "Time series of power consumption"},
				powerstats.Series{Name: "Watt", Watts: summary.Watts})
			if err != nil {
				return err
			}
			logger.Printf(cmd.Context(), "wrote %s", plotPath)
			fmt.Fprintln(cmd.OutOrStdout(), plotPath)
			return nil
		},
	}

	c.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (defaults to the log's directory)")
	c.Flags().BoolVar(&noPlot, "no-plot", false, "skip the power plot")
	return c
}

func compareCmd(newLogger func(*cobra.Command) *infra.Logger, columns *powerstats.Columns) *cobra.Command {
	var (
		outDir string
		yMax   float64
	)

	c := &cobra.Command{
		Use:   "compare BASELINE OPTIMIZED TITLE",
		Short: "Plot a baseline and an optimized run into <baseline>_comparison.pdf",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)
			defer logger.Sync()

			baseline, err := loadWatts(args[0], *columns)
			if err != nil {
				return err
			}
			optimized, err := loadWatts(args[1], *columns)
			if err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = filepath.Dir(args[0])
			}
			out := filepath.Join(dir, baseName(args[0])+"_comparison.pdf")
			if err := powerstats.PlotComparison(out, args[2], yMax, baseline, optimized); err != nil {
				return err
			}
			logger.Printf(cmd.Context(), "wrote %s", out)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	c.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (defaults to the baseline's directory)")
	c.Flags().Float64Var(&yMax, "y-max", powerstats.DefaultComparisonYMax, "upper bound of the power axis in watts")
	return c
}

func loadWatts(path string, columns powerstats.Columns) ([]float64, error) {
	samples, err := powerstats.ReadFile(path, columns)
	if err != nil {
		return nil, err
	}
	summary, err := powerstats.Summarize(samples)
	if err != nil {
		return nil, err
	}
	return summary.Watts, nil
}

func writeSummaryFile(path string, summary powerstats.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := powerstats.WriteSummary(f, summary); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// baseName strips the directory and everything after the first dot.
func baseName(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}
