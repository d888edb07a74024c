package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mkazmier/best-test/app"
	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
	"github.com/mkazmier/best-test/internal/config"
	apperrors "github.com/mkazmier/best-test/internal/errors"
	"github.com/mkazmier/best-test/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bestcli",
		Short: "Bayesian two-sample difference test (BEST)",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newDemoCmd(),
		newVarsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runFlags struct {
	labelA, labelB   string
	muMean, muSd     float64
	sdLower, sdUpper float64
	nuMean           float64
	nsamples, chains int
	seed             int64
	refVal           float64
	hasRefVal        bool
	plots            bool
	xlsxPath         string
	reportPath       string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.labelA, "label-a", "control", "name for the first sample")
	cmd.Flags().StringVar(&f.labelB, "label-b", "treatment", "name for the second sample")
	cmd.Flags().Float64Var(&f.muMean, "mu-mean", 0, "mean of the Normal prior on group means")
	cmd.Flags().Float64Var(&f.muSd, "mu-sd", 10, "sd of the Normal prior on group means")
	cmd.Flags().Float64Var(&f.sdLower, "sd-lower", 0.1, "lower bound of the Uniform prior on spreads")
	cmd.Flags().Float64Var(&f.sdUpper, "sd-upper", 10, "upper bound of the Uniform prior on spreads")
	cmd.Flags().Float64Var(&f.nuMean, "nu-mean", 30, "mean of the prior on the normality parameter")
	cmd.Flags().IntVar(&f.nsamples, "nsamples", 0, "posterior draws per chain (0 = config default)")
	cmd.Flags().IntVar(&f.chains, "chains", 0, "number of concurrent chains (0 = config default)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "base random seed (0 = time-based)")
	cmd.Flags().Float64Var(&f.refVal, "ref-val", 0, "reference value marker for posterior plots and report")
	cmd.Flags().BoolVar(&f.plots, "plots", false, "write posterior, forest and trace plots")
	cmd.Flags().StringVar(&f.xlsxPath, "xlsx", "", "write the summary table to this xlsx path")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "write a markdown report to this path")
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [file-a] [file-b]",
		Short: "Run the test on two files of newline-delimited numbers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			observedA, err := readSample(args[0])
			if err != nil {
				return err
			}
			observedB, err := readSample(args[1])
			if err != nil {
				return err
			}
			flags.hasRefVal = cmd.Flags().Changed("ref-val")
			return runTest(cmd, flags, observedA, observedB)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDemoCmd() *cobra.Command {
	flags := &runFlags{}
	var n int
	var shift float64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the test on synthetic control/treatment samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := flags.seed
			if seed == 0 {
				seed = 42
				flags.seed = seed
			}
			observedA := testkit.NormalSample(seed, n, 0, 1)
			observedB := testkit.NormalSample(seed+1, n, shift, 1)
			flags.hasRefVal = true
			flags.refVal = 0
			return runTest(cmd, flags, observedA, observedB)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&n, "n", 50, "draws per synthetic sample")
	cmd.Flags().Float64Var(&shift, "shift", 3, "mean shift of the treatment sample")
	return cmd
}

func newVarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars [label-a] [label-b]",
		Short: "Print the model variable names for a pair of labels",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := model.DeriveVarNames(args[0], args[1])
			for _, name := range names.All() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	return cmd
}

func runTest(cmd *cobra.Command, flags *runFlags, observedA, observedB []float64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	test, err := app.New(model.Config{
		LabelA:  flags.labelA,
		LabelB:  flags.labelB,
		MuMean:  flags.muMean,
		MuSd:    flags.muSd,
		SdLower: flags.sdLower,
		SdUpper: flags.sdUpper,
		NuMean:  flags.nuMean,
	}, app.DefaultDeps(cfg))
	if err != nil {
		return err
	}

	opts := app.RunOptions{
		NSamples:    flags.nsamples,
		NTune:       cfg.Sampler.NTune,
		Parallelism: flags.chains,
		Seed:        flags.seed,
	}
	if opts.NSamples == 0 {
		opts.NSamples = cfg.Sampler.NSamples
	}
	if opts.Parallelism == 0 {
		opts.Parallelism = cfg.Sampler.Parallelism
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Sampler.Seed
	}

	if err := test.Run(cmd.Context(), observedA, observedB, opts); err != nil {
		return apperrors.SamplingError(err)
	}

	table, err := test.Summary(nil)
	if err != nil {
		return err
	}
	printSummary(cmd, table)

	var refVal *float64
	if flags.hasRefVal {
		refVal = &flags.refVal
	}

	if flags.plots {
		if err := test.PlotPosterior(nil, refVal); err != nil {
			return err
		}
		if err := test.ForestPlot(nil); err != nil {
			return err
		}
		if err := test.TracePlot(); err != nil {
			return err
		}
	}
	if flags.xlsxPath != "" {
		if err := test.ExportSummary(flags.xlsxPath); err != nil {
			return apperrors.ExportError(err)
		}
	}
	if flags.reportPath != "" {
		report, err := test.Report(refVal)
		if err != nil {
			return apperrors.ExportError(err)
		}
		if err := os.WriteFile(flags.reportPath, []byte(report), 0o644); err != nil {
			return apperrors.ExportError(fmt.Errorf("write report: %w", err))
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, table trace.SummaryTable) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "variable\tmean\tsd\tmc_error\thpd_2.5\thpd_97.5\tr_hat\tess")
	for _, row := range table.Rows {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\t%.0f\n",
			row.Variable, row.Mean, row.Sd, row.MCError,
			row.HPDLower, row.HPDUpper, row.RHat, row.ESS)
	}
	w.Flush()
}

// readSample parses one number per line; blank lines and lines starting
// with '#' are skipped.
func readSample(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample file: %w", err)
	}
	defer f.Close()

	var out []float64
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s:%d: %q is not a number", path, lineNo, line))
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sample file: %w", err)
	}
	return out, nil
}
