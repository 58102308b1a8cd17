package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OhanaFS/sizediff"
	"github.com/OhanaFS/sizediff/output"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// UsageError marks errors caused by invalid command-line input. They are
// reported together with the usage text and exit with status 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) error {
	return &UsageError{fmt.Errorf(format, args...)}
}

type options struct {
	prSize       int64
	mainSize     int64
	thresholds   sizediff.Thresholds
	githubOutput string
	format       string
	verbose      int
}

// NewRootCmd builds the sizediff command.
func NewRootCmd() *cobra.Command {
	opts := &options{thresholds: sizediff.DefaultThresholds()}

	root := &cobra.Command{
		Use:   "sizediff [flags] pr_size main_size",
		Short: "Calculate binary size difference",
		Long: `Compare the size of a binary built from a pull request against the main
branch build and report whether the change is significant.

The report is six key=value lines (pr_size, main_size, diff, diff_bytes,
percent, significant). With --github-output they are appended to that file,
which is how GitHub Actions step outputs are set; otherwise they are printed.

Negative sizes must follow "--".`,
		Version:       versionString(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageErrorf("expected 2 arguments (pr_size main_size), got %d", len(args))
			}
			var err error
			if opts.prSize, err = parseSize("pr_size", args[0]); err != nil {
				return err
			}
			if opts.mainSize, err = parseSize("main_size", args[1]); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{err}
	})

	flags := root.Flags()
	flags.Float64Var(&opts.thresholds.Percent, "threshold-percent", sizediff.DefaultThresholdPercent, "percentage threshold for significant change")
	flags.Int64Var(&opts.thresholds.Bytes, "threshold-bytes", sizediff.DefaultThresholdBytes, "byte threshold for significant change")
	flags.StringVar(&opts.githubOutput, "github-output", "", "path to GITHUB_OUTPUT file to append results to")
	flags.StringVar(&opts.format, "format", string(output.FormatKV), "output format when printing: kv|json|yaml|msgpack")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (-v, -vv)")

	return root
}

func parseSize(name, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usageErrorf("invalid %s %q: must be an integer", name, s)
	}
	return n, nil
}

func run(cmd *cobra.Command, opts *options) error {
	log := newLogger(cmd.ErrOrStderr(), opts.verbose)
	defer func() { _ = log.Sync() }()

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return &UsageError{err}
	}
	if opts.githubOutput != "" && format != output.FormatKV {
		return usageErrorf("--github-output only supports the %s format, got %s", output.FormatKV, format)
	}

	report, err := sizediff.Compute(opts.prSize, opts.mainSize, opts.thresholds)
	if err != nil {
		return &UsageError{err}
	}
	log.Debug("computed size diff",
		zap.Int64("pr_size", report.PRSize),
		zap.Int64("main_size", report.MainSize),
		zap.Int64("diff", report.Diff),
		zap.Float64("percent", report.Percent),
		zap.Float64("threshold_percent", opts.thresholds.Percent),
		zap.Int64("threshold_bytes", opts.thresholds.Bytes),
		zap.Bool("significant", report.Significant),
	)

	summary := report.Summary()
	if opts.githubOutput == "" {
		return output.Write(cmd.OutOrStdout(), summary, format)
	}

	data, err := output.Encode(summary, format)
	if err != nil {
		return err
	}
	log.Info("appending results", zap.String("path", opts.githubOutput))
	if err := output.AppendFile(opts.githubOutput, data); err != nil {
		log.Error("failed to append results", zap.String("path", opts.githubOutput), zap.Error(err))
		return err
	}
	return nil
}

// Run executes sizediff with the given arguments and returns the process exit
// status.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprint(stderr, root.UsageString())
		return exitUsage
	}
	return exitError
}
