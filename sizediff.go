// Sizediff compares the size of a build artifact against a baseline build and
// decides whether the change is significant enough to report.
package sizediff

import (
	"errors"
	"math"
	"strconv"

	"github.com/OhanaFS/sizediff/util"
)

const (
	// DefaultThresholdPercent is the relative change above which a diff is
	// significant.
	DefaultThresholdPercent = 5.0
	// DefaultThresholdBytes is the absolute change above which a diff is
	// significant (50 KiB).
	DefaultThresholdBytes = 51200
)

var (
	ErrDiffOverflow = errors.New("size difference overflows int64")
)

// Thresholds controls when a size change is considered significant. A change
// is significant when either threshold is exceeded.
type Thresholds struct {
	// Percent is the maximum relative change, in percent of the baseline size.
	Percent float64
	// Bytes is the maximum absolute change in bytes.
	Bytes int64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Percent: DefaultThresholdPercent,
		Bytes:   DefaultThresholdBytes,
	}
}

// Report is the result of comparing two artifact sizes.
type Report struct {
	// PRSize is the size of the artifact built from the proposed change.
	PRSize int64
	// MainSize is the size of the baseline artifact.
	MainSize int64
	// Diff is PRSize - MainSize.
	Diff int64
	// Percent is Diff relative to MainSize. It is 0 whenever MainSize is not
	// positive, even if Diff is not.
	Percent float64
	// Significant reports whether either threshold was exceeded.
	Significant bool
}

// Summary holds the formatted values of a Report, in output order.
type Summary struct {
	PRSize      string `json:"pr_size" yaml:"pr_size" msgpack:"pr_size"`
	MainSize    string `json:"main_size" yaml:"main_size" msgpack:"main_size"`
	Diff        string `json:"diff" yaml:"diff" msgpack:"diff"`
	DiffBytes   int64  `json:"diff_bytes" yaml:"diff_bytes" msgpack:"diff_bytes"`
	Percent     string `json:"percent" yaml:"percent" msgpack:"percent"`
	Significant bool   `json:"significant" yaml:"significant" msgpack:"significant"`
}

// Compute compares prSize against mainSize.
func Compute(prSize, mainSize int64, t Thresholds) (*Report, error) {
	diff := prSize - mainSize
	// Signed overflow flips the sign relative to the operands.
	if (mainSize < 0 && diff < prSize) || (mainSize > 0 && diff > prSize) || diff == math.MinInt64 {
		return nil, ErrDiffOverflow
	}

	var percent float64
	if mainSize > 0 {
		percent = float64(diff) / float64(mainSize) * 100
	}

	absDiff := diff
	if absDiff < 0 {
		absDiff = -absDiff
	}

	return &Report{
		PRSize:      prSize,
		MainSize:    mainSize,
		Diff:        diff,
		Percent:     percent,
		Significant: absDiff > t.Bytes || math.Abs(percent) > t.Percent,
	}, nil
}

// FormattedDiff returns the human-readable magnitude of the diff with a "+" or
// "-" prefix. A zero diff has no prefix.
func (r *Report) FormattedDiff() string {
	abs := r.Diff
	if abs < 0 {
		abs = -abs
	}
	s := util.FormatSize(abs)
	switch {
	case r.Diff > 0:
		return "+" + s
	case r.Diff < 0:
		return "-" + s
	}
	return s
}

func (r *Report) Summary() Summary {
	return Summary{
		PRSize:      util.FormatSize(r.PRSize),
		MainSize:    util.FormatSize(r.MainSize),
		Diff:        r.FormattedDiff(),
		DiffBytes:   r.Diff,
		Percent:     util.FormatPercent(r.Percent, r.Diff),
		Significant: r.Significant,
	}
}

// Lines returns the report as key=value lines, in the order consumers of
// GITHUB_OUTPUT expect.
func (r *Report) Lines() []string {
	return r.Summary().Lines()
}

func (s Summary) Lines() []string {
	return []string{
		"pr_size=" + s.PRSize,
		"main_size=" + s.MainSize,
		"diff=" + s.Diff,
		"diff_bytes=" + strconv.FormatInt(s.DiffBytes, 10),
		"percent=" + s.Percent,
		"significant=" + strconv.FormatBool(s.Significant),
	}
}
