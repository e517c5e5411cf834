package evaluation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lox/qjack/internal/statistics"
)

// ZTestResult is the outcome of a one-sided two-sample Z-test.
type ZTestResult struct {
	Z            float64 `toml:"z"`
	PValue       float64 `toml:"p_value"`
	StdError     float64 `toml:"std_error"`
	Delta        float64 `toml:"delta"`
	Significance float64 `toml:"significance"`
	Significant  bool    `toml:"significant"`
}

// ZTest tests whether mean(a) - mean(b) exceeds delta:
//
//	Z = (meanA - meanB - delta) / sqrt(varA/nA + varB/nB)
//
// The p-value is the upper tail of the standard normal at Z. When both
// samples have zero variance Z is +Inf or -Inf by the sign of the
// difference, and 0 when the difference is exactly zero.
func ZTest(a, b statistics.Summary, delta, significance float64) ZTestResult {
	res := ZTestResult{Delta: delta, Significance: significance}
	if a.Episodes == 0 || b.Episodes == 0 {
		res.PValue = 1
		return res
	}

	diff := a.Mean - b.Mean - delta
	res.StdError = math.Sqrt(a.Variance/float64(a.Episodes) + b.Variance/float64(b.Episodes))
	switch {
	case res.StdError > 0:
		res.Z = diff / res.StdError
	case diff > 0:
		res.Z = math.Inf(1)
	case diff < 0:
		res.Z = math.Inf(-1)
	}

	res.PValue = distuv.UnitNormal.Survival(res.Z)
	res.Significant = res.PValue < significance
	return res
}
