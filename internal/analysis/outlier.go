package analysis

import (
	"math"

	"fogstudy/domain/core"

	mstats "github.com/montanaflynn/stats"
)

// madScale makes the MAD a consistent estimator of the standard deviation
// under normality.
const madScale = 1.4826

// DefaultOutlierThreshold is the robust z-score cutoff used by the notebooks
const DefaultOutlierThreshold = 3.0

// FilterUnivariate removes univariate outliers using a median-absolute-
// deviation robust z-score: elements where |x - median| / (MAD * 1.4826)
// is at or beyond the threshold are dropped. The result is a new slice,
// order preserved; the input is never mutated.
//
// Zero MAD (all values at the median, e.g. fewer than two distinct values)
// means there is no spread to score against, so the sample is returned
// unchanged rather than divided by zero.
func FilterUnivariate(sample []float64, threshold float64) ([]float64, error) {
	if len(sample) == 0 {
		return nil, core.NewInsufficientDataError(1, 0)
	}
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}

	median, err := mstats.Median(sample)
	if err != nil {
		return nil, err
	}
	mad, err := mstats.MedianAbsoluteDeviation(sample)
	if err != nil {
		return nil, err
	}
	mad *= madScale

	if mad == 0 {
		out := make([]float64, len(sample))
		copy(out, sample)
		return out, nil
	}

	out := make([]float64, 0, len(sample))
	for _, x := range sample {
		if math.Abs(x-median)/mad < threshold {
			out = append(out, x)
		}
	}
	return out, nil
}
