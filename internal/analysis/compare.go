package analysis

import (
	"math"
	"sort"

	"fogstudy/domain/core"
	"fogstudy/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// Critical value surface for the standardized k-sample Anderson-Darling
// statistic (Scholz & Stephens 1987, table 1): tm = b0 + b1/sqrt(m) + b2/m
// at the significance levels below, with m = k - 1.
var (
	adSignificance = []float64{0.25, 0.10, 0.05, 0.025, 0.01, 0.005, 0.001}
	adB0           = []float64{0.675, 1.281, 1.645, 1.960, 2.326, 2.573, 3.085}
	adB1           = []float64{-0.245, 0.250, 0.678, 1.149, 1.822, 2.364, 3.615}
	adB2           = []float64{-0.105, -0.305, -0.362, -0.391, -0.396, -0.345, -0.154}
)

const minSampleSize = 2

// Compare tests whether two numeric samples originate from the same
// distribution using the Anderson-Darling k-sample test (midrank version,
// so ties are handled). The statistic is symmetric in a and b. The
// significance level is interpolated from the critical value surface and
// clamped to [0.001, 0.25].
func Compare(a, b []float64) (stats.Comparison, error) {
	if len(a) < minSampleSize {
		return stats.Comparison{}, core.NewInsufficientDataError(minSampleSize, len(a))
	}
	if len(b) < minSampleSize {
		return stats.Comparison{}, core.NewInsufficientDataError(minSampleSize, len(b))
	}
	return andersonKSample([][]float64{a, b})
}

// andersonKSample computes the standardized A2kN statistic over k samples
func andersonKSample(samples [][]float64) (stats.Comparison, error) {
	k := len(samples)
	n := 0
	sorted := make([][]float64, k)
	var pooled []float64
	for i, sample := range samples {
		n += len(sample)
		sorted[i] = append([]float64{}, sample...)
		sort.Float64s(sorted[i])
		pooled = append(pooled, sample...)
	}
	sort.Float64s(pooled)

	distinct := uniqueSorted(pooled)
	if len(distinct) < 2 {
		return stats.Comparison{}, core.ErrDegenerateSample
	}

	a2 := midrankStatistic(sorted, pooled, distinct, n)

	// Variance of A2kN under the null (Scholz & Stephens eq. 4)
	hSum := 0.0
	for _, sample := range samples {
		hSum += 1.0 / float64(len(sample))
	}
	hHarm := 0.0
	for i := 1; i < n; i++ {
		hHarm += 1.0 / float64(i)
	}
	kf := float64(k)
	nf := float64(n)
	g := 0.0
	for i := 1; i <= n-2; i++ {
		for j := i + 1; j <= n-1; j++ {
			g += 1.0 / (float64(n-i) * float64(j))
		}
	}
	va := (4*g-6)*(kf-1) + (10-6*g)*hSum
	vb := (2*g-4)*kf*kf + 8*hHarm*kf + (2*g-14*hHarm-4)*hSum - 8*hHarm + 4*g - 6
	vc := (6*hHarm+2*g-2)*kf*kf + (4*hHarm-4*g+6)*kf + (2*hHarm-6)*hSum + 4*hHarm
	vd := (2*hHarm+6)*kf*kf - 4*hHarm*kf
	sigmaSq := (va*nf*nf*nf + vb*nf*nf + vc*nf + vd) / ((nf - 1) * (nf - 2) * (nf - 3))
	if sigmaSq <= 0 {
		return stats.Comparison{}, core.ErrDegenerateSample
	}

	m := kf - 1
	statistic := (a2 - m) / math.Sqrt(sigmaSq)

	critical := make([]float64, len(adSignificance))
	for i := range critical {
		critical[i] = adB0[i] + adB1[i]/math.Sqrt(m) + adB2[i]/m
	}

	return stats.Comparison{
		Statistic:         statistic,
		CriticalValues:    critical,
		SignificanceLevel: interpolateSignificance(statistic, critical),
	}, nil
}

// midrankStatistic computes A2akN for continuous or tied data
func midrankStatistic(sorted [][]float64, pooled, distinct []float64, n int) float64 {
	nf := float64(n)
	a2 := 0.0
	for _, sample := range sorted {
		ni := float64(len(sample))
		inner := 0.0
		for _, z := range distinct {
			lj := float64(countEqual(pooled, z))
			bj := float64(countLess(pooled, z)) + lj/2
			mij := float64(countLess(sample, z)) + float64(countEqual(sample, z))/2
			denom := bj*(nf-bj) - nf*lj/4
			if denom <= 0 {
				continue
			}
			diff := nf*mij - ni*bj
			inner += lj * diff * diff / denom
		}
		a2 += inner / ni
	}
	return a2 * (nf - 1) / (nf * nf)
}

// interpolateSignificance fits log significance as a quadratic in the
// critical values and evaluates it at the observed statistic, clamped to
// the tabulated range.
func interpolateSignificance(statistic float64, critical []float64) float64 {
	if statistic < critical[0] {
		return adSignificance[0]
	}
	if statistic > critical[len(critical)-1] {
		return adSignificance[len(adSignificance)-1]
	}

	rows := len(critical)
	vander := mat.NewDense(rows, 3, nil)
	logs := mat.NewVecDense(rows, nil)
	for i, t := range critical {
		vander.Set(i, 0, 1)
		vander.Set(i, 1, t)
		vander.Set(i, 2, t*t)
		logs.SetVec(i, math.Log(adSignificance[i]))
	}

	var coef mat.VecDense
	if err := coef.SolveVec(vander, logs); err != nil {
		// Fall back to the nearest tabulated level
		return nearestSignificance(statistic, critical)
	}
	p := math.Exp(coef.AtVec(0) + coef.AtVec(1)*statistic + coef.AtVec(2)*statistic*statistic)
	return math.Min(math.Max(p, adSignificance[len(adSignificance)-1]), adSignificance[0])
}

func nearestSignificance(statistic float64, critical []float64) float64 {
	best := 0
	for i, t := range critical {
		if math.Abs(t-statistic) < math.Abs(critical[best]-statistic) {
			best = i
		}
	}
	return adSignificance[best]
}

func uniqueSorted(sorted []float64) []float64 {
	var out []float64
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// countLess returns the number of elements in ascending sorted below v
func countLess(sorted []float64, v float64) int {
	return sort.SearchFloat64s(sorted, v)
}

// countEqual returns the number of elements in ascending sorted equal to v
func countEqual(sorted []float64, v float64) int {
	lo := sort.SearchFloat64s(sorted, v)
	hi := lo
	for hi < len(sorted) && sorted[hi] == v {
		hi++
	}
	return hi - lo
}
