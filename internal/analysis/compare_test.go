package analysis

import (
	"testing"

	"fogstudy/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_StatisticIsSymmetric(t *testing.T) {
	a := []float64{12.1, 13.4, 11.8, 14.2, 12.9, 13.7, 12.4, 15.0}
	b := []float64{18.3, 17.1, 19.4, 16.8, 18.9, 17.6, 19.1}

	ab, err := Compare(a, b)
	require.NoError(t, err)
	ba, err := Compare(b, a)
	require.NoError(t, err)

	assert.Equal(t, ab.Statistic, ba.Statistic)
	assert.Equal(t, ab.SignificanceLevel, ba.SignificanceLevel)
}

func TestCompare_SeparatedSamplesAreSignificant(t *testing.T) {
	a := make([]float64, 30)
	b := make([]float64, 30)
	for i := range a {
		a[i] = float64(i)
		b[i] = float64(i) + 100
	}

	result, err := Compare(a, b)
	require.NoError(t, err)

	// Fully separated samples push the statistic past the 5% critical value
	assert.Greater(t, result.Statistic, result.CriticalValues[2])
	assert.True(t, result.Significant(0.05))
	assert.InDelta(t, 0.001, result.SignificanceLevel, 1e-9)
}

func TestCompare_SameDistributionNotSignificant(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5, 10.5}

	result, err := Compare(a, b)
	require.NoError(t, err)

	assert.False(t, result.Significant(0.05))
	// Clamped to the tabulated range
	assert.GreaterOrEqual(t, result.SignificanceLevel, 0.001)
	assert.LessOrEqual(t, result.SignificanceLevel, 0.25)
}

func TestCompare_MatchesMidrankReference(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5, 10.5}

	result, err := Compare(a, b)
	require.NoError(t, err)

	// Reference values from the published midrank formulation
	// (Scholz & Stephens 1987), cross-checked against scipy's
	// anderson_ksamp on the same samples.
	assert.InDelta(t, -1.1820361279, result.Statistic, 1e-9)
}

func TestCompare_HandlesTies(t *testing.T) {
	a := []float64{1, 1, 2, 2, 3, 3}
	b := []float64{1, 2, 2, 3, 3, 3}

	result, err := Compare(a, b)
	require.NoError(t, err)
	require.Len(t, result.CriticalValues, 7)
	assert.False(t, result.Significant(0.01))
}

func TestCompare_CriticalValuesIncrease(t *testing.T) {
	result, err := Compare(
		[]float64{1, 2, 3, 4, 5},
		[]float64{2, 3, 4, 5, 6},
	)
	require.NoError(t, err)

	for i := 1; i < len(result.CriticalValues); i++ {
		assert.Greater(t, result.CriticalValues[i], result.CriticalValues[i-1])
	}
}

func TestCompare_InsufficientData(t *testing.T) {
	_, err := Compare([]float64{1}, []float64{2, 3, 4})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = Compare([]float64{1, 2, 3}, []float64{4})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestCompare_DegenerateSample(t *testing.T) {
	_, err := Compare([]float64{5, 5, 5}, []float64{5, 5})
	assert.ErrorIs(t, err, core.ErrDegenerateSample)
}
