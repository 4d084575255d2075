package readiness

import (
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func quality(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{
			name: "perfect engagement",
			in:   Input{CompletionPercent: 100, AvgQuality: quality(3), ReflectionsSubmitted: 10, BehaviorsObserved: 10},
			want: 100,
		},
		{
			name: "no data at all",
			in:   Input{CompletionPercent: 0, AvgQuality: sql.NullFloat64{}, ReflectionsSubmitted: 0, BehaviorsObserved: 0},
			want: 0,
		},
		{
			// quality% = round(2/3*100) = 67, behavior% = round(2/4*100) = 50
			// round(0.4*50 + 0.4*67 + 0.2*50) = round(56.8) = 57
			name: "mid engagement with double rounding",
			in:   Input{CompletionPercent: 50, AvgQuality: quality(2), ReflectionsSubmitted: 4, BehaviorsObserved: 2},
			want: 57,
		},
		{
			name: "absent quality scores zero, not neutral",
			in:   Input{CompletionPercent: 100, AvgQuality: sql.NullFloat64{}, ReflectionsSubmitted: 5, BehaviorsObserved: 5},
			want: 60,
		},
		{
			name: "zero reflections means zero behavior contribution",
			in:   Input{CompletionPercent: 100, AvgQuality: quality(3), ReflectionsSubmitted: 0, BehaviorsObserved: 0},
			want: 80,
		},
		{
			name: "completion above range is clamped",
			in:   Input{CompletionPercent: 250, AvgQuality: quality(3), ReflectionsSubmitted: 1, BehaviorsObserved: 1},
			want: 100,
		},
		{
			name: "negative completion is clamped to zero",
			in:   Input{CompletionPercent: -10, AvgQuality: quality(3), ReflectionsSubmitted: 2, BehaviorsObserved: 0},
			want: 40,
		},
		{
			name: "NaN completion contributes nothing",
			in:   Input{CompletionPercent: math.NaN(), AvgQuality: quality(3), ReflectionsSubmitted: 2, BehaviorsObserved: 2},
			want: 60,
		},
		{
			name: "behaviors exceeding reflections still clamps to 100",
			in:   Input{CompletionPercent: 0, AvgQuality: sql.NullFloat64{}, ReflectionsSubmitted: 2, BehaviorsObserved: 5},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.in))
		})
	}
}

func TestQualityPercent(t *testing.T) {
	assert.Equal(t, float64(0), QualityPercent(sql.NullFloat64{}))
	assert.Equal(t, float64(33), QualityPercent(quality(1)))
	assert.Equal(t, float64(67), QualityPercent(quality(2)))
	assert.Equal(t, float64(100), QualityPercent(quality(3)))
	// quality averages land between integers; rounding happens here, once
	assert.Equal(t, float64(83), QualityPercent(quality(2.5)))
	assert.Equal(t, float64(0), QualityPercent(sql.NullFloat64{Float64: math.NaN(), Valid: true}))
}

func TestBehaviorPercent(t *testing.T) {
	assert.Equal(t, float64(0), BehaviorPercent(3, 0))
	assert.Equal(t, float64(50), BehaviorPercent(2, 4))
	assert.Equal(t, float64(67), BehaviorPercent(2, 3))
	assert.Equal(t, float64(100), BehaviorPercent(5, 2))
}

func TestComputeIsTotalOverWildInputs(t *testing.T) {
	inputs := []Input{
		{CompletionPercent: math.Inf(1), AvgQuality: quality(math.Inf(-1)), ReflectionsSubmitted: -3, BehaviorsObserved: -1},
		{CompletionPercent: math.NaN(), AvgQuality: sql.NullFloat64{Float64: math.NaN(), Valid: true}},
		{CompletionPercent: 1e18, AvgQuality: quality(1e18), ReflectionsSubmitted: 1, BehaviorsObserved: 1 << 30},
	}
	for _, in := range inputs {
		got := Compute(in)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}
