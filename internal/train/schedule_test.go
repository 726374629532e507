package train

import (
	"math"
	"testing"
)

func TestExponentialDecay(t *testing.T) {
	var s = ExponentialDecay{Initial: 0.01, Steps: 5000, Rate: 0.96}
	var tests = []struct {
		step int
		want float64
	}{
		{0, 0.01},
		{2500, 0.01 * math.Sqrt(0.96)},
		{5000, 0.0096},
		{10000, 0.009216},
	}
	for _, test := range tests {
		var got = s.LearningRate(test.step)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("step %v: got %v, want %v", test.step, got, test.want)
		}
	}
}

func TestExponentialDecayNoSteps(t *testing.T) {
	var s = ExponentialDecay{Initial: 0.5, Rate: 0.1}
	if s.LearningRate(100) != 0.5 {
		t.Error(s.LearningRate(100))
	}
}
