package data_test

import "math"

func nan() float64 { return math.NaN() }

func ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
