package analysis

import "math"

// accumulator keeps running error statistics over trials
type accumulator struct {
	n     int
	sum   float64
	sumSq float64
	min   int
	max   int
}

func (a *accumulator) add(errs int) {
	if a.n == 0 || errs < a.min {
		a.min = errs
	}
	if a.n == 0 || errs > a.max {
		a.max = errs
	}
	a.n++
	v := float64(errs)
	a.sum += v
	a.sumSq += v * v
}

// finalize returns mean and population standard deviation. Variance is
// clamped at zero since sumSq/n - mean^2 can round below it.
func (a *accumulator) finalize() (mean, stdDev float64) {
	if a.n == 0 {
		return 0, 0
	}
	n := float64(a.n)
	mean = a.sum / n
	variance := a.sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
