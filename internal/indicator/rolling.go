package indicator

import "math"

// rollingMean computes a simple moving average with a NaN warm-up prefix.
// A window containing any unresolved value yields an unresolved result.
func rollingMean(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false

				break
			}

			sum += values[j]
		}

		if ok {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// rollingStd computes the rolling sample standard deviation (n-1 divisor).
func rollingStd(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period < 2 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false

				break
			}

			sum += values[j]
		}

		if !ok {
			continue
		}

		mean := sum / float64(period)
		sq := 0.0

		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}

		out[i] = math.Sqrt(sq / float64(period-1))
	}

	return out
}

// rollingMax computes the rolling window maximum.
func rollingMax(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))

	for i := period - 1; i < len(values); i++ {
		max := math.Inf(-1)
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false

				break
			}

			if values[j] > max {
				max = values[j]
			}
		}

		if ok {
			out[i] = max
		}
	}

	return out
}

// rollingMin computes the rolling window minimum.
func rollingMin(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))

	for i := period - 1; i < len(values); i++ {
		min := math.Inf(1)
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false

				break
			}

			if values[j] < min {
				min = values[j]
			}
		}

		if ok {
			out[i] = min
		}
	}

	return out
}

// adjustedEWM computes an exponentially weighted mean where the weight of
// each value decays by position, so early values carry full information
// instead of being biased toward a seed. Unresolved inputs contribute
// nothing but still age the weights; an all-unresolved prefix stays
// unresolved.
func adjustedEWM(values []float64, alpha float64) []float64 {
	out := undefinedSeries(len(values))
	decay := 1.0 - alpha
	num := 0.0
	den := 0.0

	for i, v := range values {
		num *= decay
		den *= decay

		if defined(v) {
			num += v
			den++
		}

		if den > 0 {
			out[i] = num / den
		}
	}

	return out
}

// recursiveEMA computes an exponential moving average over a possibly
// NaN-prefixed series: the seed is the simple mean of the first full
// window of resolved values, then EMA[t] = α·v[t] + (1-α)·EMA[t-1] with
// α = 2/(period+1). Positions before the seed stay unresolved.
func recursiveEMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	alpha := 2.0 / (float64(period) + 1.0)
	seed := -1

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false

				break
			}

			sum += values[j]
		}

		if ok {
			out[i] = sum / float64(period)
			seed = i

			break
		}
	}

	if seed < 0 {
		return out
	}

	for i := seed + 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1.0-alpha)*out[i-1]
	}

	return out
}
