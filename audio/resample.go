package audio

import (
	"math"
)

// Resample reduces (or stretches) a peak sequence to exactly target entries
// using max-pooling over half-open source segments. Output values are
// rounded to 3 decimal places. When the source length already matches the
// target the input is returned untouched, without rounding.
func Resample(peaks []float64, target int) []float64 {
	if len(peaks) == 0 {
		return []float64{}
	}
	if len(peaks) == target {
		return peaks
	}

	ratio := float64(len(peaks)) / float64(target)
	out := make([]float64, target)
	for i := 0; i < target; i++ {
		start := int(math.Floor(float64(i) * ratio))
		end := int(math.Floor(float64(i+1) * ratio))

		var v float64
		if start >= len(peaks) {
			v = peaks[len(peaks)-1]
		} else if start == end {
			v = peaks[start]
		} else {
			if end > len(peaks) {
				end = len(peaks)
			}
			v = peaks[start]
			for _, p := range peaks[start+1 : end] {
				if p > v {
					v = p
				}
			}
		}
		out[i] = math.Round(v*1000) / 1000
	}
	return out
}
