package analysis

// CountSpikes counts upward crossings of the threshold, the usual action
// potential count for a membrane trace.
func CountSpikes(trace []float64, threshold float64) int {
	count := 0
	above := false
	for _, v := range trace {
		if !above && v >= threshold {
			count++
			above = true
		} else if above && v < threshold {
			above = false
		}
	}
	return count
}

// PeakVoltage returns the maximum of the trace, or 0 for an empty one.
func PeakVoltage(trace []float64) float64 {
	if len(trace) == 0 {
		return 0
	}
	peak := trace[0]
	for _, v := range trace[1:] {
		if v > peak {
			peak = v
		}
	}
	return peak
}
