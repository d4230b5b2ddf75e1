// Package smoothing derives noise-reduced display series from raw sensor
// data. Raw series are never modified; callers re-derive the smoothed view
// whenever smoothing is toggled.
package smoothing

import (
	"math"

	"github.com/Tojaj/homemon/src/types"
)

// Smooth applies a centered moving average of the given window size and
// returns a new series. The window for index i starts at max(0, i-window/2)
// and extends for window points, clamped to the series length, so windows
// near the right edge are shorter rather than wrapped or padded. Values are
// rounded to 2 decimal places; timestamps are carried over untouched.
//
// The input is returned as-is when it is shorter than the window (or the
// window is not positive): there is no well-defined window to average over.
func Smooth(series types.MetricSeries, window int) types.MetricSeries {
	if window < 1 || len(series) < window {
		return series
	}
	out := make(types.MetricSeries, len(series))
	half := window / 2
	for i := range series {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := start + window
		if end > len(series) {
			end = len(series)
		}
		sum := 0.0
		for _, p := range series[start:end] {
			sum += p.Value
		}
		out[i] = types.TimePoint{
			Timestamp: series[i].Timestamp,
			Value:     round2(sum / float64(end-start)),
		}
	}
	return out
}

// Snapshot smooths all three series of a snapshot with the same window.
func Snapshot(snap types.SensorSnapshot, window int) types.SensorSnapshot {
	return types.SensorSnapshot{
		Temperature: Smooth(snap.Temperature, window),
		Humidity:    Smooth(snap.Humidity, window),
		Battery:     Smooth(snap.Battery, window),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
