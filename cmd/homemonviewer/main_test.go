package main

import (
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/Tojaj/homemon/src/types"
)

func TestFormatStats(t *testing.T) {
	got := formatStats(types.SensorStats{
		AverageTemperature: 21.34,
		AverageHumidity:    45.6,
		MinTemperature:     18.2,
		MaxTemperature:     23.75,
		MinHumidity:        40,
		MaxHumidity:        52,
	})
	if !strings.Contains(got, "avg 21.3C / 46%") {
		t.Fatalf("averages: %q", got)
	}
	if !strings.Contains(got, "temp 18.2-23.8C") {
		t.Fatalf("temperature range: %q", got)
	}
	if !strings.Contains(got, "humidity 40-52%") {
		t.Fatalf("humidity range: %q", got)
	}
	for _, r := range got {
		if r > unicode.MaxASCII {
			t.Fatalf("non-ASCII rune %q in %q", r, got)
		}
	}
}

func TestFormatRecent(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 42, 11, 0, time.Local)
	got := formatRecent(types.RecentMeasurement{
		SensorID: 3,
		Measurement: types.Measurement{
			Timestamp:      types.Timestamp{Time: ts},
			Temperature:    20.55,
			Humidity:       48.2,
			BatteryVoltage: 2.871,
		},
	})
	want := "20.6C 48% 2.87V at 09:42"
	if got != want {
		t.Fatalf("formatRecent = %q, want %q", got, want)
	}
}

// The range span is written from the UI select callback and read from
// refresh goroutines; the accessors must be safe under the race detector.
func TestSpanAccessorsConcurrent(t *testing.T) {
	st := &viewerState{rangeSpan: rangePresets[0].span}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.setSpan(rangePresets[i%len(rangePresets)].span)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = st.currentSpan()
			}
		}()
	}
	wg.Wait()

	got := st.currentSpan()
	ok := false
	for _, p := range rangePresets {
		if p.span == got {
			ok = true
		}
	}
	if !ok {
		t.Fatalf("span %v is not one of the presets", got)
	}
}

func TestCollapseLabel(t *testing.T) {
	if collapseLabel(true) != "Hide" || collapseLabel(false) != "Show" {
		t.Fatalf("collapse labels wrong")
	}
}

func TestMetricTitle(t *testing.T) {
	cases := map[types.Metric]string{
		types.MetricTemperature: "Temperature",
		types.MetricHumidity:    "Humidity",
		types.MetricBattery:     "Battery",
	}
	for m, want := range cases {
		if got := metricTitle(m); got != want {
			t.Fatalf("%s => %q want %q", m, got, want)
		}
	}
}
