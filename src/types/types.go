package types

import (
	"fmt"
	"strings"
	"time"
)

// Metric identifies one measured quantity with its own value axis.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricBattery     Metric = "battery"
)

// AllMetrics returns the metrics in dataset order.
func AllMetrics() []Metric {
	return []Metric{MetricTemperature, MetricHumidity, MetricBattery}
}

// TimePoint is a single timestamped value. Immutable once produced.
type TimePoint struct {
	Timestamp time.Time
	Value     float64
}

// MetricSeries is a sequence of points for one metric of one sensor,
// sorted ascending by timestamp.
type MetricSeries []TimePoint

// Span returns the duration between the first and last point.
// Zero for empty or single-point series.
func (s MetricSeries) Span() time.Duration {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].Timestamp.Sub(s[0].Timestamp)
}

// Sensor is the metadata record served by the homemon API.
type Sensor struct {
	ID         int    `json:"id"`
	MACAddress string `json:"mac_address"`
	Alias      string `json:"alias,omitempty"`
}

// DisplayName returns the alias when one is set, otherwise "Sensor <id>".
func (s Sensor) DisplayName() string {
	if a := strings.TrimSpace(s.Alias); a != "" {
		return a
	}
	return fmt.Sprintf("Sensor %d", s.ID)
}

// Timestamp wraps time.Time to accept the API's ISO-8601 strings, which may
// or may not carry a timezone offset (SQLite stores them naive).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// Measurement is one reading from a sensor.
type Measurement struct {
	Timestamp      Timestamp `json:"timestamp"`
	Temperature    float64   `json:"temperature"`
	Humidity       float64   `json:"humidity"`
	BatteryVoltage float64   `json:"battery_voltage"`
}

// RecentMeasurement is the latest reading of one sensor, as returned by the
// recent endpoint covering all sensors.
type RecentMeasurement struct {
	SensorID int `json:"sensor_id"`
	Measurement
}

// SensorStats is the summary payload of the stats endpoint.
type SensorStats struct {
	AverageTemperature float64 `json:"average_temperature"`
	AverageHumidity    float64 `json:"average_humidity"`
	MinTemperature     float64 `json:"min_temperature"`
	MaxTemperature     float64 `json:"max_temperature"`
	MinHumidity        int     `json:"min_humidity"`
	MaxHumidity        int     `json:"max_humidity"`
}

// SensorSnapshot is the raw series triple most recently received for one
// sensor. It is replaced wholesale on every update.
type SensorSnapshot struct {
	Temperature MetricSeries
	Humidity    MetricSeries
	Battery     MetricSeries
}

// Series returns the snapshot's series for the given metric.
func (s SensorSnapshot) Series(m Metric) MetricSeries {
	switch m {
	case MetricTemperature:
		return s.Temperature
	case MetricHumidity:
		return s.Humidity
	case MetricBattery:
		return s.Battery
	}
	return nil
}

// SnapshotFromMeasurements splits a measurement batch into the per-metric
// series of a snapshot. Battery values come from the battery_voltage field.
func SnapshotFromMeasurements(ms []Measurement) SensorSnapshot {
	snap := SensorSnapshot{
		Temperature: make(MetricSeries, 0, len(ms)),
		Humidity:    make(MetricSeries, 0, len(ms)),
		Battery:     make(MetricSeries, 0, len(ms)),
	}
	for _, m := range ms {
		ts := m.Timestamp.Time
		snap.Temperature = append(snap.Temperature, TimePoint{Timestamp: ts, Value: m.Temperature})
		snap.Humidity = append(snap.Humidity, TimePoint{Timestamp: ts, Value: m.Humidity})
		snap.Battery = append(snap.Battery, TimePoint{Timestamp: ts, Value: m.BatteryVoltage})
	}
	return snap
}
