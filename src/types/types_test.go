package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{`"2024-05-01T12:30:00Z"`, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{`"2024-05-01T12:30:00"`, time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local)},
		{`"2024-05-01T12:30:00.123456"`, time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.Local)},
	}
	for _, c := range cases {
		var ts Timestamp
		if err := json.Unmarshal([]byte(c.in), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		if !ts.Equal(c.want) {
			t.Fatalf("unmarshal %s => %v want %v", c.in, ts.Time, c.want)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"garbage"`), &ts); err == nil {
		t.Fatalf("expected error for garbage timestamp")
	}
}

func TestMeasurementDecode(t *testing.T) {
	payload := `{"timestamp":"2024-05-01T12:00:00","temperature":21.4,"humidity":48,"battery_voltage":2.91}`
	var m Measurement
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("decode measurement: %v", err)
	}
	if m.Temperature != 21.4 || m.Humidity != 48 || m.BatteryVoltage != 2.91 {
		t.Fatalf("unexpected measurement: %+v", m)
	}
}

func TestRecentMeasurementDecode(t *testing.T) {
	payload := `{"sensor_id":3,"timestamp":"2024-05-01T12:00:00","temperature":19.0,"humidity":55,"battery_voltage":3.0}`
	var m RecentMeasurement
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("decode recent measurement: %v", err)
	}
	if m.SensorID != 3 || m.Temperature != 19.0 {
		t.Fatalf("unexpected recent measurement: %+v", m)
	}
}

func TestSensorDisplayName(t *testing.T) {
	if got := (Sensor{ID: 2, Alias: "Garage"}).DisplayName(); got != "Garage" {
		t.Fatalf("alias name: %q", got)
	}
	if got := (Sensor{ID: 2}).DisplayName(); got != "Sensor 2" {
		t.Fatalf("fallback name: %q", got)
	}
	if got := (Sensor{ID: 7, Alias: "  "}).DisplayName(); got != "Sensor 7" {
		t.Fatalf("blank alias name: %q", got)
	}
}

func TestSnapshotFromMeasurements(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ms := []Measurement{
		{Timestamp: Timestamp{t0}, Temperature: 20, Humidity: 40, BatteryVoltage: 2.8},
		{Timestamp: Timestamp{t0.Add(time.Minute)}, Temperature: 21, Humidity: 41, BatteryVoltage: 2.7},
	}
	snap := SnapshotFromMeasurements(ms)
	for _, m := range AllMetrics() {
		if len(snap.Series(m)) != 2 {
			t.Fatalf("series %s length %d", m, len(snap.Series(m)))
		}
	}
	if snap.Battery[1].Value != 2.7 {
		t.Fatalf("battery mapping: %+v", snap.Battery)
	}
	if !snap.Humidity[0].Timestamp.Equal(t0) {
		t.Fatalf("humidity timestamp: %v", snap.Humidity[0].Timestamp)
	}
}

func TestSeriesSpan(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := MetricSeries{{Timestamp: t0}, {Timestamp: t0.Add(26 * time.Hour)}}
	if s.Span() != 26*time.Hour {
		t.Fatalf("span: %v", s.Span())
	}
	if (MetricSeries{}).Span() != 0 || (MetricSeries{{Timestamp: t0}}).Span() != 0 {
		t.Fatalf("degenerate spans should be zero")
	}
}
