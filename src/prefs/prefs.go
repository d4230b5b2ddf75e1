// Package prefs persists display preferences: which metrics are visible
// globally and per sensor, whether smoothing is enabled, and which sensor
// panels are collapsed. Every write hits the backend synchronously so state
// survives restarts.
package prefs

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/Tojaj/homemon/src/types"
)

// Backend is the minimal key-value surface the store needs.
type Backend interface {
	Bool(key string, fallback bool) bool
	SetBool(key string, value bool)
}

// Store reads and writes display preferences through a Backend. Reads always
// hit the backend; nothing is cached here.
type Store struct {
	b Backend
}

func NewStore(b Backend) *Store {
	return &Store{b: b}
}

func globalKey(m types.Metric) string {
	return "metric." + string(m) + ".visible"
}

func sensorMetricKey(sensorID int, m types.Metric) string {
	return fmt.Sprintf("sensor.%d.metric.%s.visible", sensorID, m)
}

// MetricVisible reports the global visibility of a metric. Defaults to true.
func (s *Store) MetricVisible(m types.Metric) bool {
	return s.b.Bool(globalKey(m), true)
}

// SetMetricVisible sets the global visibility of a metric.
func (s *Store) SetMetricVisible(m types.Metric, visible bool) {
	s.b.SetBool(globalKey(m), visible)
}

// SensorMetricVisible reports a sensor's visibility for a metric. A sensor
// without an override falls back to the global setting. The backend cannot
// represent an absent bool, so a companion ".set" key marks overrides.
func (s *Store) SensorMetricVisible(sensorID int, m types.Metric) bool {
	key := sensorMetricKey(sensorID, m)
	if !s.b.Bool(key+".set", false) {
		return s.MetricVisible(m)
	}
	return s.b.Bool(key, true)
}

// SetSensorMetricVisible records a per-sensor visibility override.
func (s *Store) SetSensorMetricVisible(sensorID int, m types.Metric, visible bool) {
	key := sensorMetricKey(sensorID, m)
	s.b.SetBool(key, visible)
	s.b.SetBool(key+".set", true)
}

// SmoothingEnabled reports the global smoothing flag. Defaults to false.
func (s *Store) SmoothingEnabled() bool {
	return s.b.Bool("smoothing.enabled", false)
}

func (s *Store) SetSmoothingEnabled(enabled bool) {
	s.b.SetBool("smoothing.enabled", enabled)
}

// Collapsed reports whether a sensor's panel is collapsed. Defaults to false.
func (s *Store) Collapsed(sensorID int) bool {
	return s.b.Bool(fmt.Sprintf("sensor.%d.collapsed", sensorID), false)
}

func (s *Store) SetCollapsed(sensorID int, collapsed bool) {
	s.b.SetBool(fmt.Sprintf("sensor.%d.collapsed", sensorID), collapsed)
}

// FyneBackend adapts fyne.Preferences to Backend, which gives the store the
// application's preference file for persistence.
type FyneBackend struct {
	P fyne.Preferences
}

func (f FyneBackend) Bool(key string, fallback bool) bool {
	return f.P.BoolWithFallback(key, fallback)
}

func (f FyneBackend) SetBool(key string, value bool) {
	f.P.SetBool(key, value)
}

// MemBackend is an in-memory Backend for tests.
type MemBackend struct {
	m map[string]bool
}

func NewMemBackend() *MemBackend {
	return &MemBackend{m: make(map[string]bool)}
}

func (b *MemBackend) Bool(key string, fallback bool) bool {
	if v, ok := b.m[key]; ok {
		return v
	}
	return fallback
}

func (b *MemBackend) SetBool(key string, value bool) {
	b.m[key] = value
}
