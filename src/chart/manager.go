// Package chart owns one renderable chart per active sensor: three datasets
// (temperature, humidity, battery) bound to independent value axes sharing a
// single time axis. The Manager is the only way to reach chart state; the raw
// data lives in the series cache and every displayed series is re-derived
// from it, so smoothing can be toggled losslessly in both directions.
package chart

import (
	"image"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tojaj/homemon/src/axisplan"
	"github.com/Tojaj/homemon/src/prefs"
	"github.com/Tojaj/homemon/src/seriescache"
	"github.com/Tojaj/homemon/src/smoothing"
	"github.com/Tojaj/homemon/src/types"
)

// Renderer receives the freshly rendered image for a sensor's chart. The
// application shell installs one that swaps the panel's canvas image.
type Renderer interface {
	Display(sensorID int, img image.Image)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(sensorID int, img image.Image)

func (f RendererFunc) Display(sensorID int, img image.Image) { f(sensorID, img) }

type nopRenderer struct{}

func (nopRenderer) Display(int, image.Image) {}

// chartState is the live chart of one sensor.
type chartState struct {
	sensor        types.Sensor
	width, height int
	plan          axisplan.Plan
	display       map[types.Metric]types.MetricSeries
	visible       map[types.Metric]bool
	lastSeq       uint64
	updatedAt     time.Time
	img           image.Image
}

// Manager coordinates chart lifecycle across all active sensors. All chart
// mutations run under one lock so no two operations interleave their steps.
type Manager struct {
	log      *zap.Logger
	cache    *seriescache.Cache
	prefs    *prefs.Store
	window   int
	renderer Renderer

	mu     sync.Mutex
	charts map[int]*chartState
}

const defaultSmoothingWindow = 5

func NewManager(cache *seriescache.Cache, store *prefs.Store, smoothingWindow int, r Renderer, log *zap.Logger) *Manager {
	if smoothingWindow < 1 {
		smoothingWindow = defaultSmoothingWindow
	}
	if r == nil {
		r = nopRenderer{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:      log,
		cache:    cache,
		prefs:    store,
		window:   smoothingWindow,
		renderer: r,
		charts:   make(map[int]*chartState),
	}
}

// CreateChart initializes the chart for a sensor with three empty datasets,
// applying the persisted visibility state. Returns *DuplicateSensorError if
// the sensor already has a live chart.
func (m *Manager) CreateChart(sensor types.Sensor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.charts[sensor.ID]; ok {
		return &DuplicateSensorError{SensorID: sensor.ID}
	}
	w, h := ComputeChartDimensions(0)
	st := &chartState{
		sensor:  sensor,
		width:   w,
		height:  h,
		plan:    axisplan.For(nil),
		display: make(map[types.Metric]types.MetricSeries),
		visible: make(map[types.Metric]bool),
	}
	m.syncVisibility(st)
	m.charts[sensor.ID] = st
	m.redraw(st)
	m.log.Debug("chart created", zap.Int("sensor", sensor.ID))
	return nil
}

// UpdateChartData stores a raw measurement batch for the sensor and redraws
// its chart from the selected (raw or smoothed) view.
func (m *Manager) UpdateChartData(sensorID int, measurements []types.Measurement) error {
	return m.applyUpdate(sensorID, 0, measurements)
}

// UpdateChartDataSeq is UpdateChartData with a per-sensor request sequence
// number. A response whose sequence is not newer than the last applied one
// is discarded, so an out-of-order fetch cannot overwrite newer data.
func (m *Manager) UpdateChartDataSeq(sensorID int, seq uint64, measurements []types.Measurement) error {
	return m.applyUpdate(sensorID, seq, measurements)
}

func (m *Manager) applyUpdate(sensorID int, seq uint64, measurements []types.Measurement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.charts[sensorID]
	if !ok {
		return &UnknownSensorError{SensorID: sensorID}
	}
	if seq != 0 {
		if seq <= st.lastSeq {
			m.log.Debug("stale response discarded",
				zap.Int("sensor", sensorID), zap.Uint64("seq", seq), zap.Uint64("applied", st.lastSeq))
			return nil
		}
		st.lastSeq = seq
	}
	m.cache.Put(sensorID, types.SnapshotFromMeasurements(measurements))
	st.updatedAt = time.Now()
	m.refresh(st)
	return nil
}

// ToggleDataset flips a metric's visibility across all active sensors,
// persists it, and redraws without touching any data.
func (m *Manager) ToggleDataset(metric types.Metric, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.SetMetricVisible(metric, visible)
	for _, st := range m.charts {
		m.syncVisibility(st)
		m.redraw(st)
	}
}

// ToggleSensorDataset records a per-sensor visibility override and redraws
// that sensor's chart.
func (m *Manager) ToggleSensorDataset(sensorID int, metric types.Metric, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.charts[sensorID]
	if !ok {
		return &UnknownSensorError{SensorID: sensorID}
	}
	m.prefs.SetSensorMetricVisible(sensorID, metric, visible)
	m.syncVisibility(st)
	m.redraw(st)
	return nil
}

// ToggleSmoothing persists the global smoothing flag and re-derives the
// displayed series of every sensor that has a cached snapshot. Sensors
// without one are left as-is until their next update.
func (m *Manager) ToggleSmoothing(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.SetSmoothingEnabled(enabled)
	for sensorID, st := range m.charts {
		if _, ok := m.cache.Get(sensorID); !ok {
			continue
		}
		m.refresh(st)
	}
}

// DestroyChart releases the sensor's chart and evicts its cached snapshot.
func (m *Manager) DestroyChart(sensorID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.charts[sensorID]; !ok {
		return &UnknownSensorError{SensorID: sensorID}
	}
	delete(m.charts, sensorID)
	m.cache.Evict(sensorID)
	m.log.Debug("chart destroyed", zap.Int("sensor", sensorID))
	return nil
}

// ResizeChart re-renders one chart at dimensions derived from the given raw
// container width. No data side effects.
func (m *Manager) ResizeChart(sensorID int, rawWidth int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.charts[sensorID]
	if !ok {
		return &UnknownSensorError{SensorID: sensorID}
	}
	st.width, st.height = ComputeChartDimensions(rawWidth)
	m.redraw(st)
	return nil
}

// ResizeAllCharts applies ResizeChart to every active sensor.
func (m *Manager) ResizeAllCharts(rawWidth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.charts {
		st.width, st.height = ComputeChartDimensions(rawWidth)
		m.redraw(st)
	}
}

// Image returns the last rendered image for a sensor.
func (m *Manager) Image(sensorID int) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.charts[sensorID]
	if !ok {
		return nil, &UnknownSensorError{SensorID: sensorID}
	}
	return st.img, nil
}

// Plan returns the current axis plan for a sensor.
func (m *Manager) Plan(sensorID int) (axisplan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.charts[sensorID]
	if !ok {
		return axisplan.Plan{}, &UnknownSensorError{SensorID: sensorID}
	}
	return st.plan, nil
}

// DisplayedSeries returns the series currently shown for one metric of a
// sensor (post-smoothing when smoothing is enabled).
func (m *Manager) DisplayedSeries(sensorID int, metric types.Metric) (types.MetricSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.charts[sensorID]
	if !ok {
		return nil, &UnknownSensorError{SensorID: sensorID}
	}
	return st.display[metric], nil
}

// ActiveSensorIDs returns the ids of all live charts in ascending order.
func (m *Manager) ActiveSensorIDs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.charts))
	for id := range m.charts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// selectView projects a sensor's cached raw snapshot into the displayed
// snapshot: smoothed when the flag is set, raw otherwise. The cache is never
// written back, so the projection is lossless.
func (m *Manager) selectView(sensorID int) (types.SensorSnapshot, bool) {
	snap, ok := m.cache.Get(sensorID)
	if !ok {
		return types.SensorSnapshot{}, false
	}
	if m.prefs.SmoothingEnabled() {
		snap = smoothing.Snapshot(snap, m.window)
	}
	return snap, true
}

// refresh re-derives a chart's displayed series and axis plan from the cache
// and redraws. The plan follows the displayed temperature series' span.
func (m *Manager) refresh(st *chartState) {
	snap, ok := m.selectView(st.sensor.ID)
	if !ok {
		return
	}
	st.display = map[types.Metric]types.MetricSeries{
		types.MetricTemperature: snap.Temperature,
		types.MetricHumidity:    snap.Humidity,
		types.MetricBattery:     snap.Battery,
	}
	st.plan = axisplan.For(snap.Temperature)
	m.syncVisibility(st)
	m.redraw(st)
}

func (m *Manager) syncVisibility(st *chartState) {
	for _, metric := range types.AllMetrics() {
		st.visible[metric] = m.prefs.SensorMetricVisible(st.sensor.ID, metric)
	}
}

func (m *Manager) redraw(st *chartState) {
	st.img = st.render()
	m.renderer.Display(st.sensor.ID, st.img)
}
