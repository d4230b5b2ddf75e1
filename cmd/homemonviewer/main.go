package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Tojaj/homemon/src/chart"
	"github.com/Tojaj/homemon/src/datasource"
	"github.com/Tojaj/homemon/src/prefs"
	"github.com/Tojaj/homemon/src/seriescache"
	"github.com/Tojaj/homemon/src/types"
)

// rangePresets stands in for the date-range widget: label to look-back span.
var rangePresets = []struct {
	label string
	span  time.Duration
}{
	{"Last 24h", 24 * time.Hour},
	{"Last 3 days", 3 * 24 * time.Hour},
	{"Last 7 days", 7 * 24 * time.Hour},
	{"Last 30 days", 30 * 24 * time.Hour},
}

type viewerState struct {
	app    fyne.App
	window fyne.Window
	log    *zap.Logger

	client  *datasource.Client
	fetcher *datasource.Fetcher
	store   *prefs.Store
	manager *chart.Manager

	// mu guards the fields below: the range-select callback runs on the UI
	// goroutine while refreshes run on cron goroutines, and the recent poll
	// can add sensor panels at runtime.
	mu        sync.Mutex
	sensors   []types.Sensor
	images    map[int]*canvas.Image
	stats     map[int]*widget.Label
	last      map[int]*widget.Label
	sensorBox *fyne.Container
	rangeSpan time.Duration
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the viewer config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	a := app.NewWithID("com.github.tojaj.homemon")
	st := &viewerState{
		app:       a,
		window:    a.NewWindow("Home Monitor"),
		log:       logger,
		client:    datasource.NewClient(cfg.API.URL, logger),
		store:     prefs.NewStore(prefs.FyneBackend{P: a.Preferences()}),
		images:    make(map[int]*canvas.Image),
		stats:     make(map[int]*widget.Label),
		last:      make(map[int]*widget.Label),
		sensorBox: container.NewVBox(),
		rangeSpan: rangePresets[0].span,
	}
	st.fetcher = datasource.NewFetcher(st.client, logger)
	st.manager = chart.NewManager(
		seriescache.New(), st.store, cfg.Smoothing.Window,
		chart.RendererFunc(st.displayImage), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	sensors, err := st.client.ListSensors(ctx)
	cancel()
	if err != nil {
		logger.Fatal("failed to list sensors", zap.Error(err))
	}
	logger.Info("sensors loaded", zap.Int("count", len(sensors)))

	for _, sensor := range sensors {
		st.registerSensor(sensor)
		if err := st.manager.CreateChart(sensor); err != nil {
			logger.Fatal("failed to create chart", zap.Int("sensor", sensor.ID), zap.Error(err))
		}
	}

	content := container.NewVScroll(container.NewVBox(st.buildControls(), st.sensorBox))
	st.window.SetContent(content)
	st.window.Resize(fyne.NewSize(1100, 800))

	// initial historical load goes through the trend endpoint (ascending)
	go st.refresh(st.fetcher.FetchTrend)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Refresh.Schedule, st.refreshRecent); err != nil {
		logger.Fatal("invalid refresh schedule", zap.String("schedule", cfg.Refresh.Schedule), zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	st.window.ShowAndRun()
}

// currentSpan and setSpan serialize access to the selected look-back span,
// which is written on the UI goroutine and read from refresh goroutines.
func (st *viewerState) currentSpan() time.Duration {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.rangeSpan
}

func (st *viewerState) setSpan(span time.Duration) {
	st.mu.Lock()
	st.rangeSpan = span
	st.mu.Unlock()
}

// buildControls assembles the global toolbar: range presets, one visibility
// checkbox per metric, and the smoothing toggle. Checkbox state is seeded
// from the persisted preferences.
func (st *viewerState) buildControls() fyne.CanvasObject {
	labels := make([]string, len(rangePresets))
	for i, p := range rangePresets {
		labels[i] = p.label
	}
	rangeSelect := widget.NewSelect(labels, func(label string) {
		for _, p := range rangePresets {
			if p.label == label {
				st.setSpan(p.span)
			}
		}
		go st.refresh(st.fetcher.FetchRange)
	})
	rangeSelect.Selected = rangePresets[0].label

	metricChecks := make([]fyne.CanvasObject, 0, len(types.AllMetrics()))
	for _, m := range types.AllMetrics() {
		metric := m
		check := widget.NewCheck(metricTitle(metric), func(visible bool) {
			st.manager.ToggleDataset(metric, visible)
		})
		check.Checked = st.store.MetricVisible(metric)
		metricChecks = append(metricChecks, check)
	}

	smoothing := widget.NewCheck("Smoothing", func(enabled bool) {
		st.manager.ToggleSmoothing(enabled)
	})
	smoothing.Checked = st.store.SmoothingEnabled()

	row := []fyne.CanvasObject{rangeSelect}
	row = append(row, metricChecks...)
	row = append(row, smoothing)
	return container.NewHBox(row...)
}

func metricTitle(m types.Metric) string {
	switch m {
	case types.MetricTemperature:
		return "Temperature"
	case types.MetricHumidity:
		return "Humidity"
	case types.MetricBattery:
		return "Battery"
	}
	return string(m)
}

// registerSensor creates the visual container of one sensor (chart image,
// last-reading line, stats line, collapse button with persisted state) and
// adds it to the sensor list.
func (st *viewerState) registerSensor(sensor types.Sensor) {
	w, h := chart.ComputeChartDimensions(0)
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, w, h)))
	img.FillMode = canvas.ImageFillOriginal
	img.SetMinSize(fyne.NewSize(float32(w), float32(h)))

	lastLabel := widget.NewLabel("")
	statsLabel := widget.NewLabel("")

	body := container.NewVBox(img, statsLabel)
	if st.store.Collapsed(sensor.ID) {
		body.Hide()
	}

	var toggle *widget.Button
	toggle = widget.NewButton(collapseLabel(body.Visible()), func() {
		if body.Visible() {
			body.Hide()
		} else {
			body.Show()
		}
		st.store.SetCollapsed(sensor.ID, !body.Visible())
		toggle.SetText(collapseLabel(body.Visible()))
	})

	header := container.NewHBox(widget.NewLabel(sensor.DisplayName()), lastLabel, toggle)
	panel := container.NewVBox(header, body)

	st.mu.Lock()
	st.sensors = append(st.sensors, sensor)
	st.images[sensor.ID] = img
	st.stats[sensor.ID] = statsLabel
	st.last[sensor.ID] = lastLabel
	st.sensorBox.Add(panel)
	st.mu.Unlock()
}

func collapseLabel(visible bool) string {
	if visible {
		return "Hide"
	}
	return "Show"
}

// displayImage is the Manager's renderer: it swaps the panel's canvas image
// and reserves enough space to show the rendered chart.
func (st *viewerState) displayImage(sensorID int, img image.Image) {
	st.mu.Lock()
	ci := st.images[sensorID]
	st.mu.Unlock()
	if ci == nil {
		return
	}
	ci.Image = img
	b := img.Bounds()
	ci.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	ci.Refresh()
}

// chartWidth derives the raw chart width from the current window size, so
// charts track the window like the rest of the layout.
func (st *viewerState) chartWidth() int {
	if st.window == nil || st.window.Canvas() == nil {
		return 0
	}
	return int(st.window.Canvas().Size().Width*0.95) - 12
}

// refresh fetches the selected range for every active sensor in parallel
// and applies each result independently: a failed sensor keeps its previous
// chart, the rest update. The fetch function is the trend variant for the
// initial load and the plain range variant afterwards.
func (st *viewerState) refresh(fetch func(context.Context, []int, time.Time, time.Time) []datasource.Result) {
	ids := st.manager.ActiveSensorIDs()
	if len(ids) == 0 {
		return
	}
	st.manager.ResizeAllCharts(st.chartWidth())

	start := time.Now().Add(-st.currentSpan())
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	results := fetch(ctx, ids, start, time.Time{})
	for _, res := range results {
		if res.Err != nil {
			continue // logged by the fetcher; chart keeps its previous data
		}
		if err := st.manager.UpdateChartDataSeq(res.SensorID, res.Seq, res.Measurements); err != nil {
			st.log.Warn("chart update failed", zap.Int("sensor", res.SensorID), zap.Error(err))
		}
	}
	st.refreshStats(ctx, start)
}

// refreshRecent polls the recent endpoint on the cron schedule, updates each
// sensor's last-reading line, and picks up sensors that appeared after
// startup: their metadata comes from the sensor endpoint and their history
// from a trend fetch.
func (st *viewerState) refreshRecent() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	recent, err := st.client.RecentMeasurements(ctx)
	if err != nil {
		st.log.Warn("recent refresh failed", zap.Error(err))
		return
	}
	for _, rm := range recent {
		st.mu.Lock()
		label := st.last[rm.SensorID]
		st.mu.Unlock()
		if label == nil {
			st.addSensor(ctx, rm.SensorID)
			st.mu.Lock()
			label = st.last[rm.SensorID]
			st.mu.Unlock()
		}
		if label != nil {
			label.SetText(formatRecent(rm))
		}
	}
}

// addSensor wires a sensor discovered at runtime: panel, chart, history.
func (st *viewerState) addSensor(ctx context.Context, sensorID int) {
	sensor, err := st.client.GetSensor(ctx, sensorID)
	if err != nil {
		st.log.Warn("failed to load new sensor", zap.Int("sensor", sensorID), zap.Error(err))
		return
	}
	st.registerSensor(sensor)
	if err := st.manager.CreateChart(sensor); err != nil {
		st.log.Warn("failed to create chart", zap.Int("sensor", sensorID), zap.Error(err))
		return
	}
	st.log.Info("sensor discovered", zap.Int("sensor", sensorID))

	start := time.Now().Add(-st.currentSpan())
	for _, res := range st.fetcher.FetchTrend(ctx, []int{sensorID}, start, time.Time{}) {
		if res.Err != nil {
			continue
		}
		if err := st.manager.UpdateChartDataSeq(res.SensorID, res.Seq, res.Measurements); err != nil {
			st.log.Warn("chart update failed", zap.Int("sensor", res.SensorID), zap.Error(err))
		}
	}
	st.mu.Lock()
	st.sensorBox.Refresh()
	st.mu.Unlock()
}

// refreshStats updates the per-sensor summary line under each chart.
func (st *viewerState) refreshStats(ctx context.Context, start time.Time) {
	st.mu.Lock()
	sensors := make([]types.Sensor, len(st.sensors))
	copy(sensors, st.sensors)
	st.mu.Unlock()

	for _, sensor := range sensors {
		st.mu.Lock()
		label := st.stats[sensor.ID]
		st.mu.Unlock()
		if label == nil {
			continue
		}
		stats, err := st.client.SensorStats(ctx, sensor.ID, start, time.Time{})
		if err != nil {
			label.SetText("no data for selected range")
			continue
		}
		label.SetText(formatStats(stats))
	}
}

func formatStats(s types.SensorStats) string {
	return fmt.Sprintf("avg %.1fC / %.0f%%, temp %.1f-%.1fC, humidity %d-%d%%",
		s.AverageTemperature, s.AverageHumidity,
		s.MinTemperature, s.MaxTemperature,
		s.MinHumidity, s.MaxHumidity)
}

func formatRecent(m types.RecentMeasurement) string {
	return fmt.Sprintf("%.1fC %.0f%% %.2fV at %s",
		m.Temperature, m.Humidity, m.BatteryVoltage,
		m.Timestamp.Format("15:04"))
}
