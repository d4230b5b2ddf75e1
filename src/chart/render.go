package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Tojaj/homemon/src/axisplan"
	"github.com/Tojaj/homemon/src/types"
)

var metricColors = map[types.Metric]drawing.Color{
	types.MetricTemperature: chart.ColorRed,
	types.MetricHumidity:    chart.ColorBlue,
	types.MetricBattery:     chart.ColorAlternateGray,
}

var metricNames = map[types.Metric]string{
	types.MetricTemperature: "Temperature",
	types.MetricHumidity:    "Humidity",
	types.MetricBattery:     "Battery",
}

func lineStyle(col drawing.Color, pointRadius float64) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
		DotColor:    col,
		DotWidth:    pointRadius,
	}
}

// buildSeries converts one metric's display series into a go-chart series.
// Single-point series are padded to two X values so go-chart accepts them.
func buildSeries(m types.Metric, s types.MetricSeries, plan axisplan.Plan) chart.TimeSeries {
	xs := make([]time.Time, 0, len(s))
	ys := make([]float64, 0, len(s))
	for _, p := range s {
		xs = append(xs, p.Timestamp)
		ys = append(ys, p.Value)
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(1*time.Second))
		ys = append(ys, ys[0])
	}
	ts := chart.TimeSeries{
		Name:    metricNames[m],
		XValues: xs,
		YValues: ys,
		Style:   lineStyle(metricColors[m], plan.PointRadius),
	}
	if m != types.MetricTemperature {
		ts.YAxis = chart.YAxisSecondary
	}
	return ts
}

// xAxisFromPlan maps an axis plan onto a go-chart X axis. Multi-day plans
// carry explicit ticks so the renderer never skips a planned label;
// single-day plans leave tick placement to the renderer.
func xAxisFromPlan(p axisplan.Plan) chart.XAxis {
	xa := chart.XAxis{Name: "Time"}
	if p.AutoSkip {
		xa.ValueFormatter = chart.TimeValueFormatterWithFormat(p.TimeFormat)
		return xa
	}
	ticks := make([]chart.Tick, 0, len(p.Ticks))
	for _, t := range p.Ticks {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(t.At),
			Label: t.Label(),
		})
	}
	xa.Ticks = ticks
	return xa
}

// render draws the chart for one sensor's current display state. A render
// failure (e.g. no visible series) yields a blank placeholder so the panel
// still visibly updates.
func (st *chartState) render() image.Image {
	series := []chart.Series{}
	showTemp := false
	showSecondary := false
	for _, m := range types.AllMetrics() {
		s, ok := st.display[m]
		if !ok || !st.visible[m] || len(s) == 0 {
			continue
		}
		if m == types.MetricTemperature {
			showTemp = true
		} else {
			showSecondary = true
		}
		series = append(series, buildSeries(m, s, st.plan))
	}

	ch := chart.Chart{
		Title:      st.sensor.DisplayName(),
		Width:      st.width,
		Height:     st.height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 36}},
		XAxis:      xAxisFromPlan(st.plan),
		// an axis is displayed iff at least one dataset bound to it is visible
		YAxis:          chart.YAxis{Name: "°C", Style: chart.Style{Hidden: !showTemp}},
		YAxisSecondary: chart.YAxis{Style: chart.Style{Hidden: !showSecondary}},
		Series:         series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return blank(st.width, st.height)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return blank(st.width, st.height)
	}
	if !st.updatedAt.IsZero() {
		img = stampHint(img, "updated "+st.updatedAt.Format("15:04:05"))
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 24, G: 24, B: 24, A: 255})
		}
	}
	return img
}

// stampHint draws a small status string near the bottom-left of the image.
func stampHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	x := b.Min.X + 8
	y := b.Max.Y - 6
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
