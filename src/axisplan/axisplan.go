// Package axisplan decides time-axis tick placement, label strategy and
// point rendering from the span of a displayed series.
package axisplan

import (
	"time"

	"github.com/Tojaj/homemon/src/types"
)

const (
	// StepHours is the fixed tick step used on multi-day spans.
	StepHours = 4

	// singlePointRadius makes a lone sample visible; longer series draw
	// points only on hover, within HitRadius of the cursor.
	singlePointRadius = 4
	defaultHitRadius  = 10
)

// Tick is one planned tick on the time axis.
type Tick struct {
	At        time.Time
	TimeLabel string
	// DateLabel is set on the first tick of each calendar day in multi-day
	// plans, producing a two-line label where the renderer supports it.
	DateLabel string
}

// Label joins the time and date parts for single-string renderers.
func (t Tick) Label() string {
	if t.DateLabel == "" {
		return t.TimeLabel
	}
	return t.TimeLabel + "\n" + t.DateLabel
}

// Plan is the axis and point configuration derived from one series.
type Plan struct {
	// SpanDays is floor((last-first) / 24h) for the planned series.
	SpanDays int

	// Ticks is the explicit tick list for multi-day plans. Nil when the
	// renderer places ticks itself (AutoSkip true).
	Ticks []Tick

	// AutoSkip permits the renderer to drop overlapping labels. Only set on
	// single-day plans; multi-day plans already thin their own labels.
	AutoSkip bool

	// TimeFormat is the label layout for renderer-placed ticks.
	TimeFormat string

	// PointRadius is non-zero only when the series holds exactly one point.
	PointRadius float64
	// HitRadius is the hover hit-test radius, independent of PointRadius.
	HitRadius float64
}

// For computes the plan for a displayed series. An empty series yields the
// default single-day plan.
func For(series types.MetricSeries) Plan {
	p := Plan{
		AutoSkip:   true,
		TimeFormat: "15:04",
		HitRadius:  defaultHitRadius,
	}
	if len(series) == 0 {
		return p
	}
	if len(series) == 1 {
		p.PointRadius = singlePointRadius
	}
	first := series[0].Timestamp
	last := series[len(series)-1].Timestamp
	p.SpanDays = int(last.Sub(first) / (24 * time.Hour))
	if p.SpanDays == 0 {
		return p
	}
	p.AutoSkip = false
	p.TimeFormat = ""
	p.Ticks = multiDayTicks(first, last)
	return p
}

// multiDayTicks walks hour boundaries from the first point's hour to the last
// point and keeps the ticks that carry a label: the first tick of each
// calendar day (time plus date) and every 4-hour mark (time only). Hours off
// the 4-hour grid are suppressed entirely rather than left to the renderer.
func multiDayTicks(first, last time.Time) []Tick {
	start := first.Truncate(time.Hour)
	ticks := []Tick{}
	prevDay := ""
	for t := start; !t.After(last); t = t.Add(time.Hour) {
		day := t.Format("2006-01-02")
		dayFirst := day != prevDay
		if !dayFirst && t.Hour()%StepHours != 0 {
			continue
		}
		prevDay = day
		tick := Tick{At: t, TimeLabel: t.Format("15:04")}
		if dayFirst {
			tick.DateLabel = t.Format("Jan 2")
		}
		ticks = append(ticks, tick)
	}
	return ticks
}
