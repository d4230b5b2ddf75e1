package axisplan

import (
	"testing"
	"time"

	"github.com/Tojaj/homemon/src/types"
)

func spanSeries(start time.Time, span time.Duration) types.MetricSeries {
	return types.MetricSeries{
		{Timestamp: start, Value: 1},
		{Timestamp: start.Add(span / 2), Value: 2},
		{Timestamp: start.Add(span), Value: 3},
	}
}

func TestSpanDayBoundary(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	oneDay := For(spanSeries(start, 23*time.Hour+59*time.Minute))
	if oneDay.SpanDays != 0 || !oneDay.AutoSkip || oneDay.Ticks != nil {
		t.Fatalf("23h59m must be a single-day plan: %+v", oneDay)
	}
	if oneDay.TimeFormat != "15:04" {
		t.Fatalf("single-day time format: %q", oneDay.TimeFormat)
	}

	multi := For(spanSeries(start, 24*time.Hour+time.Second))
	if multi.SpanDays != 1 || multi.AutoSkip {
		t.Fatalf("24h0m1s must be a multi-day plan: %+v", multi)
	}
	if len(multi.Ticks) == 0 {
		t.Fatalf("multi-day plan must carry explicit ticks")
	}
}

func TestMultiDayTickLabels(t *testing.T) {
	// Starts mid-afternoon at an off-grid hour; crosses midnight once.
	start := time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC)
	p := For(spanSeries(start, 30*time.Hour))

	if p.Ticks[0].DateLabel == "" {
		t.Fatalf("first tick must carry a date: %+v", p.Ticks[0])
	}
	if p.Ticks[0].TimeLabel != "13:00" {
		t.Fatalf("first tick aligned to hour: %+v", p.Ticks[0])
	}

	dateCount := 0
	for _, tick := range p.Ticks {
		if tick.DateLabel != "" {
			dateCount++
			continue
		}
		if tick.At.Hour()%StepHours != 0 {
			t.Fatalf("off-grid tick without date label leaked: %+v", tick)
		}
		if tick.TimeLabel == "" {
			t.Fatalf("grid tick must carry a time label: %+v", tick)
		}
	}
	// one date at the walk start plus one at midnight May 2
	if dateCount != 2 {
		t.Fatalf("date labels: %d want 2", dateCount)
	}

	var midnight Tick
	for _, tick := range p.Ticks {
		if tick.At.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
			midnight = tick
		}
	}
	if midnight.DateLabel != "May 2" || midnight.TimeLabel != "00:00" {
		t.Fatalf("midnight tick: %+v", midnight)
	}
	if midnight.Label() != "00:00\nMay 2" {
		t.Fatalf("two-line label: %q", midnight.Label())
	}
}

func TestSinglePointEmphasis(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	one := For(types.MetricSeries{{Timestamp: start, Value: 20}})
	if one.PointRadius != 4 {
		t.Fatalf("single point radius: %v want 4", one.PointRadius)
	}
	if one.HitRadius != 10 {
		t.Fatalf("hit radius: %v want 10", one.HitRadius)
	}

	two := For(spanSeries(start, time.Hour))
	if two.PointRadius != 0 {
		t.Fatalf("multi-point radius: %v want 0", two.PointRadius)
	}
	if two.HitRadius != 10 {
		t.Fatalf("hit radius must not depend on point count: %v", two.HitRadius)
	}
}

func TestEmptySeriesDefaultPlan(t *testing.T) {
	p := For(nil)
	if p.SpanDays != 0 || !p.AutoSkip || p.Ticks != nil || p.PointRadius != 0 {
		t.Fatalf("empty series must yield the default single-day plan: %+v", p)
	}
}
