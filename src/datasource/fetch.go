package datasource

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tojaj/homemon/src/types"
)

// Result is the outcome of one sensor's range fetch. Exactly one of
// Measurements and Err is meaningful.
type Result struct {
	SensorID     int
	Seq          uint64
	Measurements []types.Measurement
	Err          error
}

// Fetcher issues measurement-range queries for many sensors in parallel and
// joins on completion. One sensor's failure never blocks or fails the
// others. Each request carries a per-sensor monotonic sequence number so the
// chart layer can discard a response that resolves after a newer one.
type Fetcher struct {
	client *Client
	log    *zap.Logger

	mu  sync.Mutex
	seq map[int]uint64
}

func NewFetcher(client *Client, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		log:    log,
		seq:    make(map[int]uint64),
	}
}

func (f *Fetcher) nextSeq(sensorID int) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq[sensorID]++
	return f.seq[sensorID]
}

// FetchRange fetches [start, end] for every given sensor concurrently and
// returns one Result per sensor, in input order. Fetch failures are recorded
// in the Result and logged; they do not abort sibling fetches.
func (f *Fetcher) FetchRange(ctx context.Context, sensorIDs []int, start, end time.Time) []Result {
	return f.fetch(ctx, sensorIDs, start, end, f.client.Measurements)
}

// FetchTrend is FetchRange through the trend endpoint, which returns
// readings in ascending timestamp order. Used for the initial historical
// load of each sensor.
func (f *Fetcher) FetchTrend(ctx context.Context, sensorIDs []int, start, end time.Time) []Result {
	return f.fetch(ctx, sensorIDs, start, end, f.client.SensorTrend)
}

func (f *Fetcher) fetch(ctx context.Context, sensorIDs []int, start, end time.Time,
	get func(context.Context, int, time.Time, time.Time) ([]types.Measurement, error)) []Result {
	results := make([]Result, len(sensorIDs))
	var wg sync.WaitGroup
	for i, sensorID := range sensorIDs {
		wg.Add(1)
		go func(i, sensorID int) {
			defer wg.Done()
			seq := f.nextSeq(sensorID)
			ms, err := get(ctx, sensorID, start, end)
			if err != nil {
				f.log.Warn("sensor fetch failed",
					zap.Int("sensor", sensorID), zap.Uint64("seq", seq), zap.Error(err))
			}
			results[i] = Result{SensorID: sensorID, Seq: seq, Measurements: ms, Err: err}
		}(i, sensorID)
	}
	wg.Wait()
	return results
}
