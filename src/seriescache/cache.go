// Package seriescache stores the last raw measurement batch received for
// each sensor. It is the single source of truth that smoothed display views
// are derived from, so toggling smoothing never loses data.
package seriescache

import (
	"sort"
	"sync"

	"github.com/Tojaj/homemon/src/types"
)

// Cache maps sensor ids to their most recent raw snapshot. A Put replaces
// the previous snapshot wholesale; there is no incremental merge.
type Cache struct {
	mu    sync.RWMutex
	snaps map[int]types.SensorSnapshot
}

func New() *Cache {
	return &Cache{snaps: make(map[int]types.SensorSnapshot)}
}

// Put stores the snapshot for a sensor, replacing any previous one. Each
// series is copied and stable-sorted by timestamp, so callers keep ownership
// of their slices and unsorted batches are tolerated.
func (c *Cache) Put(sensorID int, snap types.SensorSnapshot) {
	sorted := types.SensorSnapshot{
		Temperature: sortedCopy(snap.Temperature),
		Humidity:    sortedCopy(snap.Humidity),
		Battery:     sortedCopy(snap.Battery),
	}
	c.mu.Lock()
	c.snaps[sensorID] = sorted
	c.mu.Unlock()
}

// Get returns the cached snapshot for a sensor, if any.
func (c *Cache) Get(sensorID int) (types.SensorSnapshot, bool) {
	c.mu.RLock()
	snap, ok := c.snaps[sensorID]
	c.mu.RUnlock()
	return snap, ok
}

// Evict drops a sensor's snapshot. Called on chart destruction.
func (c *Cache) Evict(sensorID int) {
	c.mu.Lock()
	delete(c.snaps, sensorID)
	c.mu.Unlock()
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snaps)
}

func sortedCopy(s types.MetricSeries) types.MetricSeries {
	out := make(types.MetricSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
