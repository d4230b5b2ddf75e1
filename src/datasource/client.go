// Package datasource consumes the homemon REST API: sensor metadata, recent
// readings, and historical measurement ranges. Fetches for multiple sensors
// run concurrently and fail independently.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tojaj/homemon/src/types"
)

// DataSourceError wraps a per-sensor fetch failure. SensorID is 0 for
// endpoints that are not sensor-scoped.
type DataSourceError struct {
	SensorID int
	Op       string
	Err      error
}

func (e *DataSourceError) Error() string {
	if e.SensorID != 0 {
		return fmt.Sprintf("%s (sensor %d): %v", e.Op, e.SensorID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Client talks to the homemon API. It performs no retries; retry policy
// belongs to the service side.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListSensors returns all known sensors.
func (c *Client) ListSensors(ctx context.Context) ([]types.Sensor, error) {
	var sensors []types.Sensor
	if err := c.getJSON(ctx, "/sensors", nil, &sensors); err != nil {
		return nil, &DataSourceError{Op: "list sensors", Err: err}
	}
	return sensors, nil
}

// GetSensor returns metadata for one sensor.
func (c *Client) GetSensor(ctx context.Context, sensorID int) (types.Sensor, error) {
	var sensor types.Sensor
	if err := c.getJSON(ctx, fmt.Sprintf("/sensors/%d", sensorID), nil, &sensor); err != nil {
		return types.Sensor{}, &DataSourceError{SensorID: sensorID, Op: "get sensor", Err: err}
	}
	return sensor, nil
}

// RecentMeasurements returns the latest reading of every sensor.
func (c *Client) RecentMeasurements(ctx context.Context) ([]types.RecentMeasurement, error) {
	var ms []types.RecentMeasurement
	if err := c.getJSON(ctx, "/measurements/recent", nil, &ms); err != nil {
		return nil, &DataSourceError{Op: "recent measurements", Err: err}
	}
	return ms, nil
}

// Measurements returns a sensor's readings within [start, end]. A zero bound
// leaves that side of the range open. The service returns them descending;
// ordering is the series cache's concern.
func (c *Client) Measurements(ctx context.Context, sensorID int, start, end time.Time) ([]types.Measurement, error) {
	var ms []types.Measurement
	path := fmt.Sprintf("/measurements/%d", sensorID)
	if err := c.getJSON(ctx, path, rangeQuery(start, end), &ms); err != nil {
		return nil, &DataSourceError{SensorID: sensorID, Op: "measurements", Err: err}
	}
	return ms, nil
}

// SensorStats returns summary statistics for a sensor's range.
func (c *Client) SensorStats(ctx context.Context, sensorID int, start, end time.Time) (types.SensorStats, error) {
	var stats types.SensorStats
	path := fmt.Sprintf("/measurements/%d/stats", sensorID)
	if err := c.getJSON(ctx, path, rangeQuery(start, end), &stats); err != nil {
		return types.SensorStats{}, &DataSourceError{SensorID: sensorID, Op: "sensor stats", Err: err}
	}
	return stats, nil
}

// SensorTrend returns a sensor's readings within [start, end] in ascending
// timestamp order.
func (c *Client) SensorTrend(ctx context.Context, sensorID int, start, end time.Time) ([]types.Measurement, error) {
	var ms []types.Measurement
	path := fmt.Sprintf("/measurements/%d/trend", sensorID)
	if err := c.getJSON(ctx, path, rangeQuery(start, end), &ms); err != nil {
		return nil, &DataSourceError{SensorID: sensorID, Op: "sensor trend", Err: err}
	}
	return ms, nil
}

func rangeQuery(start, end time.Time) url.Values {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start_time", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		q.Set("end_time", end.Format(time.RFC3339))
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
