package chart

import "fmt"

// DuplicateSensorError reports a CreateChart call for a sensor id that
// already has a live chart. Callers must destroy the existing chart first.
type DuplicateSensorError struct {
	SensorID int
}

func (e *DuplicateSensorError) Error() string {
	return fmt.Sprintf("chart for sensor %d already exists", e.SensorID)
}

// UnknownSensorError reports an operation on a sensor id with no live chart.
type UnknownSensorError struct {
	SensorID int
}

func (e *UnknownSensorError) Error() string {
	return fmt.Sprintf("no chart for sensor %d", e.SensorID)
}
