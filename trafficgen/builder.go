package trafficgen

import (
	"fmt"

	"github.com/sarchlab/dramsweep/dram"
)

// ScheduleBuilder chains several traffic phases into one schedule. Phases run
// in the order they are added.
type ScheduleBuilder struct {
	geometry dram.DeviceGeometry
	timing   dram.DerivedTiming
	requests []TrafficRequest
}

// MakeScheduleBuilder creates a builder for schedules that run on the given
// device.
func MakeScheduleBuilder(
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
) ScheduleBuilder {
	return ScheduleBuilder{
		geometry: g,
		timing:   t,
	}
}

// WithPhase appends a traffic phase.
func (b ScheduleBuilder) WithPhase(r TrafficRequest) ScheduleBuilder {
	requests := make([]TrafficRequest, len(b.requests), len(b.requests)+1)
	copy(requests, b.requests)
	b.requests = append(requests, r)

	return b
}

// NumPhases returns the number of phases added so far.
func (b ScheduleBuilder) NumPhases() int {
	return len(b.requests)
}

// Build validates every phase and creates the schedule. Nothing is produced
// if any phase is invalid.
func (b ScheduleBuilder) Build(exitCode int) (Schedule, error) {
	if err := b.geometry.Validate(); err != nil {
		return Schedule{}, err
	}

	if err := validateTiming(b.timing); err != nil {
		return Schedule{}, err
	}

	phases := make([]GenerateDirective, 0, len(b.requests))

	for i, r := range b.requests {
		if err := r.Validate(b.geometry); err != nil {
			if len(b.requests) > 1 {
				return Schedule{}, fmt.Errorf("phase %d: %w", i, err)
			}

			return Schedule{}, err
		}

		phases = append(phases, newGenerateDirective(b.geometry, b.timing, r))
	}

	return newSchedule(phases, exitCode), nil
}
