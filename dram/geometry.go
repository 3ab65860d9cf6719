// Package dram describes the geometry of a DRAM device and derives the
// quantities needed to drive it at its peak bandwidth.
package dram

import "github.com/sarchlab/dramsweep/timing"

// DeviceGeometry is the physical organization and burst timing of the DRAM
// behind a single-channel memory controller. Use a Builder to create one.
type DeviceGeometry struct {
	Name     string
	Protocol Protocol

	Ranks                int
	BanksPerRank         int
	DevicesPerRank       int
	DeviceBusWidthBits   int
	BurstLengthBeats     int
	DeviceRowBufferBytes int

	// MinBurstTime is the shortest burst-to-burst spacing, available on
	// devices that interleave bursts across bank groups. Nil when the device
	// only defines a nominal burst time.
	MinBurstTime *timing.VTimeInSec

	// NominalBurstTime is the time it takes to transfer one burst.
	NominalBurstTime timing.VTimeInSec
}

// BurstTime returns the burst spacing used to saturate the device, preferring
// the minimum burst time when the device defines one.
func (g DeviceGeometry) BurstTime() timing.VTimeInSec {
	if g.MinBurstTime != nil {
		return *g.MinBurstTime
	}

	return g.NominalBurstTime
}

// Validate checks that every field of the geometry is positive and that the
// burst times can be counted in ticks.
func (g DeviceGeometry) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"ranks", g.Ranks},
		{"banksPerRank", g.BanksPerRank},
		{"devicesPerRank", g.DevicesPerRank},
		{"deviceBusWidthBits", g.DeviceBusWidthBits},
		{"burstLengthBeats", g.BurstLengthBeats},
		{"deviceRowBufferBytes", g.DeviceRowBufferBytes},
	}

	for _, p := range positive {
		if p.value <= 0 {
			return NewConfigurationError(p.field, p.value, "must be positive")
		}
	}

	if g.MinBurstTime != nil {
		if err := validateBurstTime("minBurstTime", *g.MinBurstTime); err != nil {
			return err
		}
	}

	return validateBurstTime("nominalBurstTime", g.NominalBurstTime)
}

func validateBurstTime(field string, t timing.VTimeInSec) error {
	if !(t > 0) {
		return NewConfigurationError(field, t, "must be positive")
	}

	if !t.FitsInTicks() {
		return NewConfigurationError(field, t, "too long to count in ticks")
	}

	return nil
}
