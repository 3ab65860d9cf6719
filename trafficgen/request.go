package trafficgen

import (
	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/dram/addressmapping"
	"github.com/sarchlab/dramsweep/timing"
)

// AddressRange is the byte range [Start, End).
type AddressRange struct {
	Start uint64
	End   uint64
}

// Size returns the number of bytes in the range.
func (r AddressRange) Size() uint64 {
	if r.End <= r.Start {
		return 0
	}

	return r.End - r.Start
}

// A TrafficRequest describes one phase of synthetic traffic.
type TrafficRequest struct {
	Mode            Mode
	ReadPercent     int
	StrideBytes     uint64
	ActiveBankCount int
	AddressMapping  addressmapping.Policy
	Duration        timing.Tick
	AddressRange    AddressRange

	// DataLimit stops the phase from issuing once this many bytes are sent.
	// Zero means unlimited.
	DataLimit uint64
}

// Validate checks the request against the geometry it is going to run on.
func (r TrafficRequest) Validate(g dram.DeviceGeometry) error {
	if _, ok := modeNames[r.Mode]; !ok {
		return dram.NewConfigurationError("mode", int(r.Mode), "unsupported mode")
	}

	if r.ReadPercent < 0 || r.ReadPercent > 100 {
		return dram.NewConfigurationError(
			"readPercent", r.ReadPercent, "must be within [0, 100]")
	}

	if r.StrideBytes == 0 {
		return dram.NewConfigurationError(
			"strideBytes", r.StrideBytes, "must be positive")
	}

	if r.ActiveBankCount < 1 || r.ActiveBankCount > g.BanksPerRank {
		return dram.NewConfigurationError(
			"activeBankCount", r.ActiveBankCount,
			"must be within [1, banksPerRank]")
	}

	if !r.AddressMapping.Valid() {
		return dram.NewConfigurationError(
			"addressMapping", int(r.AddressMapping),
			"unsupported address mapping policy")
	}

	if r.Duration == 0 {
		return dram.NewConfigurationError(
			"duration", r.Duration, "must be positive")
	}

	if r.AddressRange.End <= r.AddressRange.Start {
		return dram.NewConfigurationError(
			"addressRange", r.AddressRange, "end must be above start")
	}

	return nil
}
