package dram

import (
	"fmt"

	"github.com/sarchlab/dramsweep/timing"
)

// maxStrideBytes caps the sequential stride of a sweep. It is more than
// enough to observe the page-hit behavior of any supported device.
const maxStrideBytes = 512

// DerivedTiming holds the quantities derived from a DeviceGeometry.
type DerivedTiming struct {
	// BurstSizeBytes is the number of bytes moved by one burst.
	BurstSizeBytes uint64

	// PageSizeBytes is the size of a row buffer across all the devices of
	// a rank.
	PageSizeBytes uint64

	// InterTransactionTime is the spacing between back-to-back bursts that
	// matches the peak bandwidth of the device.
	InterTransactionTime timing.Tick
}

// Resolve derives the burst size, the page size, and the saturating
// inter-transaction time from a device geometry.
func Resolve(g DeviceGeometry) (DerivedTiming, error) {
	if err := g.Validate(); err != nil {
		return DerivedTiming{}, err
	}

	burstBits := uint64(g.DevicesPerRank) *
		uint64(g.DeviceBusWidthBits) *
		uint64(g.BurstLengthBeats)
	if burstBits%8 != 0 {
		return DerivedTiming{}, NewConfigurationError(
			"burstSize",
			fmt.Sprintf("%d bits", burstBits),
			"burst size must be a whole number of bytes",
		)
	}

	t := DerivedTiming{
		BurstSizeBytes: burstBits / 8,
		PageSizeBytes: uint64(g.DevicesPerRank) *
			uint64(g.DeviceRowBufferBytes),
		InterTransactionTime: g.BurstTime().ToTick(),
	}

	if t.InterTransactionTime == 0 {
		return DerivedTiming{}, NewConfigurationError(
			"burstTime", g.BurstTime(), "shorter than one tick")
	}

	return t, nil
}

// MaxStride returns the largest stride worth sweeping, which is the page size
// or 512 bytes, whichever is smaller.
func (t DerivedTiming) MaxStride() uint64 {
	return min(maxStrideBytes, t.PageSizeBytes)
}

// BurstsPerPage returns how many bursts fit in one page.
func (t DerivedTiming) BurstsPerPage() uint64 {
	return t.PageSizeBytes / t.BurstSizeBytes
}

// PeakBandwidth returns the bandwidth, in bytes per second, achieved when a
// burst is issued every inter-transaction time.
func (t DerivedTiming) PeakBandwidth() float64 {
	return float64(t.BurstSizeBytes) /
		float64(t.InterTransactionTime.Seconds())
}
