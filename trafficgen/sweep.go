package trafficgen

import (
	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/dram/addressmapping"
	"github.com/sarchlab/dramsweep/timing"
)

// SweepConfig describes a sweep over stride sizes and active bank counts.
// Each combination becomes one phase.
type SweepConfig struct {
	Mode           Mode
	ReadPercent    int
	AddressMapping addressmapping.Policy
	PhaseDuration  timing.Tick
	AddressRange   AddressRange

	// DataLimit caps the bytes issued by each phase. Zero means unlimited.
	DataLimit uint64

	// Strides defaults to every multiple of the burst size up to the max
	// stride of the device.
	Strides []uint64

	// BankCounts defaults to 1 through the number of banks per rank.
	BankCounts []int
}

// SweepStrides returns every multiple of the burst size up to the max stride.
func SweepStrides(t dram.DerivedTiming) []uint64 {
	strides := []uint64{}

	if t.BurstSizeBytes == 0 {
		return strides
	}

	for s := t.BurstSizeBytes; s <= t.MaxStride(); s += t.BurstSizeBytes {
		strides = append(strides, s)
	}

	return strides
}

// SweepBankCounts returns 1 through the number of banks per rank.
func SweepBankCounts(g dram.DeviceGeometry) []int {
	counts := make([]int, 0, g.BanksPerRank)
	for n := 1; n <= g.BanksPerRank; n++ {
		counts = append(counts, n)
	}

	return counts
}

// Sweep creates a schedule that visits every stride with every bank count,
// strides in the outer loop.
func Sweep(
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
	cfg SweepConfig,
	exitCode int,
) (Schedule, error) {
	strides := cfg.Strides
	if len(strides) == 0 {
		strides = SweepStrides(t)
	}

	bankCounts := cfg.BankCounts
	if len(bankCounts) == 0 {
		bankCounts = SweepBankCounts(g)
	}

	b := MakeScheduleBuilder(g, t)

	for _, stride := range strides {
		for _, banks := range bankCounts {
			b = b.WithPhase(TrafficRequest{
				Mode:            cfg.Mode,
				ReadPercent:     cfg.ReadPercent,
				StrideBytes:     stride,
				ActiveBankCount: banks,
				AddressMapping:  cfg.AddressMapping,
				Duration:        cfg.PhaseDuration,
				AddressRange:    cfg.AddressRange,
				DataLimit:       cfg.DataLimit,
			})
		}
	}

	if b.NumPhases() == 0 {
		return Schedule{}, dram.NewConfigurationError(
			"strides", strides, "a sweep needs at least one phase")
	}

	return b.Build(exitCode)
}
