// Package trafficgen turns the geometry of a DRAM device into a schedule of
// synthetic traffic that saturates the device and rotates over its banks and
// ranks.
package trafficgen

import (
	"github.com/sarchlab/dramsweep/dram"
)

// Generate creates a schedule with a single traffic phase followed by a stop
// directive carrying exitCode.
func Generate(
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
	r TrafficRequest,
	exitCode int,
) (Schedule, error) {
	return MakeScheduleBuilder(g, t).
		WithPhase(r).
		Build(exitCode)
}

// NumSeqPackets returns the number of burst-sized packets needed to cover a
// stride. A partial burst still needs a whole packet.
func NumSeqPackets(strideBytes, burstSizeBytes uint64) uint64 {
	return (strideBytes + burstSizeBytes - 1) / burstSizeBytes
}

// MaxSeqCountPerRank returns how many sequences a rotating phase sends to a
// rank before moving on. Evenly mixed traffic visits every active bank once
// for reads and once for writes.
func MaxSeqCountPerRank(readPercent, activeBankCount int) int {
	if readPercent == 50 {
		return 2 * activeBankCount
	}

	return activeBankCount
}

func validateTiming(t dram.DerivedTiming) error {
	if t.BurstSizeBytes == 0 {
		return dram.NewConfigurationError(
			"burstSize", t.BurstSizeBytes, "must be positive")
	}

	if t.PageSizeBytes == 0 {
		return dram.NewConfigurationError(
			"pageSize", t.PageSizeBytes, "must be positive")
	}

	if t.InterTransactionTime == 0 {
		return dram.NewConfigurationError(
			"interTransactionTime", t.InterTransactionTime, "must be positive")
	}

	return nil
}

func newGenerateDirective(
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
	r TrafficRequest,
) GenerateDirective {
	d := GenerateDirective{
		Mode:           r.Mode,
		Duration:       r.Duration,
		StartAddr:      r.AddressRange.Start,
		EndAddr:        r.AddressRange.End,
		BlockSize:      t.BurstSizeBytes,
		MinPeriod:      t.InterTransactionTime,
		MaxPeriod:      t.InterTransactionTime,
		ReadPercent:    r.ReadPercent,
		DataLimit:      r.DataLimit,
		NumSeqPackets:  NumSeqPackets(r.StrideBytes, t.BurstSizeBytes),
		PageSize:       t.PageSizeBytes,
		NumBanks:       g.BanksPerRank,
		NumBanksUtil:   r.ActiveBankCount,
		AddressMapping: r.AddressMapping,
		NumRanks:       g.Ranks,
	}

	if r.Mode == ModeRotate {
		d.MaxSeqCountPerRank = MaxSeqCountPerRank(
			r.ReadPercent, r.ActiveBankCount)
	}

	return d
}
