package dram

import (
	"sort"

	"github.com/sarchlab/dramsweep/timing"
)

// DefaultMemType is the memory type used when none is specified.
const DefaultMemType = "DDR3_1600_8x8"

func burstTime(t timing.VTimeInSec) *timing.VTimeInSec {
	return &t
}

// memTypes follows the naming of the gem5 DRAM interfaces, as
// <protocol>_<data rate>_<devices>x<device width>.
var memTypes = map[string]DeviceGeometry{
	"DDR3_1600_8x8": {
		Protocol: DDR3, Ranks: 2, BanksPerRank: 8,
		DevicesPerRank: 8, DeviceBusWidthBits: 8, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 1024,
		NominalBurstTime:     5 * timing.Nanosecond,
	},
	"DDR3_2133_8x8": {
		Protocol: DDR3, Ranks: 2, BanksPerRank: 8,
		DevicesPerRank: 8, DeviceBusWidthBits: 8, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 1024,
		NominalBurstTime:     3.752 * timing.Nanosecond,
	},
	"DDR4_2400_16x4": {
		Protocol: DDR4, Ranks: 2, BanksPerRank: 16,
		DevicesPerRank: 16, DeviceBusWidthBits: 4, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 512,
		NominalBurstTime:     3.332 * timing.Nanosecond,
	},
	"DDR4_2400_8x8": {
		Protocol: DDR4, Ranks: 2, BanksPerRank: 16,
		DevicesPerRank: 8, DeviceBusWidthBits: 8, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 1024,
		NominalBurstTime:     3.332 * timing.Nanosecond,
	},
	"DDR4_2400_4x16": {
		Protocol: DDR4, Ranks: 1, BanksPerRank: 8,
		DevicesPerRank: 4, DeviceBusWidthBits: 16, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 2048,
		NominalBurstTime:     3.332 * timing.Nanosecond,
	},
	"LPDDR2_S4_1066_1x32": {
		Protocol: LPDDR2, Ranks: 1, BanksPerRank: 8,
		DevicesPerRank: 1, DeviceBusWidthBits: 32, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 1024,
		NominalBurstTime:     7.5 * timing.Nanosecond,
	},
	"LPDDR3_1600_1x32": {
		Protocol: LPDDR3, Ranks: 1, BanksPerRank: 8,
		DevicesPerRank: 1, DeviceBusWidthBits: 32, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 4096,
		NominalBurstTime:     5 * timing.Nanosecond,
	},
	"WideIO_200_1x128": {
		Protocol: WideIO, Ranks: 1, BanksPerRank: 4,
		DevicesPerRank: 1, DeviceBusWidthBits: 128, BurstLengthBeats: 4,
		DeviceRowBufferBytes: 4096,
		NominalBurstTime:     20 * timing.Nanosecond,
	},
	"GDDR5_4000_2x32": {
		Protocol: GDDR5, Ranks: 1, BanksPerRank: 16,
		DevicesPerRank: 2, DeviceBusWidthBits: 32, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 2048,
		NominalBurstTime:     2 * timing.Nanosecond,
	},
	"HBM_1000_4H_1x128": {
		Protocol: HBM, Ranks: 1, BanksPerRank: 16,
		DevicesPerRank: 1, DeviceBusWidthBits: 128, BurstLengthBeats: 4,
		DeviceRowBufferBytes: 2048,
		NominalBurstTime:     4 * timing.Nanosecond,
	},
	"HBM_1000_4H_1x64": {
		Protocol: HBM, Ranks: 1, BanksPerRank: 16,
		DevicesPerRank: 1, DeviceBusWidthBits: 64, BurstLengthBeats: 8,
		DeviceRowBufferBytes: 1024,
		NominalBurstTime:     4 * timing.Nanosecond,
	},
	"LPDDR5_5500_1x16_BG_BL32": {
		Protocol: LPDDR5, Ranks: 1, BanksPerRank: 16,
		DevicesPerRank: 1, DeviceBusWidthBits: 16, BurstLengthBeats: 32,
		DeviceRowBufferBytes: 2048,
		MinBurstTime:         burstTime(2.909 * timing.Nanosecond),
		NominalBurstTime:     5.818 * timing.Nanosecond,
	},
	"LPDDR5_6400_1x16_BG_BL32": {
		Protocol: LPDDR5, Ranks: 1, BanksPerRank: 16,
		DevicesPerRank: 1, DeviceBusWidthBits: 16, BurstLengthBeats: 32,
		DeviceRowBufferBytes: 2048,
		MinBurstTime:         burstTime(2.5 * timing.Nanosecond),
		NominalBurstTime:     5 * timing.Nanosecond,
	},
}

func init() {
	for name, g := range memTypes {
		g.Name = name
		memTypes[name] = g
	}
}

// MemTypes returns the names of all the built-in memory types, sorted.
func MemTypes() []string {
	names := make([]string, 0, len(memTypes))
	for name := range memTypes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// LookupMemType returns the geometry of a built-in memory type.
func LookupMemType(name string) (DeviceGeometry, error) {
	g, ok := memTypes[name]
	if !ok {
		return DeviceGeometry{}, NewConfigurationError(
			"memType", name, "unsupported memory type")
	}

	if g.MinBurstTime != nil {
		t := *g.MinBurstTime
		g.MinBurstTime = &t
	}

	return g, nil
}
