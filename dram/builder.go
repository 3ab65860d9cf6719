package dram

import "github.com/sarchlab/dramsweep/timing"

// Builder can build device geometries.
type Builder struct {
	name                 string
	protocol             Protocol
	ranks                int
	banksPerRank         int
	devicesPerRank       int
	deviceBusWidth       int
	burstLength          int
	deviceRowBufferBytes int
	minBurstTime         *timing.VTimeInSec
	nominalBurstTime     timing.VTimeInSec
}

// MakeBuilder creates a builder with the default configuration, a
// single-channel DDR3-1600 x64 (8x8 topology).
func MakeBuilder() Builder {
	return Builder{}.WithGeometry(memTypes[DefaultMemType])
}

// WithGeometry copies every field of an existing geometry into the builder.
func (b Builder) WithGeometry(g DeviceGeometry) Builder {
	b.name = g.Name
	b.protocol = g.Protocol
	b.ranks = g.Ranks
	b.banksPerRank = g.BanksPerRank
	b.devicesPerRank = g.DevicesPerRank
	b.deviceBusWidth = g.DeviceBusWidthBits
	b.burstLength = g.BurstLengthBeats
	b.deviceRowBufferBytes = g.DeviceRowBufferBytes
	b.minBurstTime = g.MinBurstTime
	b.nominalBurstTime = g.NominalBurstTime

	return b
}

// WithName sets the name of the memory type.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithProtocol sets the protocol of the device.
func (b Builder) WithProtocol(protocol Protocol) Builder {
	b.protocol = protocol
	return b
}

// WithRanks sets the number of ranks behind the controller.
func (b Builder) WithRanks(n int) Builder {
	b.ranks = n
	return b
}

// WithBanksPerRank sets the number of banks in each rank.
func (b Builder) WithBanksPerRank(n int) Builder {
	b.banksPerRank = n
	return b
}

// WithDevicesPerRank sets the number of devices that together form a rank.
func (b Builder) WithDevicesPerRank(n int) Builder {
	b.devicesPerRank = n
	return b
}

// WithDeviceBusWidth sets the number of data bits each device drives.
func (b Builder) WithDeviceBusWidth(bits int) Builder {
	b.deviceBusWidth = bits
	return b
}

// WithBurstLength sets the number of beats in a burst.
func (b Builder) WithBurstLength(beats int) Builder {
	b.burstLength = beats
	return b
}

// WithDeviceRowBufferSize sets the row buffer size of a single device, in
// bytes.
func (b Builder) WithDeviceRowBufferSize(bytes int) Builder {
	b.deviceRowBufferBytes = bytes
	return b
}

// WithMinBurstTime sets the minimum burst-to-burst spacing. Devices with bank
// groups can issue bursts to different groups faster than the nominal burst
// time.
func (b Builder) WithMinBurstTime(t timing.VTimeInSec) Builder {
	b.minBurstTime = &t
	return b
}

// WithoutMinBurstTime clears the minimum burst time, so that the nominal
// burst time is used.
func (b Builder) WithoutMinBurstTime() Builder {
	b.minBurstTime = nil
	return b
}

// WithNominalBurstTime sets the time it takes to transfer one burst.
func (b Builder) WithNominalBurstTime(t timing.VTimeInSec) Builder {
	b.nominalBurstTime = t
	return b
}

// Build creates the geometry, failing with a ConfigurationError if any field
// is invalid.
func (b Builder) Build() (DeviceGeometry, error) {
	g := DeviceGeometry{
		Name:                 b.name,
		Protocol:             b.protocol,
		Ranks:                b.ranks,
		BanksPerRank:         b.banksPerRank,
		DevicesPerRank:       b.devicesPerRank,
		DeviceBusWidthBits:   b.deviceBusWidth,
		BurstLengthBeats:     b.burstLength,
		DeviceRowBufferBytes: b.deviceRowBufferBytes,
		NominalBurstTime:     b.nominalBurstTime,
	}

	if b.minBurstTime != nil {
		t := *b.minBurstTime
		g.MinBurstTime = &t
	}

	if err := g.Validate(); err != nil {
		return DeviceGeometry{}, err
	}

	return g, nil
}
