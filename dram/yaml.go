package dram

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/dramsweep/timing"
)

// geometryFile is the on-disk layout of a custom device description. Unset
// fields keep the values of the base memory type.
type geometryFile struct {
	Base                 string    `yaml:"base"`
	Name                 string    `yaml:"name"`
	Protocol             *Protocol `yaml:"protocol"`
	Ranks                *int      `yaml:"ranks"`
	BanksPerRank         *int      `yaml:"banks_per_rank"`
	DevicesPerRank       *int      `yaml:"devices_per_rank"`
	DeviceBusWidth       *int      `yaml:"device_bus_width"`
	BurstLength          *int      `yaml:"burst_length"`
	DeviceRowBufferBytes *int      `yaml:"device_rowbuffer_size"`
	MinBurstTime         yaml.Node `yaml:"tBURST_MIN"`
	NominalBurstTime     *float64  `yaml:"tBURST"`
	DataRate             *float64  `yaml:"data_rate"`
}

// LoadGeometryYAML reads a device description. Times are given in seconds.
// A null tBURST_MIN removes the min burst time of the base. Instead of tBURST,
// data_rate in MT/s derives the burst time from the burst length.
//
//	base: DDR4_2400_8x8
//	name: DDR4_2400_8x8_1rank
//	ranks: 1
//	tBURST_MIN: 2.5e-9
func LoadGeometryYAML(r io.Reader) (DeviceGeometry, error) {
	f := geometryFile{}

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&f); err != nil {
		return DeviceGeometry{}, fmt.Errorf("decoding device description: %w", err)
	}

	b := MakeBuilder()

	if f.Base != "" {
		base, err := LookupMemType(f.Base)
		if err != nil {
			return DeviceGeometry{}, err
		}

		b = b.WithGeometry(base)
	}

	if f.Name != "" {
		b = b.WithName(f.Name)
	}

	if f.Protocol != nil {
		b = b.WithProtocol(*f.Protocol)
	}

	b = f.applyInts(b)

	b, err := f.applyBurstTimes(b)
	if err != nil {
		return DeviceGeometry{}, err
	}

	return b.Build()
}

func (f geometryFile) applyBurstTimes(b Builder) (Builder, error) {
	switch {
	case f.MinBurstTime.Kind == 0:
	case f.MinBurstTime.ShortTag() == "!!null":
		b = b.WithoutMinBurstTime()
	default:
		var t float64
		if err := f.MinBurstTime.Decode(&t); err != nil {
			return b, fmt.Errorf("decoding tBURST_MIN: %w", err)
		}

		b = b.WithMinBurstTime(timing.VTimeInSec(t))
	}

	if f.NominalBurstTime != nil && f.DataRate != nil {
		return b, NewConfigurationError(
			"dataRate", *f.DataRate, "cannot be combined with tBURST")
	}

	if f.NominalBurstTime != nil {
		b = b.WithNominalBurstTime(timing.VTimeInSec(*f.NominalBurstTime))
	}

	if f.DataRate != nil {
		rate := timing.Freq(*f.DataRate) * timing.MHz
		burst := timing.VTimeInSec(float64(b.burstLength) / float64(rate))

		if !(rate > 0) || b.burstLength <= 0 || !burst.FitsInTicks() {
			return b, NewConfigurationError(
				"dataRate", *f.DataRate, "must give a positive burst time")
		}

		b = b.WithNominalBurstTime(rate.NCyclesLater(b.burstLength, 0).Seconds())
	}

	return b, nil
}

func (f geometryFile) applyInts(b Builder) Builder {
	setters := []struct {
		value *int
		set   func(Builder, int) Builder
	}{
		{f.Ranks, Builder.WithRanks},
		{f.BanksPerRank, Builder.WithBanksPerRank},
		{f.DevicesPerRank, Builder.WithDevicesPerRank},
		{f.DeviceBusWidth, Builder.WithDeviceBusWidth},
		{f.BurstLength, Builder.WithBurstLength},
		{f.DeviceRowBufferBytes, Builder.WithDeviceRowBufferSize},
	}

	for _, s := range setters {
		if s.value != nil {
			b = s.set(b, *s.value)
		}
	}

	return b
}
