package trafficgen

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/dram/addressmapping"
)

var _ = Describe("ScheduleBuilder", func() {
	var (
		g dram.DeviceGeometry
		t dram.DerivedTiming
	)

	BeforeEach(func() {
		g, t = singleRankDDR3()
	})

	It("should keep phases in order and end with a stop", func() {
		first := defaultRequest()
		second := defaultRequest()
		second.StrideBytes = 128
		second.AddressMapping = addressmapping.RoCoRaBaCh

		s, err := MakeScheduleBuilder(g, t).
			WithPhase(first).
			WithPhase(second).
			Build(7)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(3))

		phases := s.Phases()
		Expect(phases).To(HaveLen(2))
		Expect(phases[0].NumSeqPackets).To(Equal(uint64(64)))
		Expect(phases[1].NumSeqPackets).To(Equal(uint64(2)))
		Expect(phases[1].AddressMapping).To(Equal(addressmapping.RoCoRaBaCh))
		Expect(s.At(2)).To(Equal(StopDirective{ExitCode: 7}))
		Expect(s.TotalDuration()).To(Equal(2 * first.Duration))
	})

	It("should produce a stop-only schedule without phases", func() {
		s, err := MakeScheduleBuilder(g, t).Build(1)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Directives()).To(Equal([]Directive{StopDirective{ExitCode: 1}}))
	})

	It("should not produce anything if any phase is invalid", func() {
		bad := defaultRequest()
		bad.ActiveBankCount = 0

		s, err := MakeScheduleBuilder(g, t).
			WithPhase(defaultRequest()).
			WithPhase(bad).
			Build(0)

		expectConfigurationError(err, "activeBankCount")
		Expect(err.Error()).To(ContainSubstring("phase 1"))
		Expect(s.Len()).To(BeZero())
	})

	It("should not let branches share phases", func() {
		base := MakeScheduleBuilder(g, t).WithPhase(defaultRequest())

		other := defaultRequest()
		other.StrideBytes = 64
		a := base.WithPhase(other)

		other.StrideBytes = 128
		b := base.WithPhase(other)

		sa, err := a.Build(0)
		Expect(err).NotTo(HaveOccurred())
		sb, err := b.Build(0)
		Expect(err).NotTo(HaveOccurred())

		Expect(sa.Phases()[1].NumSeqPackets).To(Equal(uint64(1)))
		Expect(sb.Phases()[1].NumSeqPackets).To(Equal(uint64(2)))
	})

	It("should hand out copies of the directives", func() {
		s, err := MakeScheduleBuilder(g, t).WithPhase(defaultRequest()).Build(0)
		Expect(err).NotTo(HaveOccurred())

		directives := s.Directives()
		directives[0] = StopDirective{ExitCode: 9}

		Expect(s.At(0)).To(BeAssignableToTypeOf(GenerateDirective{}))
	})
})

var _ = Describe("Sweep", func() {
	var (
		g   dram.DeviceGeometry
		t   dram.DerivedTiming
		cfg SweepConfig
	)

	BeforeEach(func() {
		g, t = singleRankDDR3()
		cfg = SweepConfig{
			Mode:           ModeRotate,
			ReadPercent:    100,
			AddressMapping: addressmapping.RoRaBaCoCh,
			PhaseDuration:  25000000,
			AddressRange:   AddressRange{End: 256 << 20},
		}
	})

	It("should step strides by the burst size up to the max stride", func() {
		Expect(SweepStrides(t)).To(Equal(
			[]uint64{64, 128, 192, 256, 320, 384, 448, 512}))
	})

	It("should visit every stride with every bank count", func() {
		s, err := Sweep(g, t, cfg, 0)

		Expect(err).NotTo(HaveOccurred())

		phases := s.Phases()
		Expect(phases).To(HaveLen(8 * 8))
		Expect(s.Len()).To(Equal(8*8 + 1))
		Expect(s.At(s.Len() - 1)).To(Equal(StopDirective{}))

		Expect(phases[0].NumSeqPackets).To(Equal(uint64(1)))
		Expect(phases[0].NumBanksUtil).To(Equal(1))
		Expect(phases[7].NumBanksUtil).To(Equal(8))
		Expect(phases[8].NumSeqPackets).To(Equal(uint64(2)))
		Expect(phases[63].NumSeqPackets).To(Equal(uint64(8)))
		Expect(phases[63].MaxSeqCountPerRank).To(Equal(8))
	})

	It("should use the given strides and bank counts", func() {
		cfg.Strides = []uint64{4096}
		cfg.BankCounts = []int{2, 4}

		s, err := Sweep(g, t, cfg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Phases()).To(HaveLen(2))
		Expect(s.Phases()[1].NumBanksUtil).To(Equal(4))
	})

	It("should carry the data limit into every phase", func() {
		cfg.Strides = []uint64{64, 128}
		cfg.BankCounts = []int{1, 2}
		cfg.DataLimit = 128

		s, err := Sweep(g, t, cfg, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Phases()).To(HaveLen(4))
		for _, d := range s.Phases() {
			Expect(d.DataLimit).To(Equal(uint64(128)))
		}
	})

	It("should reject sweeps without phases", func() {
		t.BurstSizeBytes = 1024

		_, err := Sweep(g, t, cfg, 0)

		expectConfigurationError(err, "strides")
	})

	It("should reject bank counts beyond the device", func() {
		cfg.BankCounts = []int{16}

		_, err := Sweep(g, t, cfg, 0)

		expectConfigurationError(err, "activeBankCount")
	})
})
