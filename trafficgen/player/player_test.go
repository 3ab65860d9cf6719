package player

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/dram/addressmapping"
	"github.com/sarchlab/dramsweep/hooking"
	"github.com/sarchlab/dramsweep/timing"
	"github.com/sarchlab/dramsweep/trafficgen"
)

const itt = timing.Tick(5000)

func device() (dram.DeviceGeometry, dram.DerivedTiming) {
	return deviceWithRanks(1)
}

func deviceWithRanks(ranks int) (dram.DeviceGeometry, dram.DerivedTiming) {
	g, err := dram.MakeBuilder().
		WithRanks(ranks).
		WithNominalBurstTime(5 * timing.Nanosecond).
		Build()
	Expect(err).NotTo(HaveOccurred())

	t, err := dram.Resolve(g)
	Expect(err).NotTo(HaveOccurred())

	return g, t
}

func request(stride uint64, banks, readPercent, numPackets int) trafficgen.TrafficRequest {
	return trafficgen.TrafficRequest{
		Mode:            trafficgen.ModeRotate,
		ReadPercent:     readPercent,
		StrideBytes:     stride,
		ActiveBankCount: banks,
		AddressMapping:  addressmapping.RoRaBaCoCh,
		Duration:        timing.Tick(numPackets) * itt,
		AddressRange:    trafficgen.AddressRange{Start: 0, End: 256 << 20},
	}
}

func mapperFor(t dram.DerivedTiming) addressmapping.Mapper {
	return mapperWithRanks(t, 1)
}

func mapperWithRanks(t dram.DerivedTiming, ranks uint64) addressmapping.Mapper {
	m, err := addressmapping.MakeBuilder().
		WithPolicy(addressmapping.RoRaBaCoCh).
		WithBlockSize(t.BurstSizeBytes).
		WithPageSize(t.PageSizeBytes).
		WithNumBanks(8).
		WithNumRanks(ranks).
		Build()
	Expect(err).NotTo(HaveOccurred())

	return m
}

type packetCollector struct {
	packets []Packet
}

func (c *packetCollector) Accept(p Packet) {
	c.packets = append(c.packets, p)
}

var _ = Describe("Player", func() {
	var (
		engine    *timing.SerialEngine
		collector *packetCollector
		player    *Player
		g         dram.DeviceGeometry
		t         dram.DerivedTiming
	)

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		collector = &packetCollector{}
		player = MakeBuilder().
			WithEngine(engine).
			WithSink(collector).
			WithSeed(42).
			Build("Player")
		g, t = device()
	})

	play := func(s trafficgen.Schedule) {
		Expect(player.Start(s)).To(Succeed())
		Expect(engine.Run()).To(Succeed())
	}

	It("should space packets by the inter-transaction time", func() {
		s, err := trafficgen.Generate(g, t, request(4096, 4, 100, 10), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		Expect(collector.packets).To(HaveLen(10))
		for i, p := range collector.packets {
			Expect(p.ID).To(Equal(uint64(i)))
			Expect(p.Time).To(Equal(timing.Tick(i) * itt))
			Expect(p.Size).To(Equal(uint64(64)))
			Expect(p.DirectiveIndex).To(Equal(0))
		}
	})

	It("should walk the columns of a page within a sequence", func() {
		s, err := trafficgen.Generate(g, t, request(4096, 4, 100, 10), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		m := mapperFor(t)
		first := m.Decompose(collector.packets[0].Address)
		for i, p := range collector.packets {
			loc := m.Decompose(p.Address)
			Expect(loc.Bank).To(Equal(uint64(0)))
			Expect(loc.Column).To(Equal(first.Column + uint64(i)))
		}
	})

	It("should rotate over the active banks", func() {
		s, err := trafficgen.Generate(g, t, request(64, 4, 100, 8), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		m := mapperFor(t)
		banks := []uint64{}
		for _, p := range collector.packets {
			Expect(p.Read).To(BeTrue())
			banks = append(banks, m.Decompose(p.Address).Bank)
		}

		Expect(banks).To(Equal([]uint64{0, 1, 2, 3, 0, 1, 2, 3}))
	})

	It("should flip direction once per bank cycle at an even mix", func() {
		s, err := trafficgen.Generate(g, t, request(64, 4, 50, 12), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		reads := []bool{}
		for _, p := range collector.packets {
			reads = append(reads, p.Read)
		}

		Expect(reads).To(Equal([]bool{
			true, true, true, true,
			false, false, false, false,
			true, true, true, true,
		}))
	})

	It("should only write when no read is requested", func() {
		s, err := trafficgen.Generate(g, t, request(64, 2, 0, 6), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		Expect(collector.packets).To(HaveLen(6))
		for _, p := range collector.packets {
			Expect(p.Read).To(BeFalse())
		}
	})

	It("should track the read share of uneven mixes", func() {
		s, err := trafficgen.Generate(g, t, request(64, 4, 70, 100), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		reads := 0
		for _, p := range collector.packets {
			if p.Read {
				reads++
			}
		}

		Expect(reads).To(Equal(70))
	})

	It("should stop issuing at the data limit", func() {
		r := request(4096, 4, 100, 10)
		r.DataLimit = 3 * 64
		s, err := trafficgen.Generate(g, t, r, 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		Expect(collector.packets).To(HaveLen(3))
		Expect(engine.Now()).To(Equal(10 * itt))
	})

	It("should play phases back to back", func() {
		s, err := trafficgen.MakeScheduleBuilder(g, t).
			WithPhase(request(64, 2, 100, 3)).
			WithPhase(request(128, 4, 0, 2)).
			Build(5)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		Expect(collector.packets).To(HaveLen(5))
		Expect(collector.packets[3].DirectiveIndex).To(Equal(1))
		Expect(collector.packets[3].Time).To(Equal(3 * itt))
		Expect(collector.packets[3].Read).To(BeFalse())
		Expect(player.ExitCode()).To(Equal(5))
		Expect(player.Progress()).To(Equal(Progress{
			DirectiveIndex: 2,
			NumDirectives:  3,
			PacketsIssued:  5,
			BytesIssued:    5 * 64,
			Stopped:        true,
			ExitCode:       5,
		}))
	})

	It("should report the exit code when stopping", func() {
		exitCode := -1
		player = MakeBuilder().
			WithEngine(engine).
			WithStopCallback(func(code int) { exitCode = code }).
			Build("Player")

		s, err := trafficgen.Generate(g, t, request(64, 1, 100, 1), 3)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		Expect(player.Stopped()).To(BeTrue())
		Expect(player.ExitCode()).To(Equal(3))
		Expect(exitCode).To(Equal(3))
	})

	It("should issue the same packets for the same seed", func() {
		r := request(128, 8, 60, 40)
		r.Mode = trafficgen.ModeRandom
		s, err := trafficgen.Generate(g, t, r, 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		engine2 := timing.NewSerialEngine()
		collector2 := &packetCollector{}
		player2 := MakeBuilder().
			WithEngine(engine2).
			WithSink(collector2).
			WithSeed(42).
			Build("Player2")
		Expect(player2.Start(s)).To(Succeed())
		Expect(engine2.Run()).To(Succeed())

		Expect(collector2.packets).To(Equal(collector.packets))
	})

	It("should keep random traffic on the active banks", func() {
		r := request(64, 3, 50, 50)
		r.Mode = trafficgen.ModeRandom
		s, err := trafficgen.Generate(g, t, r, 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		m := mapperFor(t)
		for _, p := range collector.packets {
			Expect(m.Decompose(p.Address).Bank).To(BeNumerically("<", 3))
			Expect(p.Address).To(BeNumerically("<", uint64(256<<20)))
		}
	})

	It("should keep three-rank traffic inside the address range", func() {
		g, t = deviceWithRanks(3)
		r := request(4096, 8, 50, 400)
		r.Mode = trafficgen.ModeRandom
		s, err := trafficgen.Generate(g, t, r, 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		m := mapperWithRanks(t, 3)
		for _, p := range collector.packets {
			Expect(p.Address).To(BeNumerically("<", uint64(256<<20)))
			Expect(m.Decompose(p.Address).Rank).To(BeNumerically("<", 3))
		}
	})

	It("should invoke hooks", func() {
		positions := map[string]int{}
		hook := hooking.HookFunc(func(ctx hooking.HookCtx) {
			positions[ctx.Pos.Name]++
		})
		player.AcceptHook(&hook)

		s, err := trafficgen.Generate(g, t, request(64, 1, 100, 4), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		Expect(positions).To(Equal(map[string]int{
			HookPosDirectiveStart.Name: 2,
			HookPosPacketIssue.Name:    4,
			HookPosStop.Name:           1,
		}))
	})

	DescribeTable("rotating over ranks",
		func(ranks, banks, readPercent, numPackets int, wantRanks []uint64, wantReads int) {
			g, t = deviceWithRanks(ranks)
			s, err := trafficgen.Generate(g, t,
				request(64, banks, readPercent, numPackets), 0)
			Expect(err).NotTo(HaveOccurred())

			play(s)

			m := mapperWithRanks(t, uint64(ranks))
			gotRanks := []uint64{}
			reads := 0
			for i, p := range collector.packets {
				loc := m.Decompose(p.Address)
				Expect(loc.Bank).To(Equal(uint64(i % banks)))
				gotRanks = append(gotRanks, loc.Rank)
				if p.Read {
					reads++
				}
			}

			Expect(gotRanks).To(Equal(wantRanks))
			Expect(reads).To(Equal(wantReads))
		},
		Entry("two ranks, even mix", 2, 2, 50, 16,
			[]uint64{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1}, 8),
		Entry("two ranks, 70% reads", 2, 2, 70, 10,
			[]uint64{0, 0, 1, 1, 0, 0, 1, 1, 0, 0}, 7),
		Entry("four ranks, even mix", 4, 2, 50, 20,
			[]uint64{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 0, 0, 0, 0}, 10),
		Entry("four ranks, 70% reads", 4, 3, 70, 13,
			[]uint64{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 0}, 9),
		Entry("three ranks, even mix", 3, 2, 50, 12,
			[]uint64{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2}, 6),
	)

	It("should alternate direction within each rank at an even mix", func() {
		g, t = deviceWithRanks(2)
		s, err := trafficgen.Generate(g, t, request(64, 2, 50, 8), 0)
		Expect(err).NotTo(HaveOccurred())

		play(s)

		reads := []bool{}
		for _, p := range collector.packets {
			reads = append(reads, p.Read)
		}

		Expect(reads).To(Equal([]bool{
			true, true, false, false,
			true, true, false, false,
		}))
	})

	It("should reject an empty schedule", func() {
		err := player.Start(trafficgen.Schedule{})

		var cfgErr *dram.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Field).To(Equal("schedule"))
	})
})

var _ = Describe("Player with a mocked sink", func() {
	var (
		mockCtrl *gomock.Controller
		sink     *MockPacketSink
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockPacketSink(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should hand every packet to the sink in order", func() {
		g, t := device()
		engine := timing.NewSerialEngine()
		player := MakeBuilder().WithEngine(engine).WithSink(sink).Build("Player")

		s, err := trafficgen.Generate(g, t, request(64, 2, 100, 2), 0)
		Expect(err).NotTo(HaveOccurred())

		gomock.InOrder(
			sink.EXPECT().Accept(gomock.Cond(func(x any) bool {
				p := x.(Packet)
				return p.ID == 0 && p.Time == 0
			})),
			sink.EXPECT().Accept(gomock.Cond(func(x any) bool {
				p := x.(Packet)
				return p.ID == 1 && p.Time == itt
			})),
		)

		Expect(player.Start(s)).To(Succeed())
		Expect(engine.Run()).To(Succeed())
	})
})
