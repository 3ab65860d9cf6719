package addressmapping

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Mapper", func() {
	build := func(p Policy) Mapper {
		m, err := MakeBuilder().
			WithPolicy(p).
			WithBlockSize(64).
			WithPageSize(8192).
			WithNumBanks(8).
			WithNumRanks(2).
			Build()
		Expect(err).NotTo(HaveOccurred())

		return m
	}

	It("should place the column above the block for RoRaBaCoCh", func() {
		m := build(RoRaBaCoCh)

		addr := m.Compose(0, Location{Rank: 1, Bank: 3, Column: 5})

		// 6 block bits, 7 column bits, 3 bank bits, 1 rank bit
		Expect(addr).To(Equal(uint64(5<<6 | 3<<13 | 1<<16)))
	})

	It("should place the bank above the block for RoCoRaBaCh", func() {
		m := build(RoCoRaBaCh)

		addr := m.Compose(0, Location{Rank: 1, Bank: 3, Column: 5})

		// 6 block bits, 3 bank bits, 1 rank bit, 7 column bits
		Expect(addr).To(Equal(uint64(3<<6 | 1<<9 | 5<<10)))
	})

	It("should keep the row bits and align to a block", func() {
		m := build(RoRaBaChCo)
		base := uint64(0xABC<<17 | 0x7F)

		addr := m.Compose(base, Location{Rank: 0, Bank: 7, Column: 1})

		Expect(addr >> 17).To(Equal(uint64(0xABC)))
		Expect(addr % 64).To(BeZero())
	})

	DescribeTable("round trip of locations",
		func(p Policy) {
			m := build(p)
			base := uint64(0x12345678)

			for rank := uint64(0); rank < 2; rank++ {
				for bank := uint64(0); bank < 8; bank++ {
					loc := Location{Rank: rank, Bank: bank, Column: 100}

					Expect(m.Decompose(m.Compose(base, loc))).To(Equal(loc))
				}
			}
		},
		Entry("RoRaBaChCo", RoRaBaChCo),
		Entry("RoRaBaCoCh", RoRaBaCoCh),
		Entry("RoCoRaBaCh", RoCoRaBaCh),
	)

	DescribeTable("advancing to the next column",
		func(p Policy) {
			m := build(p)
			addr := m.Compose(0x4000000, Location{Rank: 1, Bank: 2, Column: 10})

			next := m.NextColumn(addr)

			Expect(m.Decompose(next)).To(Equal(
				Location{Rank: 1, Bank: 2, Column: 11}))
		},
		Entry("RoRaBaChCo", RoRaBaChCo),
		Entry("RoRaBaCoCh", RoRaBaCoCh),
		Entry("RoCoRaBaCh", RoCoRaBaCh),
	)

	DescribeTable("counts that are not powers of two",
		func(p Policy) {
			m, err := MakeBuilder().
				WithPolicy(p).
				WithBlockSize(64).
				WithPageSize(8192).
				WithNumBanks(6).
				WithNumRanks(3).
				Build()
			Expect(err).NotTo(HaveOccurred())

			seen := make(map[uint64]Location)
			for rank := uint64(0); rank < 3; rank++ {
				for bank := uint64(0); bank < 6; bank++ {
					loc := Location{Rank: rank, Bank: bank, Column: 7}
					addr := m.Compose(0x40000000, loc)

					Expect(m.Decompose(addr)).To(Equal(loc))
					Expect(seen).NotTo(HaveKey(addr))
					seen[addr] = loc
				}
			}
		},
		Entry("RoRaBaChCo", RoRaBaChCo),
		Entry("RoCoRaBaCh", RoCoRaBaCh),
	)

	It("should keep the row with three ranks", func() {
		m, err := MakeBuilder().WithNumBanks(6).WithNumRanks(3).Build()
		Expect(err).NotTo(HaveOccurred())
		rowSize := uint64(8192 * 6 * 3)

		addr := m.Compose(5*rowSize+100, Location{Rank: 2, Bank: 5, Column: 1})

		Expect(addr / rowSize).To(Equal(uint64(5)))
		Expect(m.Decompose(addr)).To(Equal(Location{Rank: 2, Bank: 5, Column: 1}))
	})

	It("should count columns per page", func() {
		Expect(build(RoRaBaCoCh).ColumnsPerPage()).To(Equal(uint64(128)))
	})

	It("should ignore rank bits with a single rank", func() {
		m, err := MakeBuilder().WithNumRanks(1).Build()
		Expect(err).NotTo(HaveOccurred())

		addr := m.Compose(0, Location{Rank: 1, Bank: 1, Column: 0})

		Expect(m.Decompose(addr)).To(Equal(Location{Bank: 1}))
	})

	It("should reject pages that are not a multiple of the block", func() {
		_, err := MakeBuilder().WithBlockSize(64).WithPageSize(96).Build()

		Expect(err).To(HaveOccurred())
	})

	It("should reject unknown policies", func() {
		_, err := MakeBuilder().WithPolicy(Policy(9)).Build()

		Expect(err).To(HaveOccurred())
	})
})
