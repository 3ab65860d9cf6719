package player

import (
	"math/rand"

	"github.com/sarchlab/dramsweep/dram/addressmapping"
	"github.com/sarchlab/dramsweep/trafficgen"
)

// target is where a sequence goes and in which direction.
type target struct {
	rank uint64
	bank uint64
	read bool
}

// A picker decides the target of each new sequence.
type picker interface {
	pick() target
}

// rotatingPicker walks the active banks of a rank, then moves to the next
// rank. Evenly mixed traffic switches direction every time it comes back to
// the first bank.
type rotatingPicker struct {
	numBanksUtil       uint64
	maxSeqCountPerRank uint64
	numSeqs            uint64
	seq                uint64
	read               bool
	direction          directionPicker
}

func newRotatingPicker(d trafficgen.GenerateDirective) *rotatingPicker {
	return &rotatingPicker{
		numBanksUtil:       uint64(d.NumBanksUtil),
		maxSeqCountPerRank: uint64(d.MaxSeqCountPerRank),
		numSeqs:            uint64(d.NumRanks) * uint64(d.MaxSeqCountPerRank),
		direction:          directionPicker{readPercent: d.ReadPercent},
	}
}

func (p *rotatingPicker) pick() target {
	if p.direction.readPercent == 50 {
		if p.seq%p.numBanksUtil == 0 {
			p.read = !p.read
		}
	} else {
		p.read = p.direction.next()
	}

	t := target{
		rank: p.seq / p.maxSeqCountPerRank,
		bank: p.seq % p.numBanksUtil,
		read: p.read,
	}

	p.seq = (p.seq + 1) % p.numSeqs

	return t
}

// randomPicker draws the rank, the bank, and the direction of every
// sequence.
type randomPicker struct {
	rng          *rand.Rand
	numBanksUtil int
	numRanks     int
	readPercent  int
}

func (p *randomPicker) pick() target {
	return target{
		rank: uint64(p.rng.Intn(p.numRanks)),
		bank: uint64(p.rng.Intn(p.numBanksUtil)),
		read: p.readPercent == 100 ||
			(p.readPercent != 0 && p.rng.Intn(100) < p.readPercent),
	}
}

// directionPicker spreads reads over a run of sequences so that the share of
// reads tracks readPercent, without randomness.
type directionPicker struct {
	readPercent int
	credit      int
}

func (d *directionPicker) next() bool {
	d.credit += d.readPercent
	if d.credit >= 100 {
		d.credit -= 100
		return true
	}

	return false
}

// A stream turns the sequences of a phase into burst addresses.
type stream struct {
	d      trafficgen.GenerateDirective
	mapper addressmapping.Mapper
	picker picker
	rng    *rand.Rand

	addr     uint64
	read     bool
	pktsLeft uint64
}

func newStream(
	d trafficgen.GenerateDirective,
	rng *rand.Rand,
) (*stream, error) {
	mapper, err := addressmapping.MakeBuilder().
		WithPolicy(d.AddressMapping).
		WithBlockSize(d.BlockSize).
		WithPageSize(d.PageSize).
		WithNumBanks(uint64(d.NumBanks)).
		WithNumRanks(uint64(d.NumRanks)).
		Build()
	if err != nil {
		return nil, err
	}

	s := &stream{
		d:      d,
		mapper: mapper,
		rng:    rng,
	}

	switch d.Mode {
	case trafficgen.ModeRotate:
		s.picker = newRotatingPicker(d)
	default:
		s.picker = &randomPicker{
			rng:          rng,
			numBanksUtil: d.NumBanksUtil,
			numRanks:     d.NumRanks,
			readPercent:  d.ReadPercent,
		}
	}

	return s, nil
}

func (s *stream) next() (addr uint64, read bool) {
	if s.pktsLeft == 0 {
		s.startSequence()
	} else {
		s.addr = s.mapper.NextColumn(s.addr)
	}

	s.pktsLeft--

	return s.addr, s.read
}

func (s *stream) startSequence() {
	t := s.picker.pick()

	s.read = t.read
	s.pktsLeft = s.d.NumSeqPackets
	s.addr = s.mapper.Compose(s.randomBase(), addressmapping.Location{
		Rank:   t.rank,
		Bank:   t.bank,
		Column: s.randomColumn(),
	})
}

func (s *stream) randomBase() uint64 {
	numBlocks := (s.d.EndAddr - s.d.StartAddr) / s.d.BlockSize
	if numBlocks == 0 {
		return s.d.StartAddr
	}

	base := s.d.StartAddr + uint64(s.rng.Int63n(int64(numBlocks)))*s.d.BlockSize

	// The last row may be cut by the end of the range when the row size is
	// not a power of two.
	rowSize := s.mapper.RowSize()
	if base/rowSize*rowSize+rowSize > s.d.EndAddr &&
		base >= s.d.StartAddr+rowSize {
		base -= rowSize
	}

	return base
}

// randomColumn picks a starting column that leaves room for the whole
// sequence in the page.
func (s *stream) randomColumn() uint64 {
	columns := s.mapper.ColumnsPerPage()
	if s.d.NumSeqPackets >= columns {
		return 0
	}

	return uint64(s.rng.Int63n(int64(columns - s.d.NumSeqPackets + 1)))
}
