package addressmapping

import (
	"github.com/sarchlab/dramsweep/dram"
)

// Location is the rank, bank, and column that a burst-aligned address maps
// to. The column is counted in bursts.
type Location struct {
	Rank   uint64
	Bank   uint64
	Column uint64
}

// A Mapper places bursts according to a mapping policy. Fields are laid out
// by multiplication, so counts that are not powers of two do not alias.
type Mapper struct {
	policy Policy

	blockSize uint64
	pageSize  uint64
	numBanks  uint64
	numRanks  uint64
}

// Builder can build Mappers.
type Builder struct {
	policy    Policy
	blockSize uint64
	pageSize  uint64
	numBanks  uint64
	numRanks  uint64
}

// MakeBuilder creates a builder with the default policy.
func MakeBuilder() Builder {
	return Builder{
		policy:    DefaultPolicy,
		blockSize: 64,
		pageSize:  8192,
		numBanks:  8,
		numRanks:  1,
	}
}

// WithPolicy sets the mapping policy.
func (b Builder) WithPolicy(p Policy) Builder {
	b.policy = p
	return b
}

// WithBlockSize sets the number of bytes in a burst.
func (b Builder) WithBlockSize(n uint64) Builder {
	b.blockSize = n
	return b
}

// WithPageSize sets the number of bytes in a page.
func (b Builder) WithPageSize(n uint64) Builder {
	b.pageSize = n
	return b
}

// WithNumBanks sets the number of banks in each rank.
func (b Builder) WithNumBanks(n uint64) Builder {
	b.numBanks = n
	return b
}

// WithNumRanks sets the number of ranks.
func (b Builder) WithNumRanks(n uint64) Builder {
	b.numRanks = n
	return b
}

// Build creates the Mapper.
func (b Builder) Build() (Mapper, error) {
	if !b.policy.Valid() {
		return Mapper{}, dram.NewConfigurationError(
			"addressMapping", int(b.policy), "unsupported address mapping policy")
	}

	if b.blockSize == 0 || b.numBanks == 0 || b.numRanks == 0 {
		return Mapper{}, dram.NewConfigurationError(
			"addressMapping", b.policy, "block size, banks, and ranks must be positive")
	}

	if b.pageSize < b.blockSize || b.pageSize%b.blockSize != 0 {
		return Mapper{}, dram.NewConfigurationError(
			"pageSize", b.pageSize, "must be a multiple of the block size")
	}

	m := Mapper{
		policy:    b.policy,
		blockSize: b.blockSize,
		pageSize:  b.pageSize,
		numBanks:  b.numBanks,
		numRanks:  b.numRanks,
	}

	return m, nil
}

// Policy returns the mapping policy.
func (m Mapper) Policy() Policy {
	return m.policy
}

// ColumnsPerPage returns the number of bursts in a page.
func (m Mapper) ColumnsPerPage() uint64 {
	return m.pageSize / m.blockSize
}

// field is one digit of a mixed-radix address.
type field struct {
	value *uint64
	radix uint64
}

// fields lists the location fields from the least to the most significant.
func (m Mapper) fields(loc *Location) []field {
	switch m.policy {
	case RoCoRaBaCh:
		// bank, then rank, then column, so that successive bursts of a
		// sequence can overlap their row cycles
		return []field{
			{&loc.Bank, m.numBanks},
			{&loc.Rank, m.numRanks},
			{&loc.Column, m.ColumnsPerPage()},
		}
	default:
		return []field{
			{&loc.Column, m.ColumnsPerPage()},
			{&loc.Bank, m.numBanks},
			{&loc.Rank, m.numRanks},
		}
	}
}

// RowSize returns the number of bytes covered by one row of every bank and
// rank.
func (m Mapper) RowSize() uint64 {
	return m.pageSize * m.numBanks * m.numRanks
}

// Compose replaces the rank, bank, and column of a base address, keeping its
// row. Field values wrap at their counts.
func (m Mapper) Compose(base uint64, loc Location) uint64 {
	offset := uint64(0)
	scale := m.blockSize

	for _, f := range m.fields(&loc) {
		offset += (*f.value % f.radix) * scale
		scale *= f.radix
	}

	return base/m.RowSize()*m.RowSize() + offset
}

// Decompose returns the location of an address.
func (m Mapper) Decompose(addr uint64) Location {
	loc := Location{}
	rest := addr % m.RowSize() / m.blockSize

	for _, f := range m.fields(&loc) {
		*f.value = rest % f.radix
		rest /= f.radix
	}

	return loc
}

// NextColumn returns the address of the burst in the next column of the same
// page, rank, and bank.
func (m Mapper) NextColumn(addr uint64) uint64 {
	switch m.policy {
	case RoCoRaBaCh:
		loc := m.Decompose(addr)
		loc.Column = (loc.Column + 1) % m.ColumnsPerPage()

		return m.Compose(addr, loc)
	default:
		return addr + m.blockSize
	}
}
