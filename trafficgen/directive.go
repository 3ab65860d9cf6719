package trafficgen

import (
	"github.com/sarchlab/dramsweep/dram/addressmapping"
	"github.com/sarchlab/dramsweep/timing"
)

// A Directive is one step of a traffic schedule. It is either a
// GenerateDirective or a StopDirective.
type Directive interface {
	isDirective()
}

// A GenerateDirective asks the traffic player to issue burst-sized packets
// for a fixed duration.
type GenerateDirective struct {
	Mode     Mode
	Duration timing.Tick

	StartAddr uint64
	EndAddr   uint64
	BlockSize uint64

	MinPeriod timing.Tick
	MaxPeriod timing.Tick

	ReadPercent int

	// DataLimit is the number of bytes after which the phase stops issuing.
	// Zero means unlimited.
	DataLimit uint64

	NumSeqPackets  uint64
	PageSize       uint64
	NumBanks       int
	NumBanksUtil   int
	AddressMapping addressmapping.Policy
	NumRanks       int

	// MaxSeqCountPerRank is the number of sequences sent to a rank before
	// moving to the next rank. Zero when the mode does not rotate.
	MaxSeqCountPerRank int
}

func (GenerateDirective) isDirective() {}

// A StopDirective ends the run with an exit code.
type StopDirective struct {
	ExitCode int
}

func (StopDirective) isDirective() {}
