package trafficgen

import (
	"slices"

	"github.com/sarchlab/dramsweep/datarecording"
	"github.com/sarchlab/dramsweep/dram"
)

// Names of the tables written by Record.
const (
	RunTable       = "run"
	DirectiveTable = "directive"
)

type runEntry struct {
	RunID                string
	MemType              string
	Protocol             string
	Ranks                int
	BanksPerRank         int
	DevicesPerRank       int
	DeviceBusWidth       int
	BurstLength          int
	DeviceRowBufferBytes int
	BurstSizeBytes       uint64
	PageSizeBytes        uint64
	InterTransactionTime uint64
	NumDirectives        int
	ExitCode             int
}

type directiveEntry struct {
	RunID              string
	DirectiveIndex     int
	Kind               string
	Mode               string
	Duration           uint64
	StartAddr          uint64
	EndAddr            uint64
	BlockSize          uint64
	MinPeriod          uint64
	MaxPeriod          uint64
	ReadPercent        int
	DataLimit          uint64
	NumSeqPackets      uint64
	PageSize           uint64
	NumBanks           int
	NumBanksUtil       int
	AddressMapping     string
	NumRanks           int
	MaxSeqCountPerRank int
	ExitCode           int
}

// Record writes the device, its derived timing, and every directive of a
// schedule to the recorder, under runID.
func Record(
	recorder datarecording.DataRecorder,
	runID string,
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
	s Schedule,
) {
	tables := recorder.ListTables()
	if !slices.Contains(tables, RunTable) {
		recorder.CreateTable(RunTable, runEntry{})
	}

	if !slices.Contains(tables, DirectiveTable) {
		recorder.CreateTable(DirectiveTable, directiveEntry{})
	}

	recorder.InsertData(RunTable, runEntry{
		RunID:                runID,
		MemType:              g.Name,
		Protocol:             g.Protocol.String(),
		Ranks:                g.Ranks,
		BanksPerRank:         g.BanksPerRank,
		DevicesPerRank:       g.DevicesPerRank,
		DeviceBusWidth:       g.DeviceBusWidthBits,
		BurstLength:          g.BurstLengthBeats,
		DeviceRowBufferBytes: g.DeviceRowBufferBytes,
		BurstSizeBytes:       t.BurstSizeBytes,
		PageSizeBytes:        t.PageSizeBytes,
		InterTransactionTime: uint64(t.InterTransactionTime),
		NumDirectives:        s.Len(),
		ExitCode:             s.ExitCode(),
	})

	for i, d := range s.Directives() {
		recorder.InsertData(DirectiveTable, makeDirectiveEntry(runID, i, d))
	}

	recorder.Flush()
}

func makeDirectiveEntry(runID string, index int, d Directive) directiveEntry {
	e := directiveEntry{
		RunID:          runID,
		DirectiveIndex: index,
	}

	switch d := d.(type) {
	case GenerateDirective:
		e.Kind = "generate"
		e.Mode = d.Mode.String()
		e.Duration = uint64(d.Duration)
		e.StartAddr = d.StartAddr
		e.EndAddr = d.EndAddr
		e.BlockSize = d.BlockSize
		e.MinPeriod = uint64(d.MinPeriod)
		e.MaxPeriod = uint64(d.MaxPeriod)
		e.ReadPercent = d.ReadPercent
		e.DataLimit = d.DataLimit
		e.NumSeqPackets = d.NumSeqPackets
		e.PageSize = d.PageSize
		e.NumBanks = d.NumBanks
		e.NumBanksUtil = d.NumBanksUtil
		e.AddressMapping = d.AddressMapping.String()
		e.NumRanks = d.NumRanks
		e.MaxSeqCountPerRank = d.MaxSeqCountPerRank
	case StopDirective:
		e.Kind = "stop"
		e.ExitCode = d.ExitCode
	}

	return e
}
