// Package player replays a traffic schedule over simulated time. Each
// generate directive becomes a stream of burst-sized packets that is handed
// to a PacketSink.
package player

import (
	"log"
	"math/rand"
	"reflect"
	"sync"

	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/hooking"
	"github.com/sarchlab/dramsweep/timing"
	"github.com/sarchlab/dramsweep/trafficgen"
)

// HookPosDirectiveStart is triggered when the player enters a directive. The
// item is the directive and the detail is its index.
var HookPosDirectiveStart = &hooking.HookPos{Name: "DirectiveStart"}

// HookPosPacketIssue is triggered for every packet, after the sink has
// accepted it. The item is the Packet.
var HookPosPacketIssue = &hooking.HookPos{Name: "PacketIssue"}

// HookPosStop is triggered when the player reaches the stop directive. The
// item is the StopDirective.
var HookPosStop = &hooking.HookPos{Name: "Stop"}

// Progress is a snapshot of how far a player is in its schedule.
type Progress struct {
	DirectiveIndex int
	NumDirectives  int
	PacketsIssued  uint64
	BytesIssued    uint64
	PhasePackets   uint64
	Stopped        bool
	ExitCode       int
}

// A Player issues the packets described by a schedule.
type Player struct {
	hooking.HookableBase

	name   string
	engine timing.EventScheduler
	sink   PacketSink
	rng    *rand.Rand
	onStop func(exitCode int)

	schedule trafficgen.Schedule
	streams  []*stream

	lock           sync.Mutex
	directiveIndex int
	phaseEnd       timing.Tick
	phaseBytes     uint64
	phasePackets   uint64
	packetsIssued  uint64
	bytesIssued    uint64
	nextPacketID   uint64
	started        bool
	stopped        bool
	exitCode       int
}

// Name returns the name of the player.
func (p *Player) Name() string {
	return p.name
}

// Schedule returns the schedule being played.
func (p *Player) Schedule() trafficgen.Schedule {
	return p.schedule
}

// Start prepares every phase of the schedule and schedules the first
// directive at the current time. The engine needs to run afterward.
func (p *Player) Start(s trafficgen.Schedule) error {
	if p.started {
		panic("player already started")
	}

	if s.Len() == 0 {
		return dram.NewConfigurationError(
			"schedule", 0, "must end with a stop directive")
	}

	streams := make([]*stream, s.Len())

	for i, d := range s.Directives() {
		g, ok := d.(trafficgen.GenerateDirective)
		if !ok {
			continue
		}

		st, err := newStream(g, p.rng)
		if err != nil {
			return err
		}

		streams[i] = st
	}

	p.lock.Lock()
	p.schedule = s
	p.streams = streams
	p.started = true
	p.lock.Unlock()

	p.engine.Schedule(newEnterDirectiveEvent(p.engine.Now(), p, 0))

	return nil
}

// Handle processes the events of the player.
func (p *Player) Handle(e timing.Event) error {
	switch e := e.(type) {
	case *enterDirectiveEvent:
		p.enterDirective(e.Time(), e.index)
	case *issueEvent:
		p.issue(e.Time(), e.index)
	default:
		log.Panicf("cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

func (p *Player) enterDirective(now timing.Tick, index int) {
	d := p.schedule.At(index)

	p.lock.Lock()
	p.directiveIndex = index
	p.phaseBytes = 0
	p.phasePackets = 0
	p.lock.Unlock()

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosDirectiveStart,
		Item:   d,
		Detail: index,
	})

	switch d := d.(type) {
	case trafficgen.GenerateDirective:
		p.lock.Lock()
		p.phaseEnd = now + d.Duration
		p.lock.Unlock()

		p.engine.Schedule(newIssueEvent(now, p, index))
		p.engine.Schedule(newEnterDirectiveEvent(now+d.Duration, p, index+1))
	case trafficgen.StopDirective:
		p.stop(d)
	}
}

func (p *Player) issue(now timing.Tick, index int) {
	d := p.schedule.At(index).(trafficgen.GenerateDirective)

	addr, read := p.streams[index].next()

	p.lock.Lock()
	pkt := Packet{
		ID:             p.nextPacketID,
		Time:           now,
		Address:        addr,
		Size:           d.BlockSize,
		Read:           read,
		DirectiveIndex: index,
	}
	p.nextPacketID++
	p.packetsIssued++
	p.bytesIssued += d.BlockSize
	p.phasePackets++
	p.phaseBytes += d.BlockSize
	limitReached := d.DataLimit != 0 && p.phaseBytes >= d.DataLimit
	phaseEnd := p.phaseEnd
	p.lock.Unlock()

	p.sink.Accept(pkt)

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosPacketIssue,
		Item:   pkt,
	})

	next := now + d.MinPeriod
	if limitReached || next >= phaseEnd {
		return
	}

	p.engine.Schedule(newIssueEvent(next, p, index))
}

func (p *Player) stop(d trafficgen.StopDirective) {
	p.lock.Lock()
	p.stopped = true
	p.exitCode = d.ExitCode
	p.lock.Unlock()

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosStop,
		Item:   d,
	})

	if p.onStop != nil {
		p.onStop(d.ExitCode)
	}
}

// Stopped tells if the player has reached the stop directive.
func (p *Player) Stopped() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.stopped
}

// ExitCode returns the exit code of the stop directive. It is only
// meaningful after the player stops.
func (p *Player) ExitCode() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.exitCode
}

// Progress returns a snapshot of the progress. It is safe to call from
// other goroutines while the engine runs.
func (p *Player) Progress() Progress {
	p.lock.Lock()
	defer p.lock.Unlock()

	return Progress{
		DirectiveIndex: p.directiveIndex,
		NumDirectives:  p.schedule.Len(),
		PacketsIssued:  p.packetsIssued,
		BytesIssued:    p.bytesIssued,
		PhasePackets:   p.phasePackets,
		Stopped:        p.stopped,
		ExitCode:       p.exitCode,
	}
}
