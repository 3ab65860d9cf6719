package player

import "github.com/sarchlab/dramsweep/timing"

// A Packet is a burst-sized request issued by the player.
type Packet struct {
	ID             uint64
	Time           timing.Tick
	Address        uint64
	Size           uint64
	Read           bool
	DirectiveIndex int
}

// A PacketSink receives the packets issued by a player, in issue order.
type PacketSink interface {
	Accept(p Packet)
}

// PacketSinkFunc turns a function into a PacketSink.
type PacketSinkFunc func(p Packet)

// Accept calls f.
func (f PacketSinkFunc) Accept(p Packet) {
	f(p)
}
