package player

import (
	"math/rand"

	"github.com/sarchlab/dramsweep/timing"
)

// Builder can build players.
type Builder struct {
	engine timing.EventScheduler
	sink   PacketSink
	seed   int64
	onStop func(exitCode int)
}

// MakeBuilder creates a builder with a seed of 1 and a sink that drops every
// packet.
func MakeBuilder() Builder {
	return Builder{
		seed: 1,
		sink: PacketSinkFunc(func(Packet) {}),
	}
}

// WithEngine sets the engine that drives the player.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithSink sets where the packets go.
func (b Builder) WithSink(sink PacketSink) Builder {
	b.sink = sink
	return b
}

// WithSeed sets the seed of the random number generator that picks the
// addresses. Players with the same seed issue the same packets.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithStopCallback sets a function that is called with the exit code when
// the player reaches the stop directive.
func (b Builder) WithStopCallback(f func(exitCode int)) Builder {
	b.onStop = f
	return b
}

// Build creates a player.
func (b Builder) Build(name string) *Player {
	if b.engine == nil {
		panic("player requires an engine")
	}

	return &Player{
		name:           name,
		engine:         b.engine,
		sink:           b.sink,
		rng:            rand.New(rand.NewSource(b.seed)),
		onStop:         b.onStop,
		directiveIndex: -1,
	}
}
