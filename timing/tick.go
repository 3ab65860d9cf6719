package timing

import (
	"log"
	"math"
)

// Tick is the unit of simulated time. One tick is one picosecond.
type Tick uint64

// TicksPerSecond is the number of ticks in one second of simulated time.
const TicksPerSecond = 1000000000000

// MaxTick is a time that is never reached.
const MaxTick = Tick(math.MaxUint64)

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// Defines common time units.
const (
	Second      VTimeInSec = 1
	Millisecond VTimeInSec = 1e-3
	Microsecond VTimeInSec = 1e-6
	Nanosecond  VTimeInSec = 1e-9
	Picosecond  VTimeInSec = 1e-12
)

// ToTick converts a time in seconds to ticks, truncating any fraction of a
// tick.
func (t VTimeInSec) ToTick() Tick {
	if !t.FitsInTicks() {
		log.Panicf("cannot convert time %g to ticks", t)
	}

	return Tick(float64(t) * TicksPerSecond)
}

// FitsInTicks reports whether the time is a non-negative number of seconds
// that can be counted in ticks.
func (t VTimeInSec) FitsInTicks() bool {
	ticks := float64(t) * TicksPerSecond

	return ticks >= 0 && ticks < float64(MaxTick)
}

// Seconds converts ticks back to seconds.
func (t Tick) Seconds() VTimeInSec {
	return VTimeInSec(float64(t) / TicksPerSecond)
}

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the number of ticks between two consecutive cycles, rounded
// to the nearest tick.
func (f Freq) Period() Tick {
	if f <= 0 {
		log.Panic("frequency must be positive")
	}

	return Tick(math.Round(TicksPerSecond / float64(f)))
}

// NCyclesLater returns the time after n cycles.
func (f Freq) NCyclesLater(n int, now Tick) Tick {
	return now + Tick(n)*f.Period()
}
