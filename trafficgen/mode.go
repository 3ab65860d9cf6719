package trafficgen

import "github.com/sarchlab/dramsweep/dram"

// Mode selects how a traffic phase picks the bank and the rank of each
// sequence.
type Mode int

const (
	// ModeRotate rotates sequences over the active banks and then over the
	// ranks, in a fixed order.
	ModeRotate Mode = iota

	// ModeRandom picks the bank and the rank of each sequence at random.
	ModeRandom
)

var modeNames = map[Mode]string{
	ModeRotate: "DRAM_ROTATE",
	ModeRandom: "DRAM",
}

func (m Mode) String() string {
	name, ok := modeNames[m]
	if !ok {
		return "Unknown"
	}

	return name
}

// ParseMode converts a mode name, DRAM or DRAM_ROTATE, to a Mode.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}

	return 0, dram.NewConfigurationError("mode", name, "unsupported mode")
}

// ModeNames returns the names of all the modes.
func ModeNames() []string {
	return []string{ModeRandom.String(), ModeRotate.String()}
}
