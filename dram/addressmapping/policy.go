// Package addressmapping defines how a linear byte address is split into
// rank, bank, row, and column coordinates.
package addressmapping

import (
	"github.com/sarchlab/dramsweep/dram"
)

// Policy is an address mapping policy. The name lists the coordinate fields
// from the most significant bits to the least significant bits, where Ro is
// the row, Ra the rank, Ba the bank, Co the column, and Ch the channel.
type Policy int

// A list of all supported address mapping policies.
const (
	RoRaBaChCo Policy = iota
	RoRaBaCoCh
	RoCoRaBaCh
)

// DefaultPolicy is the policy used when none is specified.
const DefaultPolicy = RoRaBaCoCh

var policyNames = []string{
	RoRaBaChCo: "RoRaBaChCo",
	RoRaBaCoCh: "RoRaBaCoCh",
	RoCoRaBaCh: "RoCoRaBaCh",
}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return "Unknown"
	}

	return policyNames[p]
}

// Names returns the names of all supported policies.
func Names() []string {
	return append([]string(nil), policyNames...)
}

// Parse converts a policy name to a Policy.
func Parse(name string) (Policy, error) {
	for i, n := range policyNames {
		if n == name {
			return Policy(i), nil
		}
	}

	return 0, dram.NewConfigurationError(
		"addressMapping", name, "unsupported address mapping policy")
}

// Valid tells if p is one of the supported policies.
func (p Policy) Valid() bool {
	return p >= 0 && int(p) < len(policyNames)
}

// MarshalText encodes the policy by name.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a policy name.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
