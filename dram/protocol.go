package dram

import "strings"

// Protocol defines the category of the memory device.
type Protocol int

// A list of all supported DRAM protocols.
const (
	DDR3 Protocol = iota
	DDR4
	GDDR5
	GDDR5X
	GDDR6
	LPDDR
	LPDDR2
	LPDDR3
	LPDDR4
	LPDDR5
	WideIO
	HBM
	HBM2
	HMC
)

var protocolNames = map[Protocol]string{
	DDR3:   "DDR3",
	DDR4:   "DDR4",
	GDDR5:  "GDDR5",
	GDDR5X: "GDDR5X",
	GDDR6:  "GDDR6",
	LPDDR:  "LPDDR",
	LPDDR2: "LPDDR2",
	LPDDR3: "LPDDR3",
	LPDDR4: "LPDDR4",
	LPDDR5: "LPDDR5",
	WideIO: "WideIO",
	HBM:    "HBM",
	HBM2:   "HBM2",
	HMC:    "HMC",
}

func (p Protocol) String() string {
	name, ok := protocolNames[p]
	if !ok {
		return "Unknown"
	}

	return name
}

// ParseProtocol converts a protocol name, case-insensitively, to a Protocol.
func ParseProtocol(name string) (Protocol, error) {
	for p, n := range protocolNames {
		if strings.EqualFold(n, name) {
			return p, nil
		}
	}

	return 0, NewConfigurationError("protocol", name, "unsupported protocol")
}

// MarshalText encodes the protocol by name.
func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a protocol name.
func (p *Protocol) UnmarshalText(text []byte) error {
	parsed, err := ParseProtocol(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
