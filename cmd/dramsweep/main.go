// Command dramsweep derives saturating DRAM traffic from a device geometry
// and optionally plays it on a simulated timeline.
package main

import "github.com/sarchlab/dramsweep/cmd/dramsweep/cmd"

func main() {
	cmd.Execute()
}
