package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/dramsweep/monitoring"
	"github.com/sarchlab/dramsweep/timing"
	"github.com/sarchlab/dramsweep/trafficgen"
	"github.com/sarchlab/dramsweep/trafficgen/player"
)

// packetCounter tallies the packets of each directive.
type packetCounter struct {
	reads  map[int]uint64
	writes map[int]uint64
}

func newPacketCounter() *packetCounter {
	return &packetCounter{
		reads:  make(map[int]uint64),
		writes: make(map[int]uint64),
	}
}

func (c *packetCounter) Accept(p player.Packet) {
	if p.Read {
		c.reads[p.DirectiveIndex]++
		return
	}

	c.writes[p.DirectiveIndex]++
}

// playSchedule runs a schedule to its stop directive. If a monitor is given,
// the engine and the player are registered to it before running.
func playSchedule(
	s trafficgen.Schedule,
	seed int64,
	monitor *monitoring.Monitor,
) (*player.Player, *packetCounter, error) {
	engine := timing.NewSerialEngine()
	counter := newPacketCounter()

	p := player.MakeBuilder().
		WithEngine(engine).
		WithSink(counter).
		WithSeed(seed).
		Build("Player")

	if err := p.Start(s); err != nil {
		return nil, nil, err
	}

	if monitor != nil {
		monitor.RegisterEngine(engine)
		monitor.RegisterPlayer(p)
	}

	if err := engine.Run(); err != nil {
		return nil, nil, err
	}

	return p, counter, nil
}

func reportPlay(
	w io.Writer,
	s trafficgen.Schedule,
	p *player.Player,
	c *packetCounter,
) {
	fmt.Fprintf(w, "[Play]\n")

	for i, d := range s.Phases() {
		reads, writes := c.reads[i], c.writes[i]
		seconds := d.Duration.Seconds()

		fmt.Fprintf(w, "%-26s: reads=%d writes=%d bandwidth=%s/s\n",
			fmt.Sprintf("phase %d", i), reads, writes,
			trafficgen.FormatBytes(
				uint64(float64((reads+writes)*d.BlockSize)/float64(seconds))))
	}

	progress := p.Progress()
	fmt.Fprintf(w, "%-26s: %d\n", "packets", progress.PacketsIssued)
	fmt.Fprintf(w, "%-26s: %s\n", "bytes",
		trafficgen.FormatBytes(progress.BytesIssued))
	fmt.Fprintf(w, "%-26s: %d\n", "exit_code", p.ExitCode())
}
