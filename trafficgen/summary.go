package trafficgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/dramsweep/dram"
)

// A Summary reports the device, the derived timing, and the traffic of a
// single-phase schedule, in the layout of the memtest configuration dump.
type Summary struct {
	Geometry dram.DeviceGeometry
	Timing   dram.DerivedTiming
	Request  TrafficRequest
}

type summaryLine struct {
	key   string
	value any
}

type summarySection struct {
	title string
	lines []summaryLine
}

func (s Summary) sections() []summarySection {
	phase := newGenerateDirective(s.Geometry, s.Timing, s.Request)
	trace := []summaryLine{
		{"stride_size", s.Request.StrideBytes},
		{"bank", phase.NumBanksUtil},
		{"num_seq_pkts", phase.NumSeqPackets},
	}

	if phase.Mode == ModeRotate {
		trace = append(trace,
			summaryLine{"max_seq_count_per_rank", phase.MaxSeqCountPerRank})
	}

	return []summarySection{
		{"DRAM setup", []summaryLine{
			{"mem_type", fmt.Sprintf("'%s'", s.Geometry.Name)},
			{"protocol", s.Geometry.Protocol},
			{"addr_map", fmt.Sprintf("'%s'", phase.AddressMapping)},
			{"mode", fmt.Sprintf("'%s', rd_perc=%d%%",
				phase.Mode, phase.ReadPercent)},
			{"mem_ranks", phase.NumRanks},
			{"banks_per_rank", phase.NumBanks},
		}},
		{"Geometry & timing", []summaryLine{
			{"burst_size_bytes", s.Timing.BurstSizeBytes},
			{"page_size_bytes", s.Timing.PageSizeBytes},
			{"max_stride_bytes", s.Timing.MaxStride()},
			{"period_ticks", phase.Duration},
			{"itt_ticks", s.Timing.InterTransactionTime},
			{"peak_bandwidth", FormatBytes(uint64(s.Timing.PeakBandwidth())) + "/s"},
			{"mem_range", fmt.Sprintf("%d:%d (%s)",
				phase.StartAddr, phase.EndAddr,
				FormatBytes(phase.EndAddr-phase.StartAddr))},
		}},
		{"Trace", trace},
	}
}

// WriteTo writes the summary as aligned key-value lines.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	sb := strings.Builder{}
	rule := strings.Repeat("=", 26)

	fmt.Fprintf(&sb, "\n%s memtest_config %s\n", rule, rule)

	for _, section := range s.sections() {
		fmt.Fprintf(&sb, "[%s]\n", section.title)

		for _, l := range section.lines {
			fmt.Fprintf(&sb, "%-26s: %v\n", l.key, l.value)
		}
	}

	fmt.Fprintf(&sb, "%s\n", strings.Repeat("=", 68))

	n, err := io.WriteString(w, sb.String())

	return int64(n), err
}

// FormatBytes renders a byte count with the largest binary unit that keeps
// the value at or above one.
func FormatBytes(n uint64) string {
	units := []struct {
		name string
		base uint64
	}{
		{"GiB", 1 << 30},
		{"MiB", 1 << 20},
		{"KiB", 1 << 10},
	}

	for _, u := range units {
		if n >= u.base {
			return fmt.Sprintf("%.2f %s", float64(n)/float64(u.base), u.name)
		}
	}

	return fmt.Sprintf("%d B", n)
}
