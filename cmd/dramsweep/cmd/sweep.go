package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/timing"
	"github.com/sarchlab/dramsweep/trafficgen"
)

var sweepOpts = struct {
	device     deviceOptions
	traffic    trafficOptions
	output     outputOptions
	strides    []uint
	bankCounts []int
}{}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Generate one phase for every stride and bank count.",
	Long: `sweep visits every stride from the burst size up to the max stride ` +
		`of the device, in steps of the burst size, with every number of ` +
		`active banks. Strides form the outer loop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, t, err := sweepOpts.device.resolve()
		if err != nil {
			return err
		}

		mode, policy, addrRange, err := sweepOpts.traffic.parse()
		if err != nil {
			return err
		}

		cfg := trafficgen.SweepConfig{
			Mode:           mode,
			ReadPercent:    sweepOpts.traffic.readPercent,
			AddressMapping: policy,
			PhaseDuration:  timing.Tick(sweepOpts.traffic.period),
			AddressRange:   addrRange,
			DataLimit:      sweepOpts.traffic.dataLimit,
			BankCounts:     sweepOpts.bankCounts,
		}

		for _, s := range sweepOpts.strides {
			cfg.Strides = append(cfg.Strides, uint64(s))
		}

		s, err := trafficgen.Sweep(g, t, cfg, sweepOpts.traffic.exitCode)
		if err != nil {
			return err
		}

		writeSweepTable(cmd.OutOrStdout(), g, t, s)

		sweepOpts.output.recordSchedule(g, t, s)

		if sweepOpts.output.play {
			p, c, err := playSchedule(s, sweepOpts.output.seed, nil)
			if err != nil {
				return err
			}

			reportPlay(cmd.OutOrStdout(), s, p, c)
		}

		exit(s.ExitCode())

		return nil
	},
}

func writeSweepTable(
	w io.Writer,
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
	s trafficgen.Schedule,
) {
	fmt.Fprintf(w, "%-26s: '%s'\n", "mem_type", g.Name)
	fmt.Fprintf(w, "%-26s: %d\n", "burst_size_bytes", t.BurstSizeBytes)
	fmt.Fprintf(w, "%-26s: %d\n", "page_size_bytes", t.PageSizeBytes)
	fmt.Fprintf(w, "%-26s: %d\n", "itt_ticks", t.InterTransactionTime)
	fmt.Fprintf(w, "%-26s: %d\n", "phases", len(s.Phases()))
	fmt.Fprintf(w, "%-26s: %d\n", "total_ticks", s.TotalDuration())

	fmt.Fprintf(w, "%6s %12s %6s %13s %13s\n",
		"phase", "seq_bytes", "banks", "num_seq_pkts", "max_seq/rank")

	for i, d := range s.Phases() {
		fmt.Fprintf(w, "%6d %12d %6d %13d %13d\n",
			i, d.NumSeqPackets*d.BlockSize, d.NumBanksUtil,
			d.NumSeqPackets, d.MaxSeqCountPerRank)
	}
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepOpts.device.addFlags(sweepCmd)
	sweepOpts.traffic.addFlags(sweepCmd)
	sweepOpts.output.addFlags(sweepCmd)

	sweepCmd.Flags().UintSliceVar(&sweepOpts.strides, "strides", nil,
		"strides to visit, defaults to every multiple of the burst size "+
			"up to the max stride")
	sweepCmd.Flags().IntSliceVar(&sweepOpts.bankCounts, "bank-counts", nil,
		"numbers of active banks to visit, defaults to 1 through the banks "+
			"per rank")
}
