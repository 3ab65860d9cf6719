package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/dramsweep/trafficgen"
)

var runOpts = struct {
	device  deviceOptions
	traffic trafficOptions
	output  outputOptions
	stride  uint64
	banks   int
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a single traffic phase.",
	Long: `run resolves the device, generates one traffic phase followed by ` +
		`a stop directive, and prints the configuration. The process exits ` +
		`with the exit code of the stop directive.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, t, err := runOpts.device.resolve()
		if err != nil {
			return err
		}

		r, err := runOpts.traffic.request(runOpts.stride, runOpts.banks)
		if err != nil {
			return err
		}

		s, err := trafficgen.Generate(g, t, r, runOpts.traffic.exitCode)
		if err != nil {
			return err
		}

		_, err = trafficgen.Summary{Geometry: g, Timing: t, Request: r}.
			WriteTo(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		runOpts.output.recordSchedule(g, t, s)

		if runOpts.output.play {
			p, c, err := playSchedule(s, runOpts.output.seed, nil)
			if err != nil {
				return err
			}

			reportPlay(cmd.OutOrStdout(), s, p, c)
		}

		exit(s.ExitCode())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runOpts.device.addFlags(runCmd)
	runOpts.traffic.addFlags(runCmd)
	runOpts.output.addFlags(runCmd)

	runCmd.Flags().Uint64Var(&runOpts.stride, "stride", 13,
		"bytes accessed sequentially in a bank before moving on")
	runCmd.Flags().IntVar(&runOpts.banks, "banks", 4,
		"number of banks to rotate over")
}
