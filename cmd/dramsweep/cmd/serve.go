package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramsweep/monitoring"
	"github.com/sarchlab/dramsweep/trafficgen"
)

var serveOpts = struct {
	device      deviceOptions
	traffic     trafficOptions
	stride      uint64
	banks       int
	seed        int64
	port        int
	openBrowser bool
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Play a traffic phase behind the monitoring server.",
	Long: `serve generates a single traffic phase, plays it, and keeps the ` +
		`monitoring server up until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, t, err := serveOpts.device.resolve()
		if err != nil {
			return err
		}

		r, err := serveOpts.traffic.request(serveOpts.stride, serveOpts.banks)
		if err != nil {
			return err
		}

		s, err := trafficgen.Generate(g, t, r, serveOpts.traffic.exitCode)
		if err != nil {
			return err
		}

		monitor := monitoring.NewMonitor().WithBrowser(serveOpts.openBrowser)
		if serveOpts.port != 0 {
			monitor.WithPortNumber(serveOpts.port)
		}

		monitor.StartServer()

		p, c, err := playSchedule(s, serveOpts.seed, monitor)
		if err != nil {
			return err
		}

		reportPlay(cmd.OutOrStdout(), s, p, c)

		fmt.Fprintln(os.Stderr, "Playback finished, press Ctrl+C to exit.")

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt

		exit(s.ExitCode())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveOpts.device.addFlags(serveCmd)
	serveOpts.traffic.addFlags(serveCmd)

	serveCmd.Flags().Uint64Var(&serveOpts.stride, "stride", 13,
		"bytes accessed sequentially in a bank before moving on")
	serveCmd.Flags().IntVar(&serveOpts.banks, "banks", 4,
		"number of banks to rotate over")
	serveCmd.Flags().Int64Var(&serveOpts.seed, "seed", 1,
		"seed of the random addresses picked by the player")
	serveCmd.Flags().IntVar(&serveOpts.port, "port", 0,
		"port of the monitoring server, random if below 1000")
	serveCmd.Flags().BoolVar(&serveOpts.openBrowser, "open-browser", false,
		"open the monitoring page in a browser")
}
