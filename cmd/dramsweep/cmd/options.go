package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/sarchlab/dramsweep/datarecording"
	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/dram/addressmapping"
	"github.com/sarchlab/dramsweep/timing"
	"github.com/sarchlab/dramsweep/trafficgen"
)

// deviceOptions selects the DRAM device.
type deviceOptions struct {
	memType   string
	memConfig string
	memRanks  int
}

func (o *deviceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.memType, "mem-type", dram.DefaultMemType,
		"type of memory to use, see the memtypes command")
	cmd.Flags().StringVar(&o.memConfig, "mem-config", "",
		"YAML file describing a custom device, overrides --mem-type")
	cmd.Flags().IntVarP(&o.memRanks, "mem-ranks", "r", 1,
		"number of ranks to iterate across")
}

func (o *deviceOptions) geometry() (dram.DeviceGeometry, error) {
	g, err := o.baseGeometry()
	if err != nil {
		return dram.DeviceGeometry{}, err
	}

	return dram.MakeBuilder().
		WithGeometry(g).
		WithRanks(o.memRanks).
		Build()
}

func (o *deviceOptions) baseGeometry() (dram.DeviceGeometry, error) {
	if o.memConfig == "" {
		return dram.LookupMemType(o.memType)
	}

	f, err := os.Open(o.memConfig)
	if err != nil {
		return dram.DeviceGeometry{}, err
	}
	defer f.Close()

	g, err := dram.LoadGeometryYAML(f)
	if err != nil {
		return dram.DeviceGeometry{}, fmt.Errorf("%s: %w", o.memConfig, err)
	}

	return g, nil
}

func (o *deviceOptions) resolve() (dram.DeviceGeometry, dram.DerivedTiming, error) {
	g, err := o.geometry()
	if err != nil {
		return g, dram.DerivedTiming{}, err
	}

	t, err := dram.Resolve(g)

	return g, t, err
}

// trafficOptions describes the traffic shared by all the phases.
type trafficOptions struct {
	readPercent int
	mode        string
	addrMap     string
	period      uint64
	memSize     string
	dataLimit   uint64
	exitCode    int
}

func (o *trafficOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.readPercent, "rd-perc", 50,
		"percentage of read commands")
	cmd.Flags().StringVar(&o.mode, "mode", trafficgen.ModeRotate.String(),
		"DRAM: random traffic; DRAM_ROTATE: traffic rotating across banks "+
			"and ranks")
	cmd.Flags().StringVar(&o.addrMap, "addr-map",
		addressmapping.DefaultPolicy.String(),
		"DRAM address map policy, one of "+
			strings.Join(addressmapping.Names(), ", "))
	cmd.Flags().Uint64Var(&o.period, "period", 25000000,
		"ticks to stay in each phase")
	cmd.Flags().StringVar(&o.memSize, "mem-size", "256MiB",
		"size of the address range the traffic covers")
	cmd.Flags().Uint64Var(&o.dataLimit, "data-limit", 0,
		"bytes after which a phase stops issuing, 0 for unlimited")
	cmd.Flags().IntVar(&o.exitCode, "exit-code", 0,
		"exit code of the final stop directive")
}

func (o *trafficOptions) parse() (
	mode trafficgen.Mode,
	policy addressmapping.Policy,
	addrRange trafficgen.AddressRange,
	err error,
) {
	mode, err = trafficgen.ParseMode(o.mode)
	if err != nil {
		return mode, policy, addrRange, err
	}

	policy, err = addressmapping.Parse(o.addrMap)
	if err != nil {
		return mode, policy, addrRange, err
	}

	size, err := parseSize(o.memSize)
	if err != nil {
		return mode, policy, addrRange, err
	}

	return mode, policy, trafficgen.AddressRange{End: size}, nil
}

func (o *trafficOptions) request(
	stride uint64,
	banks int,
) (trafficgen.TrafficRequest, error) {
	mode, policy, addrRange, err := o.parse()
	if err != nil {
		return trafficgen.TrafficRequest{}, err
	}

	return trafficgen.TrafficRequest{
		Mode:            mode,
		ReadPercent:     o.readPercent,
		StrideBytes:     stride,
		ActiveBankCount: banks,
		AddressMapping:  policy,
		Duration:        timing.Tick(o.period),
		AddressRange:    addrRange,
		DataLimit:       o.dataLimit,
	}, nil
}

// outputOptions selects what happens to a generated schedule.
type outputOptions struct {
	record string
	play   bool
	seed   int64
}

func (o *outputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.record, "record", "",
		"record the schedule into this SQLite database, without extension")
	cmd.Flags().BoolVar(&o.play, "play", false,
		"play the schedule and report the packets issued")
	cmd.Flags().Int64Var(&o.seed, "seed", 1,
		"seed of the random addresses picked by the player")
}

func (o *outputOptions) recordSchedule(
	g dram.DeviceGeometry,
	t dram.DerivedTiming,
	s trafficgen.Schedule,
) {
	if o.record == "" {
		return
	}

	recorder := datarecording.New(o.record)
	trafficgen.Record(recorder, xid.New().String(), g, t, s)
}

// parseSize parses a byte count such as 256MiB, 4 KiB, or 4096.
func parseSize(s string) (uint64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return 0, dram.NewConfigurationError(
			"memSize", s, "must be a positive number of bytes")
	}

	return n, nil
}
