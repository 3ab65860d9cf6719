package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sarchlab/dramsweep/dram"
	"github.com/sarchlab/dramsweep/trafficgen"
)

var memTypesCmd = &cobra.Command{
	Use:   "memtypes",
	Short: "List the built-in memory types and their derived timing.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{
			"Name", "Protocol", "Ranks", "Banks", "Burst", "Page", "ITT", "Peak",
		})
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetBorder(false)

		for _, name := range dram.MemTypes() {
			g, err := dram.LookupMemType(name)
			if err != nil {
				return err
			}

			t, err := dram.Resolve(g)
			if err != nil {
				return err
			}

			table.Append([]string{
				name,
				g.Protocol.String(),
				strconv.Itoa(g.Ranks),
				strconv.Itoa(g.BanksPerRank),
				strconv.FormatUint(t.BurstSizeBytes, 10),
				strconv.FormatUint(t.PageSizeBytes, 10),
				strconv.FormatUint(uint64(t.InterTransactionTime), 10),
				fmt.Sprintf("%s/s",
					trafficgen.FormatBytes(uint64(t.PeakBandwidth()))),
			})
		}

		table.Render()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(memTypesCmd)
}
