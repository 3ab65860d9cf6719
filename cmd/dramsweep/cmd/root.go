// Package cmd provides the command-line interface of dramsweep.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// envPrefix prefixes the environment variables that provide flag defaults.
const envPrefix = "DRAMSWEEP_"

// exit ends the process. Replaced in tests.
var exit = atexit.Exit

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dramsweep",
	Short: "Derive saturating DRAM traffic from a device geometry.",
	Long: `dramsweep resolves the burst size, page size, and inter-transaction ` +
		`time of a DRAM device and generates traffic schedules that rotate ` +
		`over its banks and ranks. Flag defaults can be set with ` +
		envPrefix + `* environment variables or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyEnvDefaults(cmd.Flags())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Cannot load .env: %v\n", err)
	}

	err = rootCmd.Execute()
	if err != nil {
		exit(1)
	}

	exit(0)
}

// envName returns the environment variable that provides the default of a
// flag.
func envName(flagName string) string {
	return envPrefix +
		strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// applyEnvDefaults sets every flag that is not given on the command line
// from its environment variable, if there is one.
func applyEnvDefaults(flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = fmt.Errorf("%s: %w", envName(f.Name), setErr)
		}
	})

	return err
}
