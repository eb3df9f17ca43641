package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zabuzafr/lparsync/internal/model"
)

var (
	args = &model.Args{}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lparsync",
	Short: "lparsync keeps storage host definitions in sync with LPAR virtual adapters",
	Long: `lparsync discovers the virtual Fibre Channel WWPNs and ethernet MACs of the
LPARs behind an HMC and reconciles them into host records on a storage array.
Runs are dry-run by default; pass --apply to mutate the array.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&args.ConfigFile, "config", "", "configuration file (default is ./config.yaml)")

	rootCmd.PersistentFlags().
		StringVar(&args.LogLevel, "log-level", "info", "set logging level - debug, trace")

	rootCmd.PersistentFlags().
		BoolVarP(&args.EnableProfiling, "enable-pprof", "", false, "Enable profiling endpoint at: http://localhost:9091")
}
