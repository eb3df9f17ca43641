package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zabuzafr/lparsync/internal/lparsync"
	"github.com/zabuzafr/lparsync/internal/model"
)

const (
	// exitNoPartitions signals a run that discovered zero LPARs, which
	// usually means bad HMC credentials or an over-broad exclusion list.
	exitNoPartitions = 2
)

// runCmd executes one discovery and reconciliation pass
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one discovery and reconciliation pass",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		termChan := make(chan os.Signal, 1)
		signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		// Cancel the context when we receive a termination signal.
		go func() {
			s := <-termChan
			slog.Info("Received signal for termination, exiting...", "signal", s.String())
			cancel()
		}()

		if err := lparsync.Run(ctx, args); err != nil {
			if errors.Is(err, model.ErrNoPartitions) {
				os.Exit(exitNoPartitions)
			}

			slog.Error("run failed", "error", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringVarP(&args.HMCEndpoint, "hmc", "H", "", "HMC hostname or IP")
	runCmd.Flags().StringVarP(&args.HMCUser, "hmc-user", "u", "", "HMC username")
	runCmd.Flags().StringVarP(&args.HMCPassword, "hmc-password", "w", "", "HMC password")
	runCmd.Flags().StringVarP(&args.ManagedSystem, "managed-system", "m", "", "limit discovery to one managed system")
	runCmd.Flags().StringVar(&args.ExcludeLPARs, "exclude-lpar", "", "comma-separated list of LPAR names to skip")

	runCmd.Flags().StringVarP(&args.ArrayEndpoint, "array", "P", "", "storage array management IP/FQDN")
	runCmd.Flags().StringVar(&args.ArrayAPIToken, "array-api-token", "", "storage array API token")
	runCmd.Flags().StringVarP(&args.ArrayUser, "array-user", "s", "", "storage array username")
	runCmd.Flags().StringVarP(&args.ArrayPassword, "array-password", "p", "", "storage array password")

	runCmd.Flags().StringVar(&args.HostPrefix, "host-prefix", "", "prefix for building host names (prefix + LPAR name)")
	runCmd.Flags().BoolVar(&args.NoVerifySSL, "no-verify-ssl", false, "disable array HTTPS certificate verification (not recommended)")
	runCmd.Flags().BoolVar(&args.Apply, "apply", false, "apply changes to the array (default is dry-run)")
	runCmd.Flags().BoolVar(&args.DumpInventory, "dump-inventory", false, "print the discovered inventory as JSON")
	runCmd.Flags().IntVar(&args.Concurrency, "concurrency", 0, "bound on concurrent discovery/reconcile workers")

	rootCmd.AddCommand(runCmd)
}
