// Command modelctl checks and repairs the model artifact and exports the
// labeled-tweet training dataset.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modelctl",
		Short:         "Model artifact and dataset tooling for BullyGuard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVerifyCmd())
	root.AddCommand(newFixLabelsCmd())
	root.AddCommand(newExportDatasetCmd())
	return root
}
