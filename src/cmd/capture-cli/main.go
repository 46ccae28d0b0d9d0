package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"screen-region-capture/src/config"
	"screen-region-capture/src/trigger"
)

type cliOptions struct {
	timeout time.Duration
	verbose bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(os.Args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "capture-cli",
		Short:         "Trigger a screen capture on the running instance",
		Long:          "Asks a resident screen-region-capture process over loopback TCP to start a capture session, as if the capture hotkey had been pressed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "How long to wait for the resident to respond")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")

	return cmd
}

func runWithOptions(opts cliOptions) error {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	// Load .env so TRIGGER_PORT_* match the resident's configuration.
	_, _ = config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	delegated, err := trigger.NewClient().TryCapture(ctx)
	if err != nil {
		return fmt.Errorf("trigger failed: %w", err)
	}
	if !delegated {
		start, end := trigger.PortRange()
		return fmt.Errorf("no running instance found on 127.0.0.1 ports %d-%d", start, end)
	}
	if opts.verbose {
		fmt.Fprintln(os.Stderr, "[verbose] capture request accepted")
	}
	return nil
}
