/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/allbin/startlight"
	"github.com/allbin/startlight/internal/tui/styles"
	"github.com/spf13/cobra"
)

// errStartFailed makes the process exit non-zero once the outcome has been
// printed
var errStartFailed = errors.New("start not confirmed")

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Send the start command and wait for confirmation",
	Long: `Open the configured endpoint, send "start" and wait for "ok".

The command exits non-zero unless the device confirms within the timeout.
Outcomes are printed as ok, timeout, open_error, write_error, read_error or
transport_unavailable.

Example usage:
  startlight start --endpoint /dev/ttyACM0
  startlight start --endpoint COM7 --baud 115200 --timeout 2.5
  startlight start --timeout-override 500ms
  startlight start --async`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		async, _ := cmd.Flags().GetBool("async")
		override, _ := cmd.Flags().GetDuration("timeout-override")

		return runStart(cmd.OutOrStdout(), m, async, override)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().Bool("async", false, "Send on a background goroutine and report through a callback")
	startCmd.Flags().Duration("timeout-override", 0, "Use this timeout for this send only")
}

func runStart(out io.Writer, m *startlight.Manager, async bool, override time.Duration) error {
	p := m.Params()
	timeout := p.Timeout
	if override > 0 {
		timeout = override
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = "(no endpoint)"
	}
	fmt.Fprintf(out, "%s Sending start to %s at %d baud, waiting up to %s...\n",
		styles.InfoStyle.Render("⚡"), endpoint, p.BaudRate, timeout)

	started := time.Now()
	var res startlight.Result
	if async {
		done := make(chan startlight.Result, 1)
		m.SendStartAsync(func(r startlight.Result) {
			done <- r
		}, override)

		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
	wait:
		for {
			select {
			case res = <-done:
				break wait
			case <-ticker.C:
				fmt.Fprintf(out, "%s still waiting (%s)\n",
					styles.MutedStyle.Render("…"), time.Since(started).Round(time.Millisecond))
			}
		}
	} else {
		res = m.SendStartSync(override)
	}

	return reportResult(out, res, time.Since(started))
}

func reportResult(out io.Writer, res startlight.Result, elapsed time.Duration) error {
	elapsed = elapsed.Round(time.Millisecond)
	if res.OK {
		fmt.Fprintf(out, "%s Start confirmed after %s\n", styles.SuccessStyle.Render("✓"), elapsed)
		return nil
	}

	fmt.Fprintf(out, "%s %s after %s\n", styles.ErrorStyle.Render("✗"), res.Code(), elapsed)
	if res.Reason == startlight.ReasonTransportUnavailable && errors.Is(res.Err, startlight.ErrNotConfigured) {
		fmt.Fprintf(out, "  set an endpoint with --endpoint or \"startlight config save\"\n")
	}
	return fmt.Errorf("%w: %s", errStartFailed, res.Reason)
}
