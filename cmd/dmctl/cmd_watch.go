package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/janhq/dm-server/pkg/dmclient"
)

var watchCmd = &cobra.Command{
	Use:   "watch <receiver>",
	Short: "Follow a conversation, printing changes as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		interval, _ := cmd.Flags().GetDuration("interval")
		out := cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		poller := dmclient.NewPoller(s.client, args[0],
			dmclient.WithInterval(interval),
			dmclient.WithPollerLogger(s.log),
			dmclient.WithOnChange(func(diff dmclient.Diff, msgs []dmclient.DecodedMessage) {
				added := make(map[string]struct{}, len(diff.Added))
				for _, id := range diff.Added {
					added[id] = struct{}{}
				}
				for _, m := range msgs {
					if _, ok := added[m.ID]; ok {
						printMessage(out, m, "")
					}
				}
				for _, id := range diff.Removed {
					fmt.Fprintf(out, "  - message %s removed\n", id)
				}
			}),
		)
		poller.Start(ctx)
		<-ctx.Done()
		poller.Stop()
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", dmclient.DefaultPollInterval, "Polling interval")
}
