package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *options) *cobra.Command {
	var (
		limit    int
		markRead bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			hist, err := openHistory(e.cfg)
			if err != nil {
				return err
			}
			if hist == nil {
				return errors.New("history is disabled in the config")
			}
			defer hist.Close()

			notes, err := hist.RecentNotifications(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(notes) == 0 {
				fmt.Fprintln(out, "No notifications.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, n := range notes {
				unread := ""
				if !n.Read {
					unread = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					n.CreatedAt.Local().Format(time.DateTime), unread, n.Kind, n.Message)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if markRead {
				return hist.MarkNotificationsRead(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of notifications to show (0 for all)")
	cmd.Flags().BoolVar(&markRead, "mark-read", false, "mark the listed notifications read")
	return cmd
}
