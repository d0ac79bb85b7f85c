package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/leapointer/internal/store"
)

func sessionsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openRecording(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.Sessions().List()
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), sessions)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm SESSION...",
		Short: "Delete recorded sessions and their frames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openRecording(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Sessions().Delete(id); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("session %s not found", id)
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
			}
			return nil
		},
	})

	return cmd
}

// openRecording opens the store named by --record, falling back to the
// config file and the environment.
func (o *options) openRecording(cmd *cobra.Command) (*store.Store, error) {
	path := o.record
	if path == "" {
		cfg, err := o.load(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.Recording.Path
	}
	if path == "" {
		return nil, errors.New("no recording: pass --record or set recording.path")
	}
	return openStore(path)
}

func printSessions(w io.Writer, sessions []*store.Session) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tPOINTER\tFRAMES\tSTARTED\tDURATION")
	for _, s := range sessions {
		duration := "recording"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.Source, s.Pointer, s.Frames,
			s.StartedAt.Local().Format(time.DateTime), duration)
	}
	return tw.Flush()
}
