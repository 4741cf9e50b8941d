package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print stored events, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := adapters.OpenSQLiteStorageAdapter(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, record := range records {
				payload := []byte(record.Payload)
				if pretty {
					var buf bytes.Buffer
					if err := json.Indent(&buf, payload, "", "  "); err == nil {
						payload = buf.Bytes()
					}
				}
				fmt.Fprintln(out, string(payload))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events to print (0 for all)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
