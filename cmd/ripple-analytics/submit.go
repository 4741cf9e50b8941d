package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Send stored events to the endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			before := len(client.Analytics().AllEvents())
			flushErr := client.Flush(context.Background())
			remaining := len(client.Analytics().AllEvents())

			fmt.Fprintf(cmd.OutOrStdout(), "submitted %d events, %d remaining\n", before-remaining, remaining)
			if flushErr != nil {
				return fmt.Errorf("submit incomplete: %w", flushErr)
			}
			return nil
		},
	}
}
