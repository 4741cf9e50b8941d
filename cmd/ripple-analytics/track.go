package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTrackCmd(opts *rootOptions) *cobra.Command {
	var (
		attributes map[string]string
		metrics    map[string]string
		submit     bool
	)
	cmd := &cobra.Command{
		Use:   "track <event-type>",
		Short: "Record one event inside a short session",
		Long: `Start a session, record one event of the given type with the supplied
attributes and metrics, then stop the session. Events are stored locally
unless --submit is set.`,
		Example: `  ripple-analytics track level1Complete --attr level=1 --metric score=1200 --submit`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedMetrics, err := parseMetrics(metrics)
			if err != nil {
				return err
			}

			client, err := opts.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			analytics := client.Analytics()
			sessions := client.Sessions()
			sessions.StartSession()

			event, err := analytics.CreateEvent(args[0])
			if err != nil {
				sessions.StopSession()
				return err
			}
			for name, value := range attributes {
				event.AddAttribute(name, value)
			}
			for name, value := range parsedMetrics {
				event.AddMetric(name, value)
			}
			analytics.RecordEvent(event)
			sessions.StopSession()

			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%s)\n", event.EventType(), event.EventID())
			if submit {
				if err := client.Flush(context.Background()); err != nil {
					return fmt.Errorf("submit failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "submitted")
			}
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&attributes, "attr", nil, "event attribute as key=value (repeatable)")
	cmd.Flags().StringToStringVar(&metrics, "metric", nil, "event metric as key=number (repeatable)")
	cmd.Flags().BoolVar(&submit, "submit", false, "send stored events after recording")
	return cmd
}

func parseMetrics(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for name, value := range raw {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %q is not a number", name, value)
		}
		out[name] = f
	}
	return out, nil
}
