package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ripple "github.com/Tap30/ripple-analytics-go"
)

type rootOptions struct {
	dbPath   string
	endpoint string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "ripple-analytics",
		Short: "Inspect, record and submit on-device analytics events",
		Long: `ripple-analytics works against the SQLite event store used by the
Ripple analytics client. Configuration comes from RIPPLE_* environment
variables; flags override them.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "event database path (default $RIPPLE_DATABASE_PATH)")
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "events endpoint (default $RIPPLE_ENDPOINT)")

	root.AddCommand(
		newEventsCmd(opts),
		newSubmitCmd(opts),
		newTrackCmd(opts),
		newCollectCmd(),
	)
	return root
}

// loadConfig reads the environment and applies flag overrides.
func (o *rootOptions) loadConfig() (ripple.ClientConfig, error) {
	cfg, err := ripple.LoadConfigFromEnv()
	if err != nil {
		return ripple.ClientConfig{}, err
	}
	if o.dbPath != "" {
		cfg.DatabasePath = o.dbPath
	}
	if o.endpoint != "" {
		cfg.Endpoint = o.endpoint
	}
	return cfg, nil
}

func (o *rootOptions) newClient() (*ripple.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := ripple.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}
