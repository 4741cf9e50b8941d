package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	ripple "github.com/Tap30/ripple-analytics-go"
)

// triggerErrorAttribute makes the collector answer 500 so clients exercise retries.
const triggerErrorAttribute = "trigger_error"

func newCollectCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run a local collector that logs received events",
		Long: `Run a development endpoint at /events that accepts {"events":[...]}
batches and logs each event. An event whose trigger_error attribute is
"true" makes the collector answer 500.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			mux := http.NewServeMux()
			mux.Handle("/events", newCollectorHandler(logger))

			logger.Info("collector listening", "addr", addr, "endpoint", "/events")
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	return cmd
}

type collectorResponse struct {
	Success  bool   `json:"success"`
	Received int    `json:"received,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newCollectorHandler(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			Events []json.RawMessage `json:"events"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logger.Warn("invalid batch", "error", err)
			writeCollectorResponse(w, http.StatusBadRequest, collectorResponse{Error: "invalid JSON"})
			return
		}

		fail := false
		for _, raw := range body.Events {
			event, err := ripple.DecodeEvent(raw)
			if err != nil {
				logger.Warn("undecodable event", "error", err)
				continue
			}
			logger.Info("event received",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"session_id", event.Session().ID,
				"attributes", len(event.Attributes()),
				"metrics", len(event.Metrics()),
			)
			if v, ok := event.Attribute(triggerErrorAttribute); ok && v == "true" {
				fail = true
			}
		}

		if fail {
			logger.Info("simulating server error", "events", len(body.Events))
			writeCollectorResponse(w, http.StatusInternalServerError, collectorResponse{Error: "simulated server error"})
			return
		}
		writeCollectorResponse(w, http.StatusOK, collectorResponse{Success: true, Received: len(body.Events)})
	})
}

func writeCollectorResponse(w http.ResponseWriter, status int, resp collectorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
