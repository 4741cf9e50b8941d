package ripple

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Tap30/ripple-analytics-go/adapters"
)

const tracerName = "github.com/Tap30/ripple-analytics-go"

// Recorder is the default EventRecorder. Recorded events are encoded on the
// caller's goroutine, queued in memory and persisted by a background worker.
// Flush sends stored events to the endpoint in batches.
type Recorder struct {
	config              RecorderConfig
	queue               *Queue
	httpAdapter         HTTPAdapter
	storageAdapter      StorageAdapter
	connectivityAdapter ConnectivityAdapter
	loggerAdapter       LoggerAdapter

	wake     chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup

	persistMu sync.Mutex
	flushMu   sync.Mutex

	ticker       *time.Ticker
	timerStarted bool
	timerMu      sync.Mutex

	lifecycleMu sync.RWMutex
	started     bool
	closed      atomic.Bool
	flushes     sync.WaitGroup
}

var _ EventRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder. Call Start to run the background worker.
func NewRecorder(config RecorderConfig, httpAdapter HTTPAdapter, storageAdapter StorageAdapter) *Recorder {
	if config.MaxStorageSize <= 0 {
		config.MaxStorageSize = DefaultMaxStorageSize
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 100
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = time.Second
	}
	return &Recorder{
		config:              config,
		queue:               NewQueue(),
		httpAdapter:         httpAdapter,
		storageAdapter:      storageAdapter,
		connectivityAdapter: adapters.NewStaticConnectivityAdapter(true),
		loggerAdapter:       adapters.NewSlogLoggerAdapter(adapters.LogLevelWarn),
		wake:                make(chan struct{}, 1),
		stopChan:            make(chan struct{}),
	}
}

// SetLoggerAdapter sets a custom logger adapter. Must be called before Start.
func (r *Recorder) SetLoggerAdapter(logger LoggerAdapter) {
	r.loggerAdapter = logger
}

// SetConnectivityAdapter sets the connectivity source. Must be called before Start.
func (r *Recorder) SetConnectivityAdapter(connectivity ConnectivityAdapter) {
	r.connectivityAdapter = connectivity
}

// Start runs the persistence worker.
func (r *Recorder) Start(ctx context.Context) error {
	r.lifecycleMu.Lock()
	defer r.lifecycleMu.Unlock()
	if r.closed.Load() {
		return errors.New("recorder is closed")
	}
	if r.started {
		return nil
	}

	size, err := r.storageAdapter.Size(ctx)
	if err != nil {
		return fmt.Errorf("read stored size: %w", err)
	}
	r.loggerAdapter.Debug("Recorder started with %d stored bytes", size)

	r.started = true
	r.wg.Go(func() {
		for {
			select {
			case <-r.wake:
				r.persist(context.Background())
			case <-r.stopChan:
				return
			}
		}
	})
	return nil
}

// RecordEvent encodes event and queues it for persistence.
func (r *Recorder) RecordEvent(event *Event) {
	if event == nil {
		return
	}
	if r.closed.Load() {
		r.loggerAdapter.Warn("Recorder is closed, dropping event %s", event.EventID())
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		r.loggerAdapter.Error("Failed to encode event %s: %v", event.EventID(), err)
		return
	}
	r.queue.Enqueue(Record{
		EventID:   event.EventID(),
		Payload:   payload,
		CreatedAt: event.Timestamp(),
	})

	select {
	case r.wake <- struct{}{}:
	default:
	}
	r.startTimerIfNeeded()
}

func (r *Recorder) startTimerIfNeeded() {
	if r.config.SubmitInterval <= 0 {
		return
	}
	r.timerMu.Lock()
	defer r.timerMu.Unlock()

	if !r.timerStarted && !r.closed.Load() {
		r.ticker = time.NewTicker(r.config.SubmitInterval)
		r.timerStarted = true
		r.wg.Go(func() {
			for {
				select {
				case <-r.ticker.C:
					if err := r.Flush(context.Background()); err != nil {
						r.loggerAdapter.Warn("Periodic submit failed: %v", err)
					}
				case <-r.stopChan:
					return
				}
			}
		})
	}
}

// persist moves queued records into storage. Records that would push the
// stored bytes past MaxStorageSize are dropped.
func (r *Recorder) persist(ctx context.Context) {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	records := r.queue.Drain()
	if len(records) == 0 {
		return
	}
	stored, err := r.storageAdapter.Size(ctx)
	if err != nil {
		r.loggerAdapter.Error("Failed to read stored size: %v", err)
		r.queue.Requeue(records)
		return
	}

	for i, record := range records {
		if stored+record.Size() > r.config.MaxStorageSize {
			quotaErr := &adapters.StorageQuotaExceededError{
				Message: fmt.Sprintf("storage cap of %d bytes reached", r.config.MaxStorageSize),
			}
			r.loggerAdapter.Warn("Dropping event %s: %v", record.EventID, quotaErr)
			continue
		}
		if err := r.storageAdapter.Insert(ctx, record); err != nil {
			r.loggerAdapter.Error("Failed to store event %s: %v", record.EventID, err)
			r.queue.Requeue(records[i:])
			return
		}
		stored += record.Size()
	}
}

// SubmitEvents starts a flush on its own goroutine and returns immediately.
func (r *Recorder) SubmitEvents() {
	r.lifecycleMu.RLock()
	defer r.lifecycleMu.RUnlock()
	if r.closed.Load() {
		return
	}
	r.flushes.Go(func() {
		if err := r.Flush(context.Background()); err != nil {
			r.loggerAdapter.Warn("Submit failed: %v", err)
		}
	})
}

// Flush persists queued events and, when connected, sends stored events
// oldest first in batches of MaxBatchSize. Batches answered with 2xx or 4xx
// are deleted; a batch that still fails after MaxRetries stays stored and
// ends the flush with an error.
func (r *Recorder) Flush(ctx context.Context) (err error) {
	r.persist(ctx)
	if !r.connectivityAdapter.IsConnected() {
		r.loggerAdapter.Debug("Offline, skipping submit")
		return nil
	}

	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "ripple.recorder.flush")
	sent := 0
	defer func() {
		span.SetAttributes(attribute.Int("ripple.events.sent", sent))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	for {
		records, err := r.storageAdapter.List(ctx, r.config.MaxBatchSize)
		if err != nil {
			return fmt.Errorf("list stored events: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		payloads := make([]json.RawMessage, len(records))
		ids := make([]int64, len(records))
		for i, record := range records {
			payloads[i] = record.Payload
			ids[i] = record.ID
		}

		r.loggerAdapter.Debug("Sending batch of %d events", len(records))
		if err := r.sendWithRetry(ctx, payloads); err != nil {
			return err
		}
		if err := r.storageAdapter.Delete(ctx, ids); err != nil {
			return fmt.Errorf("delete sent events: %w", err)
		}
		sent += len(records)
	}
}

// sendWithRetry returns nil when the batch may be deleted.
func (r *Recorder) sendWithRetry(ctx context.Context, events []json.RawMessage) error {
	for attempt := 0; ; attempt++ {
		r.loggerAdapter.Debug("Sending HTTP request, attempt %d/%d", attempt+1, r.config.MaxRetries+1)
		resp, err := r.httpAdapter.Send(ctx, r.config.Endpoint, events, r.config.Headers)

		if err == nil {
			switch {
			case resp.Status >= 200 && resp.Status < 300:
				return nil
			case resp.Status >= 400 && resp.Status < 500:
				r.loggerAdapter.Warn("4xx client error %d, dropping %d events", resp.Status, len(events))
				return nil
			case resp.Status >= 500:
				err = &HTTPError{Status: resp.Status}
			default:
				r.loggerAdapter.Warn("Unexpected status code: %d", resp.Status)
				return &HTTPError{Status: resp.Status}
			}
		}

		if attempt >= r.config.MaxRetries {
			r.loggerAdapter.Error("Send failed after %d attempts, keeping %d events: %v", attempt+1, len(events), err)
			return err
		}

		backoff := r.config.RetryBaseDelay << attempt
		jitter := time.Duration(rand.Int64N(int64(r.config.RetryBaseDelay)))
		r.loggerAdapter.Warn("Send failed, retrying in %v: %v", backoff+jitter, err)

		timer := time.NewTimer(backoff + jitter)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// AllEvents returns every stored event, oldest first.
func (r *Recorder) AllEvents() []json.RawMessage {
	ctx := context.Background()
	r.persist(ctx)
	records, err := r.storageAdapter.List(ctx, 0)
	if err != nil {
		r.loggerAdapter.Error("Failed to read stored events: %v", err)
		return []json.RawMessage{}
	}
	out := make([]json.RawMessage, len(records))
	for i, record := range records {
		out[i] = record.Payload
	}
	return out
}

// Close stops the background work, persists queued events and closes storage.
// Stored events are not submitted.
func (r *Recorder) Close() error {
	r.lifecycleMu.Lock()
	if r.closed.Swap(true) {
		r.lifecycleMu.Unlock()
		return nil
	}
	r.lifecycleMu.Unlock()

	r.timerMu.Lock()
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.timerStarted = true
	r.timerMu.Unlock()

	close(r.stopChan)
	r.wg.Wait()
	r.flushes.Wait()

	r.persist(context.Background())
	return r.storageAdapter.Close()
}
