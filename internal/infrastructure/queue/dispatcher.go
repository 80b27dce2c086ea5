package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/console-gateway/internal/api/metrics"
	"github.com/helpdeskhq/console-gateway/internal/core/domain"
	"github.com/helpdeskhq/console-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher routes audit events to a fixed set of workers using
// consistent hashing on the subject id, guaranteeing per-subject event
// ordering in the audit log. Enqueue never blocks the calling request: when a
// worker channel is full the event is dropped and counted.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its subject. Missing
// id and timestamp are filled in here so callers can stay terse.
func (d *AuditDispatcher) Enqueue(event domain.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case d.workers[d.shardIndex(event.SubjectID)] <- event:
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("subject", event.SubjectID).
			Msg("audit queue full, event dropped")
	}
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			if err := d.repo.Insert(insertCtx, &event); err != nil {
				// Audit capture is best-effort; never retry into the hot path.
				d.log.Error().
					Err(err).
					Int("worker_id", id).
					Str("type", string(event.Type)).
					Msg("audit insert failed")
			}
			cancel()
		}
	}
}

// shardIndex maps a subject id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(subjectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return int(h.Sum32()) % len(d.workers)
}
