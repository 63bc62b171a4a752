package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTickets = "jobs:tickets"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// TicketJob asks a worker to render (and optionally mail) the receipt of a
// completed purchase.
type TicketJob struct {
	CompraID string `json:"compra_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueTicket pushes a receipt-generation job to Redis. A nil client makes
// it a no-op, so the services stay testable without infrastructure.
func (d *Dispatcher) EnqueueTicket(ctx context.Context, compraID string) error {
	if d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueTickets, "ticket", TicketJob{CompraID: compraID})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the ticket queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, tw *TicketWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, tw)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, tw *TicketWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueTickets).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, result[1], tw)
		}
	}
}

func processJob(ctx context.Context, raw string, tw *TicketWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "ticket":
		var tj TicketJob
		if err := json.Unmarshal(job.Payload, &tj); err != nil {
			log.Error().Err(err).Msg("bad ticket job payload")
			return
		}
		if err := tw.Process(ctx, tj); err != nil {
			log.Error().Str("compra_id", tj.CompraID).Err(err).Msg("ticket job failed")
		}
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}
