package worker

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"liquidaciontextil/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEnvioLiquidacion = "jobs:envio_liquidacion"
	// RetrySchedule is a ZSET of pending retries scored by due time (unix seconds).
	RetrySchedule = "jobs:retry"

	JobEnvioLiquidacion = "envio_liquidacion"
)

// ErrPermanent marks a job failure that must not be retried.
var ErrPermanent = errors.New("permanent job failure")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// scheduledJob is the ZSET member: the job plus the queue it returns to.
type scheduledJob struct {
	Queue string `json:"queue"`
	Job   Job    `json:"job"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEnvioLiquidacion pushes an email delivery job to Redis.
func (d *Dispatcher) EnqueueEnvioLiquidacion(ctx context.Context, payload EnvioLiquidacionPayload) error {
	return d.enqueue(ctx, QueueEnvioLiquidacion, JobEnvioLiquidacion, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// ScheduleRetry parks job in the retry schedule until at.
func (d *Dispatcher) ScheduleRetry(ctx context.Context, queue string, job Job, at time.Time) error {
	member, err := json.Marshal(scheduledJob{Queue: queue, Job: job})
	if err != nil {
		return err
	}
	return d.rdb.ZAdd(ctx, RetrySchedule, redis.Z{Score: float64(at.Unix()), Member: member}).Err()
}

// HandlerFunc processes one job payload. A nil error acks the job; an error
// wrapping ErrPermanent sends it straight to the DLQ; any other error retries.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb         *redis.Client
	dispatcher  *Dispatcher
	handlers    map[string]HandlerFunc
	maxAttempts int
	metrics     *metrics.Recorder
	now         func() time.Time
}

func NewPool(rdb *redis.Client, dispatcher *Dispatcher, maxAttempts int, rec *metrics.Recorder) *Pool {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Pool{
		rdb:         rdb,
		dispatcher:  dispatcher,
		handlers:    make(map[string]HandlerFunc),
		maxAttempts: maxAttempts,
		metrics:     rec,
		now:         time.Now,
	}
}

// Handle registers the handler for a job type. Call before Start.
func (p *Pool) Handle(jobType string, h HandlerFunc) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueEnvioLiquidacion).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		p.deadLetter(ctx, queue, Job{Payload: quoted}, "invalid envelope: "+err.Error())
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		p.deadLetter(ctx, queue, job, "no handler registered")
		return
	}

	err := h(ctx, job.Payload)
	if err == nil {
		p.metrics.RecordJob(job.Type, "ok")
		return
	}

	job.Attempts++
	if errors.Is(err, ErrPermanent) || job.Attempts >= p.maxAttempts {
		p.deadLetter(ctx, queue, job, err.Error())
		return
	}

	next := p.now().Add(retryBackoff(job.Attempts))
	if serr := p.dispatcher.ScheduleRetry(ctx, queue, job, next); serr != nil {
		log.Error().Err(serr).Str("type", job.Type).Msg("failed to schedule retry")
		p.deadLetter(ctx, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Time("next_retry_at", next).
		Msg("job failed, retry scheduled")
	p.metrics.RecordJob(job.Type, "retry")
}

// retryBackoff is 30s, 60s, 120s, ... capped at 30 minutes.
func retryBackoff(attempts int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempts-1))) * 30 * time.Second
	if d > 30*time.Minute || d <= 0 {
		return 30 * time.Minute
	}
	return d
}
