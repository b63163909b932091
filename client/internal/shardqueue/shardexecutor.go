// Package shardqueue provides a lightweight sharded work-queue that guarantees
// FIFO order *per key* while allowing parallelism across shards.
//
// The client keys favorite writes by external user ID, so one user's writes
// apply in submission order while different users proceed in parallel.
//
// **Contract**: Callers **must not** invoke Submit concurrently for the *same*
// key. FIFO ordering relies on that external serialisation.
package shardqueue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	clienterrors "github.com/townpass/roadwatch/client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	key string
	job Job

	// barrier jobs only mark a position in the queue; their outcome is
	// never reported.
	barrier bool
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable hash
// of the key. FIFO ordering is preserved within a shard; jobs with different
// keys may run in parallel.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob // len == cfg.Shards

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	// sendMu orders queue sends before close(done): a job accepted by
	// Submit is always seen by the worker's drain.
	sendMu sync.RWMutex

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
// Zero-valued Config fields take the documented defaults.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job for the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	return p.submit(ctx, queuedJob{ctx: ctx, key: key, job: job})
}

func (p *ShardExecutor) submit(ctx context.Context, qj queuedJob) error {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(qj.key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// ensuring all previously submitted jobs for that key have completed. A
// barrier abandoned by ctx is dropped silently and never reaches ErrorHandler.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	reached := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(reached)
		return nil
	})
	if err := p.submit(ctx, queuedJob{ctx: ctx, key: key, job: j, barrier: true}); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-reached:
		return nil
	}
}

// Stop signals every worker to finish draining its current queue, waits for
// them to terminate, and then returns. It is idempotent and safe for
// concurrent use.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}
	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor")
	p.sendMu.Lock()
	close(p.done)
	p.sendMu.Unlock()
	p.wg.Wait()
	log.Debug().Msg("shardqueue: executor stopped, all queues drained")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job != nil {
				p.process(label, qj)
			}
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			p.drain(idx, label, ch)
			return
		}
	}
}

// process runs qj, retrying recoverable failures with exponential backoff.
func (p *ShardExecutor) process(label string, qj queuedJob) {
	// A cancelled job must not stall the shard.
	if err := qj.ctx.Err(); err != nil {
		p.report(qj, err)
		return
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := runSafely(qj.ctx, qj.job)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err == nil {
			return
		}

		var pe *PanicError
		if errors.As(err, &pe) || clienterrors.IsIrrecoverable(err) || attempt >= p.cfg.MaxAttempts {
			p.report(qj, err)
			return
		}

		retriesTotal.WithLabelValues(label).Inc()
		wait := time.NewTimer(exp.NextBackOff())
		select {
		case <-wait.C:
		case <-p.done:
			// Shutting down: give up on this job and let the worker drain the rest.
			wait.Stop()
			p.report(qj, err)
			return
		case <-qj.ctx.Done():
			wait.Stop()
			p.report(qj, qj.ctx.Err())
			return
		}
	}
}

// drain runs every job still queued once, in FIFO order, without retries.
func (p *ShardExecutor) drain(idx int, label string, ch <-chan queuedJob) {
	if n := len(ch); n > 0 {
		log.Info().Int("shard", idx).Int("jobs", n).Msg("shardqueue: draining remaining jobs")
	}
	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}
			if err := runSafely(qj.ctx, qj.job); err != nil {
				p.report(qj, err)
			}
		default:
			queueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

// runSafely converts a panicking job into a *PanicError so one bad job cannot
// take its shard down.
func runSafely(ctx context.Context, j Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return j.Run(ctx)
}

func (p *ShardExecutor) report(qj queuedJob, err error) {
	if err == nil || qj.barrier || p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("key", qj.key).Msg("shardqueue: error handler panic")
		}
	}()
	p.cfg.ErrorHandler(qj.key, err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
