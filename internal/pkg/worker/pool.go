// Package worker provides goroutine pool management.
//
// All concurrency goes through a pool with context propagation; the Hash
// pool is sized to the core count so parallel login storms cannot saturate
// the process with Argon2 work.
package worker

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/openleadr/openleadr-go/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Pools is the worker pool collection.
type Pools struct {
	// General runs short request-adjacent work.
	General *Pool
	// Hash runs CPU-bound credential hashing, bounded by core count.
	Hash *Pool

	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// PoolConfig contains worker pool sizing.
type PoolConfig struct {
	GeneralPoolSize int
	HashPoolSize    int
}

// DefaultPoolConfig returns default sizing: the hash pool never exceeds the
// core count.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		GeneralPoolSize: 100,
		HashPoolSize:    runtime.GOMAXPROCS(0),
	}
}

// NewPools creates the worker pool collection.
func NewPools(ctx context.Context, cfg PoolConfig) (*Pools, error) {
	serviceCtx, serviceCancel := context.WithCancel(ctx)

	panicHandler := func(p interface{}) {
		logger.Error("Worker panic recovered",
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}

	if cfg.HashPoolSize <= 0 {
		cfg.HashPoolSize = runtime.GOMAXPROCS(0)
	}

	generalAnts, err := ants.NewPool(cfg.GeneralPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		serviceCancel()
		return nil, err
	}

	hashAnts, err := ants.NewPool(cfg.HashPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(30*time.Second),
	)
	if err != nil {
		generalAnts.Release()
		serviceCancel()
		return nil, err
	}

	return &Pools{
		General:       &Pool{pool: generalAnts, name: "general"},
		Hash:          &Pool{pool: hashAnts, name: "hash"},
		serviceCtx:    serviceCtx,
		serviceCancel: serviceCancel,
	}, nil
}

// Submit submits a context-aware task. The task receives the caller's
// context and SHOULD check ctx.Done() at blocking points. If the context is
// already cancelled, returns ctx.Err() immediately without submitting.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return p.pool.Submit(func() {
		// May have been cancelled while queued.
		select {
		case <-ctx.Done():
			logger.Debug("Task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
}

// Run submits a task and blocks until it finishes or the context is done.
// Used for CPU-bound work (Argon2 verification) that the request must wait
// on while still honoring its deadline.
func (p *Pool) Run(ctx context.Context, task Task) error {
	done := make(chan struct{})
	if err := p.Submit(ctx, func(ctx context.Context) {
		defer close(done)
		task(ctx)
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down all pools with a timeout.
func (p *Pools) Shutdown() {
	p.serviceCancel()

	logger.Info("Shutting down worker pools", zap.Any("metrics", p.Metrics()))

	const shutdownTimeout = 30 * time.Second
	if err := p.General.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("General pool shutdown timeout", zap.Error(err))
	}
	if err := p.Hash.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("Hash pool shutdown timeout", zap.Error(err))
	}
}

// Metrics returns pool metrics for observability.
func (p *Pools) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"general": map[string]int{
			"running": p.General.pool.Running(),
			"free":    p.General.pool.Free(),
			"cap":     p.General.pool.Cap(),
		},
		"hash": map[string]int{
			"running": p.Hash.pool.Running(),
			"free":    p.Hash.pool.Free(),
			"cap":     p.Hash.pool.Cap(),
		},
	}
}
