package discard

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/voidfs/blockdiscard/internal/logger"
	"github.com/voidfs/blockdiscard/pkg/bufpool"
)

// DefaultMaxWorkers bounds how many requests execute concurrently when the
// caller does not configure a cap. Each in-flight request occupies one OS
// thread for the duration of its blocking system calls.
const DefaultMaxWorkers = 16

// Config holds configuration for a discard Service.
type Config struct {
	// MaxWorkers caps concurrent in-flight requests. Values <= 0 use
	// DefaultMaxWorkers.
	MaxWorkers int

	// Metrics receives per-request observations. nil disables collection.
	Metrics Metrics

	// Pool supplies zero-fill staging buffers for unaligned range edges.
	// nil uses the shared package pool.
	Pool *bufpool.Pool
}

// Service executes discard requests on background worker goroutines so the
// blocking system calls never run on the caller's goroutine.
//
// The Service owns no per-request state beyond the worker slot: concurrent
// requests are not ordered or locked against each other, even on the same
// file. Once dispatched, a request always runs to completion; there is no
// mid-flight cancellation (the underlying calls are short, bounded OS
// operations).
type Service struct {
	sem     chan struct{}
	metrics Metrics
	dealloc deallocator
}

// New creates a Service with the platform's native deallocation strategy.
func New(cfg Config) *Service {
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}

	pool := cfg.Pool
	if pool == nil {
		pool = bufpool.Default()
	}

	return &Service{
		sem:     make(chan struct{}, workers),
		metrics: cfg.Metrics,
		dealloc: newDeallocator(pool),
	}
}

// Submit queues req for execution and returns its completion channel. The
// channel is buffered and receives exactly one Outcome; the caller may
// abandon it without leaking the worker.
//
// The caller must keep req.File open until the Outcome is delivered.
func (s *Service) Submit(req Request) <-chan Outcome {
	done := make(chan Outcome, 1)
	go s.run(req, done)
	return done
}

// Discard submits one request and waits for its completion.
//
// ctx bounds only the wait: an expired context unblocks the caller, but the
// request still runs to completion on its worker, so f must stay open until
// the operation has finished. Callers that need to observe the eventual
// outcome after a timeout should use Submit directly.
func (s *Service) Discard(ctx context.Context, f *os.File, offset, length uint64) error {
	done := s.Submit(Request{File: f, Offset: offset, Length: length})

	select {
	case out := <-done:
		return out.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) run(req Request, done chan<- Outcome) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	start := time.Now()
	err := s.execute(req)
	if s.metrics != nil {
		s.metrics.ObserveRequest(time.Since(start), err)
	}

	done <- Outcome{Err: err}
}

func (s *Service) execute(req Request) error {
	// Deallocating nothing always succeeds; don't touch the OS at all.
	if req.Length == 0 {
		return nil
	}

	id := uuid.NewString()
	logger.Debug("discard request",
		logger.KeyRequestID, id,
		logger.KeyPath, req.File.Name(),
		logger.KeyOffset, req.Offset,
		logger.KeyLength, req.Length)

	if opErr := s.dealloc.deallocate(req.File.Fd(), req.Offset, req.Length); opErr != nil {
		logger.Debug("discard failed",
			logger.KeyRequestID, id,
			logger.KeyOp, opErr.Op.String(),
			logger.KeyError, opErr.Err)
		return opErr
	}

	if s.metrics != nil {
		s.metrics.AddReclaimedBytes(req.Length)
	}

	return nil
}
