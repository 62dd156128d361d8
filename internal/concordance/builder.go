package concordance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/logger"
)

const (
	DefaultBatchSize = 1000
	DefaultWorkers   = 4

	// MaxSpan caps the number of days a single build may write.
	MaxSpan = 1_000_000
)

var (
	// ErrInvalidRange is returned when from is after to, a day lies outside
	// every calendar, or the span is too large.
	ErrInvalidRange = errors.New("invalid day range")

	// ErrNoStore is returned when the resolver has no store to fill.
	ErrNoStore = errors.New("concordance store not configured")
)

// firstDay and lastDay bound the days at least one calendar can convert.
var firstDay, lastDay = dayBounds()

func dayBounds() (first, last int) {
	for i, s := range calendar.Systems {
		cal := calendar.MustFor(s)
		if i == 0 || cal.JdStart() < first {
			first = cal.JdStart()
		}
		if i == 0 || cal.JdEnd() > last {
			last = cal.JdEnd()
		}
	}
	return first, last
}

// checkRange rejects ranges that are reversed, reach past every calendar or
// exceed MaxSpan. The bounds are checked first so to-from cannot overflow.
func checkRange(from, to int) error {
	switch {
	case from > to:
		return fmt.Errorf("%w: %d is after %d", ErrInvalidRange, from, to)
	case from < firstDay || to > lastDay:
		return fmt.Errorf("%w: days must lie in %d..%d", ErrInvalidRange, firstDay, lastDay)
	case to-from >= MaxSpan:
		return fmt.Errorf("%w: %d days exceeds %d", ErrInvalidRange, to-from+1, MaxSpan)
	}
	return nil
}

// BuildResult summarises one build.
type BuildResult struct {
	From     int           `json:"from"`
	To       int           `json:"to"`
	Rows     int           `json:"rows"`
	Batches  int           `json:"batches"`
	Duration time.Duration `json:"duration_ns"`
}

// Builder fills the cache for a range of days. Batches are computed and
// written concurrently; each batch is one transaction.
type Builder struct {
	resolver  *Resolver
	batchSize int
	workers   int
}

// NewBuilder creates a builder. Non-positive sizes fall back to the defaults.
func NewBuilder(r *Resolver, batchSize, workers int) *Builder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Builder{resolver: r, batchSize: batchSize, workers: workers}
}

// Build computes and stores every day in [from, to]. It stops at the first
// failed batch; batches already committed stay in the cache.
func (b *Builder) Build(ctx context.Context, from, to int) (BuildResult, error) {
	result := BuildResult{From: from, To: to}
	if b.resolver.store == nil {
		return result, ErrNoStore
	}
	if err := checkRange(from, to); err != nil {
		return result, err
	}

	start := time.Now()
	var written atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for next := from; ; {
		lo, hi := next, next+min(b.batchSize-1, to-next)
		result.Batches++

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows := make([]database.ConcordanceRow, 0, hi-lo+1)
			for jd := lo; jd <= hi; jd++ {
				rows = append(rows, *b.resolver.toRow(b.resolver.Compute(jd)))
			}
			n, err := b.resolver.store.UpsertConcordanceBatch(ctx, rows)
			if err != nil {
				return fmt.Errorf("batch %d..%d: %w", lo, hi, err)
			}
			written.Add(int64(n))
			b.resolver.metrics.AddBuilt(n)
			return nil
		})

		if hi == to {
			break
		}
		next = hi + 1
	}

	err := g.Wait()
	result.Rows = int(written.Load())
	result.Duration = time.Since(start)

	b.resolver.logger.InfoContext(ctx, "concordance build finished",
		slog.String(logger.KeyRequestID, logger.RequestID(ctx)),
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Int(logger.KeyCount, result.Rows),
		slog.Duration(logger.KeyDuration, result.Duration),
	)
	return result, err
}

// Store caches an arbitrary set of days, such as a list of imported dates.
// Duplicates are written once. Batches are committed one after another.
func (b *Builder) Store(ctx context.Context, jds []int) (BuildResult, error) {
	var result BuildResult
	if b.resolver.store == nil {
		return result, ErrNoStore
	}
	if len(jds) > MaxSpan {
		return result, fmt.Errorf("%w: %d days exceeds %d", ErrInvalidRange, len(jds), MaxSpan)
	}

	days := slices.Clone(jds)
	slices.Sort(days)
	days = slices.Compact(days)
	if len(days) == 0 {
		return result, nil
	}
	result.From, result.To = days[0], days[len(days)-1]
	if result.From < firstDay || result.To > lastDay {
		return result, fmt.Errorf("%w: days must lie in %d..%d", ErrInvalidRange, firstDay, lastDay)
	}

	start := time.Now()
	for chunk := range slices.Chunk(days, b.batchSize) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rows := make([]database.ConcordanceRow, 0, len(chunk))
		for _, jd := range chunk {
			rows = append(rows, *b.resolver.toRow(b.resolver.Compute(jd)))
		}
		n, err := b.resolver.store.UpsertConcordanceBatch(ctx, rows)
		if err != nil {
			return result, fmt.Errorf("batch %d..%d: %w", chunk[0], chunk[len(chunk)-1], err)
		}
		result.Rows += n
		result.Batches++
		b.resolver.metrics.AddBuilt(n)
	}
	result.Duration = time.Since(start)

	b.resolver.logger.InfoContext(ctx, "concordance days stored",
		slog.Int(logger.KeyCount, result.Rows),
		slog.Int("batches", result.Batches),
		slog.Duration(logger.KeyDuration, result.Duration),
	)
	return result, nil
}
