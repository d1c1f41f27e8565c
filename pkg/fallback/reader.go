package fallback

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/metrics"
)

const breakerName = "database-reads"

// Reader runs database reads behind a circuit breaker and answers from the
// snapshot store when the database read fails or the breaker is open.
// Domain errors such as not-found pass through untouched and don't count
// against the breaker.
type Reader struct {
	store *Store
	cb    *gobreaker.CircuitBreaker[any]
}

// ReaderOptions tunes the breaker. Zero values pick the defaults.
type ReaderOptions struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

func NewReader(store *Store, opts ReaderOptions) *Reader {
	if opts.ConsecutiveFailures == 0 {
		opts.ConsecutiveFailures = 3
	}
	if opts.OpenTimeout == 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.ConsecutiveFailures
		},
		// A caller giving up says nothing about database health.
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err) || isContextError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log := logger.New()
			log.Warn("circuit breaker state change", logger.Data{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Reader{store: store, cb: cb}
}

// Store returns the snapshot store backing the reader.
func (r *Reader) Store() *Store {
	return r.store
}

// Read returns primary's result, or secondary's when primary fails for a
// reason other than a domain error or the caller's context ending. If the snapshot has nothing either, the
// original error is returned.
func Read[T any](ctx context.Context, r *Reader, collection string, primary func() (T, error), secondary func(store *Store) (T, error)) (T, error) {
	if r == nil {
		return primary()
	}

	res, err := r.cb.Execute(func() (any, error) {
		return primary()
	})
	if err == nil {
		return res.(T), nil
	}
	if isDomainError(err) {
		var zero T
		return zero, err
	}
	if isContextError(err) {
		var zero T
		return zero, errors.WithStack(err)
	}

	log := logger.FromContext(ctx)
	log.Warn("database read failed, using snapshot", logger.Data{
		"collection": collection,
		"error":      err.Error(),
	})

	out, ferr := secondary(r.store)
	if ferr != nil {
		metrics.RecordFallbackRead(collection, false)
		if isDomainError(ferr) {
			var zero T
			return zero, ferr
		}
		var zero T
		return zero, errors.WithStack(err)
	}
	metrics.RecordFallbackRead(collection, true)
	return out, nil
}

func isDomainError(err error) bool {
	var e *errcodes.Error
	return errors.As(err, &e)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
