package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aganswers/spotlight/internal/vector"
)

// Resolver guarantees each tenant at most one corpus. Resolution is
// create-first: a conflict from a concurrent creator collapses into a
// re-query, so racing requests converge on the same corpus. Results are
// cached per tenant for the process lifetime.
type Resolver struct {
	client     vector.Client
	maxRetries int
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]*vector.Corpus
	locks map[string]*sync.Mutex
}

// NewResolver creates a corpus resolver over the vector client.
func NewResolver(client vector.Client, maxRetries int, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:     client,
		maxRetries: maxRetries,
		logger:     logger.With("system", "corpus"),
		cache:      make(map[string]*vector.Corpus),
		locks:      make(map[string]*sync.Mutex),
	}
}

// Resolve returns the tenant's corpus, creating it on first use. Returns
// ErrCorpusUnavailable when the service cannot produce one after retries.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (*vector.Corpus, error) {
	if !r.client.Enabled() {
		return nil, fmt.Errorf("%w: vector service disabled", ErrCorpusUnavailable)
	}

	if corpus := r.cached(tenantID); corpus != nil {
		return corpus, nil
	}

	lock := r.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have resolved it while we waited on the lock.
	if corpus := r.cached(tenantID); corpus != nil {
		return corpus, nil
	}

	corpus, err := r.ensure(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[tenantID] = corpus
	r.mu.Unlock()

	return corpus, nil
}

// Forget drops the cached corpus for a tenant, forcing re-resolution.
func (r *Resolver) Forget(tenantID string) {
	r.mu.Lock()
	delete(r.cache, tenantID)
	r.mu.Unlock()
}

func (r *Resolver) ensure(ctx context.Context, tenantID string) (*vector.Corpus, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(500*time.Millisecond),
			backoff.WithMaxInterval(5*time.Second),
		), uint64(r.maxRetries)),
		ctx,
	)

	corpus, err := backoff.RetryWithData(func() (*vector.Corpus, error) {
		corpus, err := r.attempt(ctx, tenantID)
		if err != nil {
			if vector.IsTransient(err) {
				r.logger.WarnContext(ctx, "corpus resolution retrying",
					"tenant", tenantID, "error", err)
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return corpus, nil
	}, policy)

	if err != nil {
		return nil, fmt.Errorf("%w: tenant %s: %v", ErrCorpusUnavailable, tenantID, err)
	}

	r.logger.InfoContext(ctx, "corpus resolved",
		"tenant", tenantID, "corpus", corpus.ID)
	return corpus, nil
}

func (r *Resolver) attempt(ctx context.Context, tenantID string) (*vector.Corpus, error) {
	corpus, err := r.client.CreateCorpus(ctx, tenantID)
	if err == nil {
		return corpus, nil
	}

	// A conflict means another creator won the race; the corpus exists, so
	// fetch it instead of failing.
	if errors.Is(err, vector.ErrCorpusExists) {
		corpus, findErr := r.client.FindCorpus(ctx, tenantID)
		if findErr != nil {
			return nil, findErr
		}
		return corpus, nil
	}

	return nil, err
}

func (r *Resolver) cached(tenantID string) *vector.Corpus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[tenantID]
}

func (r *Resolver) tenantLock(tenantID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[tenantID] = lock
	}
	return lock
}
