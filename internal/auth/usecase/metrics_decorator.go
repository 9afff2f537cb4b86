package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	"github.com/allisson/authtokens/internal/metrics"
)

// resolverWithMetrics decorates Resolver with metrics instrumentation.
type resolverWithMetrics struct {
	next    Resolver
	metrics metrics.BusinessMetrics
}

// NewResolverWithMetrics wraps a Resolver with metrics recording.
func NewResolverWithMetrics(resolver Resolver, m metrics.BusinessMetrics) Resolver {
	return &resolverWithMetrics{
		next:    resolver,
		metrics: m,
	}
}

// Strategy returns the wrapped resolver's strategy.
func (r *resolverWithMetrics) Strategy() authDomain.Strategy {
	return r.next.Strategy()
}

// Resolve records metrics for credential resolution. Requests without a credential are
// not recorded.
func (r *resolverWithMetrics) Resolve(
	ctx context.Context,
	cred authDomain.Credential,
) (authDomain.Actor, error) {
	if cred.Source == authDomain.SourceNone {
		return r.next.Resolve(ctx, cred)
	}

	start := time.Now()
	actor, err := r.next.Resolve(ctx, cred)

	status := metrics.StatusSuccess
	switch {
	case err != nil:
		status = metrics.StatusError
	case actor == nil:
		status = metrics.StatusRejected
	}

	operation := "resolve_" + r.next.Strategy().String()
	r.metrics.RecordOperation(ctx, "auth", operation, status)
	r.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)

	return actor, err
}
