package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	"github.com/allisson/authtokens/internal/metrics"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

const metricsDomain = "tokens"

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	t.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	t.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// CheckIssue passes through without recording; it performs no storage work.
func (t *tokenUseCaseWithMetrics) CheckIssue(ctx context.Context, actor authDomain.Actor) error {
	return t.next.CheckIssue(ctx, actor)
}

// Issue records metrics for token issuance.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	actor authDomain.Actor,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, actor, input)
	t.record(ctx, "token_issue", start, err)
	return output, err
}

// IssueForActor records metrics for operator token issuance.
func (t *tokenUseCaseWithMetrics) IssueForActor(
	ctx context.Context,
	actorID string,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.IssueForActor(ctx, actorID, input)
	t.record(ctx, "token_issue", start, err)
	return output, err
}

// Get records metrics for token retrieval.
func (t *tokenUseCaseWithMetrics) Get(
	ctx context.Context,
	actor authDomain.Actor,
	id int64,
) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Get(ctx, actor, id)
	t.record(ctx, "token_get", start, err)
	return token, err
}

// Revoke records metrics for token revocation.
func (t *tokenUseCaseWithMetrics) Revoke(
	ctx context.Context,
	actor authDomain.Actor,
	id int64,
) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Revoke(ctx, actor, id)
	t.record(ctx, "token_revoke", start, err)
	return token, err
}

// RevokeByID records metrics for operator revocation.
func (t *tokenUseCaseWithMetrics) RevokeByID(ctx context.Context, id int64) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.RevokeByID(ctx, id)
	t.record(ctx, "token_revoke", start, err)
	return token, err
}

// List records metrics for token listing.
func (t *tokenUseCaseWithMetrics) List(
	ctx context.Context,
	actor authDomain.Actor,
	input *tokenDomain.ListTokensInput,
) (*tokenDomain.ListTokensOutput, error) {
	start := time.Now()
	output, err := t.next.List(ctx, actor, input)
	t.record(ctx, "token_list", start, err)
	return output, err
}

// SweepExpired records metrics for expiry sweeps.
func (t *tokenUseCaseWithMetrics) SweepExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := t.next.SweepExpired(ctx)
	t.record(ctx, "token_sweep", start, err)
	if err == nil {
		t.metrics.RecordExpired(ctx, count)
	}
	return count, err
}

// Verify records metrics for managed credential verification. A rejected credential is
// recorded as "rejected" rather than "success".
func (t *tokenUseCaseWithMetrics) Verify(ctx context.Context, credential string) (authDomain.Actor, error) {
	start := time.Now()
	actor, err := t.next.Verify(ctx, credential)

	status := metrics.StatusSuccess
	switch {
	case err != nil:
		status = metrics.StatusError
	case actor == nil:
		status = metrics.StatusRejected
	}

	t.metrics.RecordOperation(ctx, metricsDomain, "token_verify", status)
	t.metrics.RecordDuration(ctx, metricsDomain, "token_verify", time.Since(start), status)

	return actor, err
}
