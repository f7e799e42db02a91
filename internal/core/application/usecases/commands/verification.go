package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Failure reasons carried by a VerificationResult.
const (
	ReasonExpired  = "expired"
	ReasonMismatch = "mismatch"
	ReasonStatus   = "status"
)

// VerificationResult is the outcome of a delivery token redemption. Token failures
// are reported here with Success false instead of as errors.
type VerificationResult struct {
	Success            bool
	Status             string
	VerificationStatus string
	VerifiedAt         *time.Time
	Reason             string
}

// failureReason maps an error from the verifier to a result reason. It reports false
// for errors that must be returned to the caller as-is.
func failureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, errs.ErrTokenExpired):
		return ReasonExpired, true
	case errors.Is(err, errs.ErrTokenMismatch):
		return ReasonMismatch, true
	case errors.Is(err, errs.ErrStateConflict):
		return ReasonStatus, true
	default:
		return "", false
	}
}

// mutatesOnFailure reports whether the verifier recorded the failed attempt on the
// aggregate. Status rejections leave it untouched.
func mutatesOnFailure(reason string) bool {
	return reason == ReasonExpired || reason == ReasonMismatch
}

type noopMetrics struct{}

func (noopMetrics) TokenIssued(string)                   {}
func (noopMetrics) VerificationAttempted(string, string) {}

func metricsOrNoop(m ports.VerificationMetrics) ports.VerificationMetrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

func verifyAttemptKey(aggregateType, id string) string {
	return "verify:" + aggregateType + ":" + id
}

// redemptionWriter is the part of a repository a redemption writes through.
type redemptionWriter[T services.RedemptionTarget] interface {
	Update(ctx context.Context, aggregate T) error
	CompleteDelivery(ctx context.Context, aggregate T, expectedToken string) error
}

type committer interface {
	Commit(ctx context.Context) error
}

// redemption holds what order and origin order redemption share: the attempt
// limiter, the token verifier and the outcome metrics for one aggregate type.
type redemption struct {
	aggregateType string
	verifier      services.DeliveryTokenVerifier
	limiter       ports.AttemptLimiter
	metrics       ports.VerificationMetrics
	clock         Clock
}

func newRedemption(
	aggregateType string,
	verifier services.DeliveryTokenVerifier,
	limiter ports.AttemptLimiter,
	metrics ports.VerificationMetrics,
	clock Clock,
) redemption {
	return redemption{
		aggregateType: aggregateType,
		verifier:      verifier,
		limiter:       limiter,
		metrics:       metricsOrNoop(metrics),
		clock:         clock,
	}
}

// redeem verifies cmd against a target the caller has already loaded and authorized,
// so attempts by anyone but the owner never reach the limiter. A failed attempt that
// revoked the token is written and committed; a valid one is written through
// CompleteDelivery. It returns the failure reason, empty on success.
func redeem[T services.RedemptionTarget](
	ctx context.Context,
	r redemption,
	uow committer,
	repo redemptionWriter[T],
	target T,
	cmd VerifyDeliveryTokenCommand,
) (string, error) {
	if err := r.allow(ctx, target.ID().String()); err != nil {
		return "", err
	}

	consumed, verifyErr := r.verifier.Verify(target, cmd.Token(), cmd.IssuedAt(), r.clock.now())
	if verifyErr != nil {
		reason, ok := failureReason(verifyErr)
		if !ok {
			return "", verifyErr
		}
		if mutatesOnFailure(reason) {
			if err := repo.Update(ctx, target); err != nil {
				return "", r.conflict(err)
			}
			if err := uow.Commit(ctx); err != nil {
				return "", err
			}
		}
		r.metrics.VerificationAttempted(r.aggregateType, reason)
		return reason, nil
	}

	if err := repo.CompleteDelivery(ctx, target, consumed); err != nil {
		return "", r.conflict(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return "", err
	}

	r.metrics.VerificationAttempted(r.aggregateType, ports.OutcomeVerified)
	return "", nil
}

func (r redemption) allow(ctx context.Context, id string) error {
	if r.limiter == nil {
		return nil
	}
	key := verifyAttemptKey(r.aggregateType, id)
	allowed, err := r.limiter.Allow(ctx, key)
	if err != nil {
		return err
	}
	if !allowed {
		r.metrics.VerificationAttempted(r.aggregateType, ports.OutcomeLimited)
		return errs.NewTooManyAttemptsError(key)
	}
	return nil
}

func (r redemption) conflict(err error) error {
	if errors.Is(err, errs.ErrConcurrentModification) {
		r.metrics.VerificationAttempted(r.aggregateType, ports.OutcomeConflict)
	}
	return err
}
