package ports

// Verification outcomes reported to VerificationMetrics.
const (
	OutcomeVerified = "verified"
	OutcomeExpired  = "expired"
	OutcomeMismatch = "mismatch"
	OutcomeStatus   = "status"
	OutcomeConflict = "conflict"
	OutcomeLimited  = "limited"
)

// VerificationMetrics counts token issuance and verification outcomes per aggregate type.
type VerificationMetrics interface {
	TokenIssued(aggregateType string)
	VerificationAttempted(aggregateType, outcome string)
}
