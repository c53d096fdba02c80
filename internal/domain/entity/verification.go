package entity

import (
	"strings"
	"time"
)

// VerificationState is the lifecycle state of an email verification record.
// A given email has at most one record, in exactly one state, at any instant.
type VerificationState string

const (
	// VerificationPending means a code was issued and is awaiting confirmation.
	VerificationPending VerificationState = "pending"
	// VerificationVerified means the code was confirmed; signup may now consume it.
	VerificationVerified VerificationState = "verified"
)

// Default lifetimes for verification records. The verified window is longer
// than the pending one so a slow signup form can still complete.
const (
	PendingCodeTTL  = 5 * time.Minute
	VerifiedFlagTTL = 10 * time.Minute
)

// VerificationRecord holds a short-lived email verification code or the
// short-lived "verified" flag that replaces it once the code is confirmed.
type VerificationRecord struct {
	Email     string            // Normalized email, the record key.
	Code      string            // Six-digit code; empty once the record is verified.
	State     VerificationState // pending or verified, mutually exclusive.
	ExpiresAt time.Time         // Absolute expiry; expired records behave as absent.
}

// Expired reports whether the record is past its expiry at the given time.
func (r *VerificationRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// NormalizeEmail canonicalizes an email for use as a verification key:
// trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
