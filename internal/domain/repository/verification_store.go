package repository

import "context"

// VerificationStore holds short-lived email verification state. A given
// email has at most one live record: either a pending code or a verified
// flag. Expired records behave exactly like absent ones.
//
// All three operations take the email already normalized
// (entity.NormalizeEmail); the store does not normalize again.
type VerificationStore interface {
	// PutCode stores a pending code for the email with the pending TTL,
	// overwriting any prior record for that email — last request wins.
	PutCode(ctx context.Context, email, code string) error

	// Promote atomically replaces a live pending record with a verified
	// record (verified TTL) when the code matches exactly. It returns false
	// when no pending record exists, the code differs, or the record has
	// expired; the stored record is left untouched in those cases.
	Promote(ctx context.Context, email, code string) (bool, error)

	// HasVerified reports whether a live verified record exists for the
	// email, without consuming it.
	HasVerified(ctx context.Context, email string) (bool, error)

	// ConsumeVerified deletes the live verified record for the email,
	// returning whether one existed. A consumed record cannot authorize a
	// second signup.
	ConsumeVerified(ctx context.Context, email string) (bool, error)
}
