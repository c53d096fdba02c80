// Package event defines the immutable facts carried over the event channel.
// Delivery is at-least-once; every consumer must be idempotent.
package event

// Mail kinds carried on VerificationMailRequested.
const (
	MailKindSignup = "signup"
)

// ProfileCreationRequested is emitted after a credential is created and asks
// the profile store to materialize the matching profile record. The identity
// id doubles as the ordering key so redeliveries for one identity stay in
// order.
type ProfileCreationRequested struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// VerificationMailRequested asks the mail dispatcher to send a verification
// code out-of-band. The requesting flow never blocks on delivery.
type VerificationMailRequested struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Kind  string `json:"kind"`
}
