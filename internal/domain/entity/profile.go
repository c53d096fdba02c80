package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the display-facing record materialized in the profile store
// after a credential is created. It shares the credential's identity id as
// its primary key; the id is never generated independently here.
//
// A profile is created exactly once, asynchronously, by the provisioning
// consumer. Content services resolve nicknames through this record and must
// tolerate its absence during the eventual-consistency window.
type Profile struct {
	ID        uuid.UUID // Identity id, foreign key to the credential record.
	Username  string    // Copied from the credential for display and lookup.
	Nickname  string    // Display name, unique across profiles.
	Email     string    // Duplicated from the credential for display and lookup.
	CreatedAt time.Time // Timestamp of when the profile row was materialized.
	UpdatedAt time.Time // Timestamp of the last modification.
}
