package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel mirrors the 'profiles' table. The primary key is the identity ID
// assigned by the credential service, not a locally generated value, so that the
// same UUID resolves the same person across services.
type ProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Username  string    `gorm:"type:varchar(50);unique;not null"`
	Nickname  string    `gorm:"type:varchar(50);unique;not null"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}
