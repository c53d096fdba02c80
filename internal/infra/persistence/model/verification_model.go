package model

import "time"

// VerificationModel mirrors the 'email_verifications' table. One row per email
// address; re-sending a code overwrites the previous row. Expired rows are
// treated as absent by the store and overwritten on next use.
type VerificationModel struct {
	Email     string `gorm:"type:varchar(255);primary_key"`
	Code      string `gorm:"type:varchar(6);not null"`
	State     string `gorm:"type:varchar(10);not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (VerificationModel) TableName() string {
	return "email_verifications"
}
