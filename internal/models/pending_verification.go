package models

import "time"

// PendingVerification is an issued signup code awaiting confirmation.
// Email is the primary key, so an email holds at most one live code.
type PendingVerification struct {
	Email     string    `gorm:"primaryKey;size:255" bson:"_id" json:"email"`
	CodeHash  string    `gorm:"size:255;not null" bson:"codeHash" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `gorm:"index" bson:"expiresAt" json:"expiresAt"`
}

func (p *PendingVerification) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
