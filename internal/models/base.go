package models

import "time"

// BaseModel provides shared columns for the backend tables. IDs are
// integers because the API exposes them as numbers (uid, mid, oid).
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
