package models

import "time"

// SessionRecord is the single row of the session id store.
type SessionRecord struct {
	ID  uint   `gorm:"primaryKey"`
	SID string `gorm:"column:sid;not null"`
}

// UserIDRecord is the single row of the user id store.
type UserIDRecord struct {
	ID  uint `gorm:"primaryKey"`
	UID int  `gorm:"column:uid;not null"`
}

// MenuImageRecord caches one menu image, keyed by menu id.
type MenuImageRecord struct {
	MID          int    `gorm:"column:mid;primaryKey;autoIncrement:false"`
	ImageVersion string `gorm:"not null"`
	ImageBase64  string
	UpdatedAt    time.Time
}

// CacheTables lists the tables of the local cache.
func CacheTables() []interface{} {
	return []interface{}{
		&SessionRecord{},
		&UserIDRecord{},
		&MenuImageRecord{},
	}
}
