package entity

import "time"

// DraftSnapshot is the durable record holding a serialized Draft under its
// session key.
type DraftSnapshot struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the DraftSnapshot model
func (DraftSnapshot) TableName() string {
	return "draft_snapshots"
}
