package models

import "time"

// Log is a single record held by the store.
type Log struct {
	ID        string    `db:"id" json:"id"`
	Owner     string    `db:"owner" json:"owner"`
	LogText   string    `db:"log_text" json:"logText"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Clone returns a copy that shares no memory with l.
func (l *Log) Clone() *Log {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
