package models

import "time"

type Brand struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	IsFlagged bool      `json:"is_flagged"`
	CreatedAt time.Time `json:"created_at"`
}
