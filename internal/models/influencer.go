package models

import "time"

type Influencer struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	Niche          string     `json:"niche"`
	ChannelHandle  *string    `json:"channel_handle,omitempty"`
	Reach          *int       `json:"reach,omitempty"`
	AvgViews       *int       `json:"avg_views,omitempty"`
	ReachUpdatedAt *time.Time `json:"reach_updated_at,omitempty"`
	IsFlagged      bool       `json:"is_flagged"`
	CreatedAt      time.Time  `json:"created_at"`
}
