package models

import "time"

// Actor types
const (
	ActorUser   = "user"
	ActorAdmin  = "admin"
	ActorSystem = "system"
)

// AuditEntity is the kind of row an audit entry refers to.
type AuditEntity string

const (
	EntityCampaign   AuditEntity = "campaign"
	EntityAdRequest  AuditEntity = "ad_request"
	EntityBrand      AuditEntity = "brand"
	EntityInfluencer AuditEntity = "influencer"
)

// ParseAuditEntity maps a route segment to an entity kind.
func ParseAuditEntity(s string) (AuditEntity, bool) {
	switch e := AuditEntity(s); e {
	case EntityCampaign, EntityAdRequest, EntityBrand, EntityInfluencer:
		return e, true
	}
	return "", false
}

type AuditLog struct {
	ID          int64       `json:"id"`
	ActorUserID *int64      `json:"actor_user_id,omitempty"`
	ActorType   string      `json:"actor_type"`
	Action      string      `json:"action"`
	EntityType  AuditEntity `json:"entity_type"`
	EntityID    *int64      `json:"entity_id,omitempty"`
	Meta        any         `json:"meta,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
