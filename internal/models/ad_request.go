package models

import "time"

// Ad request statuses
const (
	AdRequestStatusPending  = "pending"
	AdRequestStatusAccepted = "accepted"
	AdRequestStatusRejected = "rejected"
)

var AllAdRequestStatuses = []string{AdRequestStatusPending, AdRequestStatusAccepted, AdRequestStatusRejected}

// ValidAdRequestTransitions holds the strict transition table: from -> []to.
// Accepted and rejected are terminal.
var ValidAdRequestTransitions = map[string][]string{
	AdRequestStatusPending:  {AdRequestStatusAccepted, AdRequestStatusRejected},
	AdRequestStatusAccepted: {},
	AdRequestStatusRejected: {},
}

func IsValidAdRequestStatus(s string) bool {
	for _, st := range AllAdRequestStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func IsValidAdRequestTransition(from, to string) bool {
	allowed, ok := ValidAdRequestTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalAdRequestStatus reports whether no strict transition leaves s.
func IsTerminalAdRequestStatus(s string) bool {
	allowed, ok := ValidAdRequestTransitions[s]
	return ok && len(allowed) == 0
}

type AdRequest struct {
	ID            int64     `json:"id"`
	CampaignID    int64     `json:"campaign_id"`
	InfluencerID  int64     `json:"influencer_id"`
	PaymentAmount float64   `json:"payment_amount"`
	Status        string    `json:"status"`
	Message       *string   `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AdRequestWithCampaign embeds AdRequest and adds campaign ownership info to avoid N+1 queries.
type AdRequestWithCampaign struct {
	AdRequest
	CampaignName string `json:"campaign_name"`
	BrandID      int64  `json:"brand_id"`
}
