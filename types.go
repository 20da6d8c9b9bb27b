package pubfront

import "time"

// RevalidateEvent is published when the CMS reports changed content. Slug is
// the changed post when the webhook names one; it is informational, every
// event purges the whole response cache.
type RevalidateEvent struct {
	Slug        string    `json:"slug,omitempty"`
	RequestID   string    `json:"requestId,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}
