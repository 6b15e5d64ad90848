package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	AuditCampaignCreated       = "campaign.created"
	AuditCampaignUpdated       = "campaign.updated"
	AuditCampaignDeleted       = "campaign.deleted"
	AuditCampaignDuplicated    = "campaign.duplicated"
	AuditCampaignStatusChanged = "campaign.status_changed"
	AuditCampaignHealthChanged = "campaign.health_changed"
)

type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	ActorType  string     `json:"actor_type"` // api/worker/system
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Meta       any        `json:"meta,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
