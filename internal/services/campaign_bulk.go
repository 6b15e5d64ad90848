package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adstronaut/backend/internal/events"
	"github.com/adstronaut/backend/internal/models"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/google/uuid"
)

// Bulk actions
const (
	BulkActivate  = "activate"
	BulkPause     = "pause"
	BulkDuplicate = "duplicate"
	BulkDelete    = "delete"
	BulkEdit      = "edit"
)

var BulkActions = []string{BulkActivate, BulkPause, BulkDuplicate, BulkDelete}

// BulkResult reports the outcome for one selected campaign.
type BulkResult struct {
	CampaignID uuid.UUID  `json:"campaign_id"`
	OK         bool       `json:"ok"`
	Error      string     `json:"error,omitempty"`
	NewID      *uuid.UUID `json:"new_id,omitempty"` // set by duplicate
}

// Bulk applies action to every selected campaign. Failures are reported per
// id and do not stop the remaining ids.
func (s *CampaignService) Bulk(ctx context.Context, action string, ids []uuid.UUID) ([]BulkResult, error) {
	var apply func(context.Context, uuid.UUID) (*uuid.UUID, error)
	switch action {
	case BulkActivate:
		apply = s.bulkStatus(models.CampaignStatusActive)
	case BulkPause:
		apply = s.bulkStatus(models.CampaignStatusPaused)
	case BulkDuplicate:
		apply = s.duplicate
	case BulkDelete:
		apply = func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
			return nil, s.Delete(ctx, id)
		}
	case BulkEdit:
		return nil, fmt.Errorf("%w: edit applies to a single campaign", ErrUnsupportedAction)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
	}

	if len(ids) == 0 {
		return nil, ErrNoCampaignSelected
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		newID, err := apply(ctx, id)
		r := BulkResult{CampaignID: id, OK: err == nil, NewID: newID}
		if err != nil {
			r.Error = bulkErrorMessage(err)
		}
		results = append(results, r)
	}
	return results, nil
}

func bulkErrorMessage(err error) string {
	if errors.Is(err, repositories.ErrNotFound) {
		return "campaign not found"
	}
	return err.Error()
}

func (s *CampaignService) bulkStatus(status string) func(context.Context, uuid.UUID) (*uuid.UUID, error) {
	return func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
		c, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.Status == status {
			return nil, fmt.Errorf("%w: already %s", ErrInvalidTransition, status)
		}
		_, err = s.Update(ctx, id, CampaignUpdate{Status: &status})
		return nil, err
	}
}

// duplicate copies a campaign as a draft with fresh metrics.
func (s *CampaignService) duplicate(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	src, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cp := *src
	cp.ID = uuid.Nil
	cp.CreatedAt = time.Time{}
	cp.Name = src.Name + " (Copy)"
	cp.Status = models.CampaignStatusDraft
	cp.Health = ""
	cp.ZeroMetrics()

	if err := s.store.Create(ctx, &cp); err != nil {
		return nil, err
	}

	s.auditLog(ctx, ActorAPI, models.AuditCampaignDuplicated, cp.ID, map[string]any{"source_id": id.String()})
	s.publish(ctx, events.EventCampaignUpdated, &cp, map[string]any{"source_id": id.String()})
	return &cp.ID, nil
}
