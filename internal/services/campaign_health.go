package services

import (
	"context"

	"github.com/adstronaut/backend/internal/events"
	"github.com/adstronaut/backend/internal/models"
	"go.uber.org/zap"
)

// HealthReport summarises one refresh pass.
type HealthReport struct {
	Checked int
	Changed int
	// Counts is keyed by {status, health}.
	Counts map[[2]string]int
}

// RefreshHealth re-evaluates every active campaign and persists changed
// health labels. Other campaigns keep whatever health they have. Only the
// health column is written, and only if the campaign is still active with the
// health that was evaluated, so concurrent edits win over the refresh.
func (s *CampaignService) RefreshHealth(ctx context.Context) (HealthReport, error) {
	report := HealthReport{Counts: make(map[[2]string]int)}

	all, err := s.store.All(ctx)
	if err != nil {
		return report, err
	}

	for i := range all {
		c := &all[i]
		if c.Status == models.CampaignStatusActive {
			report.Checked++
			if next := models.EvaluateHealth(*c); next != c.Health {
				prev := c.Health
				ok, err := s.store.UpdateHealth(ctx, c.ID, prev, next)
				switch {
				case err != nil:
					s.log.Warn("persist campaign health failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
				case !ok:
					s.log.Debug("campaign changed during health refresh, skipped", zap.String("campaign_id", c.ID.String()))
				default:
					c.Health = next
					report.Changed++
					s.auditLog(ctx, ActorWorker, models.AuditCampaignHealthChanged, c.ID, map[string]any{
						"old_health": prev,
						"new_health": next,
					})
					s.publish(ctx, events.EventCampaignHealthChanged, c, map[string]any{"previous_health": prev})
				}
			}
		}
		report.Counts[[2]string{c.Status, c.Health}]++
	}

	return report, nil
}
