package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/adstronaut/backend/internal/events"
	"github.com/adstronaut/backend/internal/models"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnsupportedAction  = errors.New("unsupported bulk action")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrNoCampaignSelected = errors.New("no campaigns selected")
)

const auditEntityCampaign = "campaign"

// Actor types recorded in the audit log.
const (
	ActorAPI    = "api"
	ActorWorker = "worker"
)

type CampaignService struct {
	store     repositories.CampaignStore
	audit     repositories.AuditLogger
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewCampaignService(
	store repositories.CampaignStore,
	audit repositories.AuditLogger,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CampaignService{
		store:     store,
		audit:     audit,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateCampaign(c *models.Campaign) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return validationError("name is required")
	}
	if !models.IsValidPlatform(c.Platform) {
		return validationError("unknown platform %q", c.Platform)
	}
	if !models.IsValidCampaignStatus(c.Status) {
		return validationError("unknown status %q", c.Status)
	}
	if c.Budget <= 0 || math.IsNaN(c.Budget) || math.IsInf(c.Budget, 0) {
		return validationError("budget must be positive")
	}
	if c.Spent < 0 || c.Impressions < 0 || c.Clicks < 0 || c.Conversions < 0 || c.ROAS < 0 {
		return validationError("metrics must not be negative")
	}
	return nil
}

// deriveRates recomputes CTR and CPC from the raw counters.
func deriveRates(c *models.Campaign) {
	c.CTR = 0
	if c.Impressions > 0 {
		c.CTR = round2(float64(c.Clicks) / float64(c.Impressions) * 100)
	}
	c.CPC = 0
	if c.Clicks > 0 {
		c.CPC = round2(c.Spent / float64(c.Clicks))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *CampaignService) Create(ctx context.Context, c *models.Campaign) error {
	if c.Status == "" {
		c.Status = models.CampaignStatusDraft
	}
	if err := validateCampaign(c); err != nil {
		return err
	}
	deriveRates(c)
	if c.Status == models.CampaignStatusActive {
		c.Health = models.EvaluateHealth(*c)
	}

	if err := s.store.Create(ctx, c); err != nil {
		return err
	}

	s.auditLog(ctx, ActorAPI, models.AuditCampaignCreated, c.ID, map[string]any{"name": c.Name, "platform": c.Platform})
	s.publish(ctx, events.EventCampaignUpdated, c, nil)
	return nil
}

func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.store.GetByID(ctx, id)
}

// ListQuery is a CampaignFilter plus a date range preset.
type ListQuery struct {
	repositories.CampaignFilter
	DateRange string
}

func (s *CampaignService) List(ctx context.Context, q ListQuery) ([]models.Campaign, error) {
	since, err := ResolveDateRange(q.DateRange, s.now())
	if err != nil {
		return nil, err
	}
	f := q.CampaignFilter
	if since != nil {
		f.Since = since
	}
	if f.Platform != nil && !models.IsValidPlatform(*f.Platform) {
		return nil, validationError("unknown platform %q", *f.Platform)
	}
	if f.Status != nil && !models.IsValidCampaignStatus(*f.Status) {
		return nil, validationError("unknown status %q", *f.Status)
	}
	if f.SortBy != "" && !repositories.IsValidSortField(f.SortBy) {
		return nil, validationError("cannot sort by %q", f.SortBy)
	}
	return s.store.List(ctx, f)
}

// Date range presets
const (
	DateRangeAll        = "all"
	DateRangeToday      = "today"
	DateRangeYesterday  = "yesterday"
	DateRangeLast7Days  = "last7days"
	DateRangeLast30Days = "last30days"
	DateRangeLast90Days = "last90days"
)

var DateRanges = []string{
	DateRangeAll, DateRangeToday, DateRangeYesterday,
	DateRangeLast7Days, DateRangeLast30Days, DateRangeLast90Days,
}

// ResolveDateRange turns a preset into the earliest creation time to include.
// nil means no lower bound.
func ResolveDateRange(preset string, now time.Time) (*time.Time, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var since time.Time
	switch preset {
	case "", DateRangeAll:
		return nil, nil
	case DateRangeToday:
		since = startOfDay
	case DateRangeYesterday:
		since = startOfDay.AddDate(0, 0, -1)
	case DateRangeLast7Days:
		since = now.AddDate(0, 0, -7)
	case DateRangeLast30Days:
		since = now.AddDate(0, 0, -30)
	case DateRangeLast90Days:
		since = now.AddDate(0, 0, -90)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateRange, preset)
	}
	return &since, nil
}

// CampaignUpdate carries the fields a caller may change. Nil fields are kept.
type CampaignUpdate struct {
	Name        *string
	Platform    *string
	Status      *string
	Budget      *float64
	Spent       *float64
	Impressions *int64
	Clicks      *int64
	Conversions *int64
	ROAS        *float64
}

func (s *CampaignService) Update(ctx context.Context, id uuid.UUID, u CampaignUpdate) (*models.Campaign, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := c.Status

	if u.Status != nil && *u.Status != c.Status {
		if !models.IsValidCampaignTransition(c.Status, *u.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, c.Status, *u.Status)
		}
		c.Status = *u.Status
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Platform != nil {
		c.Platform = *u.Platform
	}
	if u.Budget != nil {
		c.Budget = *u.Budget
	}
	if u.Spent != nil {
		c.Spent = *u.Spent
	}
	if u.Impressions != nil {
		c.Impressions = *u.Impressions
	}
	if u.Clicks != nil {
		c.Clicks = *u.Clicks
	}
	if u.Conversions != nil {
		c.Conversions = *u.Conversions
	}
	if u.ROAS != nil {
		c.ROAS = *u.ROAS
	}

	if err := validateCampaign(c); err != nil {
		return nil, err
	}
	deriveRates(c)
	if c.Status == models.CampaignStatusActive {
		c.Health = models.EvaluateHealth(*c)
	}

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}

	meta := map[string]any{}
	action := models.AuditCampaignUpdated
	if oldStatus != c.Status {
		action = models.AuditCampaignStatusChanged
		meta["old_status"] = oldStatus
		meta["new_status"] = c.Status
	}
	s.auditLog(ctx, ActorAPI, action, c.ID, meta)
	s.publish(ctx, events.EventCampaignUpdated, c, nil)
	return c, nil
}

func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.auditLog(ctx, ActorAPI, models.AuditCampaignDeleted, id, map[string]any{"name": c.Name})
	s.publish(ctx, events.EventCampaignDeleted, c, nil)
	return nil
}

// History returns the audit trail of one campaign, newest first. Entries
// outlive the campaign itself.
func (s *CampaignService) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]models.AuditLog, error) {
	if s.audit == nil {
		return []models.AuditLog{}, nil
	}
	return s.audit.GetByEntity(ctx, auditEntityCampaign, id, limit, offset)
}

func (s *CampaignService) auditLog(ctx context.Context, actor, action string, id uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorType:  actor,
		Action:     action,
		EntityType: auditEntityCampaign,
		EntityID:   &id,
		Meta:       meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *CampaignService) publish(ctx context.Context, eventType string, c *models.Campaign, extra map[string]any) {
	payload := map[string]any{
		"campaign_id": c.ID.String(),
		"name":        c.Name,
		"platform":    c.Platform,
		"status":      c.Status,
		"health":      c.Health,
	}
	for k, v := range extra {
		payload[k] = v
	}
	if err := s.publisher.Publish(ctx, events.StreamCampaign, events.Event{Type: eventType, Payload: payload}); err != nil {
		s.log.Warn("publish campaign event failed", zap.String("type", eventType), zap.Error(err))
	}
}
