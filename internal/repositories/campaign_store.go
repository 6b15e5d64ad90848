package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/adstronaut/backend/internal/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// CampaignStore is the persistence contract for campaigns. CampaignRepo
// (postgres) and MemoryCampaignStore implement it.
type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	// UpdateHealth sets only the health label, and only while the campaign is
	// still active with health prev. It reports whether a row was changed.
	UpdateHealth(ctx context.Context, id uuid.UUID, prev, next string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error)
	All(ctx context.Context) ([]models.Campaign, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type CampaignFilter struct {
	Search   string
	Platform *string
	Status   *string
	Since    *time.Time
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// sortColumns maps accepted SortBy values to columns.
var sortColumns = map[string]string{
	"name":        "name",
	"budget":      "budget",
	"spent":       "spent",
	"roas":        "roas",
	"ctr":         "ctr",
	"conversions": "conversions",
	"created_at":  "created_at",
}

func IsValidSortField(s string) bool {
	_, ok := sortColumns[s]
	return ok
}

func (f CampaignFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return min(f.Limit, maxListLimit)
}

func (f CampaignFilter) offset() int {
	return max(f.Offset, 0)
}

// sort returns the column and direction, defaulting to newest first.
func (f CampaignFilter) sort() (string, bool) {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		return "created_at", true
	}
	return col, f.SortDesc
}

// Page returns the effective limit and offset after defaults and caps.
func (f CampaignFilter) Page() (limit, offset int) {
	return f.limit(), f.offset()
}

// SeedIfEmpty inserts the demo campaigns into an empty store and reports how
// many were added.
func SeedIfEmpty(ctx context.Context, store CampaignStore, now time.Time) (int, error) {
	existing, err := store.All(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	demo := DemoCampaigns(now)
	for i := range demo {
		if err := store.Create(ctx, &demo[i]); err != nil {
			return i, err
		}
	}
	return len(demo), nil
}
