package repositories

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adstronaut/backend/internal/models"
	"github.com/google/uuid"
)

// MemoryCampaignStore keeps campaigns in process. Used when no postgres DSN
// is configured and in tests.
type MemoryCampaignStore struct {
	mu        sync.RWMutex
	campaigns map[uuid.UUID]models.Campaign
	now       func() time.Time
}

func NewMemoryCampaignStore() *MemoryCampaignStore {
	return &MemoryCampaignStore{
		campaigns: make(map[uuid.UUID]models.Campaign),
		now:       time.Now,
	}
}

// DemoCampaigns returns the three sample campaigns the dashboard ships with.
func DemoCampaigns(now time.Time) []models.Campaign {
	day := 24 * time.Hour
	return []models.Campaign{
		{
			Name: "Summer Sale 2024", Platform: models.PlatformGoogleAds,
			Status: models.CampaignStatusActive, Health: models.HealthExcellent,
			Budget: 5000, Spent: 3250, Impressions: 125000, Clicks: 3750, Conversions: 187,
			CTR: 3.0, CPC: 0.87, ROAS: 4.2, CreatedAt: now.Add(-45 * day),
		},
		{
			Name: "Brand Awareness Campaign", Platform: models.PlatformFacebook,
			Status: models.CampaignStatusActive, Health: models.HealthGood,
			Budget: 2500, Spent: 1890, Impressions: 89000, Clicks: 2134, Conversions: 89,
			CTR: 2.4, CPC: 0.89, ROAS: 3.1, CreatedAt: now.Add(-20 * day),
		},
		{
			Name: "Product Launch", Platform: models.PlatformInstagram,
			Status: models.CampaignStatusPaused, Health: models.HealthWarning,
			Budget: 3000, Spent: 850, Impressions: 45000, Clicks: 1350, Conversions: 45,
			CTR: 3.0, CPC: 0.63, ROAS: 2.8, CreatedAt: now.Add(-5 * day),
		},
	}
}

// Seed inserts the demo campaigns, keeping their creation dates.
func (s *MemoryCampaignStore) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range DemoCampaigns(s.now()) {
		c.ID = uuid.New()
		c.UpdatedAt = c.CreatedAt
		s.campaigns[c.ID] = c
	}
}

// Create assigns an id. A zero CreatedAt is set to now.
func (s *MemoryCampaignStore) Create(_ context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c.ID = uuid.New()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.campaigns[c.ID] = *c
	return nil
}

func (s *MemoryCampaignStore) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryCampaignStore) Update(_ context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.campaigns[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = s.now()
	s.campaigns[c.ID] = *c
	return nil
}

func (s *MemoryCampaignStore) UpdateHealth(_ context.Context, id uuid.UUID, prev, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.Status != models.CampaignStatusActive || c.Health != prev {
		return false, nil
	}
	c.Health = next
	c.UpdatedAt = s.now()
	s.campaigns[id] = c
	return true, nil
}

func (s *MemoryCampaignStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[id]; !ok {
		return ErrNotFound
	}
	delete(s.campaigns, id)
	return nil
}

func (s *MemoryCampaignStore) List(_ context.Context, f CampaignFilter) ([]models.Campaign, error) {
	s.mu.RLock()
	out := make([]models.Campaign, 0, len(s.campaigns))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, c := range s.campaigns {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if f.Platform != nil && c.Platform != *f.Platform {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		if f.Since != nil && c.CreatedAt.Before(*f.Since) {
			continue
		}
		out = append(out, c)
	}
	s.mu.RUnlock()

	col, desc := f.sort()
	slices.SortFunc(out, func(a, b models.Campaign) int {
		r := compareCampaigns(a, b, col)
		if desc {
			r = -r
		}
		if r == 0 {
			r = strings.Compare(a.ID.String(), b.ID.String())
		}
		return r
	})

	offset := min(f.offset(), len(out))
	end := min(offset+f.limit(), len(out))
	return out[offset:end], nil
}

func (s *MemoryCampaignStore) All(_ context.Context) ([]models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Campaign) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func compareCampaigns(a, b models.Campaign, col string) int {
	switch col {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "budget":
		return cmp.Compare(a.Budget, b.Budget)
	case "spent":
		return cmp.Compare(a.Spent, b.Spent)
	case "roas":
		return cmp.Compare(a.ROAS, b.ROAS)
	case "ctr":
		return cmp.Compare(a.CTR, b.CTR)
	case "conversions":
		return cmp.Compare(a.Conversions, b.Conversions)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
