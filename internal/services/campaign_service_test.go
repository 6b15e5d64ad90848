package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"sync"
	"testing"
	"time"

	"github.com/adstronaut/backend/internal/events"
	"github.com/adstronaut/backend/internal/models"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newTestService(t *testing.T, seed bool) (*CampaignService, *repositories.MemoryCampaignStore, *recordingPublisher) {
	t.Helper()
	store := repositories.NewMemoryCampaignStore()
	if seed {
		store.Seed()
	}
	pub := &recordingPublisher{}
	return NewCampaignService(store, repositories.NewMemoryAuditLog(), pub, zap.NewNop()), store, pub
}

func findByName(t *testing.T, s *CampaignService, name string) models.Campaign {
	t.Helper()
	all, err := s.All(context.Background())
	require.NoError(t, err)
	for _, c := range all {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("campaign %q not found", name)
	return models.Campaign{}
}

func TestCreateValidation(t *testing.T) {
	s, _, _ := newTestService(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		c    models.Campaign
	}{
		{"missing name", models.Campaign{Platform: models.PlatformFacebook, Budget: 100}},
		{"unknown platform", models.Campaign{Name: "x", Platform: "MySpace", Budget: 100}},
		{"zero budget", models.Campaign{Name: "x", Platform: models.PlatformFacebook}},
		{"unknown status", models.Campaign{Name: "x", Platform: models.PlatformFacebook, Budget: 100, Status: "archived"}},
		{"negative spend", models.Campaign{Name: "x", Platform: models.PlatformFacebook, Budget: 100, Spent: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			assert.ErrorIs(t, s.Create(ctx, &c), ErrValidation)
		})
	}
}

func TestCreateDefaultsAndEvents(t *testing.T) {
	s, _, pub := newTestService(t, false)

	c := &models.Campaign{Name: "  Winter Deals ", Platform: models.PlatformLinkedIn, Budget: 1200}
	require.NoError(t, s.Create(context.Background(), c))

	assert.Equal(t, "Winter Deals", c.Name)
	assert.Equal(t, models.CampaignStatusDraft, c.Status)
	assert.Empty(t, c.Health)
	assert.Equal(t, []string{events.EventCampaignUpdated}, pub.types())
}

func TestUpdateTransitions(t *testing.T) {
	s, _, _ := newTestService(t, false)
	ctx := context.Background()

	c := &models.Campaign{Name: "Launch", Platform: models.PlatformTwitter, Budget: 500, ROAS: 4.5}
	require.NoError(t, s.Create(ctx, c))

	active := models.CampaignStatusActive
	got, err := s.Update(ctx, c.ID, CampaignUpdate{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, got.Status)
	assert.Equal(t, models.HealthExcellent, got.Health)

	completed := models.CampaignStatusCompleted
	_, err = s.Update(ctx, c.ID, CampaignUpdate{Status: &completed})
	require.NoError(t, err)

	_, err = s.Update(ctx, c.ID, CampaignUpdate{Status: &active})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.Update(ctx, uuid.New(), CampaignUpdate{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdateDerivesRates(t *testing.T) {
	s, _, _ := newTestService(t, false)
	ctx := context.Background()

	c := &models.Campaign{Name: "Rates", Platform: models.PlatformGoogleAds, Budget: 1000}
	require.NoError(t, s.Create(ctx, c))

	spent, impressions, clicks := 100.0, int64(10000), int64(250)
	got, err := s.Update(ctx, c.ID, CampaignUpdate{Spent: &spent, Impressions: &impressions, Clicks: &clicks})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.CTR)
	assert.Equal(t, 0.4, got.CPC)
}

func TestListDateRangeAndValidation(t *testing.T) {
	s, _, _ := newTestService(t, true)
	ctx := context.Background()

	got, err := s.List(ctx, ListQuery{DateRange: DateRangeLast7Days})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Product Launch", got[0].Name)

	got, err = s.List(ctx, ListQuery{DateRange: DateRangeAll})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = s.List(ctx, ListQuery{DateRange: "last year"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = s.List(ctx, ListQuery{CampaignFilter: repositories.CampaignFilter{SortBy: "secret"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		preset   string
		expected *time.Time
	}{
		{"", nil},
		{DateRangeAll, nil},
		{DateRangeToday, ptr(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))},
		{DateRangeYesterday, ptr(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC))},
		{DateRangeLast7Days, ptr(time.Date(2024, 6, 8, 14, 30, 0, 0, time.UTC))},
		{DateRangeLast30Days, ptr(time.Date(2024, 5, 16, 14, 30, 0, 0, time.UTC))},
		{DateRangeLast90Days, ptr(time.Date(2024, 3, 17, 14, 30, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			got, err := ResolveDateRange(tt.preset, now)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestBulkActions(t *testing.T) {
	s, _, pub := newTestService(t, true)
	ctx := context.Background()

	summer := findByName(t, s, "Summer Sale 2024")
	launch := findByName(t, s, "Product Launch")
	missing := uuid.New()

	results, err := s.Bulk(ctx, BulkPause, []uuid.UUID{summer.ID, launch.ID, missing, summer.ID})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK, "already paused")
	assert.Contains(t, results[1].Error, "already paused")
	assert.False(t, results[2].OK)
	assert.Equal(t, "campaign not found", results[2].Error)

	results, err = s.Bulk(ctx, BulkActivate, []uuid.UUID{launch.ID})
	require.NoError(t, err)
	assert.True(t, results[0].OK)
	assert.Equal(t, models.CampaignStatusActive, findByName(t, s, "Product Launch").Status)

	assert.Contains(t, pub.types(), events.EventCampaignUpdated)
}

func TestBulkDuplicate(t *testing.T) {
	s, _, _ := newTestService(t, true)
	ctx := context.Background()
	summer := findByName(t, s, "Summer Sale 2024")

	results, err := s.Bulk(ctx, BulkDuplicate, []uuid.UUID{summer.ID})
	require.NoError(t, err)
	require.True(t, results[0].OK)
	require.NotNil(t, results[0].NewID)

	cp, err := s.GetByID(ctx, *results[0].NewID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale 2024 (Copy)", cp.Name)
	assert.Equal(t, models.CampaignStatusDraft, cp.Status)
	assert.Equal(t, summer.Platform, cp.Platform)
	assert.Equal(t, summer.Budget, cp.Budget)
	assert.Zero(t, cp.Spent)
	assert.Zero(t, cp.Impressions)
	assert.Zero(t, cp.ROAS)
	assert.Empty(t, cp.Health)
}

func TestBulkDeleteAndRejections(t *testing.T) {
	s, _, pub := newTestService(t, true)
	ctx := context.Background()
	launch := findByName(t, s, "Product Launch")

	results, err := s.Bulk(ctx, BulkDelete, []uuid.UUID{launch.ID})
	require.NoError(t, err)
	assert.True(t, results[0].OK)
	_, err = s.GetByID(ctx, launch.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, pub.types(), events.EventCampaignDeleted)

	_, err = s.Bulk(ctx, BulkEdit, []uuid.UUID{launch.ID})
	assert.ErrorIs(t, err, ErrUnsupportedAction)

	_, err = s.Bulk(ctx, "archive", []uuid.UUID{launch.ID})
	assert.ErrorIs(t, err, ErrUnsupportedAction)

	_, err = s.Bulk(ctx, BulkPause, nil)
	assert.ErrorIs(t, err, ErrNoCampaignSelected)
}

func TestStatsOnDemoCampaigns(t *testing.T) {
	s, _, _ := newTestService(t, true)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, st.TotalCampaigns)
	assert.Equal(t, 2, st.ActiveCampaigns)
	assert.Equal(t, 10500.0, st.TotalBudget)
	assert.Equal(t, 5990.0, st.TotalSpent)
	assert.Equal(t, int64(259000), st.TotalImpressions)
	assert.Equal(t, int64(7234), st.TotalClicks)
	assert.Equal(t, int64(321), st.TotalConversions)
	assert.InDelta(t, 3.3667, st.AverageROAS, 0.0001)
	assert.InDelta(t, 2.793, st.OverallCTR, 0.001)
	assert.InDelta(t, 0.828, st.OverallCPC, 0.001)
}

func TestStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Zero(t, st.AverageROAS)
	assert.Zero(t, st.OverallCTR)
	assert.Zero(t, st.OverallCPC)
}

func TestComparePlatforms(t *testing.T) {
	s, _, _ := newTestService(t, true)

	rows, err := s.Platforms(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.PlatformGoogleAds, rows[0].Platform)
	assert.Equal(t, models.PlatformFacebook, rows[1].Platform)
	assert.Equal(t, models.PlatformInstagram, rows[2].Platform)

	var share float64
	for _, r := range rows {
		share += r.SpendShare
	}
	assert.InDelta(t, 100, share, 0.0001)
	assert.InDelta(t, 3250.0/5990*100, rows[0].SpendShare, 0.0001)
	assert.Equal(t, 4.2, rows[0].AverageROAS)
}

func TestExportCSV(t *testing.T) {
	s, _, _ := newTestService(t, true)
	summer := findByName(t, s, "Summer Sale 2024")

	var buf bytes.Buffer
	n, err := s.Export(context.Background(), &buf, ExportRequest{
		Format:      "CSV",
		Metrics:     []string{"spend", "roas", "spend"},
		CampaignIDs: []uuid.UUID{summer.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Campaign", "Platform", "Status", "Spend", "ROAS"},
		{"Summer Sale 2024", "Google Ads", "active", "3250.00", "4.20"},
	}, records)
}

func TestExportAllMetricsAndFormats(t *testing.T) {
	s, _, _ := newTestService(t, true)
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := s.Export(ctx, &buf, ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Len(t, records[0], 3+len(ExportMetrics))

	for _, format := range []string{"xlsx", "pdf", "docx"} {
		_, err := s.Export(ctx, &bytes.Buffer{}, ExportRequest{Format: format})
		assert.ErrorIs(t, err, ErrUnsupportedFormat, format)
	}

	_, err = s.Export(ctx, &bytes.Buffer{}, ExportRequest{Metrics: []string{"likes"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefreshHealth(t *testing.T) {
	s, store, pub := newTestService(t, true)
	ctx := context.Background()

	brand := findByName(t, s, "Brand Awareness Campaign")
	brand.Spent = brand.Budget
	require.NoError(t, store.Update(ctx, &brand))

	launch := findByName(t, s, "Product Launch")
	launch.Health = "stale"
	require.NoError(t, store.Update(ctx, &launch))

	report, err := s.RefreshHealth(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, models.HealthCritical, findByName(t, s, "Brand Awareness Campaign").Health)
	assert.Equal(t, "stale", findByName(t, s, "Product Launch").Health, "paused campaigns keep their health")
	assert.Equal(t, 1, report.Counts[[2]string{models.CampaignStatusActive, models.HealthExcellent}])
	assert.Equal(t, 1, report.Counts[[2]string{models.CampaignStatusActive, models.HealthCritical}])
	assert.Equal(t, []string{events.EventCampaignHealthChanged}, pub.types())
}

// snapshotHookStore runs afterAll once, right after All has returned its snapshot.
type snapshotHookStore struct {
	*repositories.MemoryCampaignStore
	afterAll func()
}

func (s *snapshotHookStore) All(ctx context.Context) ([]models.Campaign, error) {
	all, err := s.MemoryCampaignStore.All(ctx)
	if hook := s.afterAll; hook != nil {
		s.afterAll = nil
		hook()
	}
	return all, err
}

func TestRefreshHealthKeepsConcurrentPause(t *testing.T) {
	ctx := context.Background()
	mem := repositories.NewMemoryCampaignStore()
	mem.Seed()
	store := &snapshotHookStore{MemoryCampaignStore: mem}
	pub := &recordingPublisher{}
	s := NewCampaignService(store, repositories.NewMemoryAuditLog(), pub, zap.NewNop())

	brand := findByName(t, s, "Brand Awareness Campaign")
	brand.Spent = brand.Budget
	require.NoError(t, mem.Update(ctx, &brand))

	paused := models.CampaignStatusPaused
	store.afterAll = func() {
		_, err := s.Update(ctx, brand.ID, CampaignUpdate{Status: &paused})
		require.NoError(t, err)
	}

	report, err := s.RefreshHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Changed)

	got, err := mem.GetByID(ctx, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusPaused, got.Status)
	assert.Equal(t, models.HealthGood, got.Health)
	assert.Equal(t, brand.Spent, got.Spent)
	assert.Equal(t, []string{events.EventCampaignUpdated}, pub.types())
}
