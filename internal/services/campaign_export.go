package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/adstronaut/backend/internal/models"
	"github.com/google/uuid"
)

// Export formats
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
	ExportPDF  = "pdf"
)

// Export metrics, in default column order.
var ExportMetrics = []string{"impressions", "clicks", "conversions", "spend", "budget", "ctr", "cpc", "roas"}

type exportColumn struct {
	header string
	value  func(models.Campaign) string
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

var exportColumns = map[string]exportColumn{
	"impressions": {"Impressions", func(c models.Campaign) string { return strconv.FormatInt(c.Impressions, 10) }},
	"clicks":      {"Clicks", func(c models.Campaign) string { return strconv.FormatInt(c.Clicks, 10) }},
	"conversions": {"Conversions", func(c models.Campaign) string { return strconv.FormatInt(c.Conversions, 10) }},
	"spend":       {"Spend", func(c models.Campaign) string { return money(c.Spent) }},
	"budget":      {"Budget", func(c models.Campaign) string { return money(c.Budget) }},
	"ctr":         {"CTR (%)", func(c models.Campaign) string { return money(c.CTR) }},
	"cpc":         {"CPC", func(c models.Campaign) string { return money(c.CPC) }},
	"roas":        {"ROAS", func(c models.Campaign) string { return money(c.ROAS) }},
}

type ExportRequest struct {
	Format      string
	DateRange   string
	Metrics     []string
	CampaignIDs []uuid.UUID
}

func (r *ExportRequest) normalize() error {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	switch r.Format {
	case "", ExportCSV:
		r.Format = ExportCSV
	case ExportXLSX, ExportPDF:
		return fmt.Errorf("%w: %s export is not available, use csv", ErrUnsupportedFormat, r.Format)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, r.Format)
	}

	if len(r.Metrics) == 0 {
		r.Metrics = ExportMetrics
		return nil
	}
	metrics := make([]string, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		m = strings.ToLower(strings.TrimSpace(m))
		if _, ok := exportColumns[m]; !ok {
			return validationError("unknown export metric %q", m)
		}
		if !slices.Contains(metrics, m) {
			metrics = append(metrics, m)
		}
	}
	r.Metrics = metrics
	return nil
}

// Export writes the selected campaigns as CSV. An empty CampaignIDs selects
// every campaign within the date range.
func (s *CampaignService) Export(ctx context.Context, w io.Writer, req ExportRequest) (int, error) {
	if err := req.normalize(); err != nil {
		return 0, err
	}
	since, err := ResolveDateRange(req.DateRange, s.now())
	if err != nil {
		return 0, err
	}

	all, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}

	rows := make([]models.Campaign, 0, len(all))
	for _, c := range all {
		if len(req.CampaignIDs) > 0 && !slices.Contains(req.CampaignIDs, c.ID) {
			continue
		}
		if since != nil && c.CreatedAt.Before(*since) {
			continue
		}
		rows = append(rows, c)
	}

	cw := csv.NewWriter(w)
	header := []string{"Campaign", "Platform", "Status"}
	for _, m := range req.Metrics {
		header = append(header, exportColumns[m].header)
	}
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	for _, c := range rows {
		rec := []string{c.Name, c.Platform, c.Status}
		for _, m := range req.Metrics {
			rec = append(rec, exportColumns[m].value(c))
		}
		if err := cw.Write(rec); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(rows), cw.Error()
}
