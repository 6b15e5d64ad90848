package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	m := New()

	m.ObserveGeneration("ad_copy", "heuristic", 2*time.Second)
	m.ObserveGeneration("ad_copy", "heuristic", time.Second)
	m.ObserveFailure("forecast", "rate_limited")
	m.ObserveFailure("forecast", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AIGenerationsTotal.WithLabelValues("ad_copy", "heuristic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AIFailuresTotal.WithLabelValues("forecast", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AIFailuresTotal.WithLabelValues("forecast", "unknown")))
}

func TestSetCampaignCountsResets(t *testing.T) {
	m := New()

	m.SetCampaignCounts(map[[2]string]int{{"active", "good"}: 2, {"paused", "warning"}: 1})
	m.SetCampaignCounts(map[[2]string]int{{"active", "excellent"}: 1})

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var fam *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "adstronaut_campaigns" {
			fam = f
		}
	}
	require.NotNil(t, fam)
	require.Len(t, fam.GetMetric(), 1)
	assert.Equal(t, 1.0, fam.GetMetric()[0].GetGauge().GetValue())
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(Middleware(m))
	app.Get("/metrics", Handler(m))
	app.Get("/campaigns/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/campaigns/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("GET", "/campaigns/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIErrorsTotal.WithLabelValues("not_found")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "adstronaut_api_requests_total"))
}

func TestCategorizeStatus(t *testing.T) {
	tests := map[int]string{
		400: "bad_request",
		404: "not_found",
		429: "rate_limited",
		422: "client_error",
		500: "server_error",
		502: "upstream_error",
		503: "unavailable",
	}
	for status, want := range tests {
		if got := categorizeStatus(status); got != want {
			t.Errorf("categorizeStatus(%d) = %q, want %q", status, got, want)
		}
	}
}
