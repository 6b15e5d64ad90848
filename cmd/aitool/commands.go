package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/repositories"
	"github.com/adstronaut/backend/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// result is what every generating command prints.
type result struct {
	Feature string `json:"feature"`
	Tier    string `json:"tier,omitempty"`
	Elapsed string `json:"elapsed"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newResult[T any](feature ai.Feature, out ai.Outcome[T], elapsed time.Duration, err error) result {
	r := result{Feature: string(feature), Elapsed: elapsed.Round(time.Millisecond).String()}
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Tier = string(out.Tier)
	r.Result = out.Data
	return r
}

func newPingCmd(e *env, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a fixed ad copy request to check the API key and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := e.generator(g)
			if err != nil {
				return err
			}
			status := gen.TestConnection(cmd.Context())
			if err := e.printJSON(status); err != nil {
				return err
			}
			if !status.Success {
				return fmt.Errorf("connection test failed")
			}
			return nil
		},
	}
}

func newAdCopyCmd(e *env, g *globalFlags) *cobra.Command {
	var req ai.AdCopyRequest
	cmd := &cobra.Command{
		Use:   "adcopy",
		Short: "Generate headlines, descriptions and calls to action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := e.generator(g)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := gen.GenerateAdCopy(cmd.Context(), req)
			return e.report(newResult(ai.FeatureAdCopy, out, time.Since(start), err))
		},
	}
	cmd.Flags().StringVar(&req.ProductService, "product", "", "product or service (required)")
	cmd.Flags().StringVar(&req.TargetAudience, "audience", "", "target audience (required)")
	cmd.Flags().StringVar(&req.CampaignObjective, "objective", "Brand Awareness", "campaign objective")
	cmd.Flags().StringVar(&req.Platform, "platform", "Google Ads", "ad platform")
	cmd.Flags().StringVar(&req.Tone, "tone", "Professional and engaging", "tone of voice")
	return cmd
}

func newAudienceCmd(e *env, g *globalFlags) *cobra.Command {
	var req ai.AudienceRequest
	cmd := &cobra.Command{
		Use:   "audience",
		Short: "Suggest demographics, interests and behaviors to target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := e.generator(g)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := gen.GenerateAudience(cmd.Context(), req)
			return e.report(newResult(ai.FeatureAudience, out, time.Since(start), err))
		},
	}
	cmd.Flags().StringVar(&req.ProductService, "product", "", "product or service (required)")
	cmd.Flags().StringVar(&req.CampaignObjective, "objective", "Brand Awareness", "campaign objective")
	cmd.Flags().StringVar(&req.BusinessType, "business-type", "B2C", "business type")
	cmd.Flags().StringVar(&req.CurrentAudience, "current", "", "current audience, if any")
	return cmd
}

func newForecastCmd(e *env, g *globalFlags) *cobra.Command {
	var req ai.ForecastRequest
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast impressions, clicks and conversions for a budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := e.generator(g)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := gen.GenerateForecast(cmd.Context(), req)
			return e.report(newResult(ai.FeatureForecast, out, time.Since(start), err))
		},
	}
	cmd.Flags().StringVar(&req.TargetAudience, "audience", "", "target audience (required)")
	cmd.Flags().Float64Var(&req.Budget, "budget", 1000, "total budget in USD")
	cmd.Flags().IntVar(&req.Duration, "duration", 30, "duration in days")
	cmd.Flags().StringVar(&req.CampaignType, "campaign-type", "Search Campaign", "campaign type")
	cmd.Flags().StringVar(&req.Platform, "platform", "Google Ads", "ad platform")
	return cmd
}

func newInsightsCmd(e *env, g *globalFlags) *cobra.Command {
	var (
		file      string
		timeframe string
	)
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarize campaign data into findings, recommendations and alerts",
		Long: `Summarize campaign data into findings, recommendations and alerts.

Without --file the sample dashboard campaigns are analysed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := e.generator(g)
			if err != nil {
				return err
			}
			data, err := insightsData(file)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := gen.GenerateInsights(cmd.Context(), ai.InsightsRequest{CampaignData: data, Timeframe: timeframe})
			return e.report(newResult(ai.FeatureInsights, out, time.Since(start), err))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with campaign data")
	cmd.Flags().StringVar(&timeframe, "timeframe", "Last 30 days", "period the data covers")
	return cmd
}

func newSuiteCmd(e *env, g *globalFlags) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Run all four tools concurrently with sample inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := e.generator(g)
			if err != nil {
				return err
			}
			results, err := runSuite(cmd.Context(), gen, concurrency)
			if err != nil {
				return err
			}
			if err := e.printJSON(results); err != nil {
				return err
			}
			for _, r := range results {
				if r.Error != "" {
					return fmt.Errorf("%s failed", r.Feature)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", len(ai.Features), "maximum parallel requests")
	return cmd
}

// runSuite runs every feature once. Generation errors are recorded per
// feature; only a broken setup aborts the run.
func runSuite(ctx context.Context, gen *ai.Generator, concurrency int) ([]result, error) {
	data, err := insightsData("")
	if err != nil {
		return nil, err
	}

	jobs := map[ai.Feature]func(context.Context) result{
		ai.FeatureAdCopy: func(ctx context.Context) result {
			start := time.Now()
			out, err := gen.GenerateAdCopy(ctx, ai.AdCopyRequest{
				ProductService: "Eco-friendly water bottles",
				TargetAudience: "Health-conscious millennials",
				Tone:           "Professional and engaging",
			})
			return newResult(ai.FeatureAdCopy, out, time.Since(start), err)
		},
		ai.FeatureAudience: func(ctx context.Context) result {
			start := time.Now()
			out, err := gen.GenerateAudience(ctx, ai.AudienceRequest{
				ProductService: "Project management software",
				BusinessType:   "SaaS",
			})
			return newResult(ai.FeatureAudience, out, time.Since(start), err)
		},
		ai.FeatureForecast: func(ctx context.Context) result {
			start := time.Now()
			out, err := gen.GenerateForecast(ctx, ai.ForecastRequest{
				TargetAudience: "Small business owners",
				Budget:         1000,
				Duration:       30,
			})
			return newResult(ai.FeatureForecast, out, time.Since(start), err)
		},
		ai.FeatureInsights: func(ctx context.Context) result {
			start := time.Now()
			out, err := gen.GenerateInsights(ctx, ai.InsightsRequest{CampaignData: data})
			return newResult(ai.FeatureInsights, out, time.Since(start), err)
		},
	}

	var mu sync.Mutex
	byName := make(map[ai.Feature]result, len(jobs))
	eg, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for _, f := range ai.Features {
		job := jobs[f]
		eg.Go(func() error {
			r := job(gctx)
			mu.Lock()
			byName[f] = r
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	results := make([]result, 0, len(ai.Features))
	for _, f := range ai.Features {
		results = append(results, byName[f])
	}
	return results, nil
}

// insightsData reads path, or builds the sample dashboard payload when path
// is empty.
func insightsData(path string) (json.RawMessage, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read campaign data: %w", err)
		}
		return b, nil
	}
	campaigns := repositories.DemoCampaigns(time.Now())
	return json.Marshal(map[string]any{
		"stats":     services.ComputeStats(campaigns),
		"campaigns": campaigns,
	})
}

func (e *env) report(r result) error {
	if err := e.printJSON(r); err != nil {
		return err
	}
	if r.Error != "" {
		return fmt.Errorf("%s: %s", r.Feature, r.Error)
	}
	return nil
}
