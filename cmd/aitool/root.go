package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/adstronaut/backend/internal/ai"
	"github.com/adstronaut/backend/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env carries what commands need from the outside world, so tests can swap
// the completer and capture output.
type env struct {
	cfg          *config.Config
	out          io.Writer
	newCompleter func(cfg ai.ClientConfig, log *zap.Logger) ai.Completer
}

func defaultEnv() *env {
	return &env{
		cfg: config.Load(),
		out: os.Stdout,
		newCompleter: func(cfg ai.ClientConfig, log *zap.Logger) ai.Completer {
			return ai.NewClient(cfg, log)
		},
	}
}

type globalFlags struct {
	model        string
	timeout      time.Duration
	noFallback   bool
	fallbackFile string
	verbose      bool
}

func newRootCmd(e *env) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "aitool",
		Short: "Run the AdStronaut AI tools from the command line",
		Long: `aitool drives the four AI tools panels (ad copy, audience targeting,
performance forecast, campaign insights) against the configured Gemini model.

The API key is read from GEMINI_API_KEY (or VITE_GEMINI_API_KEY), including a
.env file in the working directory. Results are printed as JSON together with
the recovery tier that produced them: strict, heuristic or fallback.

Examples:
  # Check that the key works
  aitool ping

  # Generate ad copy
  aitool adcopy --product "Trail running shoes" --audience "Weekend hikers"

  # Run every tool at once with sample inputs
  aitool suite`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.model, "model", "", "model name (default from GEMINI_MODEL)")
	rootCmd.PersistentFlags().DurationVar(&g.timeout, "timeout", 0, "request timeout (default from GEMINI_TIMEOUT_SECONDS)")
	rootCmd.PersistentFlags().BoolVar(&g.noFallback, "no-fallback", false, "fail instead of returning fallback content")
	rootCmd.PersistentFlags().StringVar(&g.fallbackFile, "fallbacks", "", "YAML file overriding fallback content")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log requests and recovery to stderr")

	rootCmd.AddCommand(
		newPingCmd(e, g),
		newAdCopyCmd(e, g),
		newAudienceCmd(e, g),
		newForecastCmd(e, g),
		newInsightsCmd(e, g),
		newSuiteCmd(e, g),
	)
	return rootCmd
}

func (g *globalFlags) logger() *zap.Logger {
	if !g.verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// generator builds the Generator from config overridden by flags.
func (e *env) generator(g *globalFlags) (*ai.Generator, error) {
	log := g.logger()

	cc := ai.ClientConfig{
		APIKey:  e.cfg.GeminiAPIKey,
		BaseURL: e.cfg.GeminiBaseURL,
		Model:   e.cfg.GeminiModel,
		Timeout: e.cfg.GeminiTimeout,
	}
	if g.model != "" {
		cc.Model = g.model
	}
	if g.timeout > 0 {
		cc.Timeout = g.timeout
	}

	fallbacks := ai.DefaultFallbacks()
	path := g.fallbackFile
	if path == "" {
		path = e.cfg.AIFallbacksFile
	}
	if path != "" {
		var err error
		if fallbacks, err = ai.LoadFallbacks(path); err != nil {
			return nil, fmt.Errorf("load fallbacks: %w", err)
		}
	}

	return ai.NewGenerator(e.newCompleter(cc, log), log,
		ai.WithFallbacks(fallbacks),
		ai.WithFallbackEnabled(e.cfg.AIFallbackEnabled && !g.noFallback),
	), nil
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
