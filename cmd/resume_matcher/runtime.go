package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/cache"
	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/improve"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/resume"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/spf13/cobra"
)

// loadSettings resolves configuration: config file, then environment, then flags, then defaults.
func loadSettings(cmd *cobra.Command, getenv func(string) string) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg.ApplyEnv(getenv)

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = strings.ToLower(flagProvider)
	}
	if flags.Changed("api-key") {
		cfg.APIKey = flagAPIKey
	}
	if flags.Changed("model") {
		cfg.Model = flagModel
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(flagLogLevel)
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logging.InitWithWriter(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, os.Stderr)
	return cfg, nil
}

// llmConfig maps application settings onto a provider configuration
func llmConfig(cfg config.Config) *llm.Config {
	lc := llm.ConfigFor(llm.Provider(cfg.Provider))
	if cfg.Model != "" {
		lc = lc.WithAllModels(cfg.Model)
	}
	if cfg.OpenRouterURL != "" {
		lc.BaseURL = cfg.OpenRouterURL
	}
	return lc
}

// runtime holds the services shared by the subcommands
type runtime struct {
	cfg      config.Config
	client   llm.Client
	db       *db.DB
	cache    *cache.Cache
	jobs     *fetch.JobFetcher
	analyzer *analysis.Analyzer
	pipeline *improve.Pipeline
}

// newRuntime builds the services. The database and cache are optional unless requireDB is set.
func newRuntime(ctx context.Context, cfg config.Config, requireDB bool) (*runtime, error) {
	rt := &runtime{cfg: cfg}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("an API key is required: set --api-key or the provider's *_API_KEY environment variable")
	}
	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	rt.client = client

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			if requireDB {
				rt.Close()
				return nil, err
			}
			logging.Logger.Warn().Err(err).Msg("database unavailable, prompt overrides disabled")
		} else {
			rt.db = database
		}
	} else if requireDB {
		rt.Close()
		return nil, fmt.Errorf("DATABASE_URL or database_url in the config file is required")
	}

	ttl, _ := cfg.CacheTTLDuration()
	rt.cache = cache.New(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      ttl,
		Prefix:   "resume-matcher:",
	})

	rt.jobs = newJobFetcher(cfg, rt.cache)

	var overrides prompts.OverrideStore
	if rt.db != nil {
		overrides = rt.db
	}
	resolver := prompts.NewResolver(overrides)
	timeout, _ := cfg.CallTimeoutDuration()

	rt.analyzer = analysis.NewAnalyzer(client,
		analysis.WithTemplates(resolver),
		analysis.WithCache(rt.cache),
		analysis.WithCallTimeout(timeout),
	)
	rt.pipeline = improve.New(client,
		improve.WithTemplates(resolver),
		improve.WithCallTimeout(timeout),
		improve.WithConcurrency(cfg.Concurrency),
	)
	return rt, nil
}

// newJobFetcher returns nil when job_fetch is off
func newJobFetcher(cfg config.Config, c *cache.Cache) *fetch.JobFetcher {
	httpOpts := fetch.DefaultOptions()
	httpOpts.AllowPrivateNetworks = cfg.JobFetchPrivateNetworks
	opts := []fetch.JobFetcherOption{fetch.WithCache(c, 6*time.Hour), fetch.WithOptions(httpOpts)}
	switch cfg.JobFetch {
	case "off":
		return nil
	case "browser":
		opts = append(opts, fetch.WithBrowser(fetch.DefaultRenderTimeout))
	}
	return fetch.NewJobFetcher(opts...)
}

// Close releases every service that was opened
func (rt *runtime) Close() {
	if rt.client != nil {
		_ = rt.client.Close()
	}
	if rt.cache != nil {
		_ = rt.cache.Close()
	}
	if rt.db != nil {
		rt.db.Close()
	}
}

// readResumeFile loads, schema-checks, normalizes and validates a resume JSON file
func readResumeFile(path string) (*types.Resume, error) {
	if err := schemas.ValidateFile(schemas.Resume, path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	var doc types.Resume
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	normalized := resume.Normalize(&doc)
	if err := resume.Validate(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// jobInput holds the --job, --job-text and --job-url flags of a command
type jobInput struct {
	file, text, url string
}

// local returns the inline or file description. An empty result with a nil error means the URL must be fetched.
func (in jobInput) local() (string, error) {
	if strings.TrimSpace(in.text) != "" || in.file != "" {
		return readJobDescription(in.file, in.text)
	}
	if strings.TrimSpace(in.url) == "" {
		return "", fmt.Errorf("one of --job, --job-text or --job-url must be provided")
	}
	if err := fetch.ValidateURL(in.url); err != nil {
		return "", err
	}
	return "", nil
}

// fetch downloads the posting at in.url
func (in jobInput) fetch(ctx context.Context, jobs *fetch.JobFetcher) (string, error) {
	if jobs == nil {
		return "", fmt.Errorf("--job-url requires job_fetch to be http or browser")
	}
	page, err := jobs.JobDescription(ctx, in.url)
	if err != nil {
		return "", err
	}
	logging.Ctx(ctx).Info().Str("title", page.Title).Str("platform", string(page.Platform)).Msg("using fetched job posting")
	return page.Text, nil
}

// readJobDescription returns inline text when given, otherwise the file content
func readJobDescription(path, text string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return fetch.CleanText(text), nil
	}
	if path == "" {
		return "", fmt.Errorf("either --job or --job-text must be provided")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("job description file %s is empty", path)
	}
	return fetch.CleanText(string(data)), nil
}

// writeJSON writes v to path, or to stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// commandContext bounds a one-shot CLI command
func commandContext(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(logging.WithContext(ctx), d)
}
