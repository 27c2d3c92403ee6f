// Package analysis scores a resume against a job description with an LLM.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/cache"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/resume"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/rs/zerolog"
)

// DefaultCallTimeout bounds the analysis model call
const DefaultCallTimeout = 90 * time.Second

var errMissingInput = errors.New("missing required data for analysis")

// TemplateSource supplies prompt templates by id
type TemplateSource interface {
	Template(ctx context.Context, id string) (string, error)
}

// Analyzer produces match results
type Analyzer struct {
	client      llm.Client
	templates   TemplateSource
	cache       *cache.Cache
	callTimeout time.Duration
	tier        llm.ModelTier
	log         zerolog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithTemplates sets where prompt templates come from
func WithTemplates(t TemplateSource) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.templates = t
		}
	}
}

// WithCache enables result caching
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithCallTimeout sets the model call timeout
func WithCallTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(client llm.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:      client,
		templates:   prompts.NewResolver(nil),
		cache:       cache.Disabled(),
		callTimeout: DefaultCallTimeout,
		tier:        llm.TierStandard,
		log:         logging.Logger.With().Str("component", "analysis").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores r against jobDescription. It never fails: errors produce ErrorResult.
func (a *Analyzer) Analyze(ctx context.Context, r *types.Resume, jobDescription string) *types.MatchResult {
	result, err := a.analyze(ctx, r, jobDescription)
	if err != nil {
		a.log.Error().Err(err).Msg("job match analysis failed")
		return ErrorResult(err)
	}
	return result
}

func (a *Analyzer) analyze(ctx context.Context, r *types.Resume, jobDescription string) (*types.MatchResult, error) {
	if r == nil || strings.TrimSpace(jobDescription) == "" {
		return nil, errMissingInput
	}
	doc := resume.Normalize(r)

	key := ""
	if a.cache.Available() {
		docJSON, err := json.Marshal(doc)
		if err == nil {
			key = a.cache.Key("analysis", string(docJSON), jobDescription, a.client.GetModel(a.tier))
			var cached types.MatchResult
			if found, err := a.cache.GetJSON(ctx, key, &cached); err == nil && found {
				a.log.Debug().Str("key", key).Msg("analysis cache hit")
				return &cached, nil
			}
		}
	}

	tmpl, err := a.templates.Template(ctx, prompts.AnalyzeJobMatch)
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(tmpl, map[string]string{
		"ResumeText":     resume.PlainText(doc),
		"JobDescription": jobDescription,
	})

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	start := time.Now()
	raw, err := a.client.GenerateJSON(callCtx, prompt, a.tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to get analysis", Cause: err}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &APICallError{Message: "received empty response"}
	}

	result, err := ParseMatchResult(raw)
	if err != nil {
		return nil, err
	}
	a.log.Info().Int("overall_match", result.OverallMatch).Dur("duration", time.Since(start)).Msg("job match analyzed")

	if key != "" {
		if err := a.cache.SetJSON(ctx, key, result, 0); err != nil {
			a.log.Warn().Err(err).Msg("failed to cache analysis")
		}
	}
	return result, nil
}
