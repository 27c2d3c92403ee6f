// Package improve rewrites selected sections of a resume to better match a job description.
//
// A run has three steps: the model picks the sections worth rewriting, every picked
// section is rewritten concurrently, and the rewrites are merged into a copy of the
// resume. Failures degrade per step (default sections, unchanged section); anything
// unexpected makes the run return the caller's resume untouched.
package improve

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultCallTimeout bounds every model call made by the pipeline
const DefaultCallTimeout = 60 * time.Second

// TemplateSource supplies prompt templates by id. *prompts.Resolver implements it.
type TemplateSource interface {
	Template(ctx context.Context, id string) (string, error)
}

// Pipeline runs resume improvements. It is safe for concurrent use.
type Pipeline struct {
	client      llm.Client
	templates   TemplateSource
	callTimeout time.Duration
	concurrency int
	tier        llm.ModelTier
	log         zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithCallTimeout sets the per-call timeout. Non-positive values keep the default.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.callTimeout = d
		}
	}
}

// WithConcurrency caps the number of rewrites in flight. 0 means one goroutine per section.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.concurrency = n
		}
	}
}

// WithTemplates sets where prompt templates come from
func WithTemplates(t TemplateSource) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.templates = t
		}
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithModelTier sets the tier used for section rewrites. Selection always uses TierLite.
func WithModelTier(tier llm.ModelTier) Option {
	return func(p *Pipeline) {
		p.tier = tier
	}
}

// New creates a pipeline that talks to client
func New(client llm.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:      client,
		templates:   prompts.NewResolver(nil),
		callTimeout: DefaultCallTimeout,
		tier:        llm.TierAdvanced,
		log:         logging.Logger.With().Str("component", "improve").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Improve returns a copy of r with selected sections rewritten for jobDescription.
// It never fails: on any unexpected error r itself is returned unmodified.
func (p *Pipeline) Improve(ctx context.Context, r *types.Resume, jobDescription string, match *types.MatchResult) *types.Resume {
	out, _ := p.ImproveWithReport(ctx, r, jobDescription, match)
	return out
}

// ImproveWithReport is Improve plus a description of what changed
func (p *Pipeline) ImproveWithReport(ctx context.Context, r *types.Resume, jobDescription string, match *types.MatchResult) (result *types.Resume, report *Report) {
	start := time.Now()
	if r == nil {
		return nil, &Report{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := &PipelineError{Stage: "run", Message: fmt.Sprintf("panic: %v", rec)}
			p.log.Error().Err(err).Msg("improvement aborted, returning original resume")
			result, report = r, p.recovered(report, err, start)
		}
	}()

	report = &Report{}
	out, err := p.run(ctx, r, jobDescription, match, report)
	if err != nil {
		p.log.Error().Err(err).Msg("improvement aborted, returning original resume")
		return r, p.recovered(report, err, start)
	}

	report.Duration = time.Since(start)
	p.log.Info().
		Int("selected", len(report.Selection.Sections)).
		Bool("fallback", report.Selection.Fallback).
		Int("applied", len(report.Applied)).
		Int("added_skills", len(report.AddedSkills)).
		Dur("duration", report.Duration).
		Msg("resume improved")
	return out, report
}

// recovered keeps the selection already made but drops any merge outcome
func (p *Pipeline) recovered(partial *Report, err error, start time.Time) *Report {
	rep := &Report{Recovered: true, Error: err.Error(), Duration: time.Since(start)}
	if partial != nil {
		rep.Selection = partial.Selection
	}
	return rep
}

func (p *Pipeline) run(ctx context.Context, r *types.Resume, jobDescription string, match *types.MatchResult, report *Report) (*types.Resume, error) {
	doc := r.Clone()

	matchJSON, err := marshalMatch(match)
	if err != nil {
		return nil, &PipelineError{Stage: "prepare", Message: "failed to encode match result", Cause: err}
	}

	report.Selection = p.selectSections(ctx, r, jobDescription, matchJSON)
	sections := report.Selection.Sections

	// Each goroutine writes only its own slot; doc is not touched until Wait returns.
	results := make([]rewriteResult, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}
	for i, s := range sections {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = &PipelineError{Stage: "rewrite", Section: s, Message: fmt.Sprintf("panic: %v", rec)}
				}
			}()
			results[i] = p.rewriteSection(gctx, s, r, jobDescription, matchJSON)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := newMerger(doc)
	for _, res := range results {
		applied, reason := m.apply(res.Improvement)
		switch {
		case applied:
			report.Applied = append(report.Applied, res.Section)
		case res.degraded != "":
			report.skip(res.Section, res.degraded)
		default:
			report.skip(res.Section, reason)
		}
	}
	report.AddedSkills = m.added

	return doc, nil
}

func marshalMatch(match *types.MatchResult) (string, error) {
	if match == nil {
		return "{}", nil
	}
	b, err := json.MarshalIndent(match, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
