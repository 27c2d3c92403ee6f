package improve

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/types"
)

// fakeClient answers selection prompts with selectResp and rewrite prompts by section label
type fakeClient struct {
	selectResp  string
	selectErr   error
	selectPanic bool

	rewrites     map[string]string
	rewriteErrs  map[string]error
	delays       map[string]time.Duration
	rewritePanic string

	mu        sync.Mutex
	prompts   []string
	completed []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

var _ llm.Client = (*fakeClient)(nil)

func sectionLabel(prompt string) string {
	_, rest, ok := strings.Cut(prompt, "SECTION TO IMPROVE: ")
	if !ok {
		return ""
	}
	label, _, _ := strings.Cut(rest, "\n")
	return label
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if strings.Contains(prompt, "RESUME SECTIONS:") {
		if f.selectPanic {
			panic("selector exploded")
		}
		return f.selectResp, f.selectErr
	}

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	label := sectionLabel(prompt)
	if f.rewritePanic != "" && label == f.rewritePanic {
		panic("rewrite exploded")
	}
	if d := f.delays[label]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	f.completed = append(f.completed, label)
	f.mu.Unlock()

	if err := f.rewriteErrs[label]; err != nil {
		return "", err
	}
	return f.rewrites[label], nil
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) rewritePrompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, p := range f.prompts {
		if !strings.Contains(p, "RESUME SECTIONS:") {
			out = append(out, p)
		}
	}
	return out
}

func newTestPipeline(client llm.Client, opts ...Option) *Pipeline {
	opts = append([]Option{WithLogger(logging.Nop())}, opts...)
	return New(client, opts...)
}

func sampleResume() *types.Resume {
	return &types.Resume{
		PersonalInfo: types.PersonalInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Summary:  "Developer.",
			Links:    []types.Link{{ID: 1, Name: "GitHub", URL: "https://github.com/jane"}},
		},
		Experience: []types.Experience{
			{ID: 1, Company: "Acme", Position: "Backend Engineer", StartDate: "2020", Description: "Built APIs."},
			{ID: 2, Company: "Globex", Position: "Intern", StartDate: "2018", EndDate: "2019", Description: ""},
		},
		Education: []types.Education{
			{ID: 1, Institution: "TU Berlin", Degree: "BSc", FieldOfStudy: "CS", Description: "Thesis on consensus."},
		},
		Skills:      []types.Skill{{ID: 1, Skill: "Java"}},
		Languages:   []types.Language{{ID: 1, Name: "German", Proficiency: "Native"}},
		Awards:      []types.Award{{ID: 1, Title: "CKA", Issuer: "CNCF"}},
		ResumeStyle: types.ResumeStyle{Font: "font-sans", Layout: "classic", ColorScheme: "default"},
	}
}

func sampleMatch() *types.MatchResult {
	return &types.MatchResult{
		OverallMatch:  55,
		MissingSkills: []string{"Python", "SQL"},
		RelevantExperience: types.RelevantExperience{
			Has:     []string{"API design"},
			Missing: []string{"data pipelines"},
		},
	}
}
