package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/improve"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
	"github.com/jonathan/resume-matcher/internal/types"
)

// memStore is an in-memory Store
type memStore struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]*db.ResumeRecord
	prompts map[string]*db.PromptRecord
	clock   time.Time
	pingErr error
	failAll error
}

func newMemStore() *memStore {
	return &memStore{
		resumes: make(map[uuid.UUID]*db.ResumeRecord),
		prompts: make(map[string]*db.PromptRecord),
		clock:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) SaveResume(_ context.Context, ownerID, name string, data *types.Resume) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	if strings.TrimSpace(name) == "" {
		name = db.DefaultResumeName
	}
	now := m.tick()
	rec := &db.ResumeRecord{ID: uuid.New(), OwnerID: ownerID, Name: name, Data: data, CreatedAt: now, UpdatedAt: now}
	m.resumes[rec.ID] = rec
	cp := *rec
	return &cp, nil
}

func (m *memStore) UpdateResume(_ context.Context, id uuid.UUID, name string, data *types.Resume) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.resumes[id]
	if !ok {
		return nil, &db.NotFoundError{Kind: "resume", ID: id.String()}
	}
	if strings.TrimSpace(name) == "" {
		name = db.DefaultResumeName
	}
	rec.Name, rec.Data, rec.UpdatedAt = name, data, m.tick()
	cp := *rec
	return &cp, nil
}

func (m *memStore) GetResume(_ context.Context, id uuid.UUID) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.resumes[id]
	if !ok {
		return nil, &db.NotFoundError{Kind: "resume", ID: id.String()}
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) sorted(keep func(*db.ResumeRecord) bool) []db.ResumeRecord {
	out := []db.ResumeRecord{}
	for _, rec := range m.resumes {
		if keep(rec) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (m *memStore) ListResumes(_ context.Context, ownerID string) ([]db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	return m.sorted(func(r *db.ResumeRecord) bool { return r.OwnerID == ownerID }), nil
}

func (m *memStore) GetMostRecentResume(ctx context.Context, ownerID string) (*db.ResumeRecord, error) {
	list, err := m.ListResumes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &db.NotFoundError{Kind: "resume for owner", ID: ownerID}
	}
	return &list[0], nil
}

func (m *memStore) DeleteResume(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[id]; !ok {
		return &db.NotFoundError{Kind: "resume", ID: id.String()}
	}
	delete(m.resumes, id)
	return nil
}

func (m *memStore) SetResumePublic(_ context.Context, id uuid.UUID, public bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.resumes[id]
	if !ok {
		return &db.NotFoundError{Kind: "resume", ID: id.String()}
	}
	rec.IsPublic, rec.UpdatedAt = public, m.tick()
	return nil
}

func (m *memStore) ListPublicResumes(_ context.Context, limit int) ([]db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(r *db.ResumeRecord) bool { return r.IsPublic })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListPrompts(_ context.Context) ([]db.PromptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.PromptRecord{}
	for _, p := range m.prompts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) UpsertPrompt(_ context.Context, def db.PromptRecord, content string) (*db.PromptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prompts[def.ID]
	if !ok {
		cp := def
		p = &cp
		m.prompts[def.ID] = p
	}
	p.Content, p.UpdatedAt = content, m.tick()
	cp := *p
	return &cp, nil
}

func (m *memStore) ResetPrompt(_ context.Context, def db.PromptRecord) (*db.PromptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := def
	cp.Content = def.DefaultContent
	cp.UpdatedAt = m.tick()
	m.prompts[def.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

// stubAnalyzer returns a fixed result and records its input
type stubAnalyzer struct {
	result *types.MatchResult
	calls  int
	lastJD string
}

func (a *stubAnalyzer) Analyze(_ context.Context, _ *types.Resume, jd string) *types.MatchResult {
	a.calls++
	a.lastJD = jd
	return a.result
}

// stubImprover rewrites the summary and reports it
type stubImprover struct {
	lastMatch *types.MatchResult
}

func (i *stubImprover) ImproveWithReport(_ context.Context, r *types.Resume, _ string, match *types.MatchResult) (*types.Resume, *improve.Report) {
	i.lastMatch = match
	out := r.Clone()
	out.PersonalInfo.Summary = "Improved summary"
	return out, &improve.Report{
		Selection: improve.Selection{Sections: []types.SectionID{types.SummarySection}},
		Applied:   []types.SectionID{types.SummarySection},
	}
}

// stubJobs serves fixed postings by URL
type stubJobs struct {
	pages map[string]string
	calls int
}

func (j *stubJobs) JobDescription(_ context.Context, url string) (*fetch.JobPage, error) {
	j.calls++
	text, ok := j.pages[url]
	if !ok {
		return nil, &fetch.Error{URL: url, Message: "HTTP status 404", Status: http.StatusNotFound}
	}
	return &fetch.JobPage{URL: url, Platform: fetch.DetectPlatform(url), Text: text}, nil
}

var errStoreDown = errors.New("connection refused")

type testEnv struct {
	server   *Server
	handler  http.Handler
	store    *memStore
	analyzer *stubAnalyzer
	improver *stubImprover
	jobs     *stubJobs
}

func newTestEnv(t *testing.T, withStore bool) *testEnv {
	t.Helper()
	env := &testEnv{
		analyzer: &stubAnalyzer{result: &types.MatchResult{OverallMatch: 64, MissingSkills: []string{"Kafka"}}},
		improver: &stubImprover{},
		jobs:     &stubJobs{pages: map[string]string{"https://jobs.lever.co/acme/1": "Platform engineer, Go and Kafka"}},
	}
	nop := logging.Nop()
	cfg := Config{
		Analyzer:  env.analyzer,
		Improver:  env.improver,
		Jobs:      env.jobs,
		RateLimit: &ratelimit.Config{Enabled: false},
		Logger:    &nop,
	}
	if withStore {
		env.store = newMemStore()
		cfg.Store = env.store
	}
	env.server = New(cfg)
	env.handler = env.server.Handler()
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

const validResumeJSON = `{
	"personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com", "summary": "Engineer"},
	"experience": [{"id": 1, "company": "Acme", "position": "Developer", "description": "Built APIs"}],
	"skills": [{"id": 1, "skill": "Go"}]
}`

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
