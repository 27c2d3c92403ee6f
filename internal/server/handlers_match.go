package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/improve"
	"github.com/jonathan/resume-matcher/internal/types"
)

// AnalyzeRequest is the body of POST /analyze. job_url is fetched when job_description is empty.
type AnalyzeRequest struct {
	Resume         json.RawMessage `json:"resume" validate:"required"`
	JobDescription string          `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string          `json:"job_url,omitempty" validate:"omitempty,url,max=2048"`
}

// ImproveRequest is the body of POST /improve. A missing match_result is computed first.
type ImproveRequest struct {
	Resume         json.RawMessage    `json:"resume" validate:"required"`
	JobDescription string             `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string             `json:"job_url,omitempty" validate:"omitempty,url,max=2048"`
	MatchResult    *types.MatchResult `json:"match_result,omitempty"`
}

// ImproveResponse is the body returned by POST /improve
type ImproveResponse struct {
	Resume *types.Resume      `json:"resume"`
	Match  *types.MatchResult `json:"match_result"`
	Report *improve.Report    `json:"report"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := decodeResume(req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	jd, err := s.jobDescription(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.analyzer.Analyze(r.Context(), doc, jd))
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req ImproveRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := decodeResume(req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	jd, err := s.jobDescription(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	match := req.MatchResult
	if match == nil {
		match = s.analyzer.Analyze(r.Context(), doc, jd)
	}

	improved, report := s.improver.ImproveWithReport(r.Context(), doc, jd, match)
	s.jsonResponse(w, http.StatusOK, ImproveResponse{Resume: improved, Match: match, Report: report})
}

// jobDescription prefers inline text and otherwise fetches jobURL
func (s *Server) jobDescription(ctx context.Context, text, jobURL string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return fetch.CleanText(text), nil
	}
	if strings.TrimSpace(jobURL) == "" {
		return "", &ErrValidation{Field: "job_description", Message: "job_description or job_url is required"}
	}
	if err := fetch.ValidateURL(jobURL); err != nil {
		return "", &ErrValidation{Field: "job_url", Message: err.Error()}
	}
	if s.jobs == nil {
		return "", &ErrValidation{Field: "job_url", Message: "fetching job postings is not enabled on this server"}
	}
	page, err := s.jobs.JobDescription(ctx, jobURL)
	if fetch.IsBlocked(err) {
		return "", &ErrValidation{Field: "job_url", Message: "job_url must point to a public host"}
	}
	if err != nil {
		return "", err
	}
	return page.Text, nil
}
