package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-matcher/internal/db"
)

// SaveResumeRequest is the body of resume create and update calls
type SaveResumeRequest struct {
	Name   string          `json:"name" validate:"max=200"`
	Resume json.RawMessage `json:"resume" validate:"required"`
}

// VisibilityRequest is the body of PUT /resumes/{id}/public
type VisibilityRequest struct {
	Public *bool `json:"public" validate:"required"`
}

// ResumeListResponse wraps resume listings
type ResumeListResponse struct {
	Resumes []db.ResumeRecord `json:"resumes"`
	Count   int               `json:"count"`
}

func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	owner, err := pathOwner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req SaveResumeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := decodeResume(req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.SaveResume(r.Context(), owner, req.Name, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, rec)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	owner, err := pathOwner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.store.ListResumes(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeListResponse{Resumes: records, Count: len(records)})
}

func (s *Server) handleLatestResume(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	owner, err := pathOwner(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.GetMostRecentResume(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleListPublicResumes(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be between 1 and 200"})
			return
		}
		limit = n
	}

	records, err := s.store.ListPublicResumes(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeListResponse{Resumes: records, Count: len(records)})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req SaveResumeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := decodeResume(req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.UpdateResume(r.Context(), id, req.Name, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetResumePublic(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req VisibilityRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.SetResumePublic(r.Context(), id, *req.Public); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "public": *req.Public})
}
