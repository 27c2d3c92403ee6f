package server

import (
	"net/http"
	"time"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/prompts"
)

// PromptView is an editable prompt as shown to admins
type PromptView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Content        string     `json:"content"`
	DefaultContent string     `json:"default_content"`
	Customized     bool       `json:"customized"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// PromptUpdateRequest is the body of PUT /prompts/{id}
type PromptUpdateRequest struct {
	Content string `json:"content" validate:"required"`
}

// promptRecord describes def with its embedded default content
func promptRecord(def prompts.Definition) (db.PromptRecord, error) {
	content, err := def.Content()
	if err != nil {
		return db.PromptRecord{}, err
	}
	return db.PromptRecord{
		ID:             def.ID,
		Name:           def.Name,
		Description:    def.Description,
		DefaultContent: content,
	}, nil
}

func lookupPrompt(id string) (prompts.Definition, error) {
	def, ok := prompts.Lookup(id)
	if !ok {
		return prompts.Definition{}, &db.NotFoundError{Kind: "prompt", ID: id}
	}
	return def, nil
}

func viewOf(rec *db.PromptRecord) PromptView {
	updated := rec.UpdatedAt
	return PromptView{
		ID:             rec.ID,
		Name:           rec.Name,
		Description:    rec.Description,
		Content:        rec.Content,
		DefaultContent: rec.DefaultContent,
		Customized:     rec.Customized(),
		UpdatedAt:      &updated,
	}
}

// handleListPrompts lists every editable prompt with stored content merged over the defaults.
// Without a database the defaults are listed read-only.
func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	stored := map[string]db.PromptRecord{}
	if s.store != nil {
		records, err := s.store.ListPrompts(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		for _, rec := range records {
			stored[rec.ID] = rec
		}
	}

	defs := prompts.Defaults()
	views := make([]PromptView, 0, len(defs))
	for _, def := range defs {
		base, err := promptRecord(def)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if rec, ok := stored[def.ID]; ok {
			rec.DefaultContent = base.DefaultContent
			views = append(views, viewOf(&rec))
			continue
		}
		base.Content = base.DefaultContent
		views = append(views, PromptView{
			ID:             base.ID,
			Name:           base.Name,
			Description:    base.Description,
			Content:        base.Content,
			DefaultContent: base.DefaultContent,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"prompts": views})
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	def, err := lookupPrompt(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req PromptUpdateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	base, err := promptRecord(def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.UpsertPrompt(r.Context(), base, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleResetPrompt(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, ErrStoreUnavailable)
		return
	}
	def, err := lookupPrompt(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	base, err := promptRecord(def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.ResetPrompt(r.Context(), base)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, viewOf(rec))
}
