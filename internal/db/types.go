package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/types"
)

// DefaultResumeName is used when a resume is saved without a name
const DefaultResumeName = "Untitled Resume"

// ResumeRecord is a saved resume
type ResumeRecord struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   string        `json:"owner_id"`
	Name      string        `json:"name"`
	Data      *types.Resume `json:"data"`
	IsPublic  bool          `json:"is_public"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PromptRecord is a stored prompt. DefaultContent is what a reset restores.
type PromptRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	DefaultContent string    `json:"default_content"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Customized reports whether the prompt differs from its default
func (p *PromptRecord) Customized() bool {
	return p.Content != p.DefaultContent
}
