package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/logging"
)

// OverrideStore returns an admin-edited prompt. found is false when the prompt was never edited.
type OverrideStore interface {
	GetPromptOverride(ctx context.Context, id string) (content string, found bool, err error)
}

// Resolver returns the effective template for a prompt id: the stored override when
// present, the embedded default otherwise. A store failure falls back to the default.
type Resolver struct {
	store OverrideStore
}

// NewResolver creates a resolver. A nil store serves embedded defaults only.
func NewResolver(store OverrideStore) *Resolver {
	return &Resolver{store: store}
}

// Template returns the template text for id
func (r *Resolver) Template(ctx context.Context, id string) (string, error) {
	def, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", id)
	}

	if r != nil && r.store != nil {
		content, found, err := r.store.GetPromptOverride(ctx, id)
		switch {
		case err != nil:
			logging.Ctx(ctx).Warn().Err(err).Str("prompt", id).Msg("prompt override lookup failed, using default")
		case found && strings.TrimSpace(content) != "":
			return content, nil
		}
	}

	return def.Content()
}
