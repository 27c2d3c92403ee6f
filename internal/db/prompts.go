package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetPromptOverride returns the stored content of a prompt. found is false when the
// prompt was never stored. It satisfies prompts.OverrideStore.
func (db *DB) GetPromptOverride(ctx context.Context, id string) (content string, found bool, err error) {
	err = db.pool.QueryRow(ctx, `SELECT content FROM prompts WHERE id = $1`, id).Scan(&content)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get prompt %s: %w", id, err)
	}
	return content, true, nil
}

// GetPrompt returns a stored prompt
func (db *DB) GetPrompt(ctx context.Context, id string) (*PromptRecord, error) {
	p, err := scanPrompt(db.pool.QueryRow(ctx,
		`SELECT id, name, description, content, default_content, updated_at FROM prompts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "prompt", ID: id}
		}
		return nil, fmt.Errorf("failed to get prompt %s: %w", id, err)
	}
	return p, nil
}

// UpsertPrompt stores new content for a prompt, creating the row from def if needed.
// The stored default content is never changed by an update.
func (db *DB) UpsertPrompt(ctx context.Context, def PromptRecord, content string) (*PromptRecord, error) {
	p, err := scanPrompt(db.pool.QueryRow(ctx,
		`INSERT INTO prompts (id, name, description, content, default_content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()
		 RETURNING id, name, description, content, default_content, updated_at`,
		def.ID, def.Name, def.Description, content, def.DefaultContent,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert prompt %s: %w", def.ID, err)
	}
	return p, nil
}

// ResetPrompt restores a prompt to def.DefaultContent
func (db *DB) ResetPrompt(ctx context.Context, def PromptRecord) (*PromptRecord, error) {
	p, err := scanPrompt(db.pool.QueryRow(ctx,
		`INSERT INTO prompts (id, name, description, content, default_content)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.default_content,
		     default_content = EXCLUDED.default_content, updated_at = NOW()
		 RETURNING id, name, description, content, default_content, updated_at`,
		def.ID, def.Name, def.Description, def.DefaultContent,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to reset prompt %s: %w", def.ID, err)
	}
	return p, nil
}

// ListPrompts returns stored prompts ordered by name
func (db *DB) ListPrompts(ctx context.Context) ([]PromptRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, content, default_content, updated_at FROM prompts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	out := []PromptRecord{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompts: %w", err)
	}
	return out, nil
}

func scanPrompt(row pgx.Row) (*PromptRecord, error) {
	var p PromptRecord
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Content, &p.DefaultContent, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
