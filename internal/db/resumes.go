package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-matcher/internal/types"
)

const resumeColumns = `id, owner_id, name, data, is_public, created_at, updated_at`

func resumeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultResumeName
	}
	return name
}

// SaveResume stores a new resume for owner and returns the created record
func (db *DB) SaveResume(ctx context.Context, ownerID, name string, data *types.Resume) (*ResumeRecord, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (owner_id, name, data)
		 VALUES ($1, $2, $3)
		 RETURNING `+resumeColumns,
		ownerID, resumeName(name), payload,
	)
	rec, err := scanResume(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return rec, nil
}

// UpdateResume replaces the name and content of a resume
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, name string, data *types.Resume) (*ResumeRecord, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE resumes SET name = $2, data = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, resumeName(name), payload,
	)
	rec, err := scanResume(row)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "resume", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return rec, nil
}

// GetResume retrieves a resume by ID
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*ResumeRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`,
		id,
	)
	rec, err := scanResume(row)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "resume", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return rec, nil
}

// ListResumes returns an owner's resumes, most recently updated first
func (db *DB) ListResumes(ctx context.Context, ownerID string) ([]ResumeRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return collectResumes(rows)
}

// GetMostRecentResume returns the owner's most recently updated resume
func (db *DB) GetMostRecentResume(ctx context.Context, ownerID string) (*ResumeRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC LIMIT 1`,
		ownerID,
	)
	rec, err := scanResume(row)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Kind: "resume for owner", ID: ownerID}
		}
		return nil, fmt.Errorf("failed to get most recent resume: %w", err)
	}
	return rec, nil
}

// DeleteResume removes a resume
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "resume", ID: id.String()}
	}
	return nil
}

// SetResumePublic toggles whether a resume appears in the public listing
func (db *DB) SetResumePublic(ctx context.Context, id uuid.UUID, public bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET is_public = $2, updated_at = NOW() WHERE id = $1`,
		id, public,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume visibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Kind: "resume", ID: id.String()}
	}
	return nil
}

// ListPublicResumes returns public resumes, most recently updated first
func (db *DB) ListPublicResumes(ctx context.Context, limit int) ([]ResumeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE is_public ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list public resumes: %w", err)
	}
	return collectResumes(rows)
}

func scanResume(row pgx.Row) (*ResumeRecord, error) {
	var rec ResumeRecord
	var payload []byte
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Name, &payload, &rec.IsPublic, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Data = &types.Resume{}
	if err := json.Unmarshal(payload, rec.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func collectResumes(rows pgx.Rows) ([]ResumeRecord, error) {
	defer rows.Close()

	records := []ResumeRecord{}
	for rows.Next() {
		rec, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return records, nil
}
