package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, user_id, source_kind, subject, sender, status, result, raw_storage_key, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	resultPayload, err := marshalJSONB(analysis.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.SourceKind,
		analysis.Subject,
		analysis.Sender,
		analysis.Status,
		resultPayload,
		analysis.RawStorageKey,
		analysis.ErrorMessage,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, source_kind, subject, sender, status, result, raw_storage_key, error_message, created_at
FROM analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID, userID)
	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

// ListByUser returns analyses for a user, newest first, with limit/offset.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 1000 {
		limit = 1000
	}
	const query = `
SELECT id, user_id, source_kind, subject, sender, status, result, raw_storage_key, error_message, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var result sql.NullString
	var rawStorageKey sql.NullString
	var errorMessage sql.NullString
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.SourceKind,
		&a.Subject,
		&a.Sender,
		&a.Status,
		&result,
		&rawStorageKey,
		&errorMessage,
		&a.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	if result.Valid && result.String != "" {
		var parsed AnalysisResult
		if err := json.Unmarshal([]byte(result.String), &parsed); err != nil {
			return Analysis{}, fmt.Errorf("decode result: %w", err)
		}
		a.Result = &parsed
	}
	a.RawStorageKey = rawStorageKey.String
	a.ErrorMessage = errorMessage.String
	return a, nil
}

func marshalJSONB(result *AnalysisResult) (any, error) {
	if result == nil {
		return nil, nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return string(payload), nil
}

var _ Repo = (*PGRepo)(nil)
