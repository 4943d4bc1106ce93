package history

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new history record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO ingestions (
    id,
    file_id,
    file_name,
    mime_type,
    size_bytes,
    status,
    overall_score,
    error_code,
    created_at,
    completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var score sql.NullInt64
	if rec.OverallScore != nil {
		score = sql.NullInt64{Int64: int64(*rec.OverallScore), Valid: true}
	}
	var errorCode sql.NullString
	if rec.ErrorCode != "" {
		errorCode = sql.NullString{String: rec.ErrorCode, Valid: true}
	}
	var completedAt sql.NullTime
	if rec.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *rec.CompletedAt, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.FileID,
		rec.FileName,
		rec.MimeType,
		rec.SizeBytes,
		rec.Status,
		score,
		errorCode,
		rec.CreatedAt,
		completedAt,
	)
	return err
}

const selectColumns = `
SELECT id, file_id, file_name, mime_type, size_bytes, status, overall_score, error_code, created_at, completed_at
FROM ingestions`

// GetByFileID returns the record for a pipeline file id.
func (r *PGRepo) GetByFileID(ctx context.Context, fileID string) (Record, error) {
	query := selectColumns + `
WHERE file_id = $1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// ListRecent returns records newest-first, honoring limit/offset.
func (r *PGRepo) ListRecent(ctx context.Context, limit, offset int) ([]Record, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}
	query := selectColumns + `
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var score sql.NullInt64
	var errorCode sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&rec.ID,
		&rec.FileID,
		&rec.FileName,
		&rec.MimeType,
		&rec.SizeBytes,
		&rec.Status,
		&score,
		&errorCode,
		&rec.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if score.Valid {
		v := int(score.Int64)
		rec.OverallScore = &v
	}
	if errorCode.Valid {
		rec.ErrorCode = errorCode.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	return rec, nil
}
