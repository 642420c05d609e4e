package bank

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizforge/server/internal/question"
)

// PGStore persists the collection in PostgreSQL. Questions and upload
// records live in relational tables; backup snapshots are stored whole
// as JSONB keyed by the upload that triggered them.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps a connection pool. Call EnsureSchema before first use.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the tables this store depends on.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id             TEXT PRIMARY KEY,
			question_text  TEXT NOT NULL,
			options        JSONB NOT NULL DEFAULT '[]',
			answer         TEXT NOT NULL DEFAULT '',
			question_type  TEXT NOT NULL,
			category       TEXT NOT NULL,
			difficulty     TEXT NOT NULL,
			explanation    TEXT NOT NULL DEFAULT '',
			points         INT NOT NULL,
			time_limit_sec INT NOT NULL,
			owner          TEXT NOT NULL DEFAULT '',
			upload_id      TEXT NOT NULL DEFAULT '',
			file_name      TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS upload_records (
			id         TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			owner      TEXT NOT NULL DEFAULT '',
			files      JSONB NOT NULL,
			summary    JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS collection_backups (
			upload_id  TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			snapshot   JSONB NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load reads every question and upload record, oldest first, so
// duplicate resolution sees the same iteration order as the file store.
func (s *PGStore) Load(ctx context.Context) (*Collection, error) {
	c := &Collection{}

	rows, err := s.pool.Query(ctx, `
		SELECT id, question_text, options, answer, question_type, category,
		       difficulty, explanation, points, time_limit_sec, owner,
		       upload_id, file_name, created_at, updated_at
		FROM questions
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q question.Question
		var options []byte
		if err := rows.Scan(
			&q.ID, &q.Text, &options, &q.Answer, &q.Type, &q.Category,
			&q.Difficulty, &q.Explanation, &q.Points, &q.TimeLimitSec, &q.Owner,
			&q.Source.UploadID, &q.Source.FileName, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", q.ID, err)
		}
		c.Questions = append(c.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	recs, err := s.pool.Query(ctx, `
		SELECT id, created_at, owner, files, summary
		FROM upload_records
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query upload records: %w", err)
	}
	defer recs.Close()

	for recs.Next() {
		var rec UploadRecord
		var files, summary []byte
		if err := recs.Scan(&rec.ID, &rec.Timestamp, &rec.Owner, &files, &summary); err != nil {
			return nil, fmt.Errorf("scan upload record: %w", err)
		}
		if err := json.Unmarshal(files, &rec.Files); err != nil {
			return nil, fmt.Errorf("decode file details for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(summary, &rec.Summary); err != nil {
			return nil, fmt.Errorf("decode summary for %s: %w", rec.ID, err)
		}
		c.Uploads = append(c.Uploads, rec)
	}
	if err := recs.Err(); err != nil {
		return nil, fmt.Errorf("iterate upload records: %w", err)
	}

	return c, nil
}

// Persist upserts every question and appends any new upload records in a
// single transaction. The collection never deletes questions, so an
// upsert pass covers adds and overwrites alike.
func (s *PGStore) Persist(ctx context.Context, c *Collection) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrPersistFailed, err)
	}
	defer tx.Rollback(ctx)

	for _, q := range c.Questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("%w: encode options: %v", ErrPersistFailed, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO questions (
				id, question_text, options, answer, question_type, category,
				difficulty, explanation, points, time_limit_sec, owner,
				upload_id, file_name, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			ON CONFLICT (id) DO UPDATE SET
				question_text  = EXCLUDED.question_text,
				options        = EXCLUDED.options,
				answer         = EXCLUDED.answer,
				question_type  = EXCLUDED.question_type,
				category       = EXCLUDED.category,
				difficulty     = EXCLUDED.difficulty,
				explanation    = EXCLUDED.explanation,
				points         = EXCLUDED.points,
				time_limit_sec = EXCLUDED.time_limit_sec,
				owner          = EXCLUDED.owner,
				upload_id      = EXCLUDED.upload_id,
				file_name      = EXCLUDED.file_name,
				updated_at     = EXCLUDED.updated_at
		`, q.ID, q.Text, options, q.Answer, q.Type, q.Category,
			q.Difficulty, q.Explanation, q.Points, q.TimeLimitSec, q.Owner,
			q.Source.UploadID, q.Source.FileName, q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("%w: upsert question %s: %v", ErrPersistFailed, q.ID, err)
		}
	}

	for _, rec := range c.Uploads {
		files, err := json.Marshal(rec.Files)
		if err != nil {
			return fmt.Errorf("%w: encode file details: %v", ErrPersistFailed, err)
		}
		summary, err := json.Marshal(rec.Summary)
		if err != nil {
			return fmt.Errorf("%w: encode summary: %v", ErrPersistFailed, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO upload_records (id, created_at, owner, files, summary)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, rec.ID, rec.Timestamp, rec.Owner, files, summary)
		if err != nil {
			return fmt.Errorf("%w: insert upload record %s: %v", ErrPersistFailed, rec.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrPersistFailed, err)
	}
	return nil
}

// Snapshot stores the serialized pre-mutation collection keyed by the
// upload about to mutate it.
func (s *PGStore) Snapshot(ctx context.Context, uploadID string, c *Collection) error {
	snapshot, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrBackupFailed, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO collection_backups (upload_id, snapshot)
		VALUES ($1, $2)
		ON CONFLICT (upload_id) DO NOTHING
	`, uploadID, snapshot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}
	return nil
}
