package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS generation_events (
	id            BIGSERIAL PRIMARY KEY,
	invocation_id TEXT        NOT NULL,
	stage         TEXT        NOT NULL,
	fields        JSONB       NOT NULL DEFAULT '{}',
	error         TEXT        NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS generation_events_invocation_idx ON generation_events (invocation_id);
`

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// EnsureSchema creates the events table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *repo) SaveEvent(ctx context.Context, rec Record) error {
	fields, err := encodeFields(rec.Fields)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO generation_events (invocation_id, stage, fields, error, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		rec.InvocationID,
		rec.Stage,
		string(fields),
		rec.Error,
		rec.CreatedAt,
	)
	return err
}

func (r *repo) GetInvocation(ctx context.Context, invocationID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invocation_id, stage, fields, error, created_at
		FROM generation_events
		WHERE invocation_id = $1
		ORDER BY id ASC
	`, invocationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var fields []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.InvocationID,
			&rec.Stage,
			&fields,
			&rec.Error,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		decodeFields(fields, &rec)
		out = append(out, rec)
	}

	return out, rows.Err()
}

func encodeFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode event fields: %w", err)
	}
	return b, nil
}

// decodeFields fills rec.Fields; a stored payload that no longer decodes is
// reported in rec.Error instead of dropping the row.
func decodeFields(b []byte, rec *Record) {
	if len(b) == 0 {
		return
	}
	if err := json.Unmarshal(b, &rec.Fields); err != nil {
		msg := fmt.Sprintf("decode event fields: %v", err)
		if rec.Error != "" {
			msg = rec.Error + "; " + msg
		}
		rec.Error = msg
	}
}
