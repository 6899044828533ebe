package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matthewbaird/compliance/internal/types"
)

// SQLiteStore stores activity entries in a sqlite database. It can share
// the compliance database file or use its own.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool
}

// OpenSQLite opens (creating if needed) the activity tables at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open activity db: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db, ownsDB: true}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an existing database handle. The caller keeps
// ownership of the handle; Close is a no-op.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS activity_entries (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id            TEXT NOT NULL,
	event_type          TEXT NOT NULL,
	occurred_at         TIMESTAMP NOT NULL,
	indexed_entity_type TEXT NOT NULL,
	indexed_entity_id   TEXT NOT NULL,
	entity_role         TEXT NOT NULL,
	source_refs_json    TEXT NOT NULL,
	summary             TEXT NOT NULL,
	category            TEXT NOT NULL,
	payload             TEXT
);
CREATE INDEX IF NOT EXISTS idx_activity_entity
	ON activity_entries (indexed_entity_type, indexed_entity_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_activity_event ON activity_entries (event_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate activity schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteEntries(ctx context.Context, entries []types.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activity write: %w", err)
	}
	defer tx.Rollback()

	const insert = `INSERT INTO activity_entries
		(event_id, event_type, occurred_at, indexed_entity_type, indexed_entity_id,
		 entity_role, source_refs_json, summary, category, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		refs, err := json.Marshal(e.SourceRefs)
		if err != nil {
			return fmt.Errorf("marshal source refs: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			e.EventID, e.EventType, e.OccurredAt,
			e.IndexedEntityType, e.IndexedEntityID, e.EntityRole,
			string(refs), e.Summary, e.Category, string(e.Payload),
		); err != nil {
			return fmt.Errorf("insert activity entry: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) QueryByEntity(ctx context.Context, entityType, entityID string, opts QueryOptions) ([]types.ActivityEntry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT event_id, event_type, occurred_at, indexed_entity_type,
		indexed_entity_id, entity_role, source_refs_json, summary, category, payload
		FROM activity_entries
		WHERE indexed_entity_type = ? AND indexed_entity_id = ?`)
	args := []any{entityType, entityID}
	if opts.Category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, opts.Category)
	}
	if !opts.Since.IsZero() {
		sb.WriteString(" AND occurred_at >= ?")
		args = append(args, opts.Since)
	}
	if !opts.Until.IsZero() {
		sb.WriteString(" AND occurred_at < ?")
		args = append(args, opts.Until)
	}
	sb.WriteString(" ORDER BY occurred_at DESC, id DESC LIMIT ? OFFSET ?")
	args = append(args, clampLimit(opts.Limit), opts.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []types.ActivityEntry
	for rows.Next() {
		var e types.ActivityEntry
		var refsJSON string
		var payload sql.NullString
		if err := rows.Scan(
			&e.EventID, &e.EventType, &e.OccurredAt,
			&e.IndexedEntityType, &e.IndexedEntityID, &e.EntityRole,
			&refsJSON, &e.Summary, &e.Category, &payload,
		); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		if err := json.Unmarshal([]byte(refsJSON), &e.SourceRefs); err != nil {
			return nil, fmt.Errorf("decode source refs: %w", err)
		}
		if payload.Valid && payload.String != "" {
			e.Payload = json.RawMessage(payload.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil || !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
