package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matthewbaird/compliance/internal/types"

	_ "modernc.org/sqlite"
)

// SQLiteStore wraps SQLite access for compliance records.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; serialize access through a single conn.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			address_json  TEXT NOT NULL,
			property_type TEXT,
			jurisdiction  TEXT,
			unit_count    INTEGER,
			year_built    INTEGER,
			created_at    TIMESTAMP NOT NULL,
			updated_at    TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS inspections (
			id                  TEXT PRIMARY KEY,
			property_id         TEXT NOT NULL,
			system_key          TEXT,
			inspection_type     TEXT NOT NULL,
			category            TEXT,
			authority           TEXT,
			frequency           TEXT NOT NULL,
			next_due_date       TIMESTAMP NOT NULL,
			last_completed_date TIMESTAMP,
			status              TEXT NOT NULL,
			est_min_cents       INTEGER NOT NULL DEFAULT 0,
			est_max_cents       INTEGER NOT NULL DEFAULT 0,
			created_at          TIMESTAMP NOT NULL,
			updated_at          TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_inspections_property ON inspections(property_id, next_due_date);`,
		`CREATE INDEX IF NOT EXISTS idx_inspections_due ON inspections(next_due_date);`,
		`CREATE TABLE IF NOT EXISTS violations (
			id              TEXT PRIMARY KEY,
			property_id     TEXT NOT NULL,
			category        TEXT,
			description     TEXT,
			severity        TEXT,
			risk_category   TEXT,
			issued_date     TIMESTAMP NOT NULL,
			status          TEXT NOT NULL,
			resolution_date TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_violations_property ON violations(property_id, issued_date);`,
		`CREATE TABLE IF NOT EXISTS cost_records (
			id                TEXT PRIMARY KEY,
			property_id       TEXT NOT NULL,
			inspection_id     TEXT,
			inspection_type   TEXT,
			actual_cost_cents INTEGER NOT NULL,
			completed_date    TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cost_records_property ON cost_records(property_id, completed_date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// ── Properties ──────────────────────────────────────────────────────────

func (s *SQLiteStore) CreateProperty(ctx context.Context, p *types.Property) error {
	ensureID(&p.ID)
	touch(&p.CreatedAt, &p.UpdatedAt)
	if err := ValidateProperty(p); err != nil {
		return err
	}
	addrJSON, _ := json.Marshal(p.Address)
	_, err := s.db.ExecContext(ctx, `INSERT INTO properties
		(id, name, address_json, property_type, jurisdiction, unit_count, year_built, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(addrJSON), p.PropertyType, p.Jurisdiction, p.UnitCount, p.YearBuilt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id string) (*types.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, address_json, property_type, jurisdiction, unit_count, year_built, created_at, updated_at
		FROM properties WHERE id = ?`, id)
	return scanProperty(row)
}

func (s *SQLiteStore) ListProperties(ctx context.Context, limit, offset int) ([]types.Property, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, address_json, property_type, jurisdiction, unit_count, year_built, created_at, updated_at
		FROM properties ORDER BY name LIMIT ? OFFSET ?`, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var out []types.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateProperty(ctx context.Context, p *types.Property) error {
	touch(&p.CreatedAt, &p.UpdatedAt)
	if err := ValidateProperty(p); err != nil {
		return err
	}
	addrJSON, _ := json.Marshal(p.Address)
	res, err := s.db.ExecContext(ctx, `UPDATE properties SET
		name = ?, address_json = ?, property_type = ?, jurisdiction = ?, unit_count = ?, year_built = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, string(addrJSON), p.PropertyType, p.Jurisdiction, p.UnitCount, p.YearBuilt, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*types.Property, error) {
	var p types.Property
	var addrJSON string
	err := row.Scan(&p.ID, &p.Name, &addrJSON, &p.PropertyType, &p.Jurisdiction, &p.UnitCount, &p.YearBuilt, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning property: %w", err)
	}
	if addrJSON != "" {
		_ = json.Unmarshal([]byte(addrJSON), &p.Address)
	}
	return &p, nil
}

// ── Inspections ─────────────────────────────────────────────────────────

func (s *SQLiteStore) CreateInspection(ctx context.Context, rec *types.InspectionRecord) error {
	ensureID(&rec.ID)
	touch(&rec.CreatedAt, &rec.UpdatedAt)
	if err := ValidateInspection(rec); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO inspections
		(id, property_id, system_key, inspection_type, category, authority, frequency,
		 next_due_date, last_completed_date, status, est_min_cents, est_max_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PropertyID, rec.SystemKey, rec.InspectionType, rec.Category, rec.Authority, string(rec.Frequency),
		rec.NextDueDate, rec.LastCompletedDate, string(rec.RawStatus),
		rec.EstimatedCost.MinCents, rec.EstimatedCost.MaxCents, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (s *SQLiteStore) GetInspection(ctx context.Context, id string) (*types.InspectionRecord, error) {
	row := s.db.QueryRowContext(ctx, inspectionSelect+` WHERE id = ?`, id)
	return scanInspection(row)
}

const inspectionSelect = `SELECT id, property_id, system_key, inspection_type, category, authority, frequency,
	next_due_date, last_completed_date, status, est_min_cents, est_max_cents, created_at, updated_at
	FROM inspections`

func (s *SQLiteStore) ListInspections(ctx context.Context, q InspectionQuery) ([]types.InspectionRecord, error) {
	var conditions []string
	var args []any

	if q.PropertyID != "" {
		conditions = append(conditions, "property_id = ?")
		args = append(args, q.PropertyID)
	}
	if q.RawStatus != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(q.RawStatus))
	}
	if q.DueAfter != nil {
		conditions = append(conditions, "next_due_date >= ?")
		args = append(args, *q.DueAfter)
	}
	if q.DueBefore != nil {
		conditions = append(conditions, "next_due_date < ?")
		args = append(args, *q.DueBefore)
	}

	query := inspectionSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY next_due_date LIMIT ? OFFSET ?"
	args = append(args, clampLimit(q.Limit), q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying inspections: %w", err)
	}
	defer rows.Close()

	var out []types.InspectionRecord
	for rows.Next() {
		rec, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateInspection(ctx context.Context, rec *types.InspectionRecord) error {
	touch(&rec.CreatedAt, &rec.UpdatedAt)
	if err := ValidateInspection(rec); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE inspections SET
		system_key = ?, inspection_type = ?, category = ?, authority = ?, frequency = ?,
		next_due_date = ?, last_completed_date = ?, status = ?, est_min_cents = ?, est_max_cents = ?, updated_at = ?
		WHERE id = ?`,
		rec.SystemKey, rec.InspectionType, rec.Category, rec.Authority, string(rec.Frequency),
		rec.NextDueDate, rec.LastCompletedDate, string(rec.RawStatus),
		rec.EstimatedCost.MinCents, rec.EstimatedCost.MaxCents, rec.UpdatedAt, rec.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanInspection(row rowScanner) (*types.InspectionRecord, error) {
	var rec types.InspectionRecord
	var freq, status string
	var lastCompleted sql.NullTime
	err := row.Scan(&rec.ID, &rec.PropertyID, &rec.SystemKey, &rec.InspectionType, &rec.Category, &rec.Authority, &freq,
		&rec.NextDueDate, &lastCompleted, &status, &rec.EstimatedCost.MinCents, &rec.EstimatedCost.MaxCents,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning inspection: %w", err)
	}
	rec.Frequency = types.Frequency(freq)
	rec.RawStatus = types.Status(status)
	if lastCompleted.Valid {
		t := lastCompleted.Time
		rec.LastCompletedDate = &t
	}
	return &rec, nil
}

// ── Violations ──────────────────────────────────────────────────────────

func (s *SQLiteStore) CreateViolation(ctx context.Context, v *types.Violation) error {
	ensureID(&v.ID)
	if err := ValidateViolation(v); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO violations
		(id, property_id, category, description, severity, risk_category, issued_date, status, resolution_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.PropertyID, v.Category, v.Description, string(v.Severity), v.RiskCategory,
		v.IssuedDate, string(v.Status), v.ResolutionDate)
	return err
}

func (s *SQLiteStore) GetViolation(ctx context.Context, id string) (*types.Violation, error) {
	row := s.db.QueryRowContext(ctx, violationSelect+` WHERE id = ?`, id)
	return scanViolation(row)
}

const violationSelect = `SELECT id, property_id, category, description, severity, risk_category, issued_date, status, resolution_date
	FROM violations`

func (s *SQLiteStore) ListViolations(ctx context.Context, q ViolationQuery) ([]types.Violation, error) {
	var conditions []string
	var args []any

	if q.PropertyID != "" {
		conditions = append(conditions, "property_id = ?")
		args = append(args, q.PropertyID)
	}
	if q.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Severity != "" {
		conditions = append(conditions, "severity = ?")
		args = append(args, string(q.Severity))
	}
	if q.IssuedAfter != nil {
		conditions = append(conditions, "issued_date >= ?")
		args = append(args, *q.IssuedAfter)
	}
	if q.IssuedBefore != nil {
		conditions = append(conditions, "issued_date < ?")
		args = append(args, *q.IssuedBefore)
	}

	query := violationSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY issued_date DESC LIMIT ? OFFSET ?"
	args = append(args, clampLimit(q.Limit), q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying violations: %w", err)
	}
	defer rows.Close()

	var out []types.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateViolation(ctx context.Context, v *types.Violation) error {
	if err := ValidateViolation(v); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE violations SET
		category = ?, description = ?, severity = ?, risk_category = ?, issued_date = ?, status = ?, resolution_date = ?
		WHERE id = ?`,
		v.Category, v.Description, string(v.Severity), v.RiskCategory, v.IssuedDate, string(v.Status), v.ResolutionDate, v.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanViolation(row rowScanner) (*types.Violation, error) {
	var v types.Violation
	var severity, status string
	var resolved sql.NullTime
	err := row.Scan(&v.ID, &v.PropertyID, &v.Category, &v.Description, &severity, &v.RiskCategory,
		&v.IssuedDate, &status, &resolved)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning violation: %w", err)
	}
	v.Severity = types.Severity(severity)
	v.Status = types.ViolationStatus(status)
	if resolved.Valid {
		t := resolved.Time
		v.ResolutionDate = &t
	}
	return &v, nil
}

// ── Cost records ────────────────────────────────────────────────────────

func (s *SQLiteStore) CreateCostRecord(ctx context.Context, c *types.CostRecord) error {
	ensureID(&c.ID)
	if err := ValidateCostRecord(c); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO cost_records
		(id, property_id, inspection_id, inspection_type, actual_cost_cents, completed_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.PropertyID, c.InspectionID, c.InspectionType, c.ActualCostCents, c.CompletedDate)
	return err
}

func (s *SQLiteStore) ListCostRecords(ctx context.Context, q CostQuery) ([]types.CostRecord, error) {
	var conditions []string
	var args []any

	if q.PropertyID != "" {
		conditions = append(conditions, "property_id = ?")
		args = append(args, q.PropertyID)
	}
	if q.CompletedAfter != nil {
		conditions = append(conditions, "completed_date >= ?")
		args = append(args, *q.CompletedAfter)
	}
	if q.CompletedBefore != nil {
		conditions = append(conditions, "completed_date < ?")
		args = append(args, *q.CompletedBefore)
	}

	query := `SELECT id, property_id, inspection_id, inspection_type, actual_cost_cents, completed_date FROM cost_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY completed_date DESC LIMIT ?"
	args = append(args, clampLimit(q.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cost records: %w", err)
	}
	defer rows.Close()

	var out []types.CostRecord
	for rows.Next() {
		var c types.CostRecord
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.InspectionID, &c.InspectionType, &c.ActualCostCents, &c.CompletedDate); err != nil {
			return nil, fmt.Errorf("scanning cost record: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
