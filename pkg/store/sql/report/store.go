package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Postgres driver registration.
	_ "github.com/lib/pq"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
)

const schema = `
	CREATE TABLE IF NOT EXISTS report_definitions (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type VARCHAR NOT NULL DEFAULT '',
		template VARCHAR NOT NULL DEFAULT '',
		filters JSONB NOT NULL DEFAULT '[]',
		columns JSONB NOT NULL DEFAULT '[]',
		charts JSONB NOT NULL DEFAULT '[]',
		created_by VARCHAR NOT NULL DEFAULT '',
		status VARCHAR NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL,
		last_generated TIMESTAMPTZ NULL
	);
`

const selectColumns = `id, name, description, type, template, filters, columns, charts, created_by, status, created_at, last_generated`

type store struct {
	db *sql.DB
}

// NewStore returns a Postgres-backed report definition store.
func NewStore(db *sql.DB) (reportstore.Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &store{db: db}, nil
}

// Init creates the backing table when it does not exist yet.
func Init(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create report_definitions table: %w", err)
	}
	return nil
}

func (s *store) Create(ctx context.Context, def *domain.ReportDefinition) error {
	filters, columns, charts, err := marshalParts(def)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO report_definitions
			(id, name, description, type, template, filters, columns, charts, created_by, status, created_at, last_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		def.ID, def.Name, def.Description, def.Type, def.Template,
		filters, columns, charts, def.CreatedBy, def.Status, def.CreatedAt, def.LastGenerated,
	)
	if err != nil {
		return fmt.Errorf("insert definition %q: %w", def.ID, err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*domain.ReportDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM report_definitions WHERE id = $1`, id)
	def, err := scanDefinition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", reportstore.ErrNotFound, id)
	}
	return def, err
}

func (s *store) Update(ctx context.Context, def *domain.ReportDefinition) error {
	filters, columns, charts, err := marshalParts(def)
	if err != nil {
		return err
	}

	// id, created_by and created_at are immutable once created.
	res, err := s.db.ExecContext(ctx, `
		UPDATE report_definitions
		SET name = $2, description = $3, type = $4, template = $5,
			filters = $6, columns = $7, charts = $8, status = $9
		WHERE id = $1`,
		def.ID, def.Name, def.Description, def.Type, def.Template,
		filters, columns, charts, def.Status,
	)
	if err != nil {
		return fmt.Errorf("update definition %q: %w", def.ID, err)
	}
	return requireRow(res, def.ID)
}

func (s *store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM report_definitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete definition %q: %w", id, err)
	}
	return requireRow(res, id)
}

func (s *store) List(ctx context.Context) ([]domain.ReportDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM report_definitions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.ReportDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

func (s *store) SetStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE report_definitions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set status for %q: %w", id, err)
	}
	return requireRow(res, id)
}

func (s *store) TouchGenerated(ctx context.Context, id string, at time.Time) error {
	// Single-column update: last writer wins, nothing torn.
	res, err := s.db.ExecContext(ctx,
		`UPDATE report_definitions SET last_generated = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("touch definition %q: %w", id, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", reportstore.ErrNotFound, id)
	}
	return nil
}

func marshalParts(def *domain.ReportDefinition) (filters, columns, charts []byte, err error) {
	if filters, err = json.Marshal(def.Filters); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal filters: %w", err)
	}
	if columns, err = json.Marshal(def.Columns); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal columns: %w", err)
	}
	if charts, err = json.Marshal(def.Charts); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal charts: %w", err)
	}
	return filters, columns, charts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row scanner) (*domain.ReportDefinition, error) {
	var def domain.ReportDefinition
	var filters, columns, charts []byte
	var lastGenerated sql.NullTime

	err := row.Scan(
		&def.ID, &def.Name, &def.Description, &def.Type, &def.Template,
		&filters, &columns, &charts, &def.CreatedBy, &def.Status,
		&def.CreatedAt, &lastGenerated,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(filters, &def.Filters); err != nil {
		return nil, fmt.Errorf("unmarshal filters: %w", err)
	}
	if err := json.Unmarshal(columns, &def.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal columns: %w", err)
	}
	if err := json.Unmarshal(charts, &def.Charts); err != nil {
		return nil, fmt.Errorf("unmarshal charts: %w", err)
	}
	if lastGenerated.Valid {
		ts := lastGenerated.Time
		def.LastGenerated = &ts
	}
	return &def, nil
}
