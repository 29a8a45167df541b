package collector

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wuzhjian/compass/config"
	"github.com/wuzhjian/compass/model"
)

// SQLCollector reads detector results from a table with the columns
// (job_id, category, data). SQLite and PostgreSQL are supported.
type SQLCollector struct {
	db     *sql.DB
	driver string
	table  string
	logger *zap.Logger
}

// OpenSQL opens dsn with driver ("sqlite" or "pgx").
func OpenSQL(driver, dsn, table string, logger *zap.Logger) (*SQLCollector, error) {
	if driver == "" {
		driver = config.DriverSQLite
	}
	if table == "" {
		table = config.DefaultTable
	}
	src := config.SourceConfig{Driver: driver, Table: table}
	if err := (config.Config{Source: src}).Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite single-writer
	}
	return NewSQLCollector(db, driver, table, logger), nil
}

// NewSQLCollector wraps an open database. table must be a plain identifier.
func NewSQLCollector(db *sql.DB, driver, table string, logger *zap.Logger) *SQLCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLCollector{db: db, driver: driver, table: table, logger: logger}
}

func (s *SQLCollector) Name() string { return "sql:" + s.driver + ":" + s.table }

// Close closes the database.
func (s *SQLCollector) Close() error { return s.db.Close() }

// placeholder returns the n-th (1-based) bind parameter for the driver.
func (s *SQLCollector) placeholder(n int) string {
	if s.driver == config.DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// EnsureSchema creates the results table when missing.
func (s *SQLCollector) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		job_id   TEXT NOT NULL,
		category TEXT NOT NULL,
		data     TEXT NOT NULL
	)`, s.table))
	if err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

// Collect returns every stored result of jobID.
func (s *SQLCollector) Collect(ctx context.Context, jobID string) ([]model.DetectorResult, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%s: job id is required", s.Name())
	}
	query := fmt.Sprintf("SELECT category, data FROM %s WHERE job_id = %s", s.table, s.placeholder(1))
	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []model.DetectorResult
	for rows.Next() {
		var (
			cat  string
			data []byte
		)
		if err := rows.Scan(&cat, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		out = append(out, model.DetectorResult{Category: model.Category(cat), Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.table, err)
	}
	s.logger.Debug("Loaded detector results", zap.String("job_id", jobID), zap.Int("rows", len(out)))
	return out, nil
}

// Store inserts results for jobID in one transaction.
func (s *SQLCollector) Store(ctx context.Context, jobID string, results []model.DetectorResult) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (job_id, category, data) VALUES (%s, %s, %s)",
		s.table, s.placeholder(1), s.placeholder(2), s.placeholder(3)))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, jobID, string(r.Category), string(r.Data)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", r.Category, err)
		}
	}
	return tx.Commit()
}
