package reportstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

type dialect struct {
	driver    string
	schema    string
	numbered  bool // $1, $2 placeholders instead of ?
	pingTries int
}

var sqliteDialect = dialect{
	driver: "sqlite3",
	schema: `
		CREATE TABLE IF NOT EXISTS noise_reports (
			id                TEXT PRIMARY KEY,
			type              TEXT      NOT NULL,
			level             REAL      NOT NULL,
			description       TEXT      NOT NULL,
			location          TEXT      NOT NULL,
			lat               REAL      NOT NULL DEFAULT 0,
			lon               REAL      NOT NULL DEFAULT 0,
			submitted_at      TIMESTAMP NOT NULL,
			formatted_address TEXT      NOT NULL DEFAULT '',
			geo_source        TEXT      NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_noise_reports_submitted_at ON noise_reports(submitted_at);
	`,
	pingTries: 1,
}

var postgresDialect = dialect{
	driver: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS noise_reports (
			id                VARCHAR(64)      PRIMARY KEY,
			type              VARCHAR(32)      NOT NULL,
			level             DOUBLE PRECISION NOT NULL,
			description       TEXT             NOT NULL,
			location          TEXT             NOT NULL,
			lat               DOUBLE PRECISION NOT NULL DEFAULT 0,
			lon               DOUBLE PRECISION NOT NULL DEFAULT 0,
			submitted_at      TIMESTAMPTZ      NOT NULL,
			formatted_address TEXT             NOT NULL DEFAULT '',
			geo_source        VARCHAR(16)      NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_noise_reports_submitted_at ON noise_reports(submitted_at);
		CREATE INDEX IF NOT EXISTS idx_noise_reports_type ON noise_reports(type);
	`,
	numbered:  true,
	pingTries: 10,
}

// rebind rewrites ? placeholders for drivers that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore persists reports in SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	return openSQL(ctx, sqliteDialect, path)
}

// OpenPostgres connects to PostgreSQL, waiting up to ~20s for it to accept
// connections.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	return openSQL(ctx, postgresDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.driver, err)
	}
	if d.driver == sqliteDialect.driver {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}

	for i := range d.pingTries {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if i < d.pingTries-1 {
			select {
			case <-ctx.Done():
				_ = db.Close()
				return nil, fmt.Errorf("%s: ping: %w", d.driver, ctx.Err())
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping failed after %d attempts: %w", d.driver, d.pingTries, err)
	}

	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", d.driver, err)
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.dialect.schema)
	return err
}

// Save inserts r. A report whose ID already exists is left unchanged.
func (s *SQLStore) Save(ctx context.Context, r domain.NoiseReport) error {
	query := s.dialect.rebind(`
		INSERT INTO noise_reports
			(id, type, level, description, location, lat, lon, submitted_at, formatted_address, geo_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Type, r.Level, r.Description, r.Location, r.Lat, r.Lon,
		r.SubmittedAt.UTC(), r.FormattedAddress, r.GeoSource,
	)
	if err != nil {
		return fmt.Errorf("%s: insert report %s: %w", s.dialect.driver, r.ID, err)
	}
	return nil
}

// List returns up to limit reports, newest first.
func (s *SQLStore) List(ctx context.Context, limit int) ([]domain.NoiseReport, error) {
	query := s.dialect.rebind(`
		SELECT id, type, level, description, location, lat, lon, submitted_at, formatted_address, geo_source
		FROM noise_reports
		ORDER BY submitted_at DESC, id ASC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: list reports: %w", s.dialect.driver, err)
	}
	defer rows.Close()

	var out []domain.NoiseReport
	for rows.Next() {
		var r domain.NoiseReport
		if err := rows.Scan(
			&r.ID, &r.Type, &r.Level, &r.Description, &r.Location, &r.Lat, &r.Lon,
			&r.SubmittedAt, &r.FormattedAddress, &r.GeoSource,
		); err != nil {
			return nil, fmt.Errorf("%s: scan report: %w", s.dialect.driver, err)
		}
		r.SubmittedAt = r.SubmittedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
