// Package sqlstore keeps affiliate settings and the usage log in SQLite, either a local
// database file or a remote libSQL database.
package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // remote libSQL driver
	_ "modernc.org/sqlite"                               // local SQLite driver

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

// Store implements affiliate.SettingsStore on database/sql.
type Store struct {
	db *sql.DB
}

var _ affiliate.SettingsStore = (*Store)(nil)

// DriverName returns the database/sql driver for the DSN: libsql for remote URLs, sqlite otherwise.
func DriverName(dsn string) string {
	if strings.Contains(dsn, "libsql://") || strings.Contains(dsn, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// Open connects to the database and creates the tables if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database URL is empty")
	}

	db, err := sql.Open(DriverName(dsn), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an open database whose tables already exist.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func migrate(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS team_affiliates (
		team_id TEXT NOT NULL,
		region TEXT NOT NULL,
		tracking_tag TEXT NOT NULL,
		PRIMARY KEY (team_id, region)
	);

	CREATE TABLE IF NOT EXISTS team_settings (
		team_id TEXT PRIMARY KEY,
		footer_text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS link_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id TEXT NOT NULL,
		region TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_link_stats_team_id ON link_stats(team_id);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetTag returns the tag of one region of the scope and whether it is set.
func (s *Store) GetTag(ctx context.Context, scope affiliate.Scope, region string) (string, bool, error) {
	var tag string
	err := s.db.QueryRowContext(ctx,
		`SELECT tracking_tag FROM team_affiliates WHERE team_id = ? AND region = ?`,
		scope.String(), region,
	).Scan(&tag)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get tracking tag")
	}
	return tag, true, nil
}

// ListTags returns the region to tag map of the scope.
func (s *Store) ListTags(ctx context.Context, scope affiliate.Scope) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT region, tracking_tag FROM team_affiliates WHERE team_id = ?`,
		scope.String(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tracking tags")
	}
	defer rows.Close()

	tags := map[string]string{}
	for rows.Next() {
		var region, tag string
		if err := rows.Scan(&region, &tag); err != nil {
			return nil, errors.Wrap(err, "failed to scan tracking tag")
		}
		tags[region] = tag
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list tracking tags")
	}
	return tags, nil
}

// SetTag upserts the tag of one region of the scope.
func (s *Store) SetTag(ctx context.Context, scope affiliate.Scope, region, tag string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_affiliates (team_id, region, tracking_tag) VALUES (?, ?, ?)
		ON CONFLICT(team_id, region) DO UPDATE SET tracking_tag = excluded.tracking_tag`,
		scope.String(), region, tag,
	)
	if err != nil {
		return errors.Wrap(err, "failed to store tracking tag")
	}
	return nil
}

// GetFooter returns the footer template of the scope and whether it is set.
func (s *Store) GetFooter(ctx context.Context, scope affiliate.Scope) (string, bool, error) {
	var footer string
	err := s.db.QueryRowContext(ctx,
		`SELECT footer_text FROM team_settings WHERE team_id = ?`,
		scope.String(),
	).Scan(&footer)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get footer")
	}
	return footer, true, nil
}

// SetFooter upserts the footer template of the scope.
func (s *Store) SetFooter(ctx context.Context, scope affiliate.Scope, template string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_settings (team_id, footer_text) VALUES (?, ?)
		ON CONFLICT(team_id) DO UPDATE SET footer_text = excluded.footer_text`,
		scope.String(), template,
	)
	if err != nil {
		return errors.Wrap(err, "failed to store footer")
	}
	return nil
}

// AppendUsage inserts one row into the usage log.
func (s *Store) AppendUsage(ctx context.Context, event affiliate.UsageEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO link_stats (team_id, region, created_at) VALUES (?, ?, ?)`,
		event.Scope.String(), event.Region, event.At.UTC(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to record usage")
	}
	return nil
}

// CountUsage returns the number of usage rows of the scope, or of every scope when scope is nil.
func (s *Store) CountUsage(ctx context.Context, scope *affiliate.Scope) (int64, error) {
	query := `SELECT COUNT(*) FROM link_stats`
	var args []interface{}
	if scope != nil {
		query += ` WHERE team_id = ?`
		args = append(args, scope.String())
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count usage")
	}
	return count, nil
}

// TopRegions returns the most used regions of the scope, highest count first.
func (s *Store) TopRegions(ctx context.Context, scope affiliate.Scope, limit int) ([]affiliate.RegionCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT region, COUNT(*) AS c FROM link_stats WHERE team_id = ?
		GROUP BY region ORDER BY c DESC, region ASC LIMIT ?`,
		scope.String(), limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query top regions")
	}
	defer rows.Close()

	counts := []affiliate.RegionCount{}
	for rows.Next() {
		var rc affiliate.RegionCount
		if err := rows.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan region count")
		}
		counts = append(counts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to query top regions")
	}
	return counts, nil
}
