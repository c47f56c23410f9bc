package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path-route-service/internal/platform/obs"
	"strings"
)

var errNilDB = errors.New("sqlite path repository: DB is nil")

// SQLite-backed implementation of the PathRepository port.
type SqlitePathRepository struct{ DB *sql.DB }

func NewSqlitePathRepository(db *sql.DB) *SqlitePathRepository {
	return &SqlitePathRepository{DB: db}
}

// Return all saved paths in list order.
func (s *SqlitePathRepository) LoadPaths(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, "paths.sqlite.LoadPaths")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	query := `
	SELECT
		raw
	FROM paths
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load paths: query paths table: %w", err)
	}
	defer rows.Close()

	paths := make([]string, 0, 64)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("load paths: scan row: %w", err)
		}
		paths = append(paths, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load paths: row iteration: %w", err)
	}

	return paths, nil
}

// Replace the saved list. Blank paths are not stored.
func (s *SqlitePathRepository) SavePaths(ctx context.Context, paths []string) (err error) {
	defer obs.Time(ctx, "paths.sqlite.SavePaths")(&err)

	if s.DB == nil {
		return errNilDB
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save paths: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM paths;`); err != nil {
		return fmt.Errorf("save paths: clear paths table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO paths (
		position,
		raw
	)
	VALUES (?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save paths: prepare insert: %w", err)
	}
	defer stmt.Close()

	position := 0
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, position, p); err != nil {
			return fmt.Errorf("save paths: insert position=%d: %w", position, err)
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save paths: commit tx: %w", err)
	}

	return nil
}

func (s *SqlitePathRepository) GetParameter(ctx context.Context, key string) (string, error) {
	if s.DB == nil {
		return "", errNilDB
	}

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM parameters WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get parameter %q: %w", key, err)
	}

	return value, nil
}

func (s *SqlitePathRepository) SetParameter(ctx context.Context, key string, value string) error {
	if s.DB == nil {
		return errNilDB
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("set parameter: key must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO parameters (
		key,
		value
	)
	VALUES (?, ?);
	`, key, value)
	if err != nil {
		return fmt.Errorf("set parameter %q: %w", key, err)
	}

	return nil
}
