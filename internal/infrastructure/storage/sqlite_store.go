// Package storage is the provenance repository. It exclusively owns
// persistence; stages receive and return plain data and never hold
// connections.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/ports"
)

// SQLiteStore persists provenance rows into SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.ProvenanceStore = (*SQLiteStore)(nil)

// Open connects to the database file with foreign-key enforcement on.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wires an existing connection. The caller is responsible for
// enabling foreign-key enforcement on it.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates every provenance table if absent. Safe to invoke on
// every process start.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: ensure schema: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Insert persists one tagged row atomically and returns its surrogate key.
// Uniqueness and foreign-key violations map to domain.ErrIntegrity; any other
// storage fault maps to domain.ErrStoreUnavailable.
func (s *SQLiteStore) Insert(ctx context.Context, row domain.Row) (int64, error) {
	names, values := row.Columns()

	query, args, err := sq.Insert(row.TableName()).Columns(names...).Values(values...).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert for %s: %w", row.TableName(), err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(row.TableName(), err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id for %s: %v", domain.ErrStoreUnavailable, row.TableName(), err)
	}
	return id, nil
}

// VideoExists reports whether a video with this external id was already
// harvested. Cheap lookup so re-runs of a query skip known videos before
// spending an acquisition round-trip.
func (s *SQLiteStore) VideoExists(ctx context.Context, externalID string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM videos WHERE youtube_id = ?`, externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: lookup videos: %v", domain.ErrStoreUnavailable, err)
	}
	return true, nil
}

// GetOrCreateLanguage returns the id for code, creating the row when absent.
func (s *SQLiteStore) GetOrCreateLanguage(ctx context.Context, code string) (int64, error) {
	if strings.TrimSpace(code) == "" {
		return 0, fmt.Errorf("%w: language code must be non-empty", domain.ErrInvalidArgument)
	}
	return s.getOrCreate(ctx,
		`SELECT id FROM languages WHERE code = ?`, code,
		domain.Language{Code: code})
}

// GetOrCreateTranslator returns the id for a provider name, creating the row
// when absent.
func (s *SQLiteStore) GetOrCreateTranslator(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: translator name must be non-empty", domain.ErrInvalidArgument)
	}
	return s.getOrCreate(ctx,
		`SELECT id FROM translators WHERE translator = ?`, name,
		domain.Translator{Name: name})
}

// GetOrCreateStatus returns the id for a publication status, creating the row
// when absent.
func (s *SQLiteStore) GetOrCreateStatus(ctx context.Context, status string) (int64, error) {
	if strings.TrimSpace(status) == "" {
		return 0, fmt.Errorf("%w: status must be non-empty", domain.ErrInvalidArgument)
	}
	return s.getOrCreate(ctx,
		`SELECT id FROM publication_status WHERE status = ?`, status,
		domain.PublicationStatus{Status: status})
}

// getOrCreate looks the row up first and inserts on a miss. A concurrent run
// may win the insert race, in which case the lookup is retried.
func (s *SQLiteStore) getOrCreate(ctx context.Context, lookup string, key string, row domain.Row) (int64, error) {
	const maxAttempts = 3

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var id int64
		err := s.db.QueryRowContext(ctx, lookup, key).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: lookup %s: %v", domain.ErrStoreUnavailable, row.TableName(), err)
		}

		id, err = s.Insert(ctx, row)
		if err == nil {
			return id, nil
		}
		if errors.Is(err, domain.ErrIntegrity) {
			continue
		}
		return 0, err
	}

	return 0, fmt.Errorf("%w: get-or-create %s gave up after %d attempts", domain.ErrStoreUnavailable, row.TableName(), maxAttempts)
}

func classify(table string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("insert %s: %w: %v", table, domain.ErrIntegrity, err)
	}
	return fmt.Errorf("insert %s: %w: %v", table, domain.ErrStoreUnavailable, err)
}
