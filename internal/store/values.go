package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// ValueStore keeps the collector management database: slash separated keys
// such as "collector/state" or "service/<id>/state" mapped to string values.
type ValueStore struct {
	db *sql.DB
}

// NewValueStore creates a new value store.
func NewValueStore(db *sql.DB) *ValueStore {
	return &ValueStore{db: db}
}

// GetValue returns the value stored under key.
func (s *ValueStore) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, queryGetValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAll returns every value below prefix keyed by the remainder of the key,
// e.g. prefix "service" yields "voting@v1/state".
func (s *ValueStore) GetAll(ctx context.Context, prefix string) (map[string]string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"

	rows, err := s.db.QueryContext(ctx, queryGetValuesByPrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[strings.TrimPrefix(key, prefix)] = value
	}
	return values, rows.Err()
}

// SetValue stores or updates the value under key.
func (s *ValueStore) SetValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, queryUpsertValue, key, value)
	return err
}

// Delete removes key.
func (s *ValueStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, queryDeleteValue, key)
	return err
}
