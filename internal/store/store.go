package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db     *sql.DB
	values *ValueStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		values: NewValueStore(db),
	}
}

// Values returns the collector management key/value store.
func (s *Store) Values() *ValueStore {
	return s.values
}

func (s *Store) Close() error {
	return s.db.Close()
}
