package store

// Value queries
const (
	queryGetValue = `SELECT value FROM kv WHERE key = ?`

	queryGetValuesByPrefix = `
		SELECT key, value
		FROM kv WHERE starts_with(key, ?)
		ORDER BY key`

	queryUpsertValue = `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`

	queryDeleteValue = `DELETE FROM kv WHERE key = ?`
)
