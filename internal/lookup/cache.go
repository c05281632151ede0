package lookup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

// Cache persists lookup results in a SQLite database so repeated runs over
// the same bibliography skip the slow (and for the LLM, paid) providers.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createCacheSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createCacheSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS author_lookups (
			author_key TEXT PRIMARY KEY,
			info_json  TEXT NOT NULL,
			looked_up  INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// cacheKey normalizes an author name for use as the cache key, so
// "J. Smith" and "j. smith " hit the same row.
func cacheKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Get returns a cached lookup result, or (nil, false) on a miss.
func (c *Cache) Get(name string) (*reference.AuthorInfo, bool) {
	var infoJSON string
	err := c.db.QueryRow(
		`SELECT info_json FROM author_lookups WHERE author_key = ?`,
		cacheKey(name),
	).Scan(&infoJSON)
	if err != nil {
		return nil, false
	}

	var info reference.AuthorInfo
	if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
		return nil, false
	}
	return &info, true
}

// Put stores a lookup result, replacing any previous entry for the name.
func (c *Cache) Put(name string, info *reference.AuthorInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding author info: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO author_lookups (author_key, info_json, looked_up)
		 VALUES (?, ?, ?)
		 ON CONFLICT(author_key) DO UPDATE SET info_json = excluded.info_json, looked_up = excluded.looked_up`,
		cacheKey(name), string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
