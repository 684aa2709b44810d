package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// Store is the sqlite-backed reference implementation of the version store.
// The standalone dev server and the tests run against it; production points
// the Client at the hosted store instead. Markup is zstd-compressed at rest.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open creates or opens the version database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	enc, _ := zstd.NewWriter(nil)
	dec, _ := zstd.NewReader(nil)

	s := &Store{db: db, enc: enc, dec: dec}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS versions (
		id TEXT PRIMARY KEY,
		page_id TEXT NOT NULL,
		parent_id TEXT,
		html BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_versions_page ON versions(page_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_versions_parent ON versions(parent_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records a new version for a page. parentID is empty for the first
// version of a page.
func (s *Store) Insert(pageID, parentID, markup string) (*Version, error) {
	v := &Version{ID: uuid.New().String(), HTML: markup}

	var parent interface{}
	if parentID != "" {
		parent = parentID
	}

	compressed := s.enc.EncodeAll([]byte(markup), nil)
	_, err := s.db.Exec(`
		INSERT INTO versions (id, page_id, parent_id, html, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		v.ID, pageID, parent, compressed, time.Now().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert version: %w", err)
	}
	return v, nil
}

// Latest returns the newest version for a page, or ErrNotFound when the page
// has no history yet.
func (s *Store) Latest(pageID string) (*Version, error) {
	row := s.db.QueryRow(`
		SELECT id, html FROM versions
		WHERE page_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, pageID)
	return s.scan(row)
}

// Parent returns the version the given version was derived from, or
// ErrNotFound at the root of the history.
func (s *Store) Parent(versionID string) (*Version, error) {
	row := s.db.QueryRow(`
		SELECT p.id, p.html FROM versions v
		JOIN versions p ON p.id = v.parent_id
		WHERE v.id = ?`, versionID)
	return s.scan(row)
}

// Child returns the version derived from the given one. When the store holds
// a branch point, the newest child wins: the client only ever observes a
// linear path.
func (s *Store) Child(versionID string) (*Version, error) {
	row := s.db.QueryRow(`
		SELECT id, html FROM versions
		WHERE parent_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, versionID)
	return s.scan(row)
}

func (s *Store) scan(row *sql.Row) (*Version, error) {
	var v Version
	var compressed []byte
	if err := row.Scan(&v.ID, &compressed); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan version: %w", err)
	}

	markup, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress version %s: %w", v.ID, err)
	}
	v.HTML = string(markup)
	return &v, nil
}
