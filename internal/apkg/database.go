package apkg

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Entry names the APKG format uses for the embedded collection database.
// Newer exporters write collection.anki21; both hold the same notes/cards
// tables.
var collectionEntryNames = []string{"collection.anki21", "collection.anki2"}

var (
	// ErrNoDatabase is returned when the archive contains no collection
	// database under either expected entry name.
	ErrNoDatabase = errors.New("apkg: no collection database in archive")
	// ErrUnrecognizedSchema is returned when the embedded database matches
	// neither supported schema generation.
	ErrUnrecognizedSchema = errors.New("apkg: unrecognized collection schema")
)

// collectionDB is the embedded relational database, spilled to a temp file
// so the sqlite driver can open it. The owning Pipeline removes the temp
// directory on Close.
type collectionDB struct {
	db      *sql.DB
	tempDir string
}

// openCollectionDB locates the collection entry, writes it to a temp file
// and opens it read-only.
func openCollectionDB(archive *Archive) (*collectionDB, error) {
	var data []byte
	var found bool
	for _, name := range collectionEntryNames {
		if !archive.Has(name) {
			continue
		}
		var err error
		data, err = archive.ReadAll(name)
		if err != nil {
			return nil, fmt.Errorf("extract collection database: %w", err)
		}
		found = true
		break
	}
	if !found {
		return nil, ErrNoDatabase
	}

	tempDir, err := os.MkdirTemp("", "memodeck-apkg-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.db")
	if err := os.WriteFile(dbPath, data, 0600); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("write collection database: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("open collection database: %w", err)
	}

	return &collectionDB{db: db, tempDir: tempDir}, nil
}

func (c *collectionDB) Close() error {
	var err error
	if c.db != nil {
		err = c.db.Close()
	}
	if c.tempDir != "" {
		os.RemoveAll(c.tempDir)
	}
	return err
}

// hasTable checks the sqlite table catalog for a table name.
func (c *collectionDB) hasTable(name string) (bool, error) {
	var n int
	err := c.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect table catalog: %w", err)
	}
	return n > 0, nil
}

// detectAdapter classifies the database into one of the two supported
// schema generations. The presence of a normalized note-type table marks
// the modern generation; otherwise the legacy single-blob collection table
// must exist. Anything else is a hard failure, since the transformer
// requires a resolvable note type per note.
func detectAdapter(c *collectionDB) (collectionAdapter, error) {
	modern, err := c.hasTable("notetypes")
	if err != nil {
		return nil, err
	}
	if modern {
		return &modernAdapter{db: c.db}, nil
	}

	legacy, err := c.hasTable("col")
	if err != nil {
		return nil, err
	}
	if legacy {
		return &legacyAdapter{db: c.db}, nil
	}

	return nil, ErrUnrecognizedSchema
}
