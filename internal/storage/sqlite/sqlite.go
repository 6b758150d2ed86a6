package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ArchiveGroupName is the well-known group archived contacts belong to.
const ArchiveGroupName = "Archived"

// NameComponents holds the structured name parts of a contact.
type NameComponents struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// FullName joins the components into a display name.
func (n NameComponents) FullName() string {
	return strings.TrimSpace(n.Given + " " + n.Family)
}

// SQLiteStorage implements the storage gateway on a local SQLite database
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; restrict the pool so
	// every query sees the same one
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// splitFullName derives given/family components from a display name: the
// first token is the given name, the remainder the family name.
func splitFullName(fullName string) NameComponents {
	fields := strings.Fields(fullName)
	switch len(fields) {
	case 0:
		return NameComponents{}
	case 1:
		return NameComponents{Given: fields[0]}
	default:
		return NameComponents{Given: fields[0], Family: strings.Join(fields[1:], " ")}
	}
}

// formatTime renders an optional timestamp for storage
func formatTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads an optional stored timestamp
func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

// touchModified updates a contact's modified_at timestamp
func (s *SQLiteStorage) touchModified(contactID string) error {
	_, err := s.db.Exec(
		`UPDATE contacts SET modified_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), contactID,
	)
	if err != nil {
		return fmt.Errorf("failed to update modified timestamp: %w", err)
	}
	return nil
}
