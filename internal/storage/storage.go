// Package storage defines the narrow interfaces the core depends on to talk
// to the contact store, plus a factory for the SQLite reference backend.
//
// The detection, merge, and undo engines never see the full store surface;
// they consume the capability interfaces below so any gateway implementation
// can be substituted.
package storage

import (
	"context"

	"github.com/rcollins/contacts/internal/storage/sqlite"
	"github.com/rcollins/contacts/internal/types"
)

// ArchiveGroupName is the group that archived contacts are moved into.
const ArchiveGroupName = sqlite.ArchiveGroupName

// NameComponents holds the structured name parts of a contact.
type NameComponents = sqlite.NameComponents

// ActionPerformer is the capability interface consumed by the undo engine's
// effect translator and by direct action executors. Every operation is a
// single reversible mutation; a non-nil error means the mutation did not
// take effect, and the undo engine treats it as an undo/redo failure
// without retrying.
type ActionPerformer interface {
	AddPhoneNumber(ctx context.Context, value, label, contactID string) error
	RemovePhoneNumber(ctx context.Context, value, contactID string) error
	AddEmailAddress(ctx context.Context, value, label, contactID string) error
	RemoveEmailAddress(ctx context.Context, value, contactID string) error
	AddToGroup(ctx context.Context, contactID, groupName string) error
	RemoveFromGroup(ctx context.Context, contactID, groupName string) error
	ArchiveContact(ctx context.Context, contactID string) error
	UpdateFullName(ctx context.Context, contactID, fullName string) error
	FetchNameComponents(ctx context.Context, contactID string) (NameComponents, error)
}

// Storage is the full gateway surface used by the orchestration layer: the
// capability operations plus record-level CRUD needed for merge apply and
// undoable restore.
type Storage interface {
	ActionPerformer

	ListContacts(ctx context.Context) ([]types.ContactRecord, error)
	GetContact(ctx context.Context, id string) (*types.ContactRecord, error)
	CreateContact(ctx context.Context, contact types.ContactRecord) error
	UpdateContact(ctx context.Context, contact types.ContactRecord) error
	DeleteContact(ctx context.Context, id string) error

	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".contacts/contacts.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".contacts/contacts.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".contacts/contacts.db"
	}
	return sqlite.New(cfg.Path)
}
