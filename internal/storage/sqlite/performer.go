package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Capability operations consumed by the undo engine's effect translator.
// Each one is a single reversible mutation; a non-nil error means nothing
// was changed.

// AddPhoneNumber appends a phone number to a contact
func (s *SQLiteStorage) AddPhoneNumber(ctx context.Context, value, label, contactID string) error {
	return s.addValue(ctx, "phone_numbers", value, label, contactID)
}

// RemovePhoneNumber removes every occurrence of a phone number from a contact
func (s *SQLiteStorage) RemovePhoneNumber(ctx context.Context, value, contactID string) error {
	return s.removeValue(ctx, "phone_numbers", value, contactID)
}

// AddEmailAddress appends an email address to a contact
func (s *SQLiteStorage) AddEmailAddress(ctx context.Context, value, label, contactID string) error {
	return s.addValue(ctx, "email_addresses", value, label, contactID)
}

// RemoveEmailAddress removes every occurrence of an email address from a contact
func (s *SQLiteStorage) RemoveEmailAddress(ctx context.Context, value, contactID string) error {
	return s.removeValue(ctx, "email_addresses", value, contactID)
}

// AddToGroup adds a contact to the named group. Adding an existing member
// again is a no-op, so re-running the forward action is idempotent.
func (s *SQLiteStorage) AddToGroup(ctx context.Context, contactID, groupName string) error {
	if err := s.requireContact(ctx, contactID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (group_name, contact_id) VALUES (?, ?)`,
		groupName, contactID)
	if err != nil {
		return fmt.Errorf("failed to add %s to group %q: %w", contactID, groupName, err)
	}
	return nil
}

// RemoveFromGroup removes a contact from the named group
func (s *SQLiteStorage) RemoveFromGroup(ctx context.Context, contactID, groupName string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_name = ? AND contact_id = ?`,
		groupName, contactID)
	if err != nil {
		return fmt.Errorf("failed to remove %s from group %q: %w", contactID, groupName, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("contact %s is not in group %q", contactID, groupName)
	}
	return nil
}

// ArchiveContact moves a contact into the archive group
func (s *SQLiteStorage) ArchiveContact(ctx context.Context, contactID string) error {
	return s.AddToGroup(ctx, contactID, ArchiveGroupName)
}

// UpdateFullName replaces a contact's display name, re-deriving the name
// components
func (s *SQLiteStorage) UpdateFullName(ctx context.Context, contactID, fullName string) error {
	name := splitFullName(fullName)
	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET display_name = ?, given_name = ?, family_name = ?
		WHERE id = ?`,
		fullName, name.Given, name.Family, contactID)
	if err != nil {
		return fmt.Errorf("failed to update name for %s: %w", contactID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("contact %s not found", contactID)
	}
	return s.touchModified(contactID)
}

// FetchNameComponents returns a contact's stored given and family names
func (s *SQLiteStorage) FetchNameComponents(ctx context.Context, contactID string) (NameComponents, error) {
	var name NameComponents
	err := s.db.QueryRowContext(ctx,
		`SELECT given_name, family_name FROM contacts WHERE id = ?`, contactID).
		Scan(&name.Given, &name.Family)
	if err == sql.ErrNoRows {
		return name, fmt.Errorf("contact %s not found", contactID)
	}
	if err != nil {
		return name, fmt.Errorf("failed to fetch name components for %s: %w", contactID, err)
	}
	return name, nil
}

// addValue appends a value row at the next position
func (s *SQLiteStorage) addValue(ctx context.Context, table, value, label, contactID string) error {
	if err := s.requireContact(ctx, contactID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (contact_id, value, label, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM %s WHERE contact_id = ?))`,
		table, table),
		contactID, value, label, contactID)
	if err != nil {
		return fmt.Errorf("failed to add %s value for %s: %w", table, contactID, err)
	}
	return s.touchModified(contactID)
}

// removeValue deletes every row matching the value
func (s *SQLiteStorage) removeValue(ctx context.Context, table, value, contactID string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE contact_id = ? AND value = ?`, table),
		contactID, value)
	if err != nil {
		return fmt.Errorf("failed to remove %s value for %s: %w", table, contactID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("value %q not found on contact %s", value, contactID)
	}
	return s.touchModified(contactID)
}

// requireContact fails fast when the contact does not exist
func (s *SQLiteStorage) requireContact(ctx context.Context, contactID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM contacts WHERE id = ?`, contactID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("contact %s not found", contactID)
	}
	if err != nil {
		return fmt.Errorf("failed to check contact %s: %w", contactID, err)
	}
	return nil
}
