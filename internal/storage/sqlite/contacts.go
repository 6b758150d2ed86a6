package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcollins/contacts/internal/types"
)

// CreateContact inserts a contact record with its phone numbers and emails
func (s *SQLiteStorage) CreateContact(ctx context.Context, contact types.ContactRecord) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	name := splitFullName(contact.DisplayName)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO contacts (id, display_name, given_name, family_name, organization, has_photo, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.DisplayName, name.Given, name.Family,
		contact.Organization, boolToInt(contact.HasPhoto),
		formatTime(contact.CreatedAt), formatTime(contact.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact %s: %w", contact.ID, err)
	}

	if err := insertValues(ctx, tx, "phone_numbers", contact.ID, contact.PhoneNumbers); err != nil {
		return err
	}
	if err := insertValues(ctx, tx, "email_addresses", contact.ID, contact.Emails); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// UpdateContact replaces a contact's fields, phone numbers, and emails
func (s *SQLiteStorage) UpdateContact(ctx context.Context, contact types.ContactRecord) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	name := splitFullName(contact.DisplayName)
	res, err := tx.ExecContext(ctx, `
		UPDATE contacts
		SET display_name = ?, given_name = ?, family_name = ?, organization = ?, has_photo = ?, modified_at = ?
		WHERE id = ?`,
		contact.DisplayName, name.Given, name.Family,
		contact.Organization, boolToInt(contact.HasPhoto),
		formatTime(contact.ModifiedAt), contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact %s: %w", contact.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("contact %s not found", contact.ID)
	}

	for _, table := range []string{"phone_numbers", "email_addresses"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE contact_id = ?`, table), contact.ID); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, contact.ID, err)
		}
	}
	if err := insertValues(ctx, tx, "phone_numbers", contact.ID, contact.PhoneNumbers); err != nil {
		return err
	}
	if err := insertValues(ctx, tx, "email_addresses", contact.ID, contact.Emails); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// DeleteContact removes a contact; child rows cascade
func (s *SQLiteStorage) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("contact %s not found", id)
	}
	return nil
}

// GetContact loads one contact record with its value lists
func (s *SQLiteStorage) GetContact(ctx context.Context, id string) (*types.ContactRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, organization, has_photo, created_at, modified_at
		FROM contacts WHERE id = ?`, id)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contact %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}

	if contact.PhoneNumbers, err = s.listValues(ctx, "phone_numbers", id); err != nil {
		return nil, err
	}
	if contact.Emails, err = s.listValues(ctx, "email_addresses", id); err != nil {
		return nil, err
	}
	return contact, nil
}

// ListContacts returns a snapshot of every contact record, ordered by id
func (s *SQLiteStorage) ListContacts(ctx context.Context) ([]types.ContactRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, organization, has_photo, created_at, modified_at
		FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []types.ContactRecord
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	for i := range contacts {
		if contacts[i].PhoneNumbers, err = s.listValues(ctx, "phone_numbers", contacts[i].ID); err != nil {
			return nil, err
		}
		if contacts[i].Emails, err = s.listValues(ctx, "email_addresses", contacts[i].ID); err != nil {
			return nil, err
		}
	}
	return contacts, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(sc scanner) (*types.ContactRecord, error) {
	var contact types.ContactRecord
	var hasPhoto int
	var createdAt, modifiedAt sql.NullString

	if err := sc.Scan(&contact.ID, &contact.DisplayName, &contact.Organization, &hasPhoto, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	contact.HasPhoto = hasPhoto != 0

	var err error
	if contact.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if contact.ModifiedAt, err = parseTime(modifiedAt); err != nil {
		return nil, err
	}
	return &contact, nil
}

// listValues reads a contact's phone or email values in stored order
func (s *SQLiteStorage) listValues(ctx context.Context, table, contactID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE contact_id = ? ORDER BY position`, table), contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s for %s: %w", table, contactID, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s value: %w", table, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return values, nil
}

// insertValues appends values to a contact's phone or email table in order
func insertValues(ctx context.Context, tx *sql.Tx, table, contactID string, values []string) error {
	for i, value := range values {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (contact_id, value, position) VALUES (?, ?, ?)`, table),
			contactID, value, i)
		if err != nil {
			return fmt.Errorf("failed to insert %s value for %s: %w", table, contactID, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
