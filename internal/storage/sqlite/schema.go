package sqlite

// schema is the SQLite schema for the contact store.
//
// Phones and emails live in child tables ordered by position so a record's
// value lists round-trip in insertion order. Group membership is a plain
// join table; the archive group is just a group with a well-known name.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id            TEXT PRIMARY KEY,
	display_name  TEXT NOT NULL,
	given_name    TEXT NOT NULL DEFAULT '',
	family_name   TEXT NOT NULL DEFAULT '',
	organization  TEXT NOT NULL DEFAULT '',
	has_photo     INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT,
	modified_at   TEXT
);

CREATE TABLE IF NOT EXISTS phone_numbers (
	contact_id  TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	value       TEXT NOT NULL,
	label       TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_phone_numbers_contact
	ON phone_numbers(contact_id, position);

CREATE TABLE IF NOT EXISTS email_addresses (
	contact_id  TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	value       TEXT NOT NULL,
	label       TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_email_addresses_contact
	ON email_addresses(contact_id, position);

CREATE TABLE IF NOT EXISTS group_members (
	group_name  TEXT NOT NULL,
	contact_id  TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	PRIMARY KEY (group_name, contact_id)
);
`
