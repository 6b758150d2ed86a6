package types

import "fmt"

// EffectKind identifies one of the named reversible mutation variants.
type EffectKind string

const (
	// EffectAddedPhone records that a phone number was added to a contact
	EffectAddedPhone EffectKind = "added_phone"
	// EffectAddedEmail records that an email address was added to a contact
	EffectAddedEmail EffectKind = "added_email"
	// EffectAddedToGroup records that a contact was added to a group
	EffectAddedToGroup EffectKind = "added_to_group"
	// EffectArchivedContact records that a contact was moved to the archive group
	EffectArchivedContact EffectKind = "archived_contact"
	// EffectUpdatedName records that a contact's full name was replaced
	EffectUpdatedName EffectKind = "updated_name"
)

// IsValid checks if the effect kind value is valid
func (k EffectKind) IsValid() bool {
	switch k {
	case EffectAddedPhone, EffectAddedEmail, EffectAddedToGroup, EffectArchivedContact, EffectUpdatedName:
		return true
	}
	return false
}

// Effect describes one semantically meaningful reversible mutation that was
// already performed against the contact store. Each variant carries exactly
// the state needed to invert itself; the undo engine translates an Effect
// into an undo/redo closure pair without the caller knowing the table.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	ContactID string     `json:"contact_id"`

	// Value is the phone number, email address, or new full name,
	// depending on Kind
	Value string `json:"value,omitempty"`

	// GroupName is set for added_to_group effects
	GroupName string `json:"group_name,omitempty"`

	// PreviousGiven and PreviousFamily are the name components before an
	// updated_name effect
	PreviousGiven  string `json:"previous_given,omitempty"`
	PreviousFamily string `json:"previous_family,omitempty"`
}

// AddedPhone constructs an effect recording that value was added as a phone
// number on the given contact.
func AddedPhone(contactID, value string) Effect {
	return Effect{Kind: EffectAddedPhone, ContactID: contactID, Value: value}
}

// AddedEmail constructs an effect recording that value was added as an email
// address on the given contact.
func AddedEmail(contactID, value string) Effect {
	return Effect{Kind: EffectAddedEmail, ContactID: contactID, Value: value}
}

// AddedToGroup constructs an effect recording that the contact was added to
// the named group.
func AddedToGroup(contactID, groupName string) Effect {
	return Effect{Kind: EffectAddedToGroup, ContactID: contactID, GroupName: groupName}
}

// ArchivedContact constructs an effect recording that the contact was moved
// to the archive group.
func ArchivedContact(contactID string) Effect {
	return Effect{Kind: EffectArchivedContact, ContactID: contactID}
}

// UpdatedName constructs an effect recording a full name replacement,
// carrying the previous name components needed to reverse it.
func UpdatedName(contactID, previousGiven, previousFamily, newValue string) Effect {
	return Effect{
		Kind:           EffectUpdatedName,
		ContactID:      contactID,
		Value:          newValue,
		PreviousGiven:  previousGiven,
		PreviousFamily: previousFamily,
	}
}

// Validate checks if the effect carries the state its kind requires
func (e *Effect) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("invalid effect kind: %s", e.Kind)
	}
	if e.ContactID == "" {
		return fmt.Errorf("contact id is required")
	}
	switch e.Kind {
	case EffectAddedPhone, EffectAddedEmail:
		if e.Value == "" {
			return fmt.Errorf("%s effect requires a value", e.Kind)
		}
	case EffectAddedToGroup:
		if e.GroupName == "" {
			return fmt.Errorf("added_to_group effect requires a group name")
		}
	case EffectUpdatedName:
		if e.Value == "" {
			return fmt.Errorf("updated_name effect requires the new name")
		}
	}
	return nil
}

// String returns a short human-readable description of the effect
func (e Effect) String() string {
	switch e.Kind {
	case EffectAddedPhone:
		return fmt.Sprintf("added phone %s to %s", e.Value, e.ContactID)
	case EffectAddedEmail:
		return fmt.Sprintf("added email %s to %s", e.Value, e.ContactID)
	case EffectAddedToGroup:
		return fmt.Sprintf("added %s to group %q", e.ContactID, e.GroupName)
	case EffectArchivedContact:
		return fmt.Sprintf("archived %s", e.ContactID)
	case EffectUpdatedName:
		return fmt.Sprintf("renamed %s to %q", e.ContactID, e.Value)
	default:
		return fmt.Sprintf("unknown effect %s on %s", e.Kind, e.ContactID)
	}
}
