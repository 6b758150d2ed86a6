// Package merge implements the merge plan builder and the merge engine.
//
// A Plan is the mutable staging state behind a merge review: the user picks
// which record supplies the name, organization, and photo, and toggles
// individual phone numbers and email addresses on or off. Configuration
// projects the plan into an immutable types.MergeConfiguration, which the
// Engine then applies as a pure computation.
package merge

import (
	"github.com/rcollins/contacts/internal/types"
)

// Plan is mutable staging state scoped to one duplicate group. It is created
// when the user opens a merge review, mutated by UI toggles, consumed exactly
// once by Configuration, and then discarded.
type Plan struct {
	PreferredNameContactID  string
	PreferredOrgContactID   string
	PreferredPhotoContactID string

	selectedPhones map[string]bool
	selectedEmails map[string]bool
}

// NewPlan creates the initial plan for a group: preferred name and
// organization default to the group's primary contact, no photo preference,
// and every phone number and email address across all members selected.
func NewPlan(group types.DuplicateGroup) *Plan {
	primary := group.PrimaryContact()
	p := &Plan{
		PreferredNameContactID: primary.ID,
		PreferredOrgContactID:  primary.ID,
		selectedPhones:         make(map[string]bool),
		selectedEmails:         make(map[string]bool),
	}
	for _, c := range group.Contacts {
		for _, phone := range c.PhoneNumbers {
			p.selectedPhones[phone] = true
		}
		for _, email := range c.Emails {
			p.selectedEmails[email] = true
		}
	}
	return p
}

// PhoneSelected reports whether the phone number is currently selected
func (p *Plan) PhoneSelected(value string) bool {
	return p.selectedPhones[value]
}

// EmailSelected reports whether the email address is currently selected
func (p *Plan) EmailSelected(value string) bool {
	return p.selectedEmails[value]
}

// TogglePhone flips the selection state of a phone number and returns the
// new state.
func (p *Plan) TogglePhone(value string) bool {
	if p.selectedPhones[value] {
		delete(p.selectedPhones, value)
		return false
	}
	p.selectedPhones[value] = true
	return true
}

// ToggleEmail flips the selection state of an email address and returns the
// new state.
func (p *Plan) ToggleEmail(value string) bool {
	if p.selectedEmails[value] {
		delete(p.selectedEmails, value)
		return false
	}
	p.selectedEmails[value] = true
	return true
}

// SelectedPhoneCount returns how many phone numbers are selected
func (p *Plan) SelectedPhoneCount() int {
	return len(p.selectedPhones)
}

// SelectedEmailCount returns how many email addresses are selected
func (p *Plan) SelectedEmailCount() int {
	return len(p.selectedEmails)
}

// Configuration projects the plan into an immutable merge configuration.
// MergingContactIDs always covers every member of the group, not just the
// records the plan touched, and the selected-value sets are copied verbatim.
func (p *Plan) Configuration(primaryContactID string, group types.DuplicateGroup) types.MergeConfiguration {
	merging := make(map[string]bool, len(group.Contacts))
	for _, c := range group.Contacts {
		merging[c.ID] = true
	}

	phones := make(map[string]bool, len(p.selectedPhones))
	for phone := range p.selectedPhones {
		phones[phone] = true
	}
	emails := make(map[string]bool, len(p.selectedEmails))
	for email := range p.selectedEmails {
		emails[email] = true
	}

	return types.MergeConfiguration{
		PrimaryContactID:       primaryContactID,
		MergingContactIDs:      merging,
		PreferredNameSourceID:  p.PreferredNameContactID,
		PreferredOrgSourceID:   p.PreferredOrgContactID,
		PreferredPhotoSourceID: p.PreferredPhotoContactID,
		IncludedPhoneNumbers:   phones,
		IncludedEmailAddresses: emails,
	}
}
