package types

import (
	"fmt"
	"strings"
	"time"
)

// ContactRecord is an immutable snapshot of one person record, taken at
// analysis time. Detection and merge logic never mutate a record in place;
// all changes go through the storage gateway.
type ContactRecord struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"display_name"`
	Organization string     `json:"organization,omitempty"`
	PhoneNumbers []string   `json:"phone_numbers,omitempty"`
	Emails       []string   `json:"emails,omitempty"`
	HasPhoto     bool       `json:"has_photo"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	ModifiedAt   *time.Time `json:"modified_at,omitempty"`
}

// Validate checks if the contact record has valid field values
func (c *ContactRecord) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contact id is required")
	}
	if strings.TrimSpace(c.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}
	return nil
}

// completenessScore ranks a contact by how much data it carries. Used to
// nominate the primary contact of a duplicate group.
func (c *ContactRecord) completenessScore() int {
	score := len(c.PhoneNumbers) + len(c.Emails)
	if c.Organization != "" {
		score++
	}
	return score
}

// MatchType identifies which detection signal (or combination) connected the
// members of a duplicate group.
type MatchType string

const (
	// MatchExactName means members share an identical normalized full name
	MatchExactName MatchType = "exact_name"
	// MatchSimilarName means members were connected only by the string
	// similarity pass
	MatchSimilarName MatchType = "similar_name"
	// MatchSamePhone means members share a normalized phone number
	MatchSamePhone MatchType = "same_phone"
	// MatchSameEmail means members share a lowercased email address
	MatchSameEmail MatchType = "same_email"
	// MatchMultiple means two or more independent signals fired for the group
	MatchMultiple MatchType = "multiple_matches"
)

// IsValid checks if the match type value is valid
func (m MatchType) IsValid() bool {
	switch m {
	case MatchExactName, MatchSimilarName, MatchSamePhone, MatchSameEmail, MatchMultiple:
		return true
	}
	return false
}

// DuplicateGroup is a cluster of contact records believed to represent the
// same person.
//
// Invariants:
//   - Contacts has at least two members
//   - MatchType == MatchMultiple exactly when two or more distinct signals
//     connected the cluster
//   - Confidence is in [0.0, 1.0]
type DuplicateGroup struct {
	ID         string          `json:"id"`
	Contacts   []ContactRecord `json:"contacts"`
	MatchType  MatchType       `json:"match_type"`
	Confidence float64         `json:"confidence"`
}

// Validate checks if the duplicate group has valid values
func (g *DuplicateGroup) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("group id is required")
	}
	if len(g.Contacts) < 2 {
		return fmt.Errorf("duplicate group requires at least 2 contacts (got %d)", len(g.Contacts))
	}
	if !g.MatchType.IsValid() {
		return fmt.Errorf("invalid match type: %s", g.MatchType)
	}
	if g.Confidence < 0.0 || g.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0 (got %.2f)", g.Confidence)
	}
	return nil
}

// PrimaryContact returns the member with the most data: phone count plus
// email count plus one if an organization is set. Ties resolve to the
// earliest member in first-seen order. This is derived, never stored.
func (g *DuplicateGroup) PrimaryContact() ContactRecord {
	best := g.Contacts[0]
	bestScore := best.completenessScore()
	for _, c := range g.Contacts[1:] {
		if score := c.completenessScore(); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// MemberIDs returns the ids of all group members in first-seen order.
func (g *DuplicateGroup) MemberIDs() []string {
	ids := make([]string, len(g.Contacts))
	for i, c := range g.Contacts {
		ids[i] = c.ID
	}
	return ids
}

// Member returns the group member with the given id, or false if the id is
// not part of the group.
func (g *DuplicateGroup) Member(id string) (ContactRecord, bool) {
	for _, c := range g.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return ContactRecord{}, false
}

// MergeConfiguration is the immutable, finalized merge instruction consumed
// by the merge engine. It is produced from a MergePlan exactly once and
// never modified afterwards.
//
// Included phone/email sets carry exact membership, not provenance: a value
// survives the merge because it is in the set, regardless of which source
// record it originally came from.
type MergeConfiguration struct {
	PrimaryContactID       string          `json:"primary_contact_id"`
	MergingContactIDs      map[string]bool `json:"merging_contact_ids"`
	PreferredNameSourceID  string          `json:"preferred_name_source_id"`
	PreferredOrgSourceID   string          `json:"preferred_org_source_id"`
	PreferredPhotoSourceID string          `json:"preferred_photo_source_id,omitempty"`
	IncludedPhoneNumbers   map[string]bool `json:"included_phone_numbers"`
	IncludedEmailAddresses map[string]bool `json:"included_email_addresses"`
}

// Validate checks the configuration invariants: the primary contact and the
// preferred name source must both participate in the merge.
func (c *MergeConfiguration) Validate() error {
	if c.PrimaryContactID == "" {
		return fmt.Errorf("primary contact id is required")
	}
	if len(c.MergingContactIDs) < 2 {
		return fmt.Errorf("merge requires at least 2 participating contacts (got %d)", len(c.MergingContactIDs))
	}
	if !c.MergingContactIDs[c.PrimaryContactID] {
		return fmt.Errorf("primary contact %s is not among merging contacts", c.PrimaryContactID)
	}
	if !c.MergingContactIDs[c.PreferredNameSourceID] {
		return fmt.Errorf("preferred name source %s is not among merging contacts", c.PreferredNameSourceID)
	}
	return nil
}

// SourceContactIDs returns the participating ids excluding the primary,
// i.e. the records that will be deleted after the merge.
func (c *MergeConfiguration) SourceContactIDs() []string {
	ids := make([]string, 0, len(c.MergingContactIDs)-1)
	for id := range c.MergingContactIDs {
		if id != c.PrimaryContactID {
			ids = append(ids, id)
		}
	}
	return ids
}

// MergedRecord is the output of the merge engine: the resolved destination
// record plus the explicit list of source ids to delete. Actual deletion is
// performed by the storage gateway, not the engine.
type MergedRecord struct {
	Contact           ContactRecord `json:"contact"`
	SourceIDsToDelete []string      `json:"source_ids_to_delete"`
}
