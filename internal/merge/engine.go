package merge

import (
	"sort"

	"github.com/rcollins/contacts/internal/types"
)

// Engine computes merged records. It has no side effects: the caller is
// responsible for writing the result back through the storage gateway and
// deleting the listed source records.
type Engine struct{}

// NewEngine creates a merge engine
func NewEngine() *Engine {
	return &Engine{}
}

// MergedContact applies the configuration to the destination and source
// records and returns the resolved record plus the source ids to delete.
//
// Resolution order:
//  1. Display name comes from the record matching PreferredNameSourceID,
//     falling back to the destination's existing name if the id matches
//     neither the destination nor any source. The engine fails closed: it
//     never produces an empty name and never invents data not present in
//     one of the inputs.
//  2. Organization resolves the same way via PreferredOrgSourceID.
//  3. The photo changes only when PreferredPhotoSourceID is set; otherwise
//     the destination's photo is untouched.
//  4. Phone numbers and email addresses are exactly the included sets:
//     deselected values disappear, retained values survive regardless of
//     which record they came from.
func (e *Engine) MergedContact(cfg types.MergeConfiguration, destination types.ContactRecord, sources []types.ContactRecord) types.MergedRecord {
	merged := destination

	if name := lookup(cfg.PreferredNameSourceID, destination, sources); name != nil && name.DisplayName != "" {
		merged.DisplayName = name.DisplayName
	}
	if org := lookup(cfg.PreferredOrgSourceID, destination, sources); org != nil {
		merged.Organization = org.Organization
	}
	if cfg.PreferredPhotoSourceID != "" {
		if photo := lookup(cfg.PreferredPhotoSourceID, destination, sources); photo != nil {
			merged.HasPhoto = photo.HasPhoto
		}
	}

	merged.PhoneNumbers = sortedSet(cfg.IncludedPhoneNumbers)
	merged.Emails = sortedSet(cfg.IncludedEmailAddresses)

	deleteIDs := make([]string, 0, len(sources))
	for _, src := range sources {
		if src.ID != destination.ID {
			deleteIDs = append(deleteIDs, src.ID)
		}
	}

	return types.MergedRecord{
		Contact:           merged,
		SourceIDsToDelete: deleteIDs,
	}
}

// lookup finds the record with the given id among the destination and
// sources, or nil if the id is dangling.
func lookup(id string, destination types.ContactRecord, sources []types.ContactRecord) *types.ContactRecord {
	if id == "" {
		return nil
	}
	if destination.ID == id {
		return &destination
	}
	for i := range sources {
		if sources[i].ID == id {
			return &sources[i]
		}
	}
	return nil
}

// sortedSet flattens a string set into a sorted slice so merged output is
// deterministic.
func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
