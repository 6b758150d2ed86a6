package merge

import (
	"testing"

	"github.com/rcollins/contacts/internal/types"
)

func engineFixture() (types.ContactRecord, []types.ContactRecord) {
	destination := types.ContactRecord{
		ID:           "dest",
		DisplayName:  "Alice Chen",
		Organization: "Acme",
		PhoneNumbers: []string{"111", "222"},
		Emails:       []string{"dest@example.com"},
		HasPhoto:     false,
	}
	sources := []types.ContactRecord{
		{
			ID:           "src",
			DisplayName:  "A. Chen",
			Organization: "Globex",
			PhoneNumbers: []string{"333"},
			Emails:       []string{"src@example.com"},
			HasPhoto:     true,
		},
	}
	return destination, sources
}

func baseConfig() types.MergeConfiguration {
	return types.MergeConfiguration{
		PrimaryContactID:      "dest",
		MergingContactIDs:     map[string]bool{"dest": true, "src": true},
		PreferredNameSourceID: "dest",
		PreferredOrgSourceID:  "dest",
		IncludedPhoneNumbers:  map[string]bool{"111": true, "333": true},
		IncludedEmailAddresses: map[string]bool{
			"dest@example.com": true,
		},
	}
}

func TestMergedContactFieldResolution(t *testing.T) {
	engine := NewEngine()
	destination, sources := engineFixture()

	cfg := baseConfig()
	cfg.PreferredNameSourceID = "src"
	cfg.PreferredOrgSourceID = "src"

	result := engine.MergedContact(cfg, destination, sources)

	if result.Contact.DisplayName != "A. Chen" {
		t.Errorf("expected name from source, got %q", result.Contact.DisplayName)
	}
	if result.Contact.Organization != "Globex" {
		t.Errorf("expected organization from source, got %q", result.Contact.Organization)
	}
	// No photo preference set: destination's photo untouched
	if result.Contact.HasPhoto {
		t.Error("expected destination photo untouched without a photo preference")
	}
}

func TestMergedContactPhotoPreference(t *testing.T) {
	engine := NewEngine()
	destination, sources := engineFixture()

	cfg := baseConfig()
	cfg.PreferredPhotoSourceID = "src"

	result := engine.MergedContact(cfg, destination, sources)
	if !result.Contact.HasPhoto {
		t.Error("expected photo from preferred source")
	}
}

func TestMergedContactValueSetsAreLiteral(t *testing.T) {
	engine := NewEngine()
	destination, sources := engineFixture()

	result := engine.MergedContact(baseConfig(), destination, sources)

	wantPhones := []string{"111", "333"}
	if len(result.Contact.PhoneNumbers) != len(wantPhones) {
		t.Fatalf("expected phones %v, got %v", wantPhones, result.Contact.PhoneNumbers)
	}
	for i, phone := range wantPhones {
		if result.Contact.PhoneNumbers[i] != phone {
			t.Errorf("expected phones %v, got %v", wantPhones, result.Contact.PhoneNumbers)
			break
		}
	}

	// Deselected phone 222 disappears even though the destination had it
	for _, phone := range result.Contact.PhoneNumbers {
		if phone == "222" {
			t.Error("deselected value 222 must not survive the merge")
		}
	}

	if len(result.Contact.Emails) != 1 || result.Contact.Emails[0] != "dest@example.com" {
		t.Errorf("expected emails [dest@example.com], got %v", result.Contact.Emails)
	}
}

func TestMergedContactDanglingNameSourceFailsClosed(t *testing.T) {
	engine := NewEngine()
	destination, sources := engineFixture()

	cfg := baseConfig()
	cfg.PreferredNameSourceID = "missing"
	cfg.PreferredOrgSourceID = "missing"

	result := engine.MergedContact(cfg, destination, sources)

	// The engine never produces an empty name: it falls back to the
	// destination's existing values
	if result.Contact.DisplayName != "Alice Chen" {
		t.Errorf("expected fallback to destination name, got %q", result.Contact.DisplayName)
	}
	if result.Contact.Organization != "Acme" {
		t.Errorf("expected fallback to destination organization, got %q", result.Contact.Organization)
	}
}

func TestMergedContactDeletionList(t *testing.T) {
	engine := NewEngine()
	destination, sources := engineFixture()

	result := engine.MergedContact(baseConfig(), destination, sources)

	if len(result.SourceIDsToDelete) != 1 || result.SourceIDsToDelete[0] != "src" {
		t.Errorf("expected deletion list [src], got %v", result.SourceIDsToDelete)
	}
	for _, id := range result.SourceIDsToDelete {
		if id == destination.ID {
			t.Error("destination must never appear in the deletion list")
		}
	}
}

func TestMergedContactEmptySelections(t *testing.T) {
	engine := NewEngine()
	destination, sources := engineFixture()

	cfg := baseConfig()
	cfg.IncludedPhoneNumbers = nil
	cfg.IncludedEmailAddresses = nil

	result := engine.MergedContact(cfg, destination, sources)
	if len(result.Contact.PhoneNumbers) != 0 {
		t.Errorf("expected no phones when nothing selected, got %v", result.Contact.PhoneNumbers)
	}
	if len(result.Contact.Emails) != 0 {
		t.Errorf("expected no emails when nothing selected, got %v", result.Contact.Emails)
	}
}
