package dedup

import (
	"fmt"
	"testing"

	"github.com/rcollins/contacts/internal/types"
)

func record(id, name string, phones, emails []string) types.ContactRecord {
	return types.ContactRecord{
		ID:           id,
		DisplayName:  name,
		PhoneNumbers: phones,
		Emails:       emails,
	}
}

func TestFindDuplicatesEmptyInput(t *testing.T) {
	d := NewDefault()

	if groups := d.FindDuplicates(nil); len(groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(groups))
	}

	single := []types.ContactRecord{record("1", "Alice Chen", nil, nil)}
	if groups := d.FindDuplicates(single); len(groups) != 0 {
		t.Errorf("expected no groups for single contact, got %d", len(groups))
	}
}

func TestFindDuplicatesNoSharedSignals(t *testing.T) {
	d := NewDefault()

	contacts := []types.ContactRecord{
		record("1", "Alice Chen", []string{"555-0100"}, []string{"alice@example.com"}),
		record("2", "Bob Martinez", []string{"555-0200"}, []string{"bob@example.com"}),
		record("3", "Carol Okafor", []string{"555-0300"}, []string{"carol@example.com"}),
	}
	if groups := d.FindDuplicates(contacts); len(groups) != 0 {
		t.Errorf("expected no groups for distinct contacts, got %d", len(groups))
	}
}

func TestFindDuplicatesSingleSignals(t *testing.T) {
	tests := []struct {
		name      string
		contacts  []types.ContactRecord
		wantType  types.MatchType
		wantScore float64
	}{
		{
			name: "identical full name",
			contacts: []types.ContactRecord{
				record("1", "Alice Chen", nil, nil),
				record("2", "Alice Chen", nil, nil),
			},
			wantType:  types.MatchExactName,
			wantScore: ExactNameConfidence,
		},
		{
			name: "shared phone only",
			contacts: []types.ContactRecord{
				record("1", "Alice Chen", []string{"(555) 010-0100"}, nil),
				record("2", "Bob Martinez", []string{"555-010-0100"}, nil),
			},
			wantType:  types.MatchSamePhone,
			wantScore: SamePhoneConfidence,
		},
		{
			name: "shared email only",
			contacts: []types.ContactRecord{
				record("1", "Alice Chen", nil, []string{"Shared@Example.com"}),
				record("2", "Bob Martinez", nil, []string{"shared@example.com"}),
			},
			wantType:  types.MatchSameEmail,
			wantScore: SameEmailConfidence,
		},
	}

	d := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := d.FindDuplicates(tt.contacts)
			if len(groups) != 1 {
				t.Fatalf("expected 1 group, got %d", len(groups))
			}
			g := groups[0]
			if g.MatchType != tt.wantType {
				t.Errorf("expected match type %s, got %s", tt.wantType, g.MatchType)
			}
			if g.Confidence != tt.wantScore {
				t.Errorf("expected confidence %.2f, got %.2f", tt.wantScore, g.Confidence)
			}
			if len(g.Contacts) != 2 {
				t.Errorf("expected 2 members, got %d", len(g.Contacts))
			}
			if err := g.Validate(); err != nil {
				t.Errorf("emitted group is invalid: %v", err)
			}
		})
	}
}

func TestFindDuplicatesMultipleSignals(t *testing.T) {
	d := NewDefault()

	contacts := []types.ContactRecord{
		record("1", "Alice Chen", []string{"555-010-0100"}, nil),
		record("2", "Alice Chen", []string{"(555) 010-0100"}, nil),
	}
	groups := d.FindDuplicates(contacts)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.MatchType != types.MatchMultiple {
		t.Errorf("expected multiple_matches for name+phone, got %s", g.MatchType)
	}
	// Confidence is the max of the contributing signals
	if g.Confidence != SamePhoneConfidence {
		t.Errorf("expected confidence %.2f, got %.2f", SamePhoneConfidence, g.Confidence)
	}
}

func TestFindDuplicatesSimilarName(t *testing.T) {
	d := NewDefault()

	contacts := []types.ContactRecord{
		record("1", "Jon Smith", nil, nil),
		record("2", "John Smith", nil, nil),
	}
	groups := d.FindDuplicates(contacts)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group for similar names, got %d", len(groups))
	}
	g := groups[0]
	if g.MatchType != types.MatchSimilarName {
		t.Errorf("expected similar_name, got %s", g.MatchType)
	}
	if g.Confidence < d.cfg.SimilarityThreshold || g.Confidence >= 1.0 {
		t.Errorf("expected confidence in [%.2f, 1.0), got %.2f", d.cfg.SimilarityThreshold, g.Confidence)
	}
}

func TestFindDuplicatesTransitiveClustering(t *testing.T) {
	d := NewDefault()

	// A shares a phone with B; B shares an email with C. All three must
	// land in one group, not two overlapping pairs.
	contacts := []types.ContactRecord{
		record("a", "Alice Chen", []string{"555-010-0100"}, nil),
		record("b", "Bobbie Chen", []string{"555 010 0100"}, []string{"b@example.com"}),
		record("c", "Carol Okafor", nil, []string{"b@example.com"}),
	}
	groups := d.FindDuplicates(contacts)
	if len(groups) != 1 {
		t.Fatalf("expected 1 transitive group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Contacts) != 3 {
		t.Fatalf("expected 3 members, got %d", len(g.Contacts))
	}
	if g.MatchType != types.MatchMultiple {
		t.Errorf("expected multiple_matches for phone+email cluster, got %s", g.MatchType)
	}
	ids := g.MemberIDs()
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("expected members in first-seen order %v, got %v", want, ids)
			break
		}
	}
}

func TestFindDuplicatesIndependentGroups(t *testing.T) {
	d := NewDefault()

	contacts := []types.ContactRecord{
		record("1", "Alice Chen", nil, nil),
		record("2", "Alice Chen", nil, nil),
		record("3", "Bob Martinez", nil, []string{"bob@example.com"}),
		record("4", "Robbie Nguyen", nil, []string{"bob@example.com"}),
	}
	groups := d.FindDuplicates(contacts)
	if len(groups) != 2 {
		t.Fatalf("expected 2 independent groups, got %d", len(groups))
	}
	if groups[0].MatchType != types.MatchExactName {
		t.Errorf("expected first group exact_name, got %s", groups[0].MatchType)
	}
	if groups[1].MatchType != types.MatchSameEmail {
		t.Errorf("expected second group same_email, got %s", groups[1].MatchType)
	}
}

func TestFindDuplicatesNameNormalization(t *testing.T) {
	d := NewDefault()

	contacts := []types.ContactRecord{
		record("1", "  alice   CHEN ", nil, nil),
		record("2", "Alice Chen", nil, nil),
	}
	groups := d.FindDuplicates(contacts)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group after normalization, got %d", len(groups))
	}
	if groups[0].MatchType != types.MatchExactName {
		t.Errorf("expected exact_name, got %s", groups[0].MatchType)
	}
}

func TestFindDuplicatesDeterministic(t *testing.T) {
	d := NewDefault()

	var contacts []types.ContactRecord
	for i := 0; i < 40; i++ {
		contacts = append(contacts, record(
			fmt.Sprintf("dup-%d", i), "Dana Flores",
			[]string{fmt.Sprintf("555-%04d", i)}, nil))
	}
	first := d.FindDuplicates(contacts)
	second := d.FindDuplicates(contacts)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 group on both runs, got %d and %d", len(first), len(second))
	}
	if len(first[0].Contacts) != len(second[0].Contacts) {
		t.Errorf("clustering differs between runs: %d vs %d members",
			len(first[0].Contacts), len(second[0].Contacts))
	}
	if first[0].MatchType != second[0].MatchType {
		t.Errorf("match type differs between runs: %s vs %s", first[0].MatchType, second[0].MatchType)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 010-0100", "15550100100"},
		{"555.010.0100", "5550100100"},
		{"555 010 0100", "5550100100"},
		{"no digits", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindDuplicatesShortNamesSkipSimilarity(t *testing.T) {
	d := NewDefault()

	// Two-letter names are below MinNameLength; they must not be
	// connected by the similarity pass
	contacts := []types.ContactRecord{
		record("1", "Al", nil, nil),
		record("2", "Bo", nil, nil),
	}
	if groups := d.FindDuplicates(contacts); len(groups) != 0 {
		t.Errorf("expected no groups for short distinct names, got %d", len(groups))
	}
}
