package dedup

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/google/uuid"

	"github.com/rcollins/contacts/internal/types"
)

// Detector clusters contact records into duplicate groups.
//
// Detection builds one index per signal (normalized name, digits-only phone,
// lowercased email), records a candidate edge for every bucket with two or
// more members, adds similar-name edges from a bounded comparison pass, and
// merges all edges with union-find. Total work is roughly linear in the
// number of contacts; the legacy all-pairs comparison is gone for good.
type Detector struct {
	cfg Config
}

// New creates a detector with the given configuration
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}
	return &Detector{cfg: cfg}, nil
}

// NewDefault creates a detector with the default configuration
func NewDefault() *Detector {
	return &Detector{cfg: DefaultConfig()}
}

// edge is one candidate pairing between two contacts, tagged with the signal
// that produced it and that signal's confidence.
type edge struct {
	a, b  int
	kind  types.MatchType
	score float64
}

// FindDuplicates groups the given snapshot into duplicate groups. It is pure
// and deterministic: no I/O, and the same input always produces the same
// clustering. Empty and single-contact inputs yield an empty result.
func (d *Detector) FindDuplicates(contacts []types.ContactRecord) []types.DuplicateGroup {
	if len(contacts) < 2 {
		return nil
	}

	edges := d.collectEdges(contacts)
	if len(edges) == 0 {
		return nil
	}

	uf := newUnionFind(len(contacts))
	for _, e := range edges {
		uf.union(e.a, e.b)
	}

	// Gather members and contributing signals per cluster root
	members := make(map[int][]int)
	signals := make(map[int]map[types.MatchType]float64)
	for _, e := range edges {
		root := uf.find(e.a)
		if s, ok := signals[root]; !ok {
			signals[root] = map[types.MatchType]float64{e.kind: e.score}
		} else if e.score > s[e.kind] {
			s[e.kind] = e.score
		}
	}
	for i := range contacts {
		root := uf.find(i)
		if _, ok := signals[root]; ok {
			members[root] = append(members[root], i)
		}
	}

	// Emit groups in first-seen order of their earliest member
	roots := make([]int, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return members[roots[i]][0] < members[roots[j]][0]
	})

	groups := make([]types.DuplicateGroup, 0, len(roots))
	for _, root := range roots {
		idxs := members[root]
		if len(idxs) < 2 {
			// Unreachable: every signal bucket has >= 2 members
			continue
		}
		sort.Ints(idxs)

		records := make([]types.ContactRecord, len(idxs))
		for i, idx := range idxs {
			records[i] = contacts[idx]
		}

		matchType, confidence := resolveSignals(signals[root])
		groups = append(groups, types.DuplicateGroup{
			ID:         uuid.New().String(),
			Contacts:   records,
			MatchType:  matchType,
			Confidence: confidence,
		})
	}
	return groups
}

// collectEdges builds the per-signal indexes and returns every candidate
// pairing found by any signal.
func (d *Detector) collectEdges(contacts []types.ContactRecord) []edge {
	var edges []edge

	names := make([]string, len(contacts))
	for i, c := range contacts {
		names[i] = NormalizeName(c.DisplayName)
	}

	// Exact normalized name
	nameIndex := make(map[string][]int)
	for i, name := range names {
		if name != "" {
			nameIndex[name] = append(nameIndex[name], i)
		}
	}
	edges = appendBucketEdges(edges, nameIndex, types.MatchExactName, ExactNameConfidence)

	// Shared phone number (digits only)
	phoneIndex := make(map[string][]int)
	for i, c := range contacts {
		seen := make(map[string]bool)
		for _, raw := range c.PhoneNumbers {
			phone := NormalizePhone(raw)
			if phone == "" || seen[phone] {
				continue
			}
			seen[phone] = true
			phoneIndex[phone] = append(phoneIndex[phone], i)
		}
	}
	edges = appendBucketEdges(edges, phoneIndex, types.MatchSamePhone, SamePhoneConfidence)

	// Shared email address (lowercased)
	emailIndex := make(map[string][]int)
	for i, c := range contacts {
		seen := make(map[string]bool)
		for _, raw := range c.Emails {
			email := NormalizeEmail(raw)
			if email == "" || seen[email] {
				continue
			}
			seen[email] = true
			emailIndex[email] = append(emailIndex[email], i)
		}
	}
	edges = appendBucketEdges(edges, emailIndex, types.MatchSameEmail, SameEmailConfidence)

	// Similar names, prefiltered by first letter to stay near-linear
	edges = d.appendSimilarNameEdges(edges, names)

	return edges
}

// appendBucketEdges connects the first member of every multi-member bucket
// to each of the others. Keys are iterated in sorted order so edge order is
// deterministic.
func appendBucketEdges(edges []edge, index map[string][]int, kind types.MatchType, score float64) []edge {
	keys := make([]string, 0, len(index))
	for key, idxs := range index {
		if len(idxs) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		idxs := index[key]
		for _, other := range idxs[1:] {
			edges = append(edges, edge{a: idxs[0], b: other, kind: kind, score: score})
		}
	}
	return edges
}

// appendSimilarNameEdges runs the bounded similarity pass. Contacts are
// bucketed by the first rune of the normalized name; only pairs within a
// bucket are compared, and each bucket stops after MaxBucketComparisons
// pairs.
func (d *Detector) appendSimilarNameEdges(edges []edge, names []string) []edge {
	buckets := make(map[rune][]int)
	for i, name := range names {
		if len(name) < d.cfg.MinNameLength {
			continue
		}
		first := []rune(name)[0]
		buckets[first] = append(buckets[first], i)
	}

	letters := make([]rune, 0, len(buckets))
	for letter := range buckets {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	params := levenshtein.NewParams()
	for _, letter := range letters {
		idxs := buckets[letter]
		comparisons := 0
		for i := 0; i < len(idxs) && comparisons < d.cfg.MaxBucketComparisons; i++ {
			for j := i + 1; j < len(idxs) && comparisons < d.cfg.MaxBucketComparisons; j++ {
				comparisons++
				a, b := names[idxs[i]], names[idxs[j]]
				if a == b {
					// Already covered by the exact-name signal
					continue
				}
				similarity := levenshtein.Similarity(a, b, params)
				if similarity >= d.cfg.SimilarityThreshold {
					edges = append(edges, edge{a: idxs[i], b: idxs[j], kind: types.MatchSimilarName, score: similarity})
				}
			}
		}
	}
	return edges
}

// resolveSignals turns the set of contributing signals into the group's
// match type and confidence. Two or more distinct signals mean the cluster
// was corroborated independently, so confidence takes the maximum.
func resolveSignals(contributing map[types.MatchType]float64) (types.MatchType, float64) {
	if len(contributing) == 1 {
		for kind, score := range contributing {
			return kind, score
		}
	}
	best := 0.0
	for _, score := range contributing {
		if score > best {
			best = score
		}
	}
	return types.MatchMultiple, best
}

// NormalizeName lowercases a display name and collapses runs of whitespace
// to single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizePhone strips a phone number down to its digits, removing
// formatting like spaces, dashes, dots, and parentheses.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
