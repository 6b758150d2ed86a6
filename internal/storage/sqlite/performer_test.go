package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollins/contacts/internal/types"
)

func seedContact(t *testing.T, s *SQLiteStorage, id string) {
	t.Helper()
	require.NoError(t, s.CreateContact(context.Background(), types.ContactRecord{
		ID:          id,
		DisplayName: "Jon Smith",
	}))
}

func TestAddAndRemovePhoneNumber(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedContact(t, s, "c1")

	require.NoError(t, s.AddPhoneNumber(ctx, "555-0100", "mobile", "c1"))
	require.NoError(t, s.AddPhoneNumber(ctx, "555-0101", "work", "c1"))

	got, err := s.GetContact(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"555-0100", "555-0101"}, got.PhoneNumbers)
	assert.NotNil(t, got.ModifiedAt, "mutations must touch the modified timestamp")

	require.NoError(t, s.RemovePhoneNumber(ctx, "555-0100", "c1"))
	got, err = s.GetContact(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"555-0101"}, got.PhoneNumbers)
}

func TestRemovePhoneNumberMissingValue(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedContact(t, s, "c1")

	err := s.RemovePhoneNumber(ctx, "555-9999", "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAddAndRemoveEmailAddress(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedContact(t, s, "c1")

	require.NoError(t, s.AddEmailAddress(ctx, "jon@example.com", "home", "c1"))
	require.NoError(t, s.RemoveEmailAddress(ctx, "jon@example.com", "c1"))

	got, err := s.GetContact(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Emails)
}

func TestAddValueRequiresContact(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	err := s.AddPhoneNumber(ctx, "555-0100", "", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGroupMembershipRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedContact(t, s, "c1")

	require.NoError(t, s.AddToGroup(ctx, "c1", "Friends"))
	// Re-adding an existing member is a no-op
	require.NoError(t, s.AddToGroup(ctx, "c1", "Friends"))

	require.NoError(t, s.RemoveFromGroup(ctx, "c1", "Friends"))
	// The second add collapsed into the first, so a second removal fails
	require.Error(t, s.RemoveFromGroup(ctx, "c1", "Friends"))
}

func TestArchiveContact(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedContact(t, s, "c1")

	require.NoError(t, s.ArchiveContact(ctx, "c1"))
	// Archiving twice stays a single membership
	require.NoError(t, s.ArchiveContact(ctx, "c1"))

	require.NoError(t, s.RemoveFromGroup(ctx, "c1", ArchiveGroupName))
	require.Error(t, s.RemoveFromGroup(ctx, "c1", ArchiveGroupName))
}

func TestUpdateFullNameRederivesComponents(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	seedContact(t, s, "c1")

	require.NoError(t, s.UpdateFullName(ctx, "c1", "Jonathan Q. Smith"))

	name, err := s.FetchNameComponents(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Jonathan", name.Given)
	assert.Equal(t, "Q. Smith", name.Family)

	got, err := s.GetContact(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Jonathan Q. Smith", got.DisplayName)
}

func TestUpdateFullNameNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	require.Error(t, s.UpdateFullName(ctx, "missing", "Anyone"))
}

func TestFetchNameComponentsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	_, err := s.FetchNameComponents(ctx, "missing")
	require.Error(t, err)
}
