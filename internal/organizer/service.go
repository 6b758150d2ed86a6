// Package organizer wires the detection engine, merge engine, undo manager,
// and refresh coordinator around the storage gateway. All collaborators are
// injected; there is no shared global state.
package organizer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rcollins/contacts/internal/dedup"
	"github.com/rcollins/contacts/internal/merge"
	"github.com/rcollins/contacts/internal/refresh"
	"github.com/rcollins/contacts/internal/storage"
	"github.com/rcollins/contacts/internal/types"
	"github.com/rcollins/contacts/internal/undo"
)

// ErrRefreshDeferred is returned when a refresh trigger is folded into the
// pending flag instead of starting a cycle (another cycle is running,
// auto-refresh is disabled, or triggers are arriving too fast).
var ErrRefreshDeferred = errors.New("refresh deferred")

// maxDeleteConcurrency bounds parallel source deletions during merge apply
const maxDeleteConcurrency = 4

// Service orchestrates the contact organizer core.
type Service struct {
	store       storage.Storage
	detector    *dedup.Detector
	engine      *merge.Engine
	history     *undo.Manager
	coordinator *refresh.Coordinator
}

// New creates a service from its injected collaborators
func New(store storage.Storage, detector *dedup.Detector, engine *merge.Engine, history *undo.Manager, coordinator *refresh.Coordinator) *Service {
	return &Service{
		store:       store,
		detector:    detector,
		engine:      engine,
		history:     history,
		coordinator: coordinator,
	}
}

// History exposes the undo manager for UI surfaces
func (s *Service) History() *undo.Manager {
	return s.history
}

// RefreshDuplicates runs a fetch-and-analyze cycle gated by the refresh
// coordinator. If a trigger arrived while the cycle was running, the cycle
// re-runs once before returning, so at most one deferred refresh is ever
// outstanding.
func (s *Service) RefreshDuplicates(ctx context.Context) ([]types.DuplicateGroup, error) {
	if !s.coordinator.PrepareForLoad() {
		return nil, ErrRefreshDeferred
	}

	for {
		groups, err := s.runCycle(ctx)
		if err != nil {
			return nil, err
		}
		if !s.coordinator.ConsumePendingRefresh() {
			return groups, nil
		}
		if !s.coordinator.PrepareForLoad() {
			return groups, nil
		}
	}
}

func (s *Service) runCycle(ctx context.Context) ([]types.DuplicateGroup, error) {
	defer s.coordinator.FinishCycle()

	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	s.coordinator.BeginAnalysis()
	return s.detector.FindDuplicates(contacts), nil
}

// ApplyMerge computes the merged record for the configuration, writes it
// through the gateway, deletes the source records, and registers a single
// undoable action that restores every deleted source and the destination's
// previous state.
func (s *Service) ApplyMerge(ctx context.Context, cfg types.MergeConfiguration) (*types.MergedRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid merge configuration: %w", err)
	}

	destination, err := s.store.GetContact(ctx, cfg.PrimaryContactID)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination: %w", err)
	}

	sources := make([]types.ContactRecord, 0, len(cfg.MergingContactIDs)-1)
	for _, id := range cfg.SourceContactIDs() {
		src, err := s.store.GetContact(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load source %s: %w", id, err)
		}
		sources = append(sources, *src)
	}

	merged := s.engine.MergedContact(cfg, *destination, sources)

	if err := s.applyMergedRecord(ctx, merged); err != nil {
		return nil, err
	}

	// Snapshots captured by value for the restore closure
	previousDestination := *destination
	sourceSnapshots := sources

	undoFn := func(ctx context.Context) error {
		for _, src := range sourceSnapshots {
			if err := s.store.CreateContact(ctx, src); err != nil {
				return fmt.Errorf("failed to restore %s: %w", src.ID, err)
			}
		}
		if err := s.store.UpdateContact(ctx, previousDestination); err != nil {
			return fmt.Errorf("failed to restore destination: %w", err)
		}
		return nil
	}
	redoFn := func(ctx context.Context) error {
		return s.applyMergedRecord(ctx, merged)
	}

	title := fmt.Sprintf("merge %d contacts into %s", len(cfg.MergingContactIDs), cfg.PrimaryContactID)
	if err := s.history.Register(title, undoFn, redoFn); err != nil {
		return nil, fmt.Errorf("failed to register merge action: %w", err)
	}

	return &merged, nil
}

// applyMergedRecord writes the merged destination and deletes the sources.
// Deletions of independent records run in parallel.
func (s *Service) applyMergedRecord(ctx context.Context, merged types.MergedRecord) error {
	if err := s.store.UpdateContact(ctx, merged.Contact); err != nil {
		return fmt.Errorf("failed to write merged contact: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDeleteConcurrency)
	for _, id := range merged.SourceIDsToDelete {
		g.Go(func() error {
			if err := s.store.DeleteContact(ctx, id); err != nil {
				return fmt.Errorf("failed to delete source %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// AddPhone adds a phone number to a contact and records the effect
func (s *Service) AddPhone(ctx context.Context, contactID, value, label string) error {
	if err := s.store.AddPhoneNumber(ctx, value, label, contactID); err != nil {
		return err
	}
	return s.history.RegisterEffect(types.AddedPhone(contactID, value), "", s.store)
}

// AddEmail adds an email address to a contact and records the effect
func (s *Service) AddEmail(ctx context.Context, contactID, value, label string) error {
	if err := s.store.AddEmailAddress(ctx, value, label, contactID); err != nil {
		return err
	}
	return s.history.RegisterEffect(types.AddedEmail(contactID, value), "", s.store)
}

// AddToGroup adds a contact to a group and records the effect
func (s *Service) AddToGroup(ctx context.Context, contactID, groupName string) error {
	if err := s.store.AddToGroup(ctx, contactID, groupName); err != nil {
		return err
	}
	return s.history.RegisterEffect(types.AddedToGroup(contactID, groupName), "", s.store)
}

// Archive moves a contact into the archive group and records the effect
func (s *Service) Archive(ctx context.Context, contactID string) error {
	if err := s.store.ArchiveContact(ctx, contactID); err != nil {
		return err
	}
	return s.history.RegisterEffect(types.ArchivedContact(contactID), "", s.store)
}

// Rename replaces a contact's full name, capturing the previous name
// components first so the effect can reverse it
func (s *Service) Rename(ctx context.Context, contactID, fullName string) error {
	previous, err := s.store.FetchNameComponents(ctx, contactID)
	if err != nil {
		return fmt.Errorf("failed to fetch current name: %w", err)
	}
	if err := s.store.UpdateFullName(ctx, contactID, fullName); err != nil {
		return err
	}
	effect := types.UpdatedName(contactID, previous.Given, previous.Family, fullName)
	return s.history.RegisterEffect(effect, "", s.store)
}
