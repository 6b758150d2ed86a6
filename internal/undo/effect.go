package undo

import (
	"context"
	"fmt"

	"github.com/rcollins/contacts/internal/storage"
	"github.com/rcollins/contacts/internal/types"
)

// effectClosures translates a named effect into its undo/redo closure pair
// against the capability interface. The switch is exhaustive over effect
// kinds; adding a new kind is a single-point, compile-visible change here.
//
// Translation table:
//
//	added_phone(id, v)     undo: RemovePhoneNumber(v, id)        redo: AddPhoneNumber(v, id)
//	added_email(id, v)     undo: RemoveEmailAddress(v, id)       redo: AddEmailAddress(v, id)
//	added_to_group(id, g)  undo: RemoveFromGroup(id, g)          redo: AddToGroup(id, g)
//	archived_contact(id)   undo: RemoveFromGroup(id, archive)    redo: ArchiveContact(id)
//	updated_name(id, ...)  undo: UpdateFullName(id, previous)    redo: UpdateFullName(id, new)
func effectClosures(effect types.Effect, performer storage.ActionPerformer) (undoFn, redoFn func(ctx context.Context) error, err error) {
	if performer == nil {
		return nil, nil, fmt.Errorf("action performer is required")
	}

	switch effect.Kind {
	case types.EffectAddedPhone:
		undoFn = func(ctx context.Context) error {
			return performer.RemovePhoneNumber(ctx, effect.Value, effect.ContactID)
		}
		redoFn = func(ctx context.Context) error {
			return performer.AddPhoneNumber(ctx, effect.Value, "", effect.ContactID)
		}

	case types.EffectAddedEmail:
		undoFn = func(ctx context.Context) error {
			return performer.RemoveEmailAddress(ctx, effect.Value, effect.ContactID)
		}
		redoFn = func(ctx context.Context) error {
			return performer.AddEmailAddress(ctx, effect.Value, "", effect.ContactID)
		}

	case types.EffectAddedToGroup:
		undoFn = func(ctx context.Context) error {
			return performer.RemoveFromGroup(ctx, effect.ContactID, effect.GroupName)
		}
		redoFn = func(ctx context.Context) error {
			return performer.AddToGroup(ctx, effect.ContactID, effect.GroupName)
		}

	case types.EffectArchivedContact:
		undoFn = func(ctx context.Context) error {
			return performer.RemoveFromGroup(ctx, effect.ContactID, storage.ArchiveGroupName)
		}
		redoFn = func(ctx context.Context) error {
			return performer.ArchiveContact(ctx, effect.ContactID)
		}

	case types.EffectUpdatedName:
		previous := storage.NameComponents{
			Given:  effect.PreviousGiven,
			Family: effect.PreviousFamily,
		}
		undoFn = func(ctx context.Context) error {
			return performer.UpdateFullName(ctx, effect.ContactID, previous.FullName())
		}
		redoFn = func(ctx context.Context) error {
			return performer.UpdateFullName(ctx, effect.ContactID, effect.Value)
		}

	default:
		return nil, nil, fmt.Errorf("unknown effect kind: %s", effect.Kind)
	}

	return undoFn, redoFn, nil
}
