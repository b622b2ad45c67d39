package federation

import (
	"fmt"
	"log"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// receiveDelete applies an inbound Delete. A single wire type carries two
// operations: no summary means the owner is deleting their own content, a
// present summary (the empty string included) means a moderator removal
// with an auditable reason.
func (d *Dispatcher) receiveDelete(act *Activity, actor *domain.Person) error {
	objectURI := act.Object.ObjectID()

	if act.Summary != nil {
		// Empty string distinguishes remove-without-reason from self-delete
		// on the wire. Normalize back to nil before the audit write so the
		// stored reason is absent, not "".
		reason := act.Summary
		if *reason == "" {
			reason = nil
		}
		return d.receiveRemoveAction(actor, objectURI, reason)
	}

	return d.receiveDeleteAction(actor, objectURI)
}

// receiveRemoveAction applies a moderator removal to the resolved object.
// The moderation log row and the removed flag flip happen in one
// transaction per object kind.
func (d *Dispatcher) receiveRemoveAction(actor *domain.Person, objectURI string, reason *string) error {
	obj, err := resolveDeletable(d.db, objectURI)
	if err != nil {
		return err
	}

	switch o := obj.(type) {
	case DeletableCommunity:
		if o.Local {
			return fmt.Errorf("%w: only local admin can remove community", ErrForbidden)
		}
		form := &domain.ModRemoveCommunity{
			Id:          uuid.New(),
			ModPersonId: actor.Id,
			CommunityId: o.Id,
			Reason:      reason,
			Removed:     true,
			CreatedAt:   time.Now(),
		}
		if err := d.db.RemoveCommunity(form); err != nil {
			return fmt.Errorf("failed to remove community %s: %w", o.Name, err)
		}
		d.notify(domain.NotifyRemoveCommunity, o.Id)

	case DeletablePost:
		form := &domain.ModRemovePost{
			Id:          uuid.New(),
			ModPersonId: actor.Id,
			PostId:      o.Id,
			Reason:      reason,
			Removed:     true,
			CreatedAt:   time.Now(),
		}
		if err := d.db.RemovePost(form); err != nil {
			return fmt.Errorf("failed to remove post %s: %w", o.Id, err)
		}
		d.notify(domain.NotifyRemovePost, o.Id)

	case DeletableComment:
		form := &domain.ModRemoveComment{
			Id:          uuid.New(),
			ModPersonId: actor.Id,
			CommentId:   o.Id,
			Reason:      reason,
			Removed:     true,
			CreatedAt:   time.Now(),
		}
		if err := d.db.RemoveComment(form); err != nil {
			return fmt.Errorf("failed to remove comment %s: %w", o.Id, err)
		}
		d.notify(domain.NotifyRemoveComment, o.Id)

	case DeletablePrivateMessage:
		return fmt.Errorf("%w: private message removal", ErrNotImplemented)

	default:
		return fmt.Errorf("%w: unknown deletable kind %T", ErrNotImplemented, obj)
	}

	log.Printf("Federation: Removed %s by moderator %s", objectURI, actor.ActorURI)
	return nil
}

// receiveDeleteAction applies a self-delete: the owner marks their own
// content deleted. No moderation record is written.
func (d *Dispatcher) receiveDeleteAction(actor *domain.Person, objectURI string) error {
	obj, err := resolveDeletable(d.db, objectURI)
	if err != nil {
		return err
	}

	switch o := obj.(type) {
	case DeletableCommunity:
		if err := d.db.UpdateCommunityDeleted(o.Id, true); err != nil {
			return fmt.Errorf("failed to delete community %s: %w", o.Name, err)
		}
		d.notify(domain.NotifyDeleteCommunity, o.Id)

	case DeletablePost:
		if err := d.db.UpdatePostDeleted(o.Id, true); err != nil {
			return fmt.Errorf("failed to delete post %s: %w", o.Id, err)
		}
		d.notify(domain.NotifyDeletePost, o.Id)

	case DeletableComment:
		if err := d.db.UpdateCommentDeleted(o.Id, true); err != nil {
			return fmt.Errorf("failed to delete comment %s: %w", o.Id, err)
		}
		d.notify(domain.NotifyDeleteComment, o.Id)

	case DeletablePrivateMessage:
		return fmt.Errorf("%w: private message deletion", ErrNotImplemented)

	default:
		return fmt.Errorf("%w: unknown deletable kind %T", ErrNotImplemented, obj)
	}

	log.Printf("Federation: Deleted %s by owner %s", objectURI, actor.ActorURI)
	return nil
}
