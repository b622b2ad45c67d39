package federation

import (
	"fmt"
	"log"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// receiveFollow applies an inbound Follow: the remote actor starts
// following a local person or community. Creating an already existing
// relationship is a no-op upsert; applying the same transition twice yields
// the same terminal state.
func (d *Dispatcher) receiveFollow(act *Activity, actor *domain.Person) error {
	followee, err := resolveFollowee(d.db, act.Object.ObjectID())
	if err != nil {
		return err
	}

	follow := &domain.Follow{
		Id:           uuid.New(),
		FollowerId:   actor.Id,
		FolloweeKind: followee.Kind(),
		URI:          act.ID,
		Pending:      false,
		CreatedAt:    time.Now(),
	}
	if followee.Community != nil {
		follow.FolloweeId = followee.Community.Id
	} else {
		follow.FolloweeId = followee.Person.Id
	}

	if err := d.db.CreateFollow(follow); err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	log.Printf("Federation: %s now follows %s", actor.ActorURI, act.Object.ObjectID())
	return nil
}

// receiveUndoFollow applies an inbound Undo wrapping a Follow. The actor
// consistency between outer and inner activity was checked during
// verification. Unfollowing a relationship that does not exist is a
// successful no-op; duplicated delivery must not fail.
func (d *Dispatcher) receiveUndoFollow(act *Activity, actor *domain.Person) error {
	inner := act.Object.Nested
	followee, err := resolveFollowee(d.db, inner.Object.ObjectID())
	if err != nil {
		return err
	}

	var followeeId uuid.UUID
	if followee.Community != nil {
		followeeId = followee.Community.Id
	} else {
		followeeId = followee.Person.Id
	}

	if err := d.db.DeleteFollow(actor.Id, followeeId, followee.Kind()); err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	log.Printf("Federation: %s unfollowed %s", actor.ActorURI, inner.Object.ObjectID())
	return nil
}
