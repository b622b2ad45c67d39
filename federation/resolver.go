package federation

import (
	"database/sql"
	"fmt"

	"github.com/burrow-social/burrow/domain"
)

// DeletableObject is the closed set of locally-known entity kinds a Delete
// activity can target. Dispatch sites switch over the concrete types; the
// deletable method seals the set.
type DeletableObject interface {
	deletable()
}

type DeletableCommunity struct{ *domain.Community }
type DeletablePost struct{ *domain.Post }
type DeletableComment struct{ *domain.Comment }
type DeletablePrivateMessage struct{ *domain.PrivateMessage }

func (DeletableCommunity) deletable()      {}
func (DeletablePost) deletable()           {}
func (DeletableComment) deletable()        {}
func (DeletablePrivateMessage) deletable() {}

// resolveDeletable turns an opaque object IRI into one of the known entity
// kinds, or ErrObjectNotFound.
func resolveDeletable(db Database, objectURI string) (DeletableObject, error) {
	err, community := db.ReadCommunityByActorURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to resolve community %s: %w", objectURI, err)
	}
	if community != nil {
		return DeletableCommunity{community}, nil
	}

	err, post := db.ReadPostByObjectURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to resolve post %s: %w", objectURI, err)
	}
	if post != nil {
		return DeletablePost{post}, nil
	}

	err, comment := db.ReadCommentByObjectURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to resolve comment %s: %w", objectURI, err)
	}
	if comment != nil {
		return DeletableComment{comment}, nil
	}

	err, pm := db.ReadPrivateMessageByObjectURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to resolve private message %s: %w", objectURI, err)
	}
	if pm != nil {
		return DeletablePrivateMessage{pm}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, objectURI)
}

// Followee is a follow target: exactly one of Person or Community is set.
type Followee struct {
	Person    *domain.Person
	Community *domain.Community
}

func (f Followee) Kind() domain.FolloweeKind {
	if f.Community != nil {
		return domain.FolloweeCommunity
	}
	return domain.FolloweePerson
}

// resolveFollowee looks up a follow target by actor IRI, trying persons
// before communities.
func resolveFollowee(db Database, actorURI string) (Followee, error) {
	err, person := db.ReadPersonByActorURI(actorURI)
	if err != nil && err != sql.ErrNoRows {
		return Followee{}, fmt.Errorf("failed to resolve person %s: %w", actorURI, err)
	}
	if person != nil {
		return Followee{Person: person}, nil
	}

	err, community := db.ReadCommunityByActorURI(actorURI)
	if err != nil && err != sql.ErrNoRows {
		return Followee{}, fmt.Errorf("failed to resolve community %s: %w", actorURI, err)
	}
	if community != nil {
		return Followee{Community: community}, nil
	}

	return Followee{}, fmt.Errorf("%w: %s", ErrObjectNotFound, actorURI)
}
