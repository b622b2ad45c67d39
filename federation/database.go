package federation

import (
	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// Database is the storage contract the federation core consumes. The db
// package implements it against sqlite; tests use MockDatabase.
type Database interface {
	// Site and instance policy tables.
	ReadLocalSite() (error, *domain.LocalSite)
	ReadAllowlist() (error, *[]domain.Instance)
	ReadBlocklist() (error, *[]domain.Instance)

	// Activity ledger. CreateLedgerEntry must report a unique-constraint
	// conflict on the ap_id column as ErrDuplicate; the insert itself is the
	// atomic arbiter under concurrent delivery.
	CreateLedgerEntry(entry *domain.LedgerEntry) error
	ReadLedgerEntry(apID string) (error, *domain.LedgerEntry)

	// Object resolution by IRI.
	ReadPersonByActorURI(uri string) (error, *domain.Person)
	ReadCommunityByActorURI(uri string) (error, *domain.Community)
	ReadCommunityById(id uuid.UUID) (error, *domain.Community)
	ReadPostByObjectURI(uri string) (error, *domain.Post)
	ReadCommentByObjectURI(uri string) (error, *domain.Comment)
	ReadPrivateMessageByObjectURI(uri string) (error, *domain.PrivateMessage)

	// Moderator removals. Each call writes the moderation log row and flips
	// the entity's removed flag inside one transaction.
	RemoveCommunity(form *domain.ModRemoveCommunity) error
	RemovePost(form *domain.ModRemovePost) error
	RemoveComment(form *domain.ModRemoveComment) error

	// Self-deletion flag updates.
	UpdateCommunityDeleted(id uuid.UUID, deleted bool) error
	UpdatePostDeleted(id uuid.UUID, deleted bool) error
	UpdateCommentDeleted(id uuid.UUID, deleted bool) error

	// Follow relationships, keyed by (follower, followee, kind). CreateFollow
	// upserts; DeleteFollow of a missing relationship is a successful no-op.
	CreateFollow(follow *domain.Follow) error
	DeleteFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) error
}

// Notifier is the push collaborator informed after a successful mutation.
// Implementations must be fire-and-forget; the dispatcher neither waits nor
// retries.
type Notifier interface {
	Notify(op domain.NotifyOp, entityId uuid.UUID)
}

// Deliverer is the outbound delivery collaborator. Send hands an activity
// plus its recipient inboxes to the delivery subsystem and returns once the
// work is accepted; it makes no delivery or ordering guarantee.
type Deliverer interface {
	Send(activityJSON string, inboxes []string) error
}
