package domain

import (
	"time"

	"github.com/google/uuid"
)

// FolloweeKind distinguishes the two followable actor kinds.
type FolloweeKind string

const (
	FolloweePerson    FolloweeKind = "person"
	FolloweeCommunity FolloweeKind = "community"
)

// Follow represents a follow relationship, uniquely keyed by
// (follower, followee, kind).
type Follow struct {
	Id           uuid.UUID
	FollowerId   uuid.UUID
	FolloweeId   uuid.UUID
	FolloweeKind FolloweeKind
	URI          string
	Pending      bool
	CreatedAt    time.Time
}

// LedgerEntry is a stored sent or received activity, keyed uniquely by its
// ActivityPub id. Entries are never updated or deleted; the unique key is
// the replay guard for inbound delivery.
type LedgerEntry struct {
	Id        uuid.UUID
	ApID      string
	Data      string // raw activity JSON
	Local     bool
	Sensitive bool
	CreatedAt time.Time
}

// LocalSite holds instance-wide federation settings.
type LocalSite struct {
	FederationEnabled bool
}

// Instance is a known remote instance with its allow/block standing.
type Instance struct {
	Id      uuid.UUID
	Domain  string
	Allowed bool
	Blocked bool
}

// DeliveryQueueItem represents an item in the outbound delivery queue.
type DeliveryQueueItem struct {
	Id           uuid.UUID
	InboxURI     string
	ActivityJSON string
	Attempts     int
	NextRetryAt  time.Time
	CreatedAt    time.Time
}
