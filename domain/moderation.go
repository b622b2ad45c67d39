package domain

import (
	"time"

	"github.com/google/uuid"
)

// Moderation log rows. Each row is written in the same transaction as the
// removed-flag flip on the target entity.

type ModRemoveCommunity struct {
	Id          uuid.UUID
	ModPersonId uuid.UUID
	CommunityId uuid.UUID
	Reason      *string
	Removed     bool
	Expires     *time.Time
	CreatedAt   time.Time
}

type ModRemovePost struct {
	Id          uuid.UUID
	ModPersonId uuid.UUID
	PostId      uuid.UUID
	Reason      *string
	Removed     bool
	CreatedAt   time.Time
}

type ModRemoveComment struct {
	Id          uuid.UUID
	ModPersonId uuid.UUID
	CommentId   uuid.UUID
	Reason      *string
	Removed     bool
	CreatedAt   time.Time
}

// NotifyOp is the operation code handed to the notification broadcaster.
type NotifyOp string

const (
	NotifyRemoveCommunity NotifyOp = "RemoveCommunity"
	NotifyRemovePost      NotifyOp = "RemovePost"
	NotifyRemoveComment   NotifyOp = "RemoveComment"
	NotifyDeleteCommunity NotifyOp = "DeleteCommunity"
	NotifyDeletePost      NotifyOp = "DeletePost"
	NotifyDeleteComment   NotifyOp = "DeleteComment"
)
