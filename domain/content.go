package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a submission to a community.
type Post struct {
	Id          uuid.UUID
	CommunityId uuid.UUID
	CreatorId   uuid.UUID
	ObjectURI   string
	Title       string
	Body        string
	Removed     bool
	Deleted     bool
	CreatedAt   time.Time
}

// Comment represents a reply to a post.
type Comment struct {
	Id        uuid.UUID
	PostId    uuid.UUID
	CreatorId uuid.UUID
	ObjectURI string
	Content   string
	Removed   bool
	Deleted   bool
	CreatedAt time.Time
}

// PrivateMessage represents a direct message between two persons.
type PrivateMessage struct {
	Id          uuid.UUID
	CreatorId   uuid.UUID
	RecipientId uuid.UUID
	ObjectURI   string
	Content     string
	Deleted     bool
	CreatedAt   time.Time
}
