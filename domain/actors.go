package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Person represents a user account, local or remote. Remote persons are
// cached copies refreshed from their home instance.
type Person struct {
	Id             uuid.UUID
	Username       string
	Domain         string
	ActorURI       string
	InboxURI       string
	SharedInboxURI string
	Local          bool
	Admin          bool
	PublicKeyPem   string
	PrivateKeyPem  string // set for local persons only
	LastFetchedAt  time.Time
}

func (p *Person) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tUsername: %s \n\tDomain: %s \n\tLocal: %v", p.Id, p.Username, p.Domain, p.Local)
}

// DeliveryInbox returns the shared inbox when the instance publishes one,
// otherwise the personal inbox.
func (p *Person) DeliveryInbox() string {
	if p.SharedInboxURI != "" {
		return p.SharedInboxURI
	}
	return p.InboxURI
}

// Community represents a group actor. Local == true means this instance is
// authoritative for it; remote moderation activities may never remove it.
type Community struct {
	Id             uuid.UUID
	Name           string
	Title          string
	Domain         string
	ActorURI       string
	InboxURI       string
	SharedInboxURI string
	Local          bool
	Removed        bool
	Deleted        bool
	CreatedAt      time.Time
}

func (c *Community) DeliveryInbox() string {
	if c.SharedInboxURI != "" {
		return c.SharedInboxURI
	}
	return c.InboxURI
}
