package federation

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

const activityContext = `"https://www.w3.org/ns/activitystreams"`

// Outbound constructs envelopes for locally-initiated actions and hands
// them to the delivery collaborator. Its contract ends at a successful
// hand-off: it does not await delivery and gives no ordering guarantee
// across distinct activities.
type Outbound struct {
	db        Database
	cfg       Config
	deliverer Deliverer
}

func NewOutbound(db Database, cfg Config, deliverer Deliverer) *Outbound {
	return &Outbound{db: db, cfg: cfg, deliverer: deliverer}
}

// NewActivityID generates a fresh globally-unique activity id under the
// local instance's authority.
func NewActivityID(cfg Config, kind string) string {
	return fmt.Sprintf("%s/activities/%s/%s", cfg.BaseURL(), strings.ToLower(kind), uuid.New())
}

// BuildDelete constructs a Delete envelope. With removal set, the summary
// carries the moderation reason and an absent reason is wired as the empty
// string; without it the summary stays absent, which peers read as a
// self-delete.
func BuildDelete(cfg Config, actor *domain.Person, objectURI, to string, community *domain.Community, reason *string, removal bool) *Activity {
	act := &Activity{
		Context: json.RawMessage(activityContext),
		ID:      NewActivityID(cfg, TypeDelete),
		Type:    TypeDelete,
		Actor:   actor.ActorURI,
		Object:  IdOrNestedObject{ID: objectURI},
		To:      []string{to},
	}
	if removal {
		summary := ""
		if reason != nil {
			summary = *reason
		}
		act.Summary = &summary
	}
	if community != nil {
		act.Cc = []string{community.ActorURI}
		act.Audience = community.ActorURI
	}
	return act
}

// BuildFollow constructs a Follow envelope addressed to the followee.
func BuildFollow(cfg Config, actor *domain.Person, followeeURI string) *Activity {
	return &Activity{
		Context: json.RawMessage(activityContext),
		ID:      NewActivityID(cfg, TypeFollow),
		Type:    TypeFollow,
		Actor:   actor.ActorURI,
		Object:  IdOrNestedObject{ID: followeeURI},
		To:      []string{followeeURI},
	}
}

// BuildUndoFollow constructs an Undo wrapping a fresh Follow of the same
// actor and followee.
func BuildUndoFollow(cfg Config, actor *domain.Person, followeeURI string) *Activity {
	inner := BuildFollow(cfg, actor, followeeURI)
	inner.Context = nil
	return &Activity{
		Context: json.RawMessage(activityContext),
		ID:      NewActivityID(cfg, TypeUndo),
		Type:    TypeUndo,
		Actor:   actor.ActorURI,
		Object:  IdOrNestedObject{ID: inner.ID, Nested: inner},
		To:      []string{followeeURI},
	}
}

// Send records the outbound activity in the ledger and hands it with its
// recipient inboxes to the delivery subsystem. Fire-and-forget: a nil
// return means accepted for delivery, nothing more.
func (o *Outbound) Send(act *Activity, inboxes []string) error {
	data, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("failed to serialize activity: %w", err)
	}

	entry := &domain.LedgerEntry{
		Id:        uuid.New(),
		ApID:      act.ID,
		Data:      string(data),
		Local:     true,
		Sensitive: act.Type == TypeFollow || act.Type == TypeUndo,
	}
	if err := o.db.CreateLedgerEntry(entry); err != nil {
		return fmt.Errorf("failed to store outbound activity %s: %w", act.ID, err)
	}

	if len(inboxes) == 0 {
		log.Printf("Outbox: No inboxes to deliver %s to", act.ID)
		return nil
	}

	if err := o.deliverer.Send(string(data), inboxes); err != nil {
		return fmt.Errorf("failed to hand off %s for delivery: %w", act.ID, err)
	}

	log.Printf("Outbox: Queued %s activity %s to %d inboxes", act.Type, act.ID, len(inboxes))
	return nil
}

// SendDelete builds and sends a Delete/Remove for a locally-initiated
// deletion of the given object.
func (o *Outbound) SendDelete(actor *domain.Person, objectURI, to string, community *domain.Community, reason *string, removal bool, inboxes []string) error {
	act := BuildDelete(o.cfg, actor, objectURI, to, community, reason, removal)
	return o.Send(act, inboxes)
}

// SendUndoFollow builds and sends an unfollow of the given followee.
func (o *Outbound) SendUndoFollow(actor *domain.Person, followee Followee) error {
	var followeeURI, inbox string
	if followee.Community != nil {
		followeeURI = followee.Community.ActorURI
		inbox = followee.Community.DeliveryInbox()
	} else {
		followeeURI = followee.Person.ActorURI
		inbox = followee.Person.DeliveryInbox()
	}
	act := BuildUndoFollow(o.cfg, actor, followeeURI)
	return o.Send(act, []string{inbox})
}
