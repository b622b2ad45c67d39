package federation

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

// Dispatcher orchestrates the inbound pipeline: verify, dedupe through the
// ledger, resolve, apply, notify. The transport layer hands it an already
// authenticated (activity, claimed actor) pair; no side effect happens
// before the ledger insert succeeds, which makes duplicated or retried
// delivery safe.
type Dispatcher struct {
	db       Database
	cfg      Config
	notifier Notifier
}

func NewDispatcher(db Database, cfg Config, notifier Notifier) *Dispatcher {
	return &Dispatcher{db: db, cfg: cfg, notifier: notifier}
}

// Receive processes one inbound activity. ErrDuplicate is the successful
// no-op outcome for replayed delivery; every other error is a processing
// failure surfaced to the caller, never retried here.
func (d *Dispatcher) Receive(act *Activity, actor *domain.Person) error {
	if err := d.Verify(act, actor); err != nil {
		return err
	}

	data, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("failed to serialize activity: %w", err)
	}

	// The unique ap_id insert is the sole dedupe gate. A conflict means the
	// activity was already processed and nothing below may run again.
	entry := &domain.LedgerEntry{
		Id:        uuid.New(),
		ApID:      act.ID,
		Data:      string(data),
		Local:     false,
		Sensitive: act.Type == TypeFollow || act.Type == TypeUndo,
	}
	if err := d.db.CreateLedgerEntry(entry); err != nil {
		if errors.Is(err, ErrDuplicate) {
			log.Printf("Federation: Activity %s already processed, skipping", act.ID)
			return ErrDuplicate
		}
		return fmt.Errorf("failed to store activity %s: %w", act.ID, err)
	}

	switch act.Type {
	case TypeDelete:
		return d.receiveDelete(act, actor)
	case TypeFollow:
		return d.receiveFollow(act, actor)
	case TypeUndo:
		return d.receiveUndoFollow(act, actor)
	default:
		// Unreachable after validation, kept for hand-built activities.
		return fmt.Errorf("%w: unrecognized activity type %q", ErrMalformedActivity, act.Type)
	}
}

// Verify checks structure, actor consistency and domain policy, in that
// order. A failure here is fatal for the activity: no ledger insert and no
// further processing occurs.
func (d *Dispatcher) Verify(act *Activity, actor *domain.Person) error {
	if err := validateActivity(act, true); err != nil {
		return err
	}

	if actor == nil || actor.ActorURI != act.Actor {
		return fmt.Errorf("%w: activity actor %s does not match authenticated actor", ErrActorMismatch, act.Actor)
	}

	if act.Type == TypeUndo && act.Object.Nested.Actor != act.Actor {
		return fmt.Errorf("%w: Undo actor %s differs from inner actor %s",
			ErrActorMismatch, act.Actor, act.Object.Nested.Actor)
	}

	strict, err := d.strictForObject(act)
	if err != nil {
		return err
	}

	snap, err := LoadPolicy(d.db)
	if err != nil {
		return err
	}
	if err := CheckApubIDStrict(act.ID, strict, snap, d.cfg); err != nil {
		return err
	}
	if err := CheckApubIDStrict(act.Actor, strict, snap, d.cfg); err != nil {
		return err
	}

	return nil
}

// strictForObject reports whether the activity's target is, or belongs to,
// a community. Objects we cannot resolve yet are checked permissively; the
// resolve stage decides their fate after the dedupe gate.
func (d *Dispatcher) strictForObject(act *Activity) (bool, error) {
	objectURI := act.Object.ObjectID()
	if act.Type == TypeUndo {
		objectURI = act.Object.Nested.Object.ObjectID()
	}

	err, community := d.db.ReadCommunityByActorURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to read community %s: %w", objectURI, err)
	}
	if community != nil {
		return true, nil
	}

	err, post := d.db.ReadPostByObjectURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to read post %s: %w", objectURI, err)
	}
	if post != nil {
		return true, nil
	}

	err, comment := d.db.ReadCommentByObjectURI(objectURI)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to read comment %s: %w", objectURI, err)
	}
	if comment != nil {
		return true, nil
	}

	return false, nil
}

func (d *Dispatcher) notify(op domain.NotifyOp, entityId uuid.UUID) {
	if d.notifier != nil {
		d.notifier.Notify(op, entityId)
	}
}
