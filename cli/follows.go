package cli

import (
	"fmt"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"github.com/google/uuid"
)

func (h *Handler) handleFollow(args []string) error {
	flags, err := parseModFlags(args)
	if err != nil {
		h.output.Error(err)
		return err
	}

	err, follower := h.db.ReadLocalPersonByUsername(flags.by)
	if err != nil || follower == nil {
		err = fmt.Errorf("no local user %q", flags.by)
		h.output.Error(err)
		return err
	}

	followee, err := h.resolveFollowee(flags.target)
	if err != nil {
		h.output.Error(err)
		return err
	}

	act := federation.BuildFollow(h.cfg, follower, flags.target)

	follow := &domain.Follow{
		Id:           uuid.New(),
		FollowerId:   follower.Id,
		FolloweeId:   followee.id,
		FolloweeKind: followee.kind,
		URI:          act.ID,
		Pending:      true,
		CreatedAt:    time.Now(),
	}
	if err := h.db.CreateFollow(follow); err != nil {
		h.output.Error(err)
		return err
	}

	if err := h.sender.Send(act, []string{followee.inbox}); err != nil {
		h.output.Error(err)
		return err
	}

	h.output.JSON(FollowResponse{Follower: follower.ActorURI, Followee: flags.target, Activity: act.ID})
	h.output.Success("Follow request sent to %s\n", flags.target)
	return nil
}

func (h *Handler) handleUnfollow(args []string) error {
	flags, err := parseModFlags(args)
	if err != nil {
		h.output.Error(err)
		return err
	}

	err, follower := h.db.ReadLocalPersonByUsername(flags.by)
	if err != nil || follower == nil {
		err = fmt.Errorf("no local user %q", flags.by)
		h.output.Error(err)
		return err
	}

	followee, err := h.resolveFollowee(flags.target)
	if err != nil {
		h.output.Error(err)
		return err
	}

	// Local relationship goes first: the remote side may have lost the
	// original Follow and still has to accept the Undo.
	if err := h.db.DeleteFollow(follower.Id, followee.id, followee.kind); err != nil {
		h.output.Error(err)
		return err
	}

	act := federation.BuildUndoFollow(h.cfg, follower, flags.target)
	if err := h.sender.Send(act, []string{followee.inbox}); err != nil {
		h.output.Error(err)
		return err
	}

	h.output.JSON(FollowResponse{Follower: follower.ActorURI, Followee: flags.target, Activity: act.ID})
	h.output.Success("Unfollowed %s\n", flags.target)
	return nil
}

type followeeRef struct {
	id    uuid.UUID
	kind  domain.FolloweeKind
	inbox string
}

// resolveFollowee looks the target actor up as a person first, then as a
// community.
func (h *Handler) resolveFollowee(actorURI string) (*followeeRef, error) {
	if err, person := h.db.ReadPersonByActorURI(actorURI); err == nil && person != nil {
		return &followeeRef{id: person.Id, kind: domain.FolloweePerson, inbox: person.DeliveryInbox()}, nil
	}
	if err, community := h.db.ReadCommunityByActorURI(actorURI); err == nil && community != nil {
		return &followeeRef{id: community.Id, kind: domain.FolloweeCommunity, inbox: community.DeliveryInbox()}, nil
	}
	return nil, fmt.Errorf("unknown actor %s", actorURI)
}
