package cli

import (
	"fmt"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"github.com/google/uuid"
)

// modFlags are the arguments shared by the remove commands.
type modFlags struct {
	target string
	by     string
	reason *string
}

func parseModFlags(args []string) (*modFlags, error) {
	f := &modFlags{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-by":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-by requires a value")
			}
			i++
			f.by = args[i]
		case "-r":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-r requires a value")
			}
			i++
			reason := args[i]
			f.reason = &reason
		default:
			if f.target != "" {
				return nil, fmt.Errorf("unexpected argument: %s", args[i])
			}
			f.target = args[i]
		}
	}
	if f.target == "" {
		return nil, fmt.Errorf("missing target")
	}
	return f, nil
}

func (h *Handler) handleRemovePost(args []string) error {
	flags, err := parseModFlags(args)
	if err != nil {
		h.output.Error(err)
		return err
	}

	admin, err := h.localAdmin(flags.by)
	if err != nil {
		h.output.Error(err)
		return err
	}

	err, post := h.db.ReadPostByObjectURI(flags.target)
	if err != nil || post == nil {
		err = fmt.Errorf("no post with object uri %s", flags.target)
		h.output.Error(err)
		return err
	}

	form := &domain.ModRemovePost{
		Id:          uuid.New(),
		ModPersonId: admin.Id,
		PostId:      post.Id,
		Reason:      flags.reason,
		Removed:     true,
		CreatedAt:   time.Now(),
	}
	if err := h.db.RemovePost(form); err != nil {
		h.output.Error(err)
		return err
	}

	err, community := h.db.ReadCommunityById(post.CommunityId)
	if err != nil || community == nil {
		err = fmt.Errorf("post %s has no community", post.Id)
		h.output.Error(err)
		return err
	}

	act := federation.BuildDelete(h.cfg, admin, post.ObjectURI, federation.PublicAudience,
		community, flags.reason, true)
	if err := h.sendModeration(act, community); err != nil {
		h.output.Error(err)
		return err
	}

	h.reportRemoval("post", post.ObjectURI, flags.reason, act.ID)
	return nil
}

func (h *Handler) handleRemoveComment(args []string) error {
	flags, err := parseModFlags(args)
	if err != nil {
		h.output.Error(err)
		return err
	}

	admin, err := h.localAdmin(flags.by)
	if err != nil {
		h.output.Error(err)
		return err
	}

	err, comment := h.db.ReadCommentByObjectURI(flags.target)
	if err != nil || comment == nil {
		err = fmt.Errorf("no comment with object uri %s", flags.target)
		h.output.Error(err)
		return err
	}

	form := &domain.ModRemoveComment{
		Id:          uuid.New(),
		ModPersonId: admin.Id,
		CommentId:   comment.Id,
		Reason:      flags.reason,
		Removed:     true,
		CreatedAt:   time.Now(),
	}
	if err := h.db.RemoveComment(form); err != nil {
		h.output.Error(err)
		return err
	}

	act := federation.BuildDelete(h.cfg, admin, comment.ObjectURI, federation.PublicAudience,
		nil, flags.reason, true)
	err, inboxes := h.db.ReadFollowerInboxes(comment.CreatorId, domain.FolloweePerson)
	if err != nil {
		h.output.Error(err)
		return err
	}
	if err := h.sender.Send(act, *inboxes); err != nil {
		h.output.Error(err)
		return err
	}

	h.reportRemoval("comment", comment.ObjectURI, flags.reason, act.ID)
	return nil
}

func (h *Handler) handleRemoveCommunity(args []string) error {
	flags, err := parseModFlags(args)
	if err != nil {
		h.output.Error(err)
		return err
	}

	admin, err := h.localAdmin(flags.by)
	if err != nil {
		h.output.Error(err)
		return err
	}

	err, community := h.db.ReadLocalCommunityByName(flags.target)
	if err != nil || community == nil {
		err = fmt.Errorf("no local community %q", flags.target)
		h.output.Error(err)
		return err
	}

	form := &domain.ModRemoveCommunity{
		Id:          uuid.New(),
		ModPersonId: admin.Id,
		CommunityId: community.Id,
		Reason:      flags.reason,
		Removed:     true,
		CreatedAt:   time.Now(),
	}
	if err := h.db.RemoveCommunity(form); err != nil {
		h.output.Error(err)
		return err
	}

	act := federation.BuildDelete(h.cfg, admin, community.ActorURI, federation.PublicAudience,
		community, flags.reason, true)
	if err := h.sendModeration(act, community); err != nil {
		h.output.Error(err)
		return err
	}

	h.reportRemoval("community", community.Name, flags.reason, act.ID)
	return nil
}

// sendModeration delivers a moderation activity: to the community's own
// inbox when it lives elsewhere, to its remote followers when it is ours.
func (h *Handler) sendModeration(act *federation.Activity, community *domain.Community) error {
	if !community.Local {
		return h.sender.Send(act, []string{community.DeliveryInbox()})
	}
	err, inboxes := h.db.ReadFollowerInboxes(community.Id, domain.FolloweeCommunity)
	if err != nil {
		return err
	}
	return h.sender.Send(act, *inboxes)
}

func (h *Handler) reportRemoval(kind, target string, reason *string, activityID string) {
	resp := RemoveResponse{Kind: kind, Target: target, Activity: activityID}
	if reason != nil {
		resp.Reason = *reason
	}
	h.output.JSON(resp)
	h.output.Success("Removed %s %s\n", kind, target)
}
