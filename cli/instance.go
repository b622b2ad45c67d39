package cli

import (
	"fmt"
	"time"

	"github.com/burrow-social/burrow/domain"
	"github.com/google/uuid"
)

func (h *Handler) handleFederation(args []string) error {
	if len(args) != 1 || (args[0] != "enable" && args[0] != "disable") {
		err := fmt.Errorf("usage: federation enable|disable")
		h.output.Error(err)
		return err
	}

	enabled := args[0] == "enable"
	if err := h.db.SaveLocalSite(&domain.LocalSite{FederationEnabled: enabled}); err != nil {
		h.output.Error(err)
		return err
	}

	h.output.JSON(map[string]any{"federation_enabled": enabled})
	h.output.Success("Federation %sd\n", args[0])
	return nil
}

func (h *Handler) handleInstance(args []string, allow bool) error {
	if len(args) != 1 {
		err := fmt.Errorf("missing domain")
		h.output.Error(err)
		return err
	}

	inst := &domain.Instance{
		Id:      uuid.New(),
		Domain:  args[0],
		Allowed: allow,
		Blocked: !allow,
	}
	if err := h.db.UpsertInstance(inst); err != nil {
		h.output.Error(err)
		return err
	}

	verb := "Blocked"
	if allow {
		verb = "Allowed"
	}
	h.output.JSON(map[string]any{"domain": args[0], "allowed": allow, "blocked": !allow, "updated_at": time.Now()})
	h.output.Success("%s %s\n", verb, args[0])
	return nil
}
