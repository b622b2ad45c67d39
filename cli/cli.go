package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"github.com/burrow-social/burrow/util"
	"github.com/google/uuid"
)

// Database interface for admin CLI operations
type Database interface {
	ReadLocalPersonByUsername(username string) (error, *domain.Person)
	ReadPersonByActorURI(uri string) (error, *domain.Person)
	ReadCommunityByActorURI(uri string) (error, *domain.Community)
	ReadCommunityById(id uuid.UUID) (error, *domain.Community)
	ReadLocalCommunityByName(name string) (error, *domain.Community)
	ReadPostByObjectURI(uri string) (error, *domain.Post)
	ReadCommentByObjectURI(uri string) (error, *domain.Comment)

	RemoveCommunity(form *domain.ModRemoveCommunity) error
	RemovePost(form *domain.ModRemovePost) error
	RemoveComment(form *domain.ModRemoveComment) error

	CreateFollow(follow *domain.Follow) error
	DeleteFollow(followerId, followeeId uuid.UUID, kind domain.FolloweeKind) error
	ReadFollowerInboxes(followeeId uuid.UUID, kind domain.FolloweeKind) (error, *[]string)

	SaveLocalSite(site *domain.LocalSite) error
	ReadLocalSite() (error, *domain.LocalSite)
	UpsertInstance(inst *domain.Instance) error
}

// Sender hands built activities to the outbound pipeline. Satisfied by
// *federation.Outbound.
type Sender interface {
	Send(act *federation.Activity, inboxes []string) error
}

// Handler processes admin CLI commands
type Handler struct {
	db       Database
	sender   Sender
	cfg      federation.Config
	output   *Output
	jsonMode bool
}

// NewHandler creates a new CLI handler writing to w
func NewHandler(w io.Writer, db Database, sender Sender, cfg federation.Config) *Handler {
	return &Handler{db: db, sender: sender, cfg: cfg, output: NewOutput(w, false)}
}

// Execute parses and executes a CLI command
func (h *Handler) Execute(args []string) error {
	args, h.jsonMode = parseGlobalFlags(args)
	h.output.jsonMode = h.jsonMode

	if len(args) == 0 {
		return h.showHelp()
	}

	cmd := strings.ToLower(args[0])
	cmdArgs := args[1:]

	switch cmd {
	case "remove-post":
		return h.handleRemovePost(cmdArgs)
	case "remove-comment":
		return h.handleRemoveComment(cmdArgs)
	case "remove-community":
		return h.handleRemoveCommunity(cmdArgs)
	case "follow":
		return h.handleFollow(cmdArgs)
	case "unfollow":
		return h.handleUnfollow(cmdArgs)
	case "federation":
		return h.handleFederation(cmdArgs)
	case "allow":
		return h.handleInstance(cmdArgs, true)
	case "block":
		return h.handleInstance(cmdArgs, false)
	case "--help", "-h", "help":
		return h.showHelp()
	default:
		err := fmt.Errorf("unknown command: %s", cmd)
		h.output.Error(err)
		return err
	}
}

// parseGlobalFlags extracts global flags like --json from args
func parseGlobalFlags(args []string) ([]string, bool) {
	jsonMode := false
	var filtered []string

	for _, arg := range args {
		switch arg {
		case "--json", "-j":
			jsonMode = true
		default:
			filtered = append(filtered, arg)
		}
	}

	return filtered, jsonMode
}

// localAdmin resolves the acting moderator and checks admin standing.
func (h *Handler) localAdmin(username string) (*domain.Person, error) {
	if username == "" {
		return nil, fmt.Errorf("missing -by <username>")
	}
	err, person := h.db.ReadLocalPersonByUsername(username)
	if err != nil || person == nil {
		return nil, fmt.Errorf("no local user %q", username)
	}
	if !person.Admin {
		return nil, fmt.Errorf("%s is not an admin", username)
	}
	return person, nil
}

// showHelp displays help information
func (h *Handler) showHelp() error {
	if h.output.IsJSON() {
		help := HelpResponse{
			Version: util.GetVersion(),
			Commands: []HelpCommand{
				{Name: "remove-post", Usage: "remove-post <object-uri> -by <admin> [-r <reason>]"},
				{Name: "remove-comment", Usage: "remove-comment <object-uri> -by <admin> [-r <reason>]"},
				{Name: "remove-community", Usage: "remove-community <name> -by <admin> [-r <reason>]"},
				{Name: "follow", Usage: "follow <actor-uri> -by <username>"},
				{Name: "unfollow", Usage: "unfollow <actor-uri> -by <username>"},
				{Name: "federation", Usage: "federation enable|disable"},
				{Name: "allow", Usage: "allow <domain>"},
				{Name: "block", Usage: "block <domain>"},
			},
		}
		h.output.JSON(help)
		return nil
	}

	h.output.Println("Usage: burrow [flags] <command>")
	h.output.Println("")
	h.output.Println("Commands:")
	h.output.Println("  remove-post <object-uri> -by <admin> [-r <reason>]")
	h.output.Println("  remove-comment <object-uri> -by <admin> [-r <reason>]")
	h.output.Println("  remove-community <name> -by <admin> [-r <reason>]")
	h.output.Println("  follow <actor-uri> -by <username>")
	h.output.Println("  unfollow <actor-uri> -by <username>")
	h.output.Println("  federation enable|disable")
	h.output.Println("  allow <domain>")
	h.output.Println("  block <domain>")
	h.output.Println("")
	h.output.Println("Global flags:")
	h.output.Println("  --json, -j   output in JSON format")
	return nil
}
