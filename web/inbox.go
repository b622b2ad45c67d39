package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/burrow-social/burrow/activitypub"
	"github.com/burrow-social/burrow/domain"
	"github.com/burrow-social/burrow/federation"
	"github.com/gin-gonic/gin"
)

// Database is the storage surface the HTTP layer consumes. *db.DB
// satisfies it.
type Database interface {
	activitypub.Database
	ReadLedgerEntry(apID string) (error, *domain.LedgerEntry)
	ReadLocalPersonByUsername(username string) (error, *domain.Person)
	ReadLocalCommunityByName(name string) (error, *domain.Community)
}

// Receiver processes one verified inbound activity. Satisfied by
// *federation.Dispatcher.
type Receiver interface {
	Receive(act *federation.Activity, actor *domain.Person) error
}

// Server carries the collaborators shared by all HTTP handlers.
type Server struct {
	db         Database
	dispatcher Receiver
	cfg        federation.Config
	client     activitypub.HTTPClient
}

func NewServer(db Database, dispatcher Receiver, cfg federation.Config, client activitypub.HTTPClient) *Server {
	if client == nil {
		client = activitypub.NewDefaultHTTPClient(10 * time.Second)
	}
	return &Server{db: db, dispatcher: dispatcher, cfg: cfg, client: client}
}

// HandleInbox processes incoming ActivityPub activities: authenticate the
// sender, parse the envelope, then hand it to the dispatcher.
func (s *Server) HandleInbox(c *gin.Context) {
	if c.GetHeader("Signature") == "" {
		log.Printf("Inbox: Missing HTTP signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing signature"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		log.Printf("Inbox: Failed to read body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	act, err := federation.ParseActivity(body)
	if err != nil {
		log.Printf("Inbox: Failed to parse activity: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity"})
		return
	}

	log.Printf("Inbox: Received %s from %s", act.Type, act.Actor)

	// Fetch the claimed actor, then check the request is really signed by it.
	actor, err := activitypub.GetOrFetchPersonWithDeps(act.Actor, s.client, s.db)
	if err != nil {
		log.Printf("Inbox: Failed to fetch actor %s: %v", act.Actor, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to verify actor"})
		return
	}

	if _, err := activitypub.VerifyRequest(c.Request, actor.PublicKeyPem); err != nil {
		log.Printf("Inbox: Signature verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	if err := s.dispatcher.Receive(act, actor); err != nil {
		s.renderReceiveError(c, act, err)
		return
	}

	c.Status(http.StatusOK)
}

// renderReceiveError maps dispatcher outcomes onto HTTP statuses. A replay
// is acknowledged, not failed, so the sender stops retrying.
func (s *Server) renderReceiveError(c *gin.Context, act *federation.Activity, err error) {
	switch {
	case errors.Is(err, federation.ErrDuplicate):
		c.Status(http.StatusAccepted)
	case federation.IsDomainRejected(err), errors.Is(err, federation.ErrForbidden):
		log.Printf("Inbox: Rejected %s: %v", act.ID, err)
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, federation.ErrObjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
	case errors.Is(err, federation.ErrMalformedActivity), errors.Is(err, federation.ErrActorMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, federation.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Not implemented"})
	default:
		log.Printf("Inbox: Failed to process %s: %v", act.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed"})
	}
}
