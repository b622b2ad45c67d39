package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlePersonActor serves a local person as an ActivityPub Person
// document.
func (s *Server) HandlePersonActor(c *gin.Context) {
	err, person := s.db.ReadLocalPersonByUsername(c.Param("username"))
	if err != nil || person == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.Header("Content-Type", "application/activity+json; charset=utf-8")
	c.JSON(http.StatusOK, gin.H{
		"@context":          "https://www.w3.org/ns/activitystreams",
		"id":                person.ActorURI,
		"type":              "Person",
		"preferredUsername": person.Username,
		"inbox":             person.InboxURI,
		"endpoints": gin.H{
			"sharedInbox": s.cfg.BaseURL() + "/inbox",
		},
		"publicKey": gin.H{
			"id":           person.ActorURI + "#main-key",
			"owner":        person.ActorURI,
			"publicKeyPem": person.PublicKeyPem,
		},
	})
}

// HandleCommunityActor serves a local community as an ActivityPub Group
// document. Removed and deleted communities answer 410.
func (s *Server) HandleCommunityActor(c *gin.Context) {
	err, community := s.db.ReadLocalCommunityByName(c.Param("name"))
	if err != nil || community == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
		return
	}
	if community.Removed || community.Deleted {
		c.JSON(http.StatusGone, gin.H{"error": "Community no longer available"})
		return
	}

	c.Header("Content-Type", "application/activity+json; charset=utf-8")
	c.JSON(http.StatusOK, gin.H{
		"@context":          "https://www.w3.org/ns/activitystreams",
		"id":                community.ActorURI,
		"type":              "Group",
		"preferredUsername": community.Name,
		"name":              community.Title,
		"inbox":             community.InboxURI,
		"endpoints": gin.H{
			"sharedInbox": s.cfg.BaseURL() + "/inbox",
		},
	})
}
