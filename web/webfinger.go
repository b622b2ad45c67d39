package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HandleWebfinger resolves acct:name@host for local persons and
// communities. Communities and persons share one name lookup order, person
// first, matching how handles are minted.
func (s *Server) HandleWebfinger(c *gin.Context) {
	resource := c.Query("resource")
	name, host, ok := parseAcct(resource)
	if !ok || host != s.cfg.Hostname {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}

	var href string
	if err, person := s.db.ReadLocalPersonByUsername(name); err == nil && person != nil {
		href = person.ActorURI
	} else if err, community := s.db.ReadLocalCommunityByName(name); err == nil && community != nil {
		href = community.ActorURI
	} else {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}

	c.Header("Content-Type", "application/jrd+json; charset=utf-8")
	c.JSON(http.StatusOK, gin.H{
		"subject": fmt.Sprintf("acct:%s@%s", name, host),
		"links": []gin.H{
			{
				"rel":  "self",
				"type": "application/activity+json",
				"href": href,
			},
		},
	})
}

// parseAcct splits "acct:name@host" into its parts.
func parseAcct(resource string) (name, host string, ok bool) {
	acct, found := strings.CutPrefix(resource, "acct:")
	if !found {
		return "", "", false
	}
	acct = strings.TrimPrefix(acct, "@")
	parts := strings.SplitN(acct, "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
