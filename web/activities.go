package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// HandleActivity serves a locally-generated activity by its id. Follow and
// Undo envelopes are never served back out, and remotely-received entries
// stay private; both answer 404 exactly like an id that never existed.
func (s *Server) HandleActivity(c *gin.Context) {
	apID := fmt.Sprintf("%s/activities/%s/%s", s.cfg.BaseURL(), c.Param("kind"), c.Param("id"))

	err, entry := s.db.ReadLedgerEntry(apID)
	if err != nil || entry == nil || entry.Sensitive || !entry.Local {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	c.Header("Content-Type", "application/activity+json; charset=utf-8")
	c.Render(http.StatusOK, render.String{Format: "%s", Data: []any{entry.Data}})
}
