package web

import (
	"fmt"
	"log"
	"net/http"

	"github.com/burrow-social/burrow/util"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router builds the HTTP engine: instance metadata always, the federation
// surface only when federation is switched on.
func Router(s *Server, conf *util.AppConfig) *gin.Engine {
	g := gin.Default()
	g.Use(gzip.Gzip(gzip.DefaultCompression))

	// Global rate limiter: 10 requests per second per IP, burst of 20
	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	g.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        util.GetNameAndVersion(),
			"description": conf.Conf.NodeDescription,
			"federation":  conf.Conf.WithFederation,
		})
	})

	if conf.Conf.WithFederation {
		// Stricter rate limit for ActivityPub endpoints: 5 req/sec per IP
		apLimiter := RateLimitMiddleware(NewRateLimiter(rate.Limit(5), 10))

		// Max 1MB request body size for ActivityPub activities
		maxBodySize := MaxBytesMiddleware(1 * 1024 * 1024)

		g.POST("/inbox", apLimiter, maxBodySize, s.HandleInbox)
		g.GET("/activities/:kind/:id", apLimiter, s.HandleActivity)
		g.GET("/u/:username", apLimiter, s.HandlePersonActor)
		g.GET("/c/:name", apLimiter, s.HandleCommunityActor)
		g.GET("/.well-known/webfinger", apLimiter, s.HandleWebfinger)
	}

	return g
}

// Serve runs the engine on the configured host and port, blocking until
// the listener fails.
func Serve(s *Server, conf *util.AppConfig) error {
	addr := fmt.Sprintf("%s:%d", conf.Conf.Host, conf.Conf.HttpPort)
	log.Printf("Starting HTTP server on %s", addr)
	return Router(s, conf).Run(addr)
}
