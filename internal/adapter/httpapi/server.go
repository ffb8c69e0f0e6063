// Package httpapi exposes the engine over HTTP. The snapshot surface is
// read-only; category writes are delegated to the external record
// providers and followed by a full aggregation re-run, so every visible
// snapshot is a freshly recomputed whole.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// Aggregator is the slice of the aggregation engine the HTTP surface
// needs: the snapshot read accessor and the full-run trigger.
type Aggregator interface {
	Snapshot() (domain.Snapshot, bool)
	Refresh(ctx context.Context)
}

// Server wires the engine and its collaborators into a gin router.
type Server struct {
	agg        Aggregator
	providers  map[domain.Category]domain.RecordProvider
	sessions   domain.SessionReader
	goals      domain.GoalRepository
	adminToken string
}

// NewServer creates a new HTTP server instance.
func NewServer(
	agg Aggregator,
	providers []domain.RecordProvider,
	sessions domain.SessionReader,
	goals domain.GoalRepository,
	adminToken string,
) *Server {
	byCategory := make(map[domain.Category]domain.RecordProvider, len(providers))
	for _, p := range providers {
		byCategory[p.ProviderCategory()] = p
	}
	return &Server{
		agg:        agg,
		providers:  byCategory,
		sessions:   sessions,
		goals:      goals,
		adminToken: adminToken,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/networth", s.getNetWorthHandler)
	r.POST("/networth/refresh", s.refreshHandler)

	r.POST("/records/:category", s.createRecordHandler)
	r.DELETE("/records/:category/:id", s.deleteRecordHandler)

	r.GET("/goal", s.getGoalHandler)
	r.PUT("/goal", s.putGoalHandler)

	adminGroup := r.Group("/admin")
	adminGroup.Use(AdminTokenMiddleware(s.adminToken))
	adminGroup.POST("/reset", s.adminResetHandler)
	adminGroup.GET("/export", s.adminExportHandler)
	adminGroup.POST("/import", s.adminImportHandler)

	return r
}

// AdminTokenMiddleware guards the bulk lifecycle endpoints with a static
// bearer token.
func AdminTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// currentIdentity resolves the active identity for a request, or replies
// 401 and returns false. A malformed session reads as logged out here
// too.
func (s *Server) currentIdentity(c *gin.Context) (uuid.UUID, bool) {
	identity, present, err := s.sessions.CurrentIdentity(c.Request.Context())
	if err != nil || !present {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return uuid.Nil, false
	}
	return identity, true
}
