package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// The bulk lifecycle endpoints operate directly on the authoritative
// record stores and bypass the aggregation engine. They never trigger a
// recompute themselves; callers hit /networth/refresh afterwards.

// adminOwner resolves the target identity from the ownerId query
// parameter, or replies 400 and returns false.
func adminOwner(c *gin.Context) (uuid.UUID, bool) {
	owner, err := uuid.Parse(c.Query("ownerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid ownerId"})
		return uuid.Nil, false
	}
	return owner, true
}

// adminResetHandler deletes every record for an identity, dependents
// before parents.
func (s *Server) adminResetHandler(c *gin.Context) {
	owner, ok := adminOwner(c)
	if !ok {
		return
	}

	order := domain.ReferentialOrder()
	for i := len(order) - 1; i >= 0; i-- {
		category := order[i]
		provider, known := s.providers[category]
		if !known {
			continue
		}
		if err := provider.DeleteAll(c.Request.Context(), owner); err != nil {
			logrus.WithFields(logrus.Fields{
				"category": category,
				"owner":    owner.String(),
				"error":    err.Error(),
			}).Error("Bulk reset failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "Reset aborted",
				"category": category,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "All records deleted"})
}

// adminExportHandler collects every raw record for an identity, keyed by
// category.
func (s *Server) adminExportHandler(c *gin.Context) {
	owner, ok := adminOwner(c)
	if !ok {
		return
	}

	export := make(map[domain.Category][]domain.RawRecord)
	for _, category := range domain.ReferentialOrder() {
		provider, known := s.providers[category]
		if !known {
			continue
		}
		records, err := provider.GetAll(c.Request.Context(), owner)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"category": category,
				"owner":    owner.String(),
				"error":    err.Error(),
			}).Error("Bulk export failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "Export aborted",
				"category": category,
			})
			return
		}
		export[category] = records
	}
	c.JSON(http.StatusOK, export)
}

// adminImportHandler recreates records from an export payload, parents
// before dependents.
func (s *Server) adminImportHandler(c *gin.Context) {
	owner, ok := adminOwner(c)
	if !ok {
		return
	}

	var payload map[domain.Category][]domain.RawRecord
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid import body"})
		return
	}
	for category := range payload {
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category in import", "category": category})
			return
		}
	}

	imported := 0
	for _, category := range domain.ReferentialOrder() {
		records := payload[category]
		if len(records) == 0 {
			continue
		}
		provider, known := s.providers[category]
		if !known {
			continue
		}
		for _, record := range records {
			if err := provider.Create(c.Request.Context(), owner, record); err != nil {
				logrus.WithFields(logrus.Fields{
					"category": category,
					"owner":    owner.String(),
					"error":    err.Error(),
				}).Error("Bulk import failed")
				c.JSON(http.StatusBadGateway, gin.H{
					"error":    "Import aborted",
					"category": category,
					"imported": imported,
				})
				return
			}
			imported++
		}
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
