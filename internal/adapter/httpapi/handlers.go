package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// getNetWorthHandler returns the current snapshot and the loading flag.
// This surface never errors; a reset or degraded snapshot is still a
// valid snapshot.
func (s *Server) getNetWorthHandler(c *gin.Context) {
	snapshot, loading := s.agg.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshot": snapshot,
		"loading":  loading,
	})
}

// refreshHandler runs a full aggregation for the current identity and
// returns the resulting snapshot.
func (s *Server) refreshHandler(c *gin.Context) {
	s.agg.Refresh(c.Request.Context())
	snapshot, loading := s.agg.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshot": snapshot,
		"loading":  loading,
	})
}

// createRecordHandler stores a new record with the category's provider and
// then triggers a full re-run. The snapshot is never patched in place.
func (s *Server) createRecordHandler(c *gin.Context) {
	identity, ok := s.currentIdentity(c)
	if !ok {
		return
	}

	category := domain.Category(c.Param("category"))
	provider, known := s.providers[category]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown category"})
		return
	}

	var record domain.RawRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record body"})
		return
	}

	if err := provider.Create(c.Request.Context(), identity, record); err != nil {
		logrus.WithFields(logrus.Fields{
			"category": category,
			"error":    err.Error(),
		}).Error("Record create failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Record service rejected the write"})
		return
	}

	s.agg.Refresh(c.Request.Context())
	snapshot, loading := s.agg.Snapshot()
	c.JSON(http.StatusCreated, gin.H{
		"snapshot": snapshot,
		"loading":  loading,
	})
}

// deleteRecordHandler removes a record via its provider and triggers a
// full re-run.
func (s *Server) deleteRecordHandler(c *gin.Context) {
	identity, ok := s.currentIdentity(c)
	if !ok {
		return
	}

	category := domain.Category(c.Param("category"))
	provider, known := s.providers[category]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown category"})
		return
	}

	if err := provider.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		logrus.WithFields(logrus.Fields{
			"category": category,
			"error":    err.Error(),
		}).Error("Record delete failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Record service rejected the delete"})
		return
	}

	s.agg.Refresh(c.Request.Context())
	snapshot, loading := s.agg.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshot": snapshot,
		"loading":  loading,
	})
}

// getGoalHandler returns the active identity's goal.
func (s *Server) getGoalHandler(c *gin.Context) {
	identity, ok := s.currentIdentity(c)
	if !ok {
		return
	}

	goal, err := s.goals.Get(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No goal set"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Goal store unavailable"})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// GoalRequest represents a goal create/replace request.
type GoalRequest struct {
	Name         string    `json:"name" binding:"required"`
	TargetAmount string    `json:"targetAmount" binding:"required"`
	TargetDate   time.Time `json:"targetDate"`
}

// putGoalHandler creates or replaces the active identity's goal. The
// current net worth is seeded from the live snapshot and kept fresh by
// the goal synchronizer afterwards.
func (s *Server) putGoalHandler(c *gin.Context) {
	identity, ok := s.currentIdentity(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal body"})
		return
	}
	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target amount"})
		return
	}

	snapshot, _ := s.agg.Snapshot()
	goal := &domain.Goal{
		OwnerID:         identity,
		Name:            req.Name,
		TargetAmount:    target,
		TargetDate:      req.TargetDate,
		CurrentNetWorth: snapshot.NetWorth,
		UpdatedAt:       time.Now(),
	}
	if err := goal.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.goals.Save(c.Request.Context(), goal); err != nil {
		logrus.WithFields(logrus.Fields{
			"owner": identity.String(),
			"error": err.Error(),
		}).Error("Goal save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Goal store unavailable"})
		return
	}
	c.JSON(http.StatusOK, goal)
}
