package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizow1/satelite-column11/internal/proposal"
)

type ProposalRunner interface {
	RunBatch() error
	RunForUser(userID, siteID string) error
}

type CronHandler struct {
	runner ProposalRunner

	// claimRun reports whether this process won today's batch slot. Returns
	// true when no run coordination backend is configured.
	claimRun func(day time.Time) (bool, error)
}

func NewCronHandler(runner ProposalRunner, claimRun func(day time.Time) (bool, error)) *CronHandler {
	return &CronHandler{runner: runner, claimRun: claimRun}
}

// RunDailyProposals triggers the proposal batch, or a single user's run when
// the body names one. The batch variant is guarded so repeated cron hits
// within a day send nothing twice.
func (h *CronHandler) RunDailyProposals(c *gin.Context) {
	var req RunProposalsRequest
	// An empty body means a full batch run.
	_ = c.ShouldBindJSON(&req)

	if req.UserID != "" {
		if req.SiteID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Site ID is required for a single-user run"})
			return
		}

		err := h.runner.RunForUser(req.UserID, req.SiteID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "Proposals sent"})
		case errors.Is(err, proposal.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, proposal.ErrSiteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found or content policy not set"})
		case errors.Is(err, proposal.ErrLimitReached):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Monthly token limit reached"})
		default:
			slog.Error("single-user proposal run failed", "user_id", req.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Proposal run failed"})
		}
		return
	}

	claimed, err := h.claimRun(time.Now())
	if err != nil {
		slog.Error("error claiming proposal run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proposal run failed"})
		return
	}
	if !claimed {
		c.JSON(http.StatusOK, gin.H{"message": "Batch already ran today", "skipped": true})
		return
	}

	if err := h.runner.RunBatch(); err != nil {
		slog.Error("proposal batch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proposal run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Batch completed"})
}
