package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	pipelinedomain "github.com/smallbiznis/salesdw/internal/pipeline/domain"
	"go.uber.org/zap"
)

type triggerRunRequest struct {
	Phases []string `json:"phases"`
}

func (s *Server) LatestRun(c *gin.Context) {
	summary, err := s.pipeline.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if summary == nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// TriggerRun executes a run synchronously. A run that completes with a failed
// phase is still reported with 200; the summary carries the failure.
func (s *Server) TriggerRun(c *gin.Context) {
	var req triggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	var (
		summary pipelinedomain.Summary
		err     error
	)
	if len(req.Phases) > 0 {
		phases, parseErr := pipelinedomain.ParsePhases(req.Phases)
		if parseErr != nil {
			AbortWithError(c, parseErr)
			return
		}
		summary, err = s.pipeline.RunPhases(ctx, phases)
	} else {
		summary, err = s.pipeline.RunOnce(ctx)
	}

	if errors.Is(err, pipelinedomain.ErrRunInProgress) {
		AbortWithError(c, err)
		return
	}
	if err != nil {
		s.log.Warn("http.runs.trigger_failed", zap.String("run_id", summary.RunID), zap.Error(err))
	}
	if summary.RunID == "" {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
