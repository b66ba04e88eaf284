package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platefull/weekplan/internal/calendar"
)

// weekParam resolves the week query param, defaulting to the current
// week. Any date inside the intended week is accepted.
func (s *Server) weekParam(c *gin.Context, raw string) (time.Time, error) {
	if raw == "" {
		return calendar.WeekStart(s.clock.Now()), nil
	}
	d, err := time.ParseInLocation(dateParamLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: week %q", ErrInvalidRequest, raw)
	}
	return calendar.WeekStart(d), nil
}

func (s *Server) getReconciliation(c *gin.Context) {
	week, err := s.weekParam(c, c.Query("week"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reconciler.CheckWeek(c.Request.Context(), week)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type backfillRequest struct {
	Week string `json:"week"`
}

func (s *Server) postBackfill(c *gin.Context) {
	var req backfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	week, err := s.weekParam(c, req.Week)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.reconciler.BackfillMissing(c.Request.Context(), week)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
