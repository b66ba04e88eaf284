package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platefull/weekplan/internal/calendar"
	"github.com/platefull/weekplan/internal/cutoff"
)

const dateParamLayout = "2006-01-02"

type dateLockState struct {
	Date   string `json:"date"`
	Locked bool   `json:"locked"`
}

type lockStateResponse struct {
	Now                   time.Time       `json:"now"`
	Cutoff                time.Time       `json:"cutoff"`
	LockedWeekStart       string          `json:"locked_week_start"`
	LockedWeekEnd         string          `json:"locked_week_end"`
	EarliestEffectiveDate string          `json:"earliest_effective_date"`
	Dates                 []dateLockState `json:"dates,omitempty"`
	AnyLocked             bool            `json:"any_locked"`
}

// getLockState reports the currently frozen week and, for any dates
// passed as query params, whether each falls inside it. One locked
// date locks the whole set.
func (s *Server) getLockState(c *gin.Context) {
	now := s.clock.Now()

	locked, err := cutoff.LockedWeekStart(s.policy, now)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	cut, err := cutoff.CutoffInstant(s.policy, now)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	earliest, err := cutoff.EarliestEffectiveDate(s.policy, now)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := lockStateResponse{
		Now:                   now,
		Cutoff:                cut,
		LockedWeekStart:       locked.Format(dateParamLayout),
		LockedWeekEnd:         calendar.WeekEnd(locked).Format(dateParamLayout),
		EarliestEffectiveDate: earliest.Format(dateParamLayout),
	}

	for _, raw := range c.QueryArray("date") {
		d, err := time.ParseInLocation(dateParamLayout, raw, time.UTC)
		if err != nil {
			AbortWithError(c, fmt.Errorf("%w: date %q", ErrInvalidRequest, raw))
			return
		}
		isLocked := calendar.InWeek(d, locked)
		resp.Dates = append(resp.Dates, dateLockState{Date: raw, Locked: isLocked})
		if isLocked {
			resp.AnyLocked = true
		}
	}

	c.JSON(http.StatusOK, resp)
}
