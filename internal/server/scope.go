package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// Agency scoping: every resource belongs to one agency, and callers only
// ever see their own agency's data. Mismatches respond 404 rather than 403
// so resource IDs do not leak across agencies. A false return means the
// response has already been written.

func (s *Server) shiftForCaller(c *gin.Context, id string) (model.ScheduledShift, bool) {
	shift, err := s.store.GetShift(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return model.ScheduledShift{}, false
	}
	if shift.AgencyID != c.GetString(ctxAgencyID) {
		respondError(c, http.StatusNotFound, "shift not found")
		return model.ScheduledShift{}, false
	}
	return shift, true
}

func (s *Server) groupForCaller(c *gin.Context, id string) (model.CareGroup, bool) {
	group, err := s.store.GetGroup(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return model.CareGroup{}, false
	}
	if group.AgencyID != c.GetString(ctxAgencyID) {
		respondError(c, http.StatusNotFound, "care group not found")
		return model.CareGroup{}, false
	}
	return group, true
}

// elderInCallerAgency resolves an elder through its group before a shift is
// created against it
func (s *Server) elderInCallerAgency(c *gin.Context, elderID string) bool {
	elder, err := s.store.GetElder(c.Request.Context(), elderID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	group, err := s.store.GetGroup(c.Request.Context(), elder.GroupID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if group.AgencyID != c.GetString(ctxAgencyID) {
		respondError(c, http.StatusNotFound, "elder not found")
		return false
	}
	return true
}
