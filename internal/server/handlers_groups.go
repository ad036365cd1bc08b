package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/schedule"
	"github.com/qashsolutions/myhealthguide/pkg/core/services"
)

type groupJSON struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	AgencyID           string `json:"agency_id"`
	PrimaryCaregiverID string `json:"primary_caregiver_id,omitempty"`
}

func toGroupJSON(g model.CareGroup) groupJSON {
	return groupJSON{
		ID:                 g.ID,
		Name:               g.Name,
		AgencyID:           g.AgencyID,
		PrimaryCaregiverID: g.PrimaryCaregiverID,
	}
}

type elderJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	GroupID  string `json:"group_id"`
	Archived bool   `json:"archived"`
}

func (s *Server) handleGetGroup(c *gin.Context) {
	group, ok := s.groupForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	respondOK(c, toGroupJSON(group))
}

func (s *Server) handleListElders(c *gin.Context) {
	group, ok := s.groupForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	elders, err := s.store.ListEldersByGroup(c.Request.Context(), group.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]elderJSON, 0, len(elders))
	for _, e := range elders {
		out = append(out, elderJSON{ID: e.ID, Name: e.Name, GroupID: e.GroupID, Archived: e.Archived})
	}
	respondOK(c, out)
}

type createElderRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) handleCreateElder(c *gin.Context) {
	var req createElderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	group, ok := s.groupForCaller(c, c.Param("id"))
	if !ok {
		return
	}

	elder := model.Elder{ID: uuid.New().String(), Name: req.Name, GroupID: group.ID}
	if err := s.store.InsertElder(c.Request.Context(), elder); err != nil {
		respondServiceError(c, err)
		return
	}

	s.logger.Info("Elder added", zap.String("elder_id", elder.ID), zap.String("group_id", group.ID))
	respondCreated(c, elderJSON{ID: elder.ID, Name: elder.Name, GroupID: elder.GroupID})
}

func (s *Server) handleListGroupShifts(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		respondError(c, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	group, ok := s.groupForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	shifts, err := s.store.ListShiftsByGroup(c.Request.Context(), group.ID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toShiftListJSON(shifts))
}

type transferPrimaryRequest struct {
	CaregiverID     string `json:"caregiver_id" binding:"required"`
	ExpectedCurrent string `json:"expected_current"`
}

// handleTransferPrimary grants or transfers the group's primary caregiver
// role. A stale ExpectedCurrent returns 409.
func (s *Server) handleTransferPrimary(c *gin.Context) {
	var req transferPrimaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	group, ok := s.groupForCaller(c, c.Param("id"))
	if !ok {
		return
	}

	err := services.TransferPrimaryCaregiver(c.Request.Context(), s.store, s.logger, services.TransferPrimaryInput{
		GroupID:         group.ID,
		CaregiverID:     req.CaregiverID,
		ExpectedCurrent: req.ExpectedCurrent,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

type coverageGapJSON struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type elderCoverageJSON struct {
	Elder        elderJSON         `json:"elder"`
	FullyCovered bool              `json:"fully_covered"`
	Gaps         []coverageGapJSON `json:"gaps"`
}

func toCoverageGapsJSON(gaps []schedule.Interval) []coverageGapJSON {
	out := make([]coverageGapJSON, 0, len(gaps))
	for _, g := range gaps {
		out = append(out, coverageGapJSON{
			StartTime: schedule.FormatClock(g.Start),
			EndTime:   schedule.FormatClock(g.End),
		})
	}
	return out
}

func (s *Server) handleCoverage(c *gin.Context) {
	group, ok := s.groupForCaller(c, c.Param("id"))
	if !ok {
		return
	}

	result, err := services.GroupCoverage(c.Request.Context(), s.store, s.logger, services.CoverageInput{
		GroupID:   group.ID,
		Date:      c.Query("date"),
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	elders := make([]elderCoverageJSON, 0, len(result.Elders))
	for _, ec := range result.Elders {
		elders = append(elders, elderCoverageJSON{
			Elder:        elderJSON{ID: ec.Elder.ID, Name: ec.Elder.Name, GroupID: ec.Elder.GroupID},
			FullyCovered: ec.FullyCovered,
			Gaps:         toCoverageGapsJSON(ec.Gaps),
		})
	}

	respondOK(c, gin.H{
		"group_id":   result.Group.ID,
		"date":       result.Date,
		"start_time": schedule.FormatClock(result.Window.Start),
		"end_time":   schedule.FormatClock(result.Window.End),
		"elders":     elders,
	})
}
