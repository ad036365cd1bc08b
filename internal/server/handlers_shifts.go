package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/services"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

type shiftJSON struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	ElderID         string `json:"elder_id"`
	ElderName       string `json:"elder_name"`
	CaregiverID     string `json:"caregiver_id,omitempty"`
	CaregiverName   string `json:"caregiver_name,omitempty"`
	Status          string `json:"status"`
	GroupID         string `json:"group_id"`
	Notes           string `json:"notes,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

func toShiftJSON(s model.ScheduledShift) shiftJSON {
	return shiftJSON{
		ID:              s.ID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		ElderID:         s.ElderID,
		ElderName:       s.ElderName,
		CaregiverID:     s.CaregiverID,
		CaregiverName:   s.CaregiverName,
		Status:          string(s.Status),
		GroupID:         s.GroupID,
		Notes:           s.Notes,
		DurationMinutes: s.DurationMinutes,
	}
}

func toShiftListJSON(shifts []model.ScheduledShift) []shiftJSON {
	out := make([]shiftJSON, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, toShiftJSON(s))
	}
	return out
}

type createShiftRequest struct {
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	ElderID     string `json:"elder_id" binding:"required"`
	CaregiverID string `json:"caregiver_id" binding:"required"`
	Notes       string `json:"notes"`
}

func (s *Server) handleCreateShift(c *gin.Context) {
	var req createShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.elderInCallerAgency(c, req.ElderID) {
		return
	}

	shift, err := services.CreateShift(c.Request.Context(), s.store, s.notifier, s.logger, services.CreateShiftInput{
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ElderID:     req.ElderID,
		CaregiverID: req.CaregiverID,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, db.ErrShiftConflict) {
			shiftConflictsTotal.Inc()
		}
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toShiftJSON(shift))
}

type repeatingShiftsRequest struct {
	createShiftRequest
	Frequency string `json:"frequency" binding:"required"`
	ByWeekday []int  `json:"by_weekday"`
}

type dateFailureJSON struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

func (s *Server) handleCreateRepeatingShifts(c *gin.Context) {
	var req repeatingShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.elderInCallerAgency(c, req.ElderID) {
		return
	}

	result, err := services.CreateRepeatingShifts(c.Request.Context(), s.store, s.notifier, s.logger, services.RepeatingShiftsInput{
		CreateShiftInput: services.CreateShiftInput{
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			ElderID:     req.ElderID,
			CaregiverID: req.CaregiverID,
			Notes:       req.Notes,
		},
		Rule: model.RepeatRule{
			Frequency: model.RepeatFrequency(req.Frequency),
			ByWeekday: req.ByWeekday,
		},
		HorizonDays: s.opts.RepeatHorizonDays,
	})
	if err != nil && result == nil {
		respondServiceError(c, err)
		return
	}

	failures := make([]dateFailureJSON, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, dateFailureJSON{Date: f.Date, Error: f.Error})
	}

	data := gin.H{
		"created":  toShiftListJSON(result.Created),
		"failures": failures,
	}
	// Every date failed
	if err != nil {
		c.JSON(http.StatusConflict, response{Code: http.StatusConflict, Message: err.Error(), Data: data})
		return
	}
	respondCreated(c, data)
}

type cascadeShiftRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	ElderID   string `json:"elder_id" binding:"required"`
	Notes     string `json:"notes"`
}

type offerJSON struct {
	ID          string `json:"id"`
	ShiftID     string `json:"shift_id"`
	CaregiverID string `json:"caregiver_id"`
	Position    int    `json:"position"`
	Status      string `json:"status"`
	Deadline    string `json:"deadline,omitempty"`
}

func toOfferListJSON(offers []model.ShiftOffer) []offerJSON {
	out := make([]offerJSON, 0, len(offers))
	for _, o := range offers {
		out = append(out, offerJSON{
			ID:          o.ID,
			ShiftID:     o.ShiftID,
			CaregiverID: o.CaregiverID,
			Position:    o.Position,
			Status:      string(o.Status),
			Deadline:    o.Deadline,
		})
	}
	return out
}

func (s *Server) handleCreateCascadeShift(c *gin.Context) {
	var req cascadeShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.elderInCallerAgency(c, req.ElderID) {
		return
	}

	result, err := services.CreateCascadeShift(c.Request.Context(), s.store, s.notifier, s.logger, s.now(), services.CascadeShiftInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		ElderID:   req.ElderID,
		Notes:     req.Notes,
		OfferTTL:  s.opts.OfferTTL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"shift": toShiftJSON(result.Shift),
		"chain": toOfferListJSON(result.Chain),
	})
}

func (s *Server) handleGetShift(c *gin.Context) {
	shift, ok := s.shiftForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	respondOK(c, toShiftJSON(shift))
}

func (s *Server) handleListShiftOffers(c *gin.Context) {
	shift, ok := s.shiftForCaller(c, c.Param("id"))
	if !ok {
		return
	}
	offers, err := s.store.ListOffersByShift(c.Request.Context(), shift.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toOfferListJSON(offers))
}

type editShiftRequest struct {
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Notes     *string `json:"notes"`
}

func (s *Server) handleEditShift(c *gin.Context) {
	var req editShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.shiftForCaller(c, c.Param("id")); !ok {
		return
	}

	shift, err := services.EditShift(c.Request.Context(), s.store, s.logger, services.EditShiftInput{
		ShiftID:   c.Param("id"),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, db.ErrShiftConflict) {
			shiftConflictsTotal.Inc()
		}
		respondServiceError(c, err)
		return
	}

	respondOK(c, toShiftJSON(shift))
}

func (s *Server) handleCancelShift(c *gin.Context) {
	if _, ok := s.shiftForCaller(c, c.Param("id")); !ok {
		return
	}
	if err := services.CancelShift(c.Request.Context(), s.store, s.notifier, s.logger, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

// handleConfirmShift lets the assigned caregiver confirm a shift they
// accepted through a cascade offer
func (s *Server) handleConfirmShift(c *gin.Context) {
	if _, ok := s.shiftForCaller(c, c.Param("id")); !ok {
		return
	}
	err := services.ConfirmShift(c.Request.Context(), s.store, s.logger, c.Param("id"), c.GetString(ctxCaregiverID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}
