package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/internal/auth"
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

type caregiverJSON struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	AgencyID  string `json:"agency_id"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

func toCaregiverJSON(c model.Caregiver) caregiverJSON {
	return caregiverJSON{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		AgencyID:  c.AgencyID,
		Role:      string(c.Role),
		Active:    c.Active,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	caregiver, err := s.store.GetCaregiverByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !caregiver.Active || !auth.CheckPassword(caregiver.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.jwt.Generate(caregiver)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	s.logger.Info("Caregiver logged in", zap.String("caregiver_id", caregiver.ID))
	respondOK(c, gin.H{"token": token, "caregiver": toCaregiverJSON(caregiver)})
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

// handleRegister creates a caregiver account in the caller's agency
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role := model.Role(req.Role)
	if !role.IsValid() {
		respondError(c, http.StatusBadRequest, "role must be admin or caregiver")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	caregiver := model.Caregiver{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		AgencyID:     c.GetString(ctxAgencyID),
		Role:         role,
		Active:       true,
		PasswordHash: hash,
	}

	if err := s.store.InsertCaregiver(c.Request.Context(), caregiver); err != nil {
		respondServiceError(c, err)
		return
	}

	s.logger.Info("Caregiver registered",
		zap.String("caregiver_id", caregiver.ID),
		zap.String("agency_id", caregiver.AgencyID))
	respondCreated(c, toCaregiverJSON(caregiver))
}
