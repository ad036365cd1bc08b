package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/qashsolutions/myhealthguide/internal/auth"
	"github.com/qashsolutions/myhealthguide/pkg/core/services"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// response is the JSON envelope every endpoint returns
type response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Code: http.StatusOK, Message: "ok", Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, response{Code: http.StatusCreated, Message: "created", Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, response{Code: status, Message: message})
}

// respondServiceError maps store and service errors onto HTTP statuses.
// Conflicts (shift overlap, lost primary-caregiver race, duplicate email,
// bad status transitions) are 409 so clients can retry with fresh state.
func respondServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, db.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrShiftConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, db.ErrPrimaryConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, db.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrOfferNotActive):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotOfferOwner):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrs):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
