package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qashsolutions/myhealthguide/pkg/core/services"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// handleAcceptOffer accepts the caller's active cascade offer. A conflicting
// shift acquired since the offer went out surfaces as 409 and the chain
// moves on without the caller.
func (s *Server) handleAcceptOffer(c *gin.Context) {
	shift, err := services.AcceptOffer(c.Request.Context(), s.store, s.notifier, s.logger, s.now(), s.opts.OfferTTL,
		c.Param("id"), c.GetString(ctxCaregiverID))
	if err != nil {
		if errors.Is(err, db.ErrShiftConflict) {
			shiftConflictsTotal.Inc()
		}
		respondServiceError(c, err)
		return
	}
	respondOK(c, toShiftJSON(shift))
}

func (s *Server) handleDeclineOffer(c *gin.Context) {
	err := services.DeclineOffer(c.Request.Context(), s.store, s.notifier, s.logger, s.now(), s.opts.OfferTTL,
		c.Param("id"), c.GetString(ctxCaregiverID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}
