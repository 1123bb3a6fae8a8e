package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// legHandler handles HTTP requests related to transaction legs.
type legHandler struct {
	querySvc      portssvc.LegReaderSvc
	resolverSvc   portssvc.OpposingLegResolverSvc
	reconcilerSvc portssvc.ReconcilerSvc
}

func newLegHandler(querySvc portssvc.LegReaderSvc, resolverSvc portssvc.OpposingLegResolverSvc, reconcilerSvc portssvc.ReconcilerSvc) *legHandler {
	return &legHandler{
		querySvc:      querySvc,
		resolverSvc:   resolverSvc,
		reconcilerSvc: reconcilerSvc,
	}
}

// RegisterLegRoutes registers leg specific routes
func RegisterLegRoutes(group *gin.RouterGroup, querySvc portssvc.LegReaderSvc, resolverSvc portssvc.OpposingLegResolverSvc, reconcilerSvc portssvc.ReconcilerSvc) {
	h := newLegHandler(querySvc, resolverSvc, reconcilerSvc)

	legs := group.Group("/legs")
	{
		legs.GET("", h.listLegs)
		legs.GET("/:legID/opposing", h.getOpposingLeg)
		legs.POST("/:legID/reconcile", h.reconcileLeg)
	}
}

// listLegs godoc
// @Summary Get several legs by id
// @Description Unknown ids are omitted; results are ordered by id
// @Tags legs
// @Produce  json
// @Security BearerAuth
// @Param   ids query string true "Comma separated leg ids, at most 500"
// @Success 200 {object} dto.ListLegsResponse
// @Failure 400 {object} map[string]string "Invalid ids"
// @Router /legs [get]
func (h *legHandler) listLegs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		logger.Warn("Invalid ids query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	legs, err := h.querySvc.LegsByIDs(c.Request.Context(), userID, ids)
	if err != nil {
		respondError(c, err, "retrieve legs")
		return
	}
	c.JSON(http.StatusOK, dto.ListLegsResponse{Legs: dto.ToLegResponses(legs)})
}

// getOpposingLeg godoc
// @Summary Find the counterpart of a leg
// @Description The leg of the same journal and identifier whose amount is the exact negation
// @Tags legs
// @Produce  json
// @Security BearerAuth
// @Param   legID path int true "Leg ID"
// @Success 200 {object} dto.LegResponse
// @Failure 404 {object} map[string]string "No opposing leg"
// @Router /legs/{legID}/opposing [get]
func (h *legHandler) getOpposingLeg(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	legID, ok := parseIDParam(c, "legID")
	if !ok {
		return
	}

	opposing, found, err := h.resolverSvc.FindOpposingLeg(c.Request.Context(), userID, legID)
	if err != nil {
		respondError(c, err, "resolve opposing leg")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opposing leg not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToLegResponse(*opposing))
}

// reconcileLeg godoc
// @Summary Reconcile a leg together with its counterpart
// @Description Both legs are flagged in one transaction, or neither is
// @Tags legs
// @Produce  json
// @Security BearerAuth
// @Param   legID path int true "Leg ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 404 {object} map[string]string "Leg not found"
// @Failure 409 {object} dto.ReconcileResponse "No opposing leg, or legs changed concurrently"
// @Router /legs/{legID}/reconcile [post]
func (h *legHandler) reconcileLeg(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	legID, ok := parseIDParam(c, "legID")
	if !ok {
		return
	}

	outcome, err := h.reconcilerSvc.Reconcile(c.Request.Context(), userID, legID)
	if err != nil {
		respondError(c, err, "reconcile leg")
		return
	}
	if !outcome.Reconciled {
		c.JSON(http.StatusConflict, dto.ToReconcileResponse(outcome))
		return
	}
	c.JSON(http.StatusOK, dto.ToReconcileResponse(outcome))
}
