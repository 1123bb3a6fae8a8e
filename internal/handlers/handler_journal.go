package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	querySvc     portssvc.JournalQuerySvcFacade
	converterSvc portssvc.JournalConverterSvc
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(querySvc portssvc.JournalQuerySvcFacade, converterSvc portssvc.JournalConverterSvc) *journalHandler {
	return &journalHandler{
		querySvc:     querySvc,
		converterSvc: converterSvc,
	}
}

// RegisterJournalRoutes registers journal specific routes
func RegisterJournalRoutes(group *gin.RouterGroup, querySvc portssvc.JournalQuerySvcFacade, converterSvc portssvc.JournalConverterSvc) {
	h := newJournalHandler(querySvc, converterSvc)

	journals := group.Group("/journals")
	{
		journals.GET("/first", h.getFirstJournal)
		journals.GET("/:journalID", h.getJournal)
		journals.GET("/:journalID/asset-leg", h.getAssetLeg)
		journals.GET("/:journalID/legs/count", h.countLegs)
		journals.GET("/:journalID/note", h.getNote)
		journals.GET("/:journalID/total", h.getTotal)
		journals.GET("/:journalID/integrity", h.verifyIntegrity)
		journals.GET("/:journalID/source-accounts", h.listSourceAccounts)
		journals.GET("/:journalID/destination-accounts", h.listDestinationAccounts)
		journals.PUT("/:journalID/order", h.setOrder)
		journals.POST("/:journalID/convert", h.convertJournal)
	}
}

// getFirstJournal godoc
// @Summary Get the earliest journal
// @Description Returns the user's journal with the earliest date, ties broken by lowest id
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No journals"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Router /journals/first [get]
func (h *journalHandler) getFirstJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, found, err := h.querySvc.FirstJournalByDate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "retrieve first journal")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No journals found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal and its legs
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid journal ID"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	journal, found, err := h.querySvc.JournalByID(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "retrieve journal")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// getAssetLeg godoc
// @Summary Get the asset leg of a journal
// @Description Returns the leg whose account is an asset account; lowest id when several qualify
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.LegResponse
// @Failure 404 {object} map[string]string "No asset leg"
// @Router /journals/{journalID}/asset-leg [get]
func (h *journalHandler) getAssetLeg(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	leg, found, err := h.querySvc.AssetLeg(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "retrieve asset leg")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No asset leg found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToLegResponse(*leg))
}

// countLegs godoc
// @Summary Count the legs of a journal
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.CountResponse
// @Router /journals/{journalID}/legs/count [get]
func (h *journalHandler) countLegs(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	n, err := h.querySvc.CountLegs(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "count legs")
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

// getNote godoc
// @Summary Get the note attached to a journal
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.NoteResponse
// @Failure 404 {object} map[string]string "No note"
// @Router /journals/{journalID}/note [get]
func (h *journalHandler) getNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	note, found, err := h.querySvc.NoteFor(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "retrieve note")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NoteResponse{Note: note})
}

// getTotal godoc
// @Summary Get the economic value of a journal
// @Description Sum of the positive legs
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.TotalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Router /journals/{journalID}/total [get]
func (h *journalHandler) getTotal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	total, err := h.querySvc.JournalTotal(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "calculate journal total")
		return
	}
	c.JSON(http.StatusOK, dto.TotalResponse{Total: total})
}

// verifyIntegrity godoc
// @Summary Check that every identifier group of a journal balances
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.IntegrityResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Router /journals/{journalID}/integrity [get]
func (h *journalHandler) verifyIntegrity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	groups, err := h.querySvc.VerifyIntegrity(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "verify journal integrity")
		return
	}
	if groups == nil {
		groups = []int{}
	}
	c.JSON(http.StatusOK, dto.IntegrityResponse{Balanced: len(groups) == 0, UnbalancedGroups: groups})
}

// listSourceAccounts godoc
// @Summary List the accounts money leaves in a journal
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /journals/{journalID}/source-accounts [get]
func (h *journalHandler) listSourceAccounts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	accounts, err := h.querySvc.SourceAccounts(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "list source accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts)})
}

// listDestinationAccounts godoc
// @Summary List the accounts money enters in a journal
// @Tags journals
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /journals/{journalID}/destination-accounts [get]
func (h *journalHandler) listDestinationAccounts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	accounts, err := h.querySvc.DestinationAccounts(c.Request.Context(), userID, journalID)
	if err != nil {
		respondError(c, err, "list destination accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts)})
}

// setOrder godoc
// @Summary Set the display order of a journal
// @Tags journals
// @Accept  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Param   order body dto.SetOrderRequest true "New order"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Journal not found"
// @Router /journals/{journalID}/order [put]
func (h *journalHandler) setOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	var req dto.SetOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.querySvc.SetOrder(c.Request.Context(), userID, journalID, *req.Order); err != nil {
		respondError(c, err, "set journal order")
		return
	}
	c.Status(http.StatusNoContent)
}

// convertJournal godoc
// @Summary Convert a journal to another kind
// @Description Changes the kind of an unsplit journal and moves its legs to the given accounts. Every failed precondition is reported at once, keyed by field.
// @Tags journals
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   journalID path int true "Journal ID"
// @Param   conversion body dto.ConvertJournalRequest true "Target kind and accounts"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal changed concurrently"
// @Failure 422 {object} dto.ValidationErrorResponse "Preconditions failed"
// @Router /journals/{journalID}/convert [post]
func (h *journalHandler) convertJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c, "journalID")
	if !ok {
		return
	}

	var req dto.ConvertJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.converterSvc.ConvertJournal(c.Request.Context(), userID, journalID, req)
	if err != nil {
		respondError(c, err, "convert journal")
		return
	}
	if !result.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
			Error:  "Journal cannot be converted",
			Fields: result.Errors,
		})
		return
	}

	journal, found, err := h.querySvc.JournalByID(c.Request.Context(), userID, journalID)
	if err != nil || !found {
		// Conversion is committed; a failed re-read only loses the body.
		logger.Warn("Converted journal could not be reloaded", slog.Int64("journal_id", journalID))
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
