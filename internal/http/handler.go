package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parkjunho/labor-settlement/internal/http/middleware"
	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	settlements *service.SettlementService
	advances    *service.AdvanceService
	support     *service.SupportService
	reports     *service.ReportService
	roster      *service.RosterService
	audit       *service.AuditService
	log         zerolog.Logger
}

func NewHandler(
	settlements *service.SettlementService,
	advances *service.AdvanceService,
	support *service.SupportService,
	reports *service.ReportService,
	roster *service.RosterService,
	audit *service.AuditService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		settlements: settlements,
		advances:    advances,
		support:     support,
		reports:     reports,
		roster:      roster,
		audit:       audit,
		log:         log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/settlements", h.getSettlement)
	protected.GET("/settlements/all", h.getAllSettlements)
	protected.POST("/settlements/save", h.saveSettlement)
	protected.POST("/settlements/recompute", h.recomputeSettlement)
	protected.POST("/settlements/status", h.updateSettlementStatus)
	protected.GET("/settlements/export", h.exportSettlement)
	protected.GET("/workers/:id/payslip", h.payslip)

	protected.GET("/support/matrix", h.supportMatrix)
	protected.GET("/support/export", h.exportSupportMatrix)

	h.registerAdmin(protected)
}

func (h *Handler) getSettlement(c *gin.Context) {
	teamID, err := uuid.Parse(strings.TrimSpace(c.Query("team_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	result, err := h.settlements.Get(c.Request.Context(), teamID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getAllSettlements(c *gin.Context) {
	results, err := h.settlements.GetAll(c.Request.Context(), c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type saveSettlementRequest struct {
	TeamID  string                  `json:"team_id" binding:"required"`
	Month   string                  `json:"month" binding:"required"`
	Entries []model.SettlementEntry `json:"entries" binding:"required"`
}

func (h *Handler) saveSettlement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req saveSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	teamID, err := uuid.Parse(strings.TrimSpace(req.TeamID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}

	if err := h.settlements.Save(c.Request.Context(), principal, teamID, req.Month, req.Entries); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": len(req.Entries)})
}

type recomputeRequest struct {
	TeamID string `json:"team_id" binding:"required"`
	Month  string `json:"month" binding:"required"`
}

func (h *Handler) recomputeSettlement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req recomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	teamID, err := uuid.Parse(strings.TrimSpace(req.TeamID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}

	result, err := h.settlements.Recompute(c.Request.Context(), principal, teamID, req.Month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type settlementStatusRequest struct {
	WorkerID string `json:"worker_id" binding:"required"`
	Month    string `json:"month" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

func (h *Handler) updateSettlementStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req settlementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	workerID, err := uuid.Parse(strings.TrimSpace(req.WorkerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker_id"})
		return
	}

	err = h.settlements.UpdateStatus(c.Request.Context(), principal, workerID, req.Month,
		model.SettlementStatus(strings.ToUpper(req.Status)))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) exportSettlement(c *gin.Context) {
	teamID, err := uuid.Parse(strings.TrimSpace(c.Query("team_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	result, err := h.settlements.ExportExcel(c.Request.Context(), teamID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) payslip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}
	result, err := h.settlements.Payslip(c.Request.Context(), principal, workerID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) supportMatrix(c *gin.Context) {
	matrix, err := h.support.Matrix(c.Request.Context(), c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, matrix)
}

func (h *Handler) exportSupportMatrix(c *gin.Context) {
	result, err := h.support.ExportExcel(c.Request.Context(), c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrCatalogItemInUse):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
