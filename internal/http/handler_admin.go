package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkjunho/labor-settlement/internal/http/middleware"
	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/service"
)

func (h *Handler) registerAdmin(group *gin.RouterGroup) {
	group.GET("/advances", h.listAdvances)
	group.PUT("/advances/:workerID", h.upsertAdvance)

	group.GET("/deduction-items", h.listDeductionItems)
	group.POST("/deduction-items", h.addDeductionItem)
	group.PATCH("/deduction-items/:id", h.patchDeductionItem)
	group.DELETE("/deduction-items/:id", h.deleteDeductionItem)

	group.POST("/reports", h.createReport)
	group.PUT("/reports/:id", h.updateReport)
	group.GET("/reports", h.listReports)
	group.GET("/reports/:id", h.getReport)

	group.GET("/workers", h.listWorkers)
	group.POST("/workers", h.createWorker)
	group.PUT("/workers/:id", h.updateWorker)

	group.GET("/teams", h.listTeams)
	group.POST("/teams", h.createTeam)
	group.GET("/sites", h.listSites)
	group.POST("/sites", h.createSite)
	group.GET("/companies", h.listCompanies)
	group.POST("/companies", h.createCompany)

	group.GET("/audit", h.listAudit)
}

func (h *Handler) listAdvances(c *gin.Context) {
	teamID, err := uuid.Parse(strings.TrimSpace(c.Query("team_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	ledgers, grandTotal, err := h.advances.ListForTeam(c.Request.Context(), teamID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advances": ledgers, "grand_total": grandTotal})
}

type upsertAdvanceRequest struct {
	Month  string           `json:"month" binding:"required"`
	Values map[string]int64 `json:"values" binding:"required"`
	Memo   string           `json:"memo"`
}

func (h *Handler) upsertAdvance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	workerID, err := uuid.Parse(c.Param("workerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}

	var req upsertAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	advance := model.AdvancePayment{
		WorkerID: workerID,
		Month:    req.Month,
		Values:   req.Values,
		Memo:     req.Memo,
	}
	if err := h.advances.Upsert(c.Request.Context(), principal, advance); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) listDeductionItems(c *gin.Context) {
	items, err := h.advances.Catalog(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type deductionItemRequest struct {
	ID        string `json:"id" binding:"required"`
	Label     string `json:"label" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func (h *Handler) addDeductionItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req deductionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := model.DeductionItem{ID: req.ID, Label: req.Label, SortOrder: req.SortOrder, Active: true}
	if err := h.advances.AddItem(c.Request.Context(), principal, item); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type patchDeductionItemRequest struct {
	Label  *string `json:"label"`
	Active *bool   `json:"active"`
}

func (h *Handler) patchDeductionItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req patchDeductionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if req.Label != nil {
		if err := h.advances.RenameItem(c.Request.Context(), principal, id, *req.Label); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if req.Active != nil {
		if err := h.advances.ToggleItem(c.Request.Context(), principal, id, *req.Active); err != nil {
			h.handleError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) deleteDeductionItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	if err := h.advances.DeleteItem(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type reportEntryRequest struct {
	WorkerID  string `json:"worker_id" binding:"required"`
	ManDay    string `json:"man_day" binding:"required"`
	UnitPrice *int64 `json:"unit_price"`
}

type reportRequest struct {
	WorkDate string               `json:"work_date" binding:"required"`
	SiteID   string               `json:"site_id" binding:"required"`
	TeamID   string               `json:"team_id" binding:"required"`
	Entries  []reportEntryRequest `json:"entries" binding:"required"`
}

func (req reportRequest) toModel() (model.DailyReport, error) {
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return model.DailyReport{}, service.ErrInvalidInput
	}
	siteID, err := uuid.Parse(strings.TrimSpace(req.SiteID))
	if err != nil {
		return model.DailyReport{}, service.ErrInvalidInput
	}
	teamID, err := uuid.Parse(strings.TrimSpace(req.TeamID))
	if err != nil {
		return model.DailyReport{}, service.ErrInvalidInput
	}

	report := model.DailyReport{WorkDate: workDate, SiteID: siteID, TeamID: teamID}
	for _, entry := range req.Entries {
		workerID, err := uuid.Parse(strings.TrimSpace(entry.WorkerID))
		if err != nil {
			return model.DailyReport{}, service.ErrInvalidInput
		}
		manDay, err := decimalFromString(entry.ManDay)
		if err != nil {
			return model.DailyReport{}, service.ErrInvalidInput
		}
		report.Entries = append(report.Entries, model.ReportEntry{
			WorkerID:  workerID,
			ManDay:    manDay,
			UnitPrice: entry.UnitPrice,
		})
	}
	return report, nil
}

func decimalFromString(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := req.toModel()
	if err != nil {
		h.handleError(c, err)
		return
	}
	saved, err := h.reports.Create(c.Request.Context(), principal, report)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) updateReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := req.toModel()
	if err != nil {
		h.handleError(c, err)
		return
	}
	report.ID = reportID
	if err := h.reports.Update(c.Request.Context(), principal, report); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) listReports(c *gin.Context) {
	teamID, err := uuid.Parse(strings.TrimSpace(c.Query("team_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	reports, err := h.reports.ListByTeamMonth(c.Request.Context(), teamID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) getReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	report, err := h.reports.Get(c.Request.Context(), reportID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) listWorkers(c *gin.Context) {
	teamID, err := uuid.Parse(strings.TrimSpace(c.Query("team_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team_id"})
		return
	}
	workers, err := h.roster.ListWorkers(c.Request.Context(), teamID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

type workerRequest struct {
	Name        string `json:"name" binding:"required"`
	Position    string `json:"position" binding:"required"`
	TeamID      string `json:"team_id" binding:"required"`
	UnitPrice   int64  `json:"unit_price"`
	SalaryModel string `json:"salary_model" binding:"required"`
}

func (req workerRequest) toModel() (model.Worker, error) {
	teamID, err := uuid.Parse(strings.TrimSpace(req.TeamID))
	if err != nil {
		return model.Worker{}, service.ErrInvalidInput
	}
	return model.Worker{
		Name:        req.Name,
		Position:    req.Position,
		TeamID:      teamID,
		UnitPrice:   req.UnitPrice,
		SalaryModel: model.SalaryModel(strings.ToUpper(req.SalaryModel)),
	}, nil
}

func (h *Handler) createWorker(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	worker, err := req.toModel()
	if err != nil {
		h.handleError(c, err)
		return
	}
	saved, err := h.roster.CreateWorker(c.Request.Context(), principal, worker)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) updateWorker(c *gin.Context) {
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
	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	worker, err := req.toModel()
	if err != nil {
		h.handleError(c, err)
		return
	}
	worker.ID = workerID
	if err := h.roster.UpdateWorker(c.Request.Context(), principal, worker); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) listTeams(c *gin.Context) {
	teams, err := h.roster.ListTeams(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

type teamRequest struct {
	Name         string `json:"name" binding:"required"`
	CompanyID    string `json:"company_id" binding:"required"`
	SupportRate  int64  `json:"support_rate"`
	BillingModel string `json:"billing_model" binding:"required"`
	Description  string `json:"description"`
}

func (h *Handler) createTeam(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	companyID, err := uuid.Parse(strings.TrimSpace(req.CompanyID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
		return
	}
	team := model.Team{
		Name:         req.Name,
		CompanyID:    companyID,
		SupportRate:  req.SupportRate,
		BillingModel: model.BillingModel(strings.ToUpper(req.BillingModel)),
		Description:  req.Description,
	}
	saved, err := h.roster.CreateTeam(c.Request.Context(), principal, team)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) listSites(c *gin.Context) {
	sites, err := h.roster.ListSites(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

type siteRequest struct {
	Name      string `json:"name" binding:"required"`
	CompanyID string `json:"company_id" binding:"required"`
	Status    string `json:"status"`
}

func (h *Handler) createSite(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req siteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	companyID, err := uuid.Parse(strings.TrimSpace(req.CompanyID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
		return
	}
	site := model.Site{
		Name:      req.Name,
		CompanyID: companyID,
		Status:    model.SiteStatus(strings.ToUpper(req.Status)),
	}
	if req.Status == "" {
		site.Status = model.SiteStatusActive
	}
	saved, err := h.roster.CreateSite(c.Request.Context(), principal, site)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) listCompanies(c *gin.Context) {
	companies, err := h.roster.ListCompanies(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

type companyRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createCompany(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	saved, err := h.roster.CreateCompany(c.Request.Context(), principal, model.Company{Name: req.Name})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) listAudit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	logs, err := h.audit.List(c.Request.Context(), principal, c.Query("category"), c.Query("month"), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
