package handler

import (
	"net/http"

	"gramroute/internal/middleware"
	"gramroute/internal/usecase/report"
	"gramroute/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *report.Service
}

func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.POST("", h.Submit)
		reports.GET("", h.ListMine)
		reports.GET("/:report_id", h.Get)
	}
}

func (h *ReportHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("", h.ListAll)
		reports.PATCH("/:report_id/status", h.UpdateStatus)
	}
}

func (h *ReportHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req report.SubmitReportRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Report submitted successfully", gin.H{"report": resp})
}

func (h *ReportHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reports, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reports retrieved successfully", gin.H{"reports": reports})
}

func (h *ReportHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reportID, ok := parseIDParam(c, "report_id", "report")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), reportID, userID, middleware.IsAdmin(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Report retrieved successfully", gin.H{"report": resp})
}

func (h *ReportHandler) ListAll(c *gin.Context) {
	reports, err := h.service.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reports retrieved successfully", gin.H{"reports": reports})
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	reportID, ok := parseIDParam(c, "report_id", "report")
	if !ok {
		return
	}

	var req report.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), reportID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Report status updated successfully", gin.H{"report": resp})
}
