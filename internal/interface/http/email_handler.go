package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/application"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/response"
)

// EmailHandler exposes the email ledger to administrators: quota status,
// delivery stats and retention cleanup.
type EmailHandler struct {
	Email  *application.EmailService
	Logger *logrus.Logger
}

func NewEmailHandler(email *application.EmailService, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Email: email, Logger: logger}
}

// Quota GET /api/admin/emails/quota
func (h *EmailHandler) Quota(c *gin.Context) {
	quota := h.Email.CheckQuota(c.Request.Context())
	resp := response.Success(c, http.StatusOK, quota, "email quota", nil)
	c.JSON(resp.Status, resp)
}

// TodayStats GET /api/admin/emails/stats/today
func (h *EmailHandler) TodayStats(c *gin.Context) {
	stats, err := h.Email.TodayStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, stats, "today's email stats", nil)
	c.JSON(resp.Status, resp)
}

// MonthlyStats GET /api/admin/emails/stats/monthly
func (h *EmailHandler) MonthlyStats(c *gin.Context) {
	stats, err := h.Email.MonthlyStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, stats, "monthly email stats", nil)
	c.JSON(resp.Status, resp)
}

// RecentLogs GET /api/admin/emails/logs?limit=50
func (h *EmailHandler) RecentLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.Email.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, logs, "recent email logs", nil)
	c.JSON(resp.Status, resp)
}

// Cleanup POST /api/admin/emails/cleanup
func (h *EmailHandler) Cleanup(c *gin.Context) {
	deleted, err := h.Email.CleanupOldLogs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{"deleted": deleted}, "old email logs removed", nil)
	c.JSON(resp.Status, resp)
}
