package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type reportRequest struct {
	EnvironmentID int64 `json:"environmentId" binding:"required"`
	UserID        int64 `json:"userId" binding:"required"`
}

// CreateReport records that a user generated a report about an environment.
func (h *Handler) CreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.CreateReport(c.Request.Context(), req.EnvironmentID, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetReport returns a single report by id.
func (h *Handler) GetReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := h.store().GetReport(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteReport removes a report.
func (h *Handler) DeleteReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteReport(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReports returns all reports.
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.store().ListReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// CountReports returns the total number of reports.
func (h *Handler) CountReports(c *gin.Context) {
	n, err := h.store().CountReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// ReportExists reports whether the report id is in use.
func (h *Handler) ReportExists(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	exists, err := h.store().ReportExists(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// ReportsByEnvironmentAndUser returns the reports a given user generated
// about a given environment.
func (h *Handler) ReportsByEnvironmentAndUser(c *gin.Context) {
	environmentID, ok := idParam(c, "environmentId")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	reports, err := h.store().ReportsByEnvironmentAndUser(c.Request.Context(), environmentID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// ReportExistsByEnvironmentAndUser reports whether the user has generated
// any report about the environment.
func (h *Handler) ReportExistsByEnvironmentAndUser(c *gin.Context) {
	environmentID, ok := idParam(c, "environmentId")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	exists, err := h.store().ReportExistsByEnvironmentAndUser(c.Request.Context(), environmentID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// DeleteReportsByEnvironment removes every report about an environment.
// Deleting with an unknown environment id is a no-op.
func (h *Handler) DeleteReportsByEnvironment(c *gin.Context) {
	environmentID, ok := idParam(c, "environmentId")
	if !ok {
		return
	}
	if err := h.svc.DeleteReportsByEnvironment(c.Request.Context(), environmentID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteReportsByUser removes every report a user generated.
func (h *Handler) DeleteReportsByUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.DeleteReportsByUser(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
