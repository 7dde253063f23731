package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecosmart-backend/internal/model"
)

type environmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateEnvironment handles the creation of an environment.
func (h *Handler) CreateEnvironment(c *gin.Context) {
	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	env := &model.Environment{Name: req.Name, Description: req.Description}
	if err := h.svc.CreateEnvironment(c.Request.Context(), env); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, env)
}

// GetEnvironment returns a single environment by id.
func (h *Handler) GetEnvironment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	env, err := h.store().GetEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// UpdateEnvironment replaces an environment wholesale.
func (h *Handler) UpdateEnvironment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	env := &model.Environment{Name: req.Name, Description: req.Description}
	if err := h.svc.UpdateEnvironment(c.Request.Context(), id, env); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// DeleteEnvironment removes an environment along with its devices' placement,
// its memberships, and its reports.
func (h *Handler) DeleteEnvironment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteEnvironment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEnvironments returns all environments.
func (h *Handler) ListEnvironments(c *gin.Context) {
	envs, err := h.store().ListEnvironments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// CountEnvironments returns the total number of environments.
func (h *Handler) CountEnvironments(c *gin.Context) {
	n, err := h.store().CountEnvironments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// EnvironmentExists reports whether the environment id is in use.
func (h *Handler) EnvironmentExists(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	exists, err := h.store().EnvironmentExists(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// EnvironmentComplete reports whether the environment has a name and a
// description.
func (h *Handler) EnvironmentComplete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	complete, err := h.svc.IsEnvironmentComplete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complete": complete})
}

// EnvironmentSummary returns the human-readable digest of an environment.
func (h *Handler) EnvironmentSummary(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.EnvironmentSummary(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SearchEnvironments dispatches the name and description searches based on
// the match mode in the path.
func (h *Handler) SearchEnvironments(c *gin.Context) {
	ctx := c.Request.Context()
	q := c.Query("q")

	var (
		envs []model.Environment
		err  error
	)
	switch c.Param("mode") {
	case "name":
		envs, err = h.store().EnvironmentsByName(ctx, q)
	case "name-contains":
		envs, err = h.store().EnvironmentsNameContains(ctx, q)
	case "name-prefix":
		envs, err = h.store().EnvironmentsNamePrefix(ctx, q)
	case "description-contains":
		envs, err = h.store().EnvironmentsDescriptionContains(ctx, q)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown search mode"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// EnvironmentsByDevice returns the environments holding the given device.
// At most one row, since a device lives in one environment.
func (h *Handler) EnvironmentsByDevice(c *gin.Context) {
	deviceID, ok := idParam(c, "deviceId")
	if !ok {
		return
	}
	envs, err := h.store().EnvironmentsByDeviceID(c.Request.Context(), deviceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// FilterEnvironmentsByDeviceField returns the distinct environments holding
// at least one device matching a scalar-field filter.
func (h *Handler) FilterEnvironmentsByDeviceField(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		envs []model.Environment
		err  error
	)
	switch c.Param("field") {
	case "kind":
		envs, err = h.store().EnvironmentsByDeviceKind(ctx, c.Query("q"))
	case "name":
		envs, err = h.store().EnvironmentsByDeviceName(ctx, c.Query("q"))
	case "status":
		envs, err = h.store().EnvironmentsByDeviceStatus(ctx, c.Query("q"))
	case "active":
		active, ok := intQuery(c, "value")
		if !ok {
			return
		}
		envs, err = h.store().EnvironmentsByDeviceActive(ctx, active)
	case "power-above":
		min, ok := intQuery(c, "min")
		if !ok {
			return
		}
		envs, err = h.store().EnvironmentsByDevicePowerAbove(ctx, min)
	case "power-between":
		min, ok := intQuery(c, "min")
		if !ok {
			return
		}
		max, ok := intQuery(c, "max")
		if !ok {
			return
		}
		envs, err = h.store().EnvironmentsByDevicePowerBetween(ctx, min, max)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown device field"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// EnvironmentsWithMoreDevicesThan returns environments whose device count
// strictly exceeds the threshold.
func (h *Handler) EnvironmentsWithMoreDevicesThan(c *gin.Context) {
	n, ok := intQuery(c, "n")
	if !ok {
		return
	}
	envs, err := h.store().EnvironmentsWithMoreDevicesThan(c.Request.Context(), int64(n))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// EnvironmentsWithoutDevices returns environments holding no devices.
func (h *Handler) EnvironmentsWithoutDevices(c *gin.Context) {
	envs, err := h.store().EnvironmentsWithoutDevices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// EnvironmentsWithoutUsers returns environments with no members.
func (h *Handler) EnvironmentsWithoutUsers(c *gin.Context) {
	envs, err := h.store().EnvironmentsWithoutUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// DeviceCountsByEnvironment returns one aggregate row per environment, zero
// included.
func (h *Handler) DeviceCountsByEnvironment(c *gin.Context) {
	rows, err := h.store().DeviceCountByEnvironment(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// EnvironmentDevices returns the devices placed in the environment.
func (h *Handler) EnvironmentDevices(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	devs, err := h.store().DevicesOfEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, devs)
}

// CountEnvironmentDevices returns the number of devices in the environment.
func (h *Handler) CountEnvironmentDevices(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.store().CountDevicesOfEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// EnvironmentUsers returns the environment's members.
func (h *Handler) EnvironmentUsers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	users, err := h.store().UsersOfEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CountEnvironmentUsers returns the environment's member count.
func (h *Handler) CountEnvironmentUsers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.store().CountUsersOfEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// EnvironmentReports returns the reports about the environment.
func (h *Handler) EnvironmentReports(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reports, err := h.store().ReportsByEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// CountEnvironmentReports returns the number of reports about the
// environment.
func (h *Handler) CountEnvironmentReports(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.store().CountReportsByEnvironment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// AssignDevice places a device in the environment.
func (h *Handler) AssignDevice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	deviceID, ok := idParam(c, "deviceId")
	if !ok {
		return
	}
	if err := h.svc.AssignDevice(c.Request.Context(), deviceID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnassignDevice removes a device from the environment.
func (h *Handler) UnassignDevice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	deviceID, ok := idParam(c, "deviceId")
	if !ok {
		return
	}
	if err := h.svc.UnassignDevice(c.Request.Context(), deviceID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkUser adds a user to the environment's membership.
func (h *Handler) LinkUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.LinkUser(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnlinkUser removes a user from the environment's membership.
func (h *Handler) UnlinkUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.UnlinkUser(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
