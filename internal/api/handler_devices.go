package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecosmart-backend/internal/model"
)

type deviceRequest struct {
	Kind      string  `json:"kind"`
	Name      string  `json:"name" binding:"required"`
	Status    string  `json:"status"`
	Active    int     `json:"active"`
	Power     int     `json:"power"`
	UsageTime float64 `json:"usageTime"`
}

// CreateDevice handles the creation of a device with explicit fields.
func (h *Handler) CreateDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dev := &model.Device{
		Kind:      req.Kind,
		Name:      req.Name,
		Status:    req.Status,
		Active:    req.Active,
		Power:     req.Power,
		UsageTime: req.UsageTime,
	}
	if err := h.svc.CreateDevice(c.Request.Context(), dev); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dev)
}

type devicePresetRequest struct {
	Preset string `json:"preset" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Kind   string `json:"kind"`
	Power  int    `json:"power"`
}

// CreateDevicePreset builds a device from one of the factory presets and
// persists it.
func (h *Handler) CreateDevicePreset(c *gin.Context) {
	var req devicePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dev *model.Device
	switch req.Preset {
	case "lamp":
		dev = model.NewLamp(req.Name, req.Power)
	case "air_conditioner":
		dev = model.NewAirConditioner(req.Name, req.Power)
	case "fan":
		dev = model.NewFan(req.Name, req.Power)
	case "television":
		dev = model.NewTelevision(req.Name, req.Power)
	case "refrigerator":
		dev = model.NewRefrigerator(req.Name, req.Power)
	case "appliance":
		if req.Kind == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required for the appliance preset"})
			return
		}
		dev = model.NewAppliance(req.Name, req.Kind, req.Power)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown preset"})
		return
	}

	if err := h.svc.CreateDevice(c.Request.Context(), dev); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dev)
}

// GetDevice returns a single device by id.
func (h *Handler) GetDevice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	dev, err := h.store().GetDevice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

// UpdateDevice replaces a device wholesale. The placement is untouched;
// use the assignment routes for that.
func (h *Handler) UpdateDevice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.store().GetDevice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	dev := &model.Device{
		Kind:          req.Kind,
		Name:          req.Name,
		Status:        req.Status,
		Active:        req.Active,
		Power:         req.Power,
		UsageTime:     req.UsageTime,
		EnvironmentID: current.EnvironmentID,
	}
	if err := h.svc.UpdateDevice(c.Request.Context(), id, dev); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

// DeleteDevice removes a device.
func (h *Handler) DeleteDevice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDevice(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDevices returns all devices.
func (h *Handler) ListDevices(c *gin.Context) {
	devs, err := h.store().ListDevices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, devs)
}

// CountDevices returns the total number of devices.
func (h *Handler) CountDevices(c *gin.Context) {
	n, err := h.store().CountDevices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// DeviceExists reports whether the device id is in use.
func (h *Handler) DeviceExists(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	exists, err := h.store().DeviceExists(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// SearchDevices dispatches the scalar-field device searches based on the
// match mode in the path.
func (h *Handler) SearchDevices(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		devs []model.Device
		err  error
	)
	switch c.Param("mode") {
	case "name":
		devs, err = h.store().DevicesByName(ctx, c.Query("q"))
	case "name-contains":
		devs, err = h.store().DevicesNameContains(ctx, c.Query("q"))
	case "name-prefix":
		devs, err = h.store().DevicesNamePrefix(ctx, c.Query("q"))
	case "kind":
		devs, err = h.store().DevicesByKind(ctx, c.Query("q"))
	case "kind-contains":
		devs, err = h.store().DevicesKindContains(ctx, c.Query("q"))
	case "kind-prefix":
		devs, err = h.store().DevicesKindPrefix(ctx, c.Query("q"))
	case "status":
		devs, err = h.store().DevicesByStatus(ctx, c.Query("q"))
	case "active":
		active, ok := intQuery(c, "value")
		if !ok {
			return
		}
		devs, err = h.store().DevicesByActive(ctx, active)
	case "power":
		power, ok := intQuery(c, "value")
		if !ok {
			return
		}
		devs, err = h.store().DevicesByPower(ctx, power)
	case "power-above":
		min, ok := intQuery(c, "min")
		if !ok {
			return
		}
		devs, err = h.store().DevicesByPowerAbove(ctx, min)
	case "power-between":
		min, ok := intQuery(c, "min")
		if !ok {
			return
		}
		max, ok := intQuery(c, "max")
		if !ok {
			return
		}
		devs, err = h.store().DevicesByPowerBetween(ctx, min, max)
	case "usage-above":
		usage, ok := floatQuery(c, "min")
		if !ok {
			return
		}
		devs, err = h.store().DevicesByUsageAbove(ctx, usage)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown search mode"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, devs)
}

// CountDevicesBy returns device counts grouped by one scalar filter.
func (h *Handler) CountDevicesBy(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		n   int64
		err error
	)
	switch c.Param("field") {
	case "kind":
		n, err = h.store().CountDevicesByKind(ctx, c.Query("q"))
	case "status":
		n, err = h.store().CountDevicesByStatus(ctx, c.Query("q"))
	case "active":
		active, ok := intQuery(c, "value")
		if !ok {
			return
		}
		n, err = h.store().CountDevicesByActive(ctx, active)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown count field"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
