package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecosmart-backend/internal/model"
)

type userRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUser handles the creation of a user.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u := model.NewUser(model.UserConfig{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err := h.svc.CreateUser(c.Request.Context(), u); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GetUser returns a single user by id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := h.store().GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser replaces a user wholesale.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u := model.NewUser(model.UserConfig{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err := h.svc.UpdateUser(c.Request.Context(), id, u); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser removes a user along with their reports and memberships.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers returns all users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store().ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CountUsers returns the total number of users.
func (h *Handler) CountUsers(c *gin.Context) {
	n, err := h.store().CountUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// UserExists reports whether the user id is in use.
func (h *Handler) UserExists(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	exists, err := h.store().UserExists(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

// UserByEmail looks up a user by email. The email travels in the body so
// it stays out of access logs.
func (h *Handler) UserByEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.store().UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user by email and password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// SearchUsers dispatches the user name searches based on the match mode in
// the path.
func (h *Handler) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()
	q := c.Query("q")

	var (
		users []model.User
		err   error
	)
	switch c.Param("mode") {
	case "name":
		users, err = h.store().UsersByName(ctx, q)
	case "name-contains":
		users, err = h.store().UsersNameContains(ctx, q)
	case "name-prefix":
		users, err = h.store().UsersNamePrefix(ctx, q)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown search mode"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UserEnvironments returns the environments the user belongs to.
func (h *Handler) UserEnvironments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	envs, err := h.store().EnvironmentsOfUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envs)
}

// CountUserEnvironments returns the number of environments the user
// belongs to.
func (h *Handler) CountUserEnvironments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.store().CountEnvironmentsOfUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// UserReports returns the reports the user generated.
func (h *Handler) UserReports(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reports, err := h.store().ReportsByUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// CountUserReports returns the number of reports the user generated.
func (h *Handler) CountUserReports(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.store().CountReportsByUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
