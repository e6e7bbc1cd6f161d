package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"astegni_backend/internal/config"
	"astegni_backend/internal/roles"
)

// AddRole grants an additional role to the authenticated account.
func AddRole(c *gin.Context) {
	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := roles.ParseKind(body.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	ref, err := roles.NewLifecycle(config.DB).AddRole(currentUserID(c), kind)
	if err != nil {
		roleHTTPError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": ref})
}

// DeactivateRole soft-removes a role. The profile survives for the
// grace period (90 days unless overridden with ?grace_days=N) and can
// be reactivated until it elapses.
func DeactivateRole(c *gin.Context) {
	kind, err := roles.ParseKind(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	graceDays := roles.DefaultGraceDays
	if raw := c.Query("grace_days"); raw != "" {
		graceDays, err = strconv.Atoi(raw)
		if err != nil || graceDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grace_days must be a positive integer"})
			return
		}
	}

	if err := roles.NewLifecycle(config.DB).DeactivateRole(currentUserID(c), kind, graceDays); err != nil {
		roleHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":       string(kind),
		"grace_days": graceDays,
	})
}

// ReactivateRole revives a role deactivated within its grace period.
func ReactivateRole(c *gin.Context) {
	kind, err := roles.ParseKind(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	ref, err := roles.NewLifecycle(config.DB).ReactivateRole(currentUserID(c), kind)
	if err != nil {
		roleHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": ref})
}
