package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astegni_backend/internal/config"
	"astegni_backend/internal/models"
	"astegni_backend/internal/roles"
)

// CreateConnection requests a connection from the caller's active
// profile to another profile. Both ends are validated against live
// profile rows first, so a connection can never point at a deactivated
// or reaped profile.
func CreateConnection(c *gin.Context) {
	var input struct {
		TargetRole string `json:"target_role" binding:"required"`
		TargetID   uint   `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetKind, err := roles.ParseKind(input.TargetRole)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target role"})
		return
	}

	activeRole := currentActiveRole(c)
	if activeRole == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "select an active role first"})
		return
	}

	resolver := roles.NewResolver(config.DB)
	requester, err := resolver.ResolveProfile(currentUserID(c), roles.Kind(activeRole))
	if err != nil {
		roleHTTPError(c, err)
		return
	}
	if err := resolver.ValidateProfileExists(input.TargetID, targetKind); err != nil {
		roleHTTPError(c, err)
		return
	}
	if requester.Kind == targetKind && requester.ID == input.TargetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot connect a profile to itself"})
		return
	}

	conn := models.Connection{
		RequesterRole: string(requester.Kind),
		RequesterID:   requester.ID,
		TargetRole:    string(targetKind),
		TargetID:      input.TargetID,
		Status:        "pending",
	}
	if err := config.DB.Create(&conn).Error; err != nil {
		if dup := config.DB.Where(
			"requester_role = ? AND requester_id = ? AND target_role = ? AND target_id = ?",
			conn.RequesterRole, conn.RequesterID, conn.TargetRole, conn.TargetID,
		).First(&models.Connection{}).Error; dup == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "connection already exists"})
			return
		}
		logrus.WithError(err).Error("CreateConnection: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create connection"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": conn})
}

// ListConnections returns connections involving the caller's active
// profile, in either direction.
func ListConnections(c *gin.Context) {
	activeRole := currentActiveRole(c)
	if activeRole == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "select an active role first"})
		return
	}

	own, err := roles.NewResolver(config.DB).ResolveProfile(currentUserID(c), roles.Kind(activeRole))
	if err != nil {
		roleHTTPError(c, err)
		return
	}

	var conns []models.Connection
	err = config.DB.Where(
		"(requester_role = ? AND requester_id = ?) OR (target_role = ? AND target_id = ?)",
		string(own.Kind), own.ID, string(own.Kind), own.ID,
	).Find(&conns).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing connections: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": conns})
}
